package utopia

import (
	"errors"
	"fmt"
)

// ErrLayoutWriteRejected is returned when a frame cannot be written into an
// element's props.
var ErrLayoutWriteRejected = errors.New("layout write rejected")

// UpdateLayoutPropsWithFrame writes frame into props as absolute positioning
// (position/left/top/width/height). Only properties in whitelist are written.
// The write is rejected when the frame is malformed or a target property
// currently holds a non-literal Expression.
func UpdateLayoutPropsWithFrame(props Props, frame CanvasRectangle, whitelist []PropertyPath) (Props, error) {
	if !frame.Valid() {
		return nil, fmt.Errorf("%w: malformed frame %+v", ErrLayoutWriteRejected, frame)
	}
	writes := []struct {
		path  PropertyPath
		value any
	}{
		{PropPosition, "absolute"},
		{PropLeft, frame.X},
		{PropTop, frame.Y},
		{PropWidth, frame.Width},
		{PropHeight, frame.Height},
	}
	out := props
	if out == nil {
		out = Props{}
	}
	for _, w := range writes {
		if !containsPropertyPath(whitelist, w.path) {
			continue
		}
		if cur, ok := out.Get(w.path); ok {
			if _, isExpr := cur.(Expression); isExpr {
				return nil, fmt.Errorf("%w: %s is an expression", ErrLayoutWriteRejected, w.path)
			}
		}
		updated, err := out.Set(w.path, w.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLayoutWriteRejected, err)
		}
		out = updated
	}
	return out, nil
}

// FrameFromProps reads an absolutely positioned frame (left/top/width/height)
// from props. Missing values read as zero; ok is false if any present value is
// not a number.
func FrameFromProps(props Props) (CanvasRectangle, bool) {
	var r CanvasRectangle
	fields := []struct {
		path PropertyPath
		dst  *float64
	}{
		{PropLeft, &r.X}, {PropTop, &r.Y}, {PropWidth, &r.Width}, {PropHeight, &r.Height},
	}
	for _, f := range fields {
		v, present := props.Get(f.path)
		if !present {
			continue
		}
		n, ok := toNumber(v)
		if !ok {
			return CanvasRectangle{}, false
		}
		*f.dst = n
	}
	return r, true
}

func containsPropertyPath(paths []PropertyPath, p PropertyPath) bool {
	for _, q := range paths {
		if q == p {
			return true
		}
	}
	return false
}
