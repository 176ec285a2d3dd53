package utopia

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewportAnim holds the active tweens of a ScrollTo or ZoomTo.
type viewportAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
}

// Viewport maps between screen space and canvas space. A canvas point c is
// drawn at screen point (c + Offset) * Zoom.
type Viewport struct {
	OffsetX, OffsetY float64
	Zoom             float64
	MinZoom, MaxZoom float64

	anim *viewportAnim
}

// NewViewport creates an identity viewport clamped to [minZoom, maxZoom].
func NewViewport(minZoom, maxZoom float64) *Viewport {
	return &Viewport{Zoom: 1, MinZoom: minZoom, MaxZoom: maxZoom}
}

// ScreenToCanvas converts screen coordinates to a canvas point.
func (v *Viewport) ScreenToCanvas(sx, sy float64) CanvasPoint {
	z := v.zoom()
	return CanvasPoint{X: sx/z - v.OffsetX, Y: sy/z - v.OffsetY}
}

// CanvasToScreen converts a canvas point to screen coordinates.
func (v *Viewport) CanvasToScreen(p CanvasPoint) (sx, sy float64) {
	z := v.zoom()
	return (p.X + v.OffsetX) * z, (p.Y + v.OffsetY) * z
}

// CanvasOffset returns the offset as a vector.
func (v *Viewport) CanvasOffset() CanvasVector {
	return CanvasVector{X: v.OffsetX, Y: v.OffsetY}
}

// ScrollBy pans the viewport by a screen-space delta.
func (v *Viewport) ScrollBy(dx, dy float64) {
	z := v.zoom()
	v.OffsetX += dx / z
	v.OffsetY += dy / z
}

// ZoomAt sets the zoom while keeping the canvas point under the screen point
// (sx, sy) fixed.
func (v *Viewport) ZoomAt(zoom, sx, sy float64) {
	before := v.ScreenToCanvas(sx, sy)
	v.Zoom = v.clampZoom(zoom)
	after := v.ScreenToCanvas(sx, sy)
	v.OffsetX += after.X - before.X
	v.OffsetY += after.Y - before.Y
}

// ScrollTo animates the offset so that canvas point p sits at the screen
// origin, over duration seconds.
func (v *Viewport) ScrollTo(p CanvasPoint, duration float32, easeFn ease.TweenFunc) {
	if v.anim == nil {
		v.anim = &viewportAnim{doneZoom: true}
	}
	v.anim.tweenX = gween.New(float32(v.OffsetX), float32(-p.X), duration, easeFn)
	v.anim.tweenY = gween.New(float32(v.OffsetY), float32(-p.Y), duration, easeFn)
	v.anim.doneX, v.anim.doneY = false, false
}

// ZoomTo animates the zoom factor over duration seconds.
func (v *Viewport) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	if v.anim == nil {
		v.anim = &viewportAnim{doneX: true, doneY: true}
	}
	v.anim.tweenZoom = gween.New(float32(v.zoom()), float32(v.clampZoom(zoom)), duration, easeFn)
	v.anim.doneZoom = false
}

// Animating reports whether a ScrollTo or ZoomTo is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// Update advances running animations by dt seconds.
func (v *Viewport) Update(dt float32) {
	a := v.anim
	if a == nil {
		return
	}
	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		v.OffsetX = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		v.OffsetY = float64(val)
		a.doneY = done
	}
	if !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		v.Zoom = v.clampZoom(float64(val))
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		v.anim = nil
	}
}

// VisibleBounds returns the canvas rectangle shown in a screen of the given
// size.
func (v *Viewport) VisibleBounds(screenW, screenH float64) CanvasRectangle {
	tl := v.ScreenToCanvas(0, 0)
	br := v.ScreenToCanvas(screenW, screenH)
	return CanvasRectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

func (v *Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v *Viewport) clampZoom(z float64) float64 {
	if v.MinZoom > 0 {
		z = math.Max(z, v.MinZoom)
	}
	if v.MaxZoom > 0 {
		z = math.Min(z, v.MaxZoom)
	}
	return z
}
