package utopia

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// DefaultInsertSize is the frame size given to a new element when neither the
// subject nor the canvas state names one.
var DefaultInsertSize = Size{Width: 100, Height: 100}

// ErrInvalidInsertionSubject reports a subject that cannot be stamped onto a
// frame.
var ErrInvalidInsertionSubject = errors.New("invalid insertion subject")

// InsertionSubject describes an element queued for creation by a drag.
type InsertionSubject struct {
	UID     string
	Element Element
	// Parent is where the element is inserted. The empty path means the
	// storyboard root.
	Parent ElementPath
	// Index among the parent's children; negative appends.
	Index int
	// Size overrides the default frame size when non-zero.
	Size Size
}

// NewInsertionSubject creates a subject for an element with a fresh uid.
// taken reports uids already in use; pass nil when no tree is at hand.
func NewInsertionSubject(name string, props Props, taken func(uid string) bool) InsertionSubject {
	uid := GenerateUID(taken)
	return InsertionSubject{
		UID:     uid,
		Element: Element{UID: uid, Name: name, Props: props.Clone()},
		Index:   -1,
	}
}

// Validate rejects a subject without a uid or with a negative or non-finite
// size.
func (s InsertionSubject) Validate() error {
	if s.UID == "" {
		return fmt.Errorf("%w: empty uid", ErrInvalidInsertionSubject)
	}
	for _, f := range [2]float64{s.Size.Width, s.Size.Height} {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s has size %vx%v", ErrInvalidInsertionSubject, s.UID, s.Size.Width, s.Size.Height)
		}
	}
	return nil
}

// WithSize returns a copy of s with an explicit frame size.
func (s InsertionSubject) WithSize(size Size) (InsertionSubject, error) {
	s.Size = size
	if err := s.Validate(); err != nil {
		return InsertionSubject{}, err
	}
	return s, nil
}

// GenerateUID returns a short random element uid not rejected by taken.
func GenerateUID(taken func(uid string) bool) string {
	for {
		uid := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if taken == nil || !taken(uid) {
			return uid
		}
	}
}

// ParentOr returns the subject's parent, or root when none was set.
func (s InsertionSubject) ParentOr(root ElementPath) ElementPath {
	if s.Parent.IsEmpty() {
		return root
	}
	return s.Parent
}

// PathIn returns the path the element will have once inserted into a tree
// rooted at root.
func (s InsertionSubject) PathIn(root ElementPath) ElementPath {
	return s.ParentOr(root).AppendToPath(s.UID)
}

// FrameSize picks the size of the new element's frame.
func (s InsertionSubject) FrameSize(fallback Size) Size {
	if s.Size.Width > 0 || s.Size.Height > 0 {
		return s.Size
	}
	if fallback.Width > 0 || fallback.Height > 0 {
		return fallback
	}
	return DefaultInsertSize
}
