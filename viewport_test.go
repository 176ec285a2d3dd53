package utopia

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestViewportConversions(t *testing.T) {
	v := NewViewport(0.5, 4)
	v.OffsetX, v.OffsetY = 10, -20
	v.Zoom = 2

	p := v.ScreenToCanvas(100, 100)
	if p != (CanvasPoint{40, 70}) {
		t.Errorf("ScreenToCanvas = %v", p)
	}
	if sx, sy := v.CanvasToScreen(p); sx != 100 || sy != 100 {
		t.Errorf("CanvasToScreen = %v, %v", sx, sy)
	}
	if b := v.VisibleBounds(200, 100); b != (CanvasRectangle{-10, 20, 100, 50}) {
		t.Errorf("VisibleBounds = %v", b)
	}

	v.ScrollBy(20, 40)
	if got := v.CanvasOffset(); got != (CanvasVector{20, 0}) {
		t.Errorf("offset after ScrollBy = %v", got)
	}
}

func TestViewportZoomAt(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{"zoom in", 3, 3},
		{"clamped high", 100, 4},
		{"clamped low", 0.01, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(0.5, 4)
			before := v.ScreenToCanvas(120, 80)
			v.ZoomAt(tt.zoom, 120, 80)
			if v.Zoom != tt.want {
				t.Errorf("Zoom = %v, want %v", v.Zoom, tt.want)
			}
			after := v.ScreenToCanvas(120, 80)
			if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
				t.Errorf("point under cursor moved from %v to %v", before, after)
			}
		})
	}
}

func TestViewportZeroZoomIsIdentity(t *testing.T) {
	v := &Viewport{}
	if p := v.ScreenToCanvas(5, 6); p != (CanvasPoint{5, 6}) {
		t.Errorf("ScreenToCanvas with zero zoom = %v", p)
	}
}

func TestViewportAnimations(t *testing.T) {
	v := NewViewport(0.5, 4)
	v.ScrollTo(CanvasPoint{30, 40}, 0.2, ease.Linear)
	v.ZoomTo(10, 0.4, ease.Linear)
	if !v.Animating() {
		t.Fatal("not animating after ScrollTo")
	}
	for i := 0; i < 100 && v.Animating(); i++ {
		v.Update(0.05)
	}
	if v.Animating() {
		t.Fatal("animation never finished")
	}
	if got := v.CanvasOffset(); math.Abs(got.X+30) > 1e-4 || math.Abs(got.Y+40) > 1e-4 {
		t.Errorf("offset = %v", got)
	}
	if math.Abs(v.Zoom-4) > 1e-4 {
		t.Errorf("zoom = %v, want the clamped 4", v.Zoom)
	}
	v.Update(1) // no animation: no-op
}
