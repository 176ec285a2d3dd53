package utopia

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := CanvasRectangle{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		p    CanvasPoint
		want bool
	}{
		{"inside", CanvasPoint{50, 40}, true},
		{"top-left corner", CanvasPoint{10, 20}, true},
		{"bottom-right corner", CanvasPoint{110, 70}, true},
		{"outside left", CanvasPoint{5, 40}, false},
		{"outside right", CanvasPoint{115, 40}, false},
		{"outside top", CanvasPoint{50, 15}, false},
		{"outside bottom", CanvasPoint{50, 75}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := CanvasRectangle{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other CanvasRectangle
		want  bool
	}{
		{"overlap", CanvasRectangle{5, 5, 10, 10}, true},
		{"shared edge", CanvasRectangle{10, 0, 5, 5}, true},
		{"apart", CanvasRectangle{11, 0, 5, 5}, false},
		{"contained", CanvasRectangle{2, 2, 2, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectCenteredOn(t *testing.T) {
	got := RectCenteredOn(CanvasPoint{100, 50}, Size{Width: 40, Height: 20})
	want := CanvasRectangle{X: 80, Y: 40, Width: 40, Height: 20}
	if got != want {
		t.Errorf("RectCenteredOn = %v, want %v", got, want)
	}
	if got.Center() != (CanvasPoint{100, 50}) {
		t.Errorf("Center = %v", got.Center())
	}
}

func TestRectValid(t *testing.T) {
	tests := []struct {
		name string
		r    CanvasRectangle
		want bool
	}{
		{"zero", CanvasRectangle{}, true},
		{"normal", CanvasRectangle{1, 2, 3, 4}, true},
		{"negative width", CanvasRectangle{0, 0, -1, 4}, false},
		{"nan", CanvasRectangle{math.NaN(), 0, 1, 1}, false},
		{"inf", CanvasRectangle{0, 0, math.Inf(1), 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectOffsetRelativeTo(t *testing.T) {
	r := CanvasRectangle{X: 70, Y: 70, Width: 120, Height: 80}
	parent := CanvasRectangle{X: 40, Y: 40, Width: 420, Height: 300}
	local := r.RelativeTo(parent)
	if local != (CanvasRectangle{30, 30, 120, 80}) {
		t.Errorf("RelativeTo = %v", local)
	}
	if back := local.Offset(CanvasVector{40, 40}); back != r {
		t.Errorf("Offset = %v, want %v", back, r)
	}
}

func TestResizeRect(t *testing.T) {
	r := CanvasRectangle{X: 10, Y: 10, Width: 100, Height: 50}
	tests := []struct {
		name string
		edge EdgePosition
		drag CanvasVector
		want CanvasRectangle
	}{
		{"bottom right grows", EdgeBottomRight, CanvasVector{20, 10}, CanvasRectangle{10, 10, 120, 60}},
		{"top left grows", EdgeTopLeft, CanvasVector{-5, -5}, CanvasRectangle{5, 5, 105, 55}},
		{"right ignores y", EdgeRight, CanvasVector{10, 99}, CanvasRectangle{10, 10, 110, 50}},
		{"top ignores x", EdgeTop, CanvasVector{99, 10}, CanvasRectangle{10, 20, 100, 40}},
		{"left past right collapses", EdgeLeft, CanvasVector{500, 0}, CanvasRectangle{110, 10, 0, 50}},
		{"bottom past top collapses", EdgeBottom, CanvasVector{0, -500}, CanvasRectangle{10, 10, 100, 0}},
		{"top left past bottom right", EdgeTopLeft, CanvasVector{200, 200}, CanvasRectangle{110, 60, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResizeRect(r, tt.edge, tt.drag)
			if got != tt.want {
				t.Errorf("ResizeRect = %v, want %v", got, tt.want)
			}
			if !got.Valid() {
				t.Errorf("ResizeRect produced invalid frame %v", got)
			}
		})
	}
}

func TestApproximatelyEqual(t *testing.T) {
	a := CanvasRectangle{0, 0, 10, 10}
	if !ApproximatelyEqual(a, CanvasRectangle{0.0005, 0, 10, 10.0005}, 0.001) {
		t.Error("expected approximately equal")
	}
	if ApproximatelyEqual(a, CanvasRectangle{0.1, 0, 10, 10}, 0.001) {
		t.Error("expected not equal")
	}
}

func TestVectorLength(t *testing.T) {
	if got := (CanvasVector{3, 4}).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := (CanvasPoint{5, 5}).Sub(CanvasPoint{2, 1}); got != (CanvasVector{3, 4}) {
		t.Errorf("Sub = %v", got)
	}
}
