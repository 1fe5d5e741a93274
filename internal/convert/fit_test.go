package convert

import (
	"math"
	"testing"
)

func TestSubsampleStride(t *testing.T) {
	tests := []struct {
		name             string
		nativeW, nativeH int
		maxW, maxH       int
		want             int
	}{
		{name: "within limits", nativeW: 400, nativeH: 600, maxW: 2000, maxH: 2000, want: 1},
		{name: "exact limit", nativeW: 2000, nativeH: 2000, maxW: 2000, maxH: 2000, want: 1},
		{name: "width exceeds", nativeW: 3000, nativeH: 1000, maxW: 2000, maxH: 2000, want: 2},
		{name: "height exceeds", nativeW: 1000, nativeH: 4100, maxW: 2000, maxH: 2000, want: 3},
		{name: "both exceed", nativeW: 9000, nativeH: 4100, maxW: 2000, maxH: 2000, want: 5},
		{name: "zero dimensions", nativeW: 0, nativeH: 0, maxW: 2000, maxH: 2000, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subsampleStride(tt.nativeW, tt.nativeH, tt.maxW, tt.maxH)
			if got != tt.want {
				t.Fatalf("subsampleStride(%d, %d, %d, %d) = %d, want %d",
					tt.nativeW, tt.nativeH, tt.maxW, tt.maxH, got, tt.want)
			}
		})
	}
}

func TestSubsampleStrideBoundsResult(t *testing.T) {
	// 間引き後の寸法が必ず上限内に収まること
	dims := []struct{ w, h int }{
		{2001, 100}, {3000, 1000}, {4096, 4096}, {10000, 1}, {1999, 2000},
	}
	const max = 2000

	for _, d := range dims {
		s := subsampleStride(d.w, d.h, max, max)
		gotW := ceilDiv(d.w, s)
		gotH := ceilDiv(d.h, s)
		if gotW > max || gotH > max {
			t.Fatalf("stride %d for %dx%d leaves %dx%d, exceeds max %d", s, d.w, d.h, gotW, gotH, max)
		}
	}
}

func TestFitToPage(t *testing.T) {
	const pageW, pageH = 595.28, 841.89

	t.Run("portrait image fits height", func(t *testing.T) {
		drawW, drawH, x, y := fitToPage(400, 600, pageW, pageH)

		wantScale := math.Min(pageW/400, pageH/600)
		if !closeTo(drawW, 400*wantScale) || !closeTo(drawH, 600*wantScale) {
			t.Fatalf("unexpected draw size: %fx%f", drawW, drawH)
		}
		if !closeTo(x, (pageW-drawW)/2) || !closeTo(y, (pageH-drawH)/2) {
			t.Fatalf("unexpected offsets: (%f, %f)", x, y)
		}
	})

	t.Run("aspect ratio preserved", func(t *testing.T) {
		drawW, drawH, _, _ := fitToPage(1500, 500, pageW, pageH)
		if !closeTo(drawW/1500, drawH/500) {
			t.Fatalf("aspect ratio not preserved: %fx%f", drawW, drawH)
		}
	})

	t.Run("never exceeds page", func(t *testing.T) {
		cases := [][2]float64{{1, 1}, {10000, 10}, {10, 10000}, {595.28, 841.89}}
		for _, c := range cases {
			drawW, drawH, x, y := fitToPage(c[0], c[1], pageW, pageH)
			if drawW > pageW+1e-6 || drawH > pageH+1e-6 {
				t.Fatalf("image %v drawn at %fx%f exceeds page", c, drawW, drawH)
			}
			if x < -1e-6 || y < -1e-6 {
				t.Fatalf("image %v placed at negative offset (%f, %f)", c, x, y)
			}
		}
	})
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
