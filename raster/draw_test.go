package raster

import (
	"image"
	"image/color"
	"testing"
)

var red = color.RGBA{200, 0, 0, 255}

func blank() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 100, 100)) }

func TestLine(t *testing.T) {
	img := blank()
	Line(img, 10, 10, 90, 10, red)
	for x := 10; x <= 90; x++ {
		if img.RGBAAt(x, 10) != red {
			t.Fatalf("gap at x=%d", x)
		}
	}

	img = blank()
	Line(img, 10, 10, 90, 90, red)
	if img.RGBAAt(50, 50) != red {
		t.Fatal("diagonal missed the midpoint")
	}
}

func TestLine_ClipsAtBounds(t *testing.T) {
	img := blank()
	Line(img, -20, 50, 120, 50, red) // must not panic
	if img.RGBAAt(0, 50) != red || img.RGBAAt(99, 50) != red {
		t.Fatal("in-bounds portion of a clipped line missing")
	}
}

func TestThickLine(t *testing.T) {
	img := blank()
	ThickLine(img, 20, 50, 80, 50, 6, red)
	if img.RGBAAt(50, 48) != red || img.RGBAAt(50, 52) != red {
		t.Fatal("width not applied")
	}
	if img.RGBAAt(50, 40) == red {
		t.Fatal("line wider than requested")
	}
}

func TestDisc(t *testing.T) {
	img := blank()
	Disc(img, 50, 50, 10, red)
	if img.RGBAAt(50, 50) != red || img.RGBAAt(58, 50) != red {
		t.Fatal("disc interior missing")
	}
	if img.RGBAAt(50, 65) == red {
		t.Fatal("disc overflowed its radius")
	}
}

func TestRects(t *testing.T) {
	img := blank()
	FillRect(img, image.Rect(10, 10, 30, 30), red)
	if img.RGBAAt(20, 20) != red {
		t.Fatal("fill missing")
	}

	img = blank()
	StrokeRect(img, image.Rect(10, 10, 30, 30), 1, red)
	if img.RGBAAt(10, 20) != red || img.RGBAAt(20, 10) != red {
		t.Fatal("border missing")
	}
	if img.RGBAAt(20, 20) == red {
		t.Fatal("stroke filled the interior")
	}
}

func TestEllipse(t *testing.T) {
	img := blank()
	Ellipse(img, image.Rect(20, 30, 80, 70), 2, red)
	// Extreme points of the ellipse lie on the rect edges.
	if img.RGBAAt(50, 30) != red || img.RGBAAt(50, 69) == (color.RGBA{}) {
		t.Fatal("ellipse outline missing at vertical extremes")
	}
	if img.RGBAAt(50, 50) == red {
		t.Fatal("ellipse center should stay empty")
	}
}

func TestArrow(t *testing.T) {
	img := blank()
	Arrow(img, 10, 50, 90, 50, 3, red)
	if img.RGBAAt(50, 50) != red {
		t.Fatal("shaft missing")
	}
	// Head barbs angle back from the tip above and below the shaft.
	found := false
	for y := 35; y < 50; y++ {
		for x := 70; x < 90; x++ {
			if img.RGBAAt(x, y) == red {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("arrow head missing")
	}
}
