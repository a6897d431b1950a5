package hitregion

import (
	"testing"

	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/geo"
)

func testRegistry() *doc.Registry {
	reg := &doc.Registry{}
	reg.Add(doc.HitRegion{
		ID:   "issue-1",
		Page: 0,
		Rect: geo.Rect{X: 15, Y: 50, W: 4, H: 4},
		Kind: doc.RegionCheckbox,
	})
	reg.Add(doc.HitRegion{
		ID:   "issue-1/photo-0",
		Page: 0,
		Rect: geo.Rect{X: 21, Y: 60, W: 40, H: 40},
		Kind: doc.RegionPhoto,
	})
	reg.Add(doc.HitRegion{
		ID:   "issue-9",
		Page: 2,
		Rect: geo.Rect{X: 15, Y: 50, W: 4, H: 4},
		Kind: doc.RegionCheckbox,
	})
	return reg
}

// Screen points convert by docWidth/containerWidth; with an 840px
// container over a 210-unit page the ratio is 0.25.
const (
	containerW = 840.0
	docW       = 210.0
)

func screenAt(docX, docY float64) geo.Point {
	return geo.Point{X: docX * containerW / docW, Y: docY * containerW / docW}
}

func TestHitTest_Checkbox(t *testing.T) {
	reg := testRegistry()

	got := HitTest(reg, 0, screenAt(17, 52), containerW, docW)
	if got == nil || got.ID != "issue-1" {
		t.Fatalf("expected issue-1 checkbox, got %+v", got)
	}
}

func TestHitTest_CheckboxTolerance(t *testing.T) {
	reg := testRegistry()

	// Just outside the 4x4 box but inside the tolerance padding.
	got := HitTest(reg, 0, screenAt(20, 52), containerW, docW)
	if got == nil || got.ID != "issue-1" {
		t.Fatalf("tolerance padding not applied, got %+v", got)
	}

	// Far outside misses.
	if got := HitTest(reg, 0, screenAt(100, 150), containerW, docW); got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestHitTest_WrongPageMisses(t *testing.T) {
	reg := testRegistry()
	if got := HitTest(reg, 1, screenAt(17, 52), containerW, docW); got != nil {
		t.Fatalf("page index ignored, got %+v", got)
	}
}

func TestHitTest_PhotoRegion(t *testing.T) {
	reg := testRegistry()
	got := HitTest(reg, 0, screenAt(40, 80), containerW, docW)
	if got == nil || got.ID != "issue-1/photo-0" {
		t.Fatalf("expected photo region, got %+v", got)
	}
}

func TestHitTest_ChecksBoxesBeforePhotos(t *testing.T) {
	reg := &doc.Registry{}
	// A photo overlapping a checkbox; the checkbox must win.
	reg.Add(doc.HitRegion{
		ID:   "p",
		Page: 0,
		Rect: geo.Rect{X: 10, Y: 10, W: 40, H: 40},
		Kind: doc.RegionPhoto,
	})
	reg.Add(doc.HitRegion{
		ID:   "c",
		Page: 0,
		Rect: geo.Rect{X: 12, Y: 12, W: 4, H: 4},
		Kind: doc.RegionCheckbox,
	})
	got := HitTest(reg, 0, screenAt(13, 13), containerW, docW)
	if got == nil || got.ID != "c" {
		t.Fatalf("checkbox must be tested first, got %+v", got)
	}
}

func TestToggle_Idempotent(t *testing.T) {
	reg := testRegistry()
	marks := doc.MarkState{}
	region := reg.ByID("issue-1")

	Toggle(marks, region)
	if !marks.Has("issue-1", doc.SymbolCheck) {
		t.Fatalf("first toggle should apply the check")
	}

	Toggle(marks, region)
	if len(marks) != 0 {
		t.Fatalf("second toggle should restore the original state: %v", marks)
	}
}

func TestToggle_PhotoUsesX(t *testing.T) {
	reg := testRegistry()
	marks := doc.MarkState{}
	Toggle(marks, reg.ByID("issue-1/photo-0"))
	if !marks.Has("issue-1/photo-0", doc.SymbolX) {
		t.Fatalf("photo toggle should apply an x: %v", marks)
	}
	if marks.Has("issue-1/photo-0", doc.SymbolCheck) {
		t.Fatalf("photo regions never take checks")
	}
}
