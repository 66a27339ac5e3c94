package surface

import "testing"

func TestRectCenters(t *testing.T) {
	g := Geometry{WidthFraction: 0.5, HeightFraction: 0.5}
	rect := g.Rect(100, 40)
	if rect.Width != 50 || rect.Height != 20 {
		t.Fatalf("rect = %+v, want 50x20", rect)
	}
	if rect.X != 25 || rect.Y != 10 {
		t.Fatalf("rect = %+v, not centered", rect)
	}
}

func TestRectFixedHeight(t *testing.T) {
	rect := ConfirmGeometry().Rect(100, 40)
	if rect.Height != 4 {
		t.Fatalf("confirm height = %d, want 4", rect.Height)
	}
	if rect.Width != 50 {
		t.Fatalf("confirm width = %d, want 50", rect.Width)
	}
}

func TestRectClampsFractions(t *testing.T) {
	g := Geometry{WidthFraction: 2.5, HeightFraction: -1}
	rect := g.Rect(80, 24)
	if rect.Width != 80 || rect.Height != 24 {
		t.Fatalf("rect = %+v, want full 80x24", rect)
	}

	// Tiny displays never produce a zero-size surface.
	rect = Geometry{WidthFraction: 0.1, HeightFraction: 0.1}.Rect(3, 3)
	if rect.Width < 1 || rect.Height < 1 {
		t.Fatalf("rect = %+v, want at least 1x1", rect)
	}
}

func TestRectTracksLiveResize(t *testing.T) {
	s := NewSurface(Geometry{WidthFraction: 0.5, HeightFraction: 0.5})
	s.Resize(100, 40)
	first := s.Rect()

	s.Resize(200, 80)
	second := s.Rect()
	if second == first {
		t.Fatal("rect did not track the resize")
	}
	if second.Width != 100 || second.Height != 40 {
		t.Fatalf("rect = %+v, want 100x40", second)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewSurface(DefaultGeometry())
	if !s.IsOpen() {
		t.Fatal("surface should open live")
	}
	if !s.Close() {
		t.Fatal("first close should report true")
	}
	if s.Close() {
		t.Fatal("second close should be a no-op")
	}
	if s.IsOpen() {
		t.Fatal("surface should stay closed")
	}

	// Resize after close must not reopen or mutate anything.
	before := s.Rect()
	s.Resize(500, 500)
	if s.Rect() != before {
		t.Fatal("resize mutated a closed surface")
	}
}
