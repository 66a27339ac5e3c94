// Package surface implements the floating modal viewport, the yes/no
// confirmation prompt, and the command runner that streams a shell
// pipeline into the viewport.
package surface

// Geometry sizes a modal surface relative to the host display. When
// FixedHeight is set it wins over HeightFraction; confirmation prompts
// use a fixed absolute height.
type Geometry struct {
	WidthFraction  float64
	HeightFraction float64
	FixedHeight    int
}

// DefaultGeometry is the runner surface size.
func DefaultGeometry() Geometry {
	return Geometry{WidthFraction: 0.85, HeightFraction: 0.85}
}

// ConfirmGeometry is the prompt surface size: two content lines plus the
// box frame.
func ConfirmGeometry() Geometry {
	return Geometry{WidthFraction: 0.5, FixedHeight: 4}
}

// Rect is a computed placement in terminal cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect computes size and centered position from the current display
// dimensions. It is called on every resize with live values, never
// cached ones, so the surface tracks display changes.
func (g Geometry) Rect(totalWidth, totalHeight int) Rect {
	w := clampFraction(g.WidthFraction)
	width := int(float64(totalWidth) * w)
	if width < 1 {
		width = 1
	}
	if width > totalWidth {
		width = totalWidth
	}

	var height int
	if g.FixedHeight > 0 {
		height = g.FixedHeight
	} else {
		h := clampFraction(g.HeightFraction)
		height = int(float64(totalHeight) * h)
	}
	if height < 1 {
		height = 1
	}
	if height > totalHeight {
		height = totalHeight
	}

	return Rect{
		X:      (totalWidth - width) / 2,
		Y:      (totalHeight - height) / 2,
		Width:  width,
		Height: height,
	}
}

func clampFraction(f float64) float64 {
	if f <= 0 {
		return 1
	}
	if f > 1 {
		return 1
	}
	return f
}

// Surface is one floating viewport. It tracks the live display size and
// closes exactly once.
type Surface struct {
	geometry Geometry
	width    int
	height   int
	open     bool
}

// NewSurface opens a surface with the given geometry.
func NewSurface(g Geometry) *Surface {
	return &Surface{geometry: g, open: true}
}

// Resize records the current display dimensions. Invoked on every
// display-size-change event while the surface is open.
func (s *Surface) Resize(width, height int) {
	if !s.open {
		return
	}
	s.width = width
	s.height = height
}

// Rect recomputes the placement from the dimensions recorded by the most
// recent Resize.
func (s *Surface) Rect() Rect {
	return s.geometry.Rect(s.width, s.height)
}

// IsOpen reports whether the surface is still live.
func (s *Surface) IsOpen() bool {
	return s.open
}

// Close tears the surface down. Closing an already-closed surface is a
// no-op, not an error; it returns true only on the first close.
func (s *Surface) Close() bool {
	if !s.open {
		return false
	}
	s.open = false
	return true
}
