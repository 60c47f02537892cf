package pagination

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"
)

// ErrPageSize is returned for page sizes that are not strictly positive.
var ErrPageSize = errors.New("invalid page size")

// PageSize represents the dimensions of a physical page in points
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
)

// Validate reports whether both dimensions are positive.
func (s PageSize) Validate() error {
	if !(s.Width > 0) || !(s.Height > 0) {
		return fmt.Errorf("%w: %gx%g", ErrPageSize, s.Width, s.Height)
	}
	return nil
}

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Width is the horizontal space taken by the margins.
func (m Margins) Width() float64 { return m.Left + m.Right }

// Height is the vertical space taken by the margins.
func (m Margins) Height() float64 { return m.Top + m.Bottom }

// CanvasWidth may be zero or negative when the margins do not fit the page.
func (m Margins) CanvasWidth(page PageSize) float64 { return page.Width - m.Width() }

// CanvasHeight may be zero or negative when the margins do not fit the page.
func (m Margins) CanvasHeight(page PageSize) float64 { return page.Height - m.Height() }

// Canvas returns the drawable rectangle of page in PDF user space.
func (m Margins) Canvas(page PageSize) rect.Rect {
	return rect.Rect{
		LLx: m.Left,
		LLy: m.Bottom,
		URx: page.Width - m.Right,
		URy: page.Height - m.Top,
	}
}
