// Package render describes the drawing capabilities the layout engine needs
// from a PDF backend. Coordinates are PDF user space: points, origin at the
// bottom-left corner of the page.
package render

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"
)

// ErrUnsupportedImage is returned by Document.LoadImage when no loader
// understands the image data.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Color is an RGB color with 8 bits per channel
type Color struct {
	R, G, B uint8
}

// Black is the default text color
var Black = Color{}

func (c Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// FontSpec selects a font: either the path of a TrueType file or the name
// of one of the standard PDF fonts.
type FontSpec struct {
	Name string
	Size float64
}

// Font is a font loaded into a document at a fixed size
type Font interface {
	// Height is the distance between ascender and descender in points.
	Height() float64
	// BBoxYMin is the lowest point of the font bounding box in points,
	// usually negative.
	BBoxYMin() float64
}

// Image is an image loaded into a document
type Image interface {
	Width() int
	Height() int
	DPIX() float64
	DPIY() float64
}

// Canvas draws onto the current page
type Canvas interface {
	SetFont(f Font)
	SetCharSpacing(spacing float64)
	SetTextColor(c Color)
	SetFillColor(c Color)

	// Rectangle fills the rectangle with the current fill color.
	Rectangle(x, y, w, h float64)

	// TextStart opens a text run with its baseline origin at (x, y).
	TextStart(x, y float64)
	Text(s string)
	TextEnd()

	// Image draws img with its lower-left corner at (x, y) using its
	// physical size.
	Image(img Image, x, y float64)

	StateSave()
	StateRestore()
	Transform(m matrix.Matrix)
}

// Document owns the physical pages of the output
type Document interface {
	PageStart(width, height float64) error
	PageEnd() error
	Canvas() Canvas

	// Bookmark adds an outline entry pointing at vertical position top on
	// the current page.
	Bookmark(title string, top float64)

	LoadFont(spec FontSpec) (Font, error)

	// LoadImage loads data as an image. A positive dpi overrides the
	// resolution recorded in the image.
	LoadImage(name string, data []byte, dpi float64) (Image, error)

	Finalize() error
}
