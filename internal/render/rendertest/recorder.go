// Package rendertest provides a render.Document that records the drawing
// operations it receives, for use in tests.
package rendertest

import (
	"errors"
	"fmt"

	"github.com/gompdf/tipdf/internal/render"
	"seehuhn.de/go/geom/matrix"
)

// Font is a fixed-metrics font
type Font struct {
	Name string
	H    float64
	YMin float64
}

func (f *Font) Height() float64   { return f.H }
func (f *Font) BBoxYMin() float64 { return f.YMin }

// Image is an image with explicit pixel size and resolution
type Image struct {
	Name         string
	W, H         int
	DPIXv, DPIYv float64
}

func (i *Image) Width() int    { return i.W }
func (i *Image) Height() int   { return i.H }
func (i *Image) DPIX() float64 { return i.DPIXv }
func (i *Image) DPIY() float64 { return i.DPIYv }

// Bookmark is a recorded outline entry
type Bookmark struct {
	Title string
	Page  int
	Top   float64
}

// Page collects the operations drawn on one physical page
type Page struct {
	Width, Height float64
	Ops           []string
}

// Recorder implements render.Document and render.Canvas.
type Recorder struct {
	// Images maps image data to the image returned by LoadImage.
	Images map[string]*Image
	// FontHeight is the height reported by fonts from LoadFont.
	FontHeight float64

	Pages     []*Page
	Bookmarks []Bookmark
	Loads     []string
	Finalized int

	open  bool
	depth int
	err   error
}

// New returns a recorder whose fonts are 10 points high.
func New() *Recorder {
	return &Recorder{
		Images:     make(map[string]*Image),
		FontHeight: 10,
	}
}

// Err returns the first protocol violation seen, such as drawing while no
// page is open or unbalanced state save/restore pairs.
func (r *Recorder) Err() error { return r.err }

// PageEnds returns the number of closed pages.
func (r *Recorder) PageEnds() int {
	n := len(r.Pages)
	if r.open {
		n--
	}
	return n
}

// Ops returns all operations of all pages, each prefixed by its page index.
func (r *Recorder) Ops() []string {
	var res []string
	for i, p := range r.Pages {
		for _, op := range p.Ops {
			res = append(res, fmt.Sprintf("%d %s", i, op))
		}
	}
	return res
}

func (r *Recorder) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

func (r *Recorder) op(format string, args ...any) {
	if !r.open {
		r.fail("%q without open page", fmt.Sprintf(format, args...))
		return
	}
	p := r.Pages[len(r.Pages)-1]
	p.Ops = append(p.Ops, fmt.Sprintf(format, args...))
}

func (r *Recorder) PageStart(width, height float64) error {
	if r.open {
		return errors.New("page already open")
	}
	r.Pages = append(r.Pages, &Page{Width: width, Height: height})
	r.open = true
	return nil
}

func (r *Recorder) PageEnd() error {
	if !r.open {
		return errors.New("no page open")
	}
	if r.depth != 0 {
		r.fail("page %d closed with %d unrestored states", len(r.Pages)-1, r.depth)
	}
	r.open = false
	return nil
}

func (r *Recorder) Canvas() render.Canvas { return r }

func (r *Recorder) Bookmark(title string, top float64) {
	if !r.open {
		r.fail("bookmark %q without open page", title)
		return
	}
	r.Bookmarks = append(r.Bookmarks, Bookmark{Title: title, Page: len(r.Pages) - 1, Top: top})
}

func (r *Recorder) LoadFont(spec render.FontSpec) (render.Font, error) {
	if spec.Name == "" {
		return nil, errors.New("empty font name")
	}
	return &Font{Name: spec.Name, H: r.FontHeight, YMin: -r.FontHeight / 5}, nil
}

func (r *Recorder) LoadImage(name string, data []byte, dpi float64) (render.Image, error) {
	r.Loads = append(r.Loads, name)
	img, ok := r.Images[string(data)]
	if !ok {
		return nil, render.ErrUnsupportedImage
	}
	if dpi > 0 {
		cp := *img
		cp.DPIXv, cp.DPIYv = dpi, dpi
		return &cp, nil
	}
	return img, nil
}

func (r *Recorder) Finalize() error {
	if r.open {
		r.fail("finalize with open page")
	}
	r.Finalized++
	return r.err
}

func (r *Recorder) SetFont(f render.Font) {
	name := "?"
	if rf, ok := f.(*Font); ok {
		name = rf.Name
	}
	r.op("font %s", name)
}

func (r *Recorder) SetCharSpacing(spacing float64) { r.op("charspacing %g", spacing) }
func (r *Recorder) SetTextColor(c render.Color)    { r.op("textcolor %s", c) }
func (r *Recorder) SetFillColor(c render.Color)    { r.op("fillcolor %s", c) }

func (r *Recorder) Rectangle(x, y, w, h float64) {
	r.op("rect %g %g %g %g", x, y, w, h)
}

func (r *Recorder) TextStart(x, y float64) { r.op("textstart %g %g", x, y) }
func (r *Recorder) Text(s string)          { r.op("text %q", s) }
func (r *Recorder) TextEnd()               { r.op("textend") }

func (r *Recorder) Image(img render.Image, x, y float64) {
	name := "?"
	if ri, ok := img.(*Image); ok {
		name = ri.Name
	}
	r.op("image %s %g %g", name, x, y)
}

func (r *Recorder) StateSave() {
	r.depth++
	r.op("save")
}

func (r *Recorder) StateRestore() {
	if r.depth == 0 {
		r.fail("restore without save")
	}
	r.depth--
	r.op("restore")
}

func (r *Recorder) Transform(m matrix.Matrix) {
	r.op("transform %g %g %g %g %g %g", m[0], m[1], m[2], m[3], m[4], m[5])
}
