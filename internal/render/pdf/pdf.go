// Package pdf implements the render capabilities on top of fpdf.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
	"seehuhn.de/go/geom/matrix"

	"github.com/gompdf/tipdf/internal/render"
)

// InitialDest is the view a reader shows when the document is opened
type InitialDest int

const (
	DestDefault InitialDest = iota
	// DestFit shows the whole page.
	DestFit
	// DestFitH fits the page width.
	DestFitH
	// DestFitV fits the page height; fpdf has no separate mode for it, so
	// it shows the whole page.
	DestFitV
	// DestReal shows the page at 100% zoom.
	DestReal
)

func (d InitialDest) zoom() string {
	switch d {
	case DestFit, DestFitV:
		return "fullpage"
	case DestFitH:
		return "fullwidth"
	case DestReal:
		return "real"
	}
	return "default"
}

// PageLayout is the page arrangement a reader uses initially
type PageLayout int

const (
	LayoutDefault PageLayout = iota
	LayoutSingle
	LayoutContinuous
	LayoutContinuousFacing
)

func (l PageLayout) mode() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutContinuous:
		return "continuous"
	case LayoutContinuousFacing:
		return "two"
	}
	return "default"
}

// Permission is a user permission that can be denied in a protected
// document
type Permission int

const (
	PermPrint Permission = 1 << iota
	PermModify
	PermCopy
)

// Options contains document level options
type Options struct {
	Title       string
	Creator     string
	InitialDest InitialDest
	PageLayout  PageLayout

	// Any password or denied permission turns on encryption.
	OwnerPassword string
	UserPassword  string
	Deny          Permission

	Compress bool
}

func (o Options) protected() bool {
	return o.OwnerPassword != "" || o.UserPassword != "" || o.Deny != 0
}

func (o Options) protectionFlags() byte {
	flags := byte(fpdf.CnProtectPrint | fpdf.CnProtectModify | fpdf.CnProtectCopy | fpdf.CnProtectAnnotForms)
	if o.Deny&PermPrint != 0 {
		flags &^= fpdf.CnProtectPrint
	}
	if o.Deny&PermModify != 0 {
		flags &^= fpdf.CnProtectModify | fpdf.CnProtectAnnotForms
	}
	if o.Deny&PermCopy != 0 {
		flags &^= fpdf.CnProtectCopy
	}
	return flags
}

// canvasState mirrors the parts of the PDF graphics state the document
// changes, so that they can be reasserted after a restore.
type canvasState struct {
	font        *Font
	charSpacing float64
	text        render.Color
	fill        render.Color
}

// Document writes a PDF document to an io.Writer. It implements both
// render.Document and render.Canvas.
type Document struct {
	pdf  *fpdf.Fpdf
	out  io.Writer
	opts Options

	pageH  float64
	open   bool
	closed bool

	state canvasState
	stack []canvasState

	// current text run
	runX, runY float64
	inRun      bool

	fontCount  int
	imageCount int
	cp1252     func(string) string
}

var (
	_ render.Document = (*Document)(nil)
	_ render.Canvas   = (*Document)(nil)
)

// NewDocument creates a document that is written to w by Finalize.
func NewDocument(w io.Writer, opts Options) (*Document, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 595.28, Ht: 841.89},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(opts.Compress)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	creator := opts.Creator
	if creator == "" {
		creator = "tipdf"
	}
	pdf.SetCreator(creator, true)
	pdf.SetDisplayMode(opts.InitialDest.zoom(), opts.PageLayout.mode())
	if opts.protected() {
		pdf.SetProtection(opts.protectionFlags(), opts.UserPassword, opts.OwnerPassword)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to set up document: %w", err)
	}
	return &Document{pdf: pdf, out: w, opts: opts}, nil
}

func (d *Document) PageStart(width, height float64) error {
	if d.closed {
		return errors.New("document already finalized")
	}
	if d.open {
		return errors.New("page already open")
	}
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	if err := d.pdf.Error(); err != nil {
		return err
	}
	d.pageH = height
	d.open = true
	// every page starts with a fresh graphics state
	d.state.charSpacing = 0
	d.stack = d.stack[:0]
	return nil
}

func (d *Document) PageEnd() error {
	if !d.open {
		return errors.New("no page open")
	}
	if len(d.stack) > 0 {
		return fmt.Errorf("page ended with %d unrestored states", len(d.stack))
	}
	d.open = false
	return d.pdf.Error()
}

func (d *Document) Canvas() render.Canvas { return d }

// Bookmark adds a top-level outline entry. top is in PDF user space.
func (d *Document) Bookmark(title string, top float64) {
	d.pdf.Bookmark(title, 0, d.pageH-top)
}

// Finalize writes the document to the output writer.
func (d *Document) Finalize() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.open {
		return errors.New("finalize with open page")
	}
	return d.pdf.Output(d.out)
}

func (d *Document) SetFont(f render.Font) {
	font, ok := f.(*Font)
	if !ok {
		d.pdf.SetErrorf("font %T was not loaded by this document", f)
		return
	}
	d.pdf.SetFont(font.family, font.style, font.size)
	d.state.font = font
}

func (d *Document) SetCharSpacing(spacing float64) {
	if spacing == d.state.charSpacing {
		return
	}
	d.pdf.RawWriteStr(fmt.Sprintf("%.3f Tc", spacing))
	d.state.charSpacing = spacing
}

func (d *Document) SetTextColor(c render.Color) {
	d.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	d.state.text = c
}

func (d *Document) SetFillColor(c render.Color) {
	d.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	d.state.fill = c
}

// Rectangle fills a rectangle whose lower-left corner is (x, y).
func (d *Document) Rectangle(x, y, w, h float64) {
	d.pdf.Rect(x, d.pageH-y-h, w, h, "F")
}

func (d *Document) TextStart(x, y float64) {
	d.runX, d.runY = x, y
	d.inRun = true
}

// Text shows s after the text already shown in the current run.
func (d *Document) Text(s string) {
	if !d.inRun {
		d.pdf.SetErrorf("text %q outside of a text run", s)
		return
	}
	font := d.state.font
	if font == nil {
		d.pdf.SetErrorf("text %q without a font", s)
		return
	}
	s = font.encode(s)
	d.pdf.Text(d.runX, d.pageH-d.runY, s)

	n := len(s)
	if font.utf8 {
		n = utf8.RuneCountInString(s)
	}
	d.runX += d.pdf.GetStringWidth(s) + float64(n)*d.state.charSpacing
}

func (d *Document) TextEnd() {
	d.inRun = false
}

// Image draws img with its lower-left corner at (x, y).
func (d *Document) Image(img render.Image, x, y float64) {
	im, ok := img.(*Image)
	if !ok {
		d.pdf.SetErrorf("image %T was not loaded by this document", img)
		return
	}
	w, h := im.size()
	d.pdf.ImageOptions(im.key, x, d.pageH-y-h, w, h, false,
		fpdf.ImageOptions{ImageType: im.typ, AllowNegativePosition: true}, 0, "")
}

func (d *Document) StateSave() {
	d.pdf.TransformBegin()
	d.stack = append(d.stack, d.state)
}

// StateRestore pops the graphics state and brings fpdf's view of the
// current font and colors back in line with it.
func (d *Document) StateRestore() {
	if len(d.stack) == 0 {
		d.pdf.SetErrorf("restore without save")
		return
	}
	d.pdf.TransformEnd()
	saved := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]

	if saved.font != nil && saved.font != d.state.font {
		d.SetFont(saved.font)
	}
	if saved.fill != d.state.fill {
		d.SetFillColor(saved.fill)
	}
	if saved.text != d.state.text {
		d.SetTextColor(saved.text)
	}
	d.state = saved
}

// Transform concatenates m to the current transformation matrix. It must
// be bracketed by StateSave and StateRestore.
func (d *Document) Transform(m matrix.Matrix) {
	d.pdf.Transform(fpdf.TransformMatrix{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]})
}

// Err returns the first error recorded by fpdf.
func (d *Document) Err() error {
	return d.pdf.Error()
}
