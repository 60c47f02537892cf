// Package pagination tracks the physical and logical page lifecycle of a
// document together with the vertical write cursor.
package pagination

import (
	"errors"
	"fmt"

	"github.com/gompdf/tipdf/internal/render"
)

// ErrFinalized is returned by page operations after Finalize.
var ErrFinalized = errors.New("paging already finalized")

// Pager is implemented by Paging and NupPaging.
type Pager interface {
	// Y is the vertical write cursor in PDF user space.
	Y() float64
	SetY(y float64)
	// TopY is the cursor position at the top of a fresh page.
	TopY() float64
	// PageNr is the number of physical pages emitted so far.
	PageNr() int
	EnoughSpace(required float64) bool
	NextPage() error
	Finalize() error
	// Configure changes the geometry and drawing state. The page size
	// takes effect with the next physical page.
	Configure(size PageSize, margins Margins, style Style)
	// PageSize is the size of the open page.
	PageSize() PageSize
}

// Style is the drawing state established at the start of each physical page
type Style struct {
	Font        render.Font
	CharSpacing float64
	TextColor   render.Color
	// PageColor, if set, fills the whole page before anything else.
	PageColor *render.Color
}

type pageState int

const (
	pageClosed pageState = iota
	pageOpen
	pageFinalized
)

func (s pageState) String() string {
	switch s {
	case pageClosed:
		return "closed"
	case pageOpen:
		return "open"
	case pageFinalized:
		return "finalized"
	}
	return fmt.Sprintf("pageState(%d)", int(s))
}

// EnoughSpaceOnPage reports whether content of the given height fits
// between the cursor y and the bottom margin.
func EnoughSpaceOnPage(y, required, bottom float64) bool {
	return y-required >= bottom
}

// Paging emits one logical page per physical page.
type Paging struct {
	doc     render.Document
	size    PageSize
	pending PageSize
	margins Margins
	style   Style

	y      float64
	pageNr int
	state  pageState
}

// NewPaging creates a Paging and opens its first page.
func NewPaging(doc render.Document, size PageSize, margins Margins, style Style) (*Paging, error) {
	p := newPaging(doc, size, margins, style)
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPaging(doc render.Document, size PageSize, margins Margins, style Style) *Paging {
	return &Paging{
		doc:     doc,
		size:    size,
		pending: size,
		margins: margins,
		style:   style,
	}
}

func (p *Paging) Y() float64     { return p.y }
func (p *Paging) SetY(y float64) { p.y = y }
func (p *Paging) PageNr() int    { return p.pageNr }
func (p *Paging) TopY() float64  { return p.size.Height - p.margins.Top }

// PageSize is the size of the open page, or of the last one when none is
// open. A size passed to Configure shows up here once the next page opens.
func (p *Paging) PageSize() PageSize { return p.size }

func (p *Paging) EnoughSpace(required float64) bool {
	return EnoughSpaceOnPage(p.y, required, p.margins.Bottom)
}

// IsOpen reports whether a physical page is currently open.
func (p *Paging) IsOpen() bool { return p.state == pageOpen }

// Configure changes margins and style at once. The open page keeps its
// size until the next page starts.
func (p *Paging) Configure(size PageSize, margins Margins, style Style) {
	p.pending = size
	p.margins = margins
	p.style = style
}

// NextPage closes the current page and opens a new one.
func (p *Paging) NextPage() error {
	if err := p.close(); err != nil {
		return err
	}
	return p.open()
}

// Finalize closes the open page, if any. Calling it more than once has no
// further effect.
func (p *Paging) Finalize() error {
	if p.state == pageFinalized {
		return nil
	}
	if p.state == pageOpen {
		if err := p.close(); err != nil {
			return err
		}
	}
	p.state = pageFinalized
	return nil
}

// open starts a new physical page and establishes the per-page drawing
// state.
func (p *Paging) open() error {
	switch p.state {
	case pageFinalized:
		return ErrFinalized
	case pageOpen:
		return errors.New("page already open")
	}
	if err := p.pending.Validate(); err != nil {
		return err
	}
	p.size = p.pending
	if err := p.doc.PageStart(p.size.Width, p.size.Height); err != nil {
		return fmt.Errorf("failed to start page %d: %w", p.pageNr+1, err)
	}
	p.state = pageOpen
	p.establishState()
	p.resetY()
	return nil
}

// close ends the current physical page.
func (p *Paging) close() error {
	switch p.state {
	case pageFinalized:
		return ErrFinalized
	case pageClosed:
		return errors.New("no page open")
	}
	if err := p.doc.PageEnd(); err != nil {
		return fmt.Errorf("failed to end page %d: %w", p.pageNr+1, err)
	}
	p.state = pageClosed
	p.pageNr++
	return nil
}

func (p *Paging) resetY() {
	p.y = p.TopY()
}

func (p *Paging) establishState() {
	p.establishStyle()
	if p.style.PageColor != nil {
		c := p.doc.Canvas()
		c.SetFillColor(*p.style.PageColor)
		c.Rectangle(0, 0, p.size.Width, p.size.Height)
	}
}

// establishStyle sets the text state of the current style.
func (p *Paging) establishStyle() {
	c := p.doc.Canvas()
	if p.style.Font != nil {
		c.SetFont(p.style.Font)
	}
	c.SetCharSpacing(p.style.CharSpacing)
	c.SetTextColor(p.style.TextColor)
}
