package pagination

import (
	"fmt"

	"github.com/gompdf/tipdf/internal/render"
	"seehuhn.de/go/geom/matrix"
)

// NupPaging places 2^power logical pages on each physical page. Every
// logical page is drawn under its own transform, bracketed by a saved
// drawing state so that nothing leaks between neighbouring tiles.
type NupPaging struct {
	*Paging

	nups          []matrix.Matrix
	logicalPageNr int
}

// NewNupPaging creates an N-up paging for the given power and opens the
// first logical page.
func NewNupPaging(doc render.Document, power int, size PageSize, margins Margins, style Style) (*NupPaging, error) {
	if power < 0 {
		return nil, fmt.Errorf("invalid n-up power %d", power)
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}
	p := &NupPaging{
		Paging: newPaging(doc, size, margins, style),
		nups:   NupMatrices(power, size.Width, size.Height),
	}
	if err := p.pageStart(); err != nil {
		return nil, err
	}
	return p, nil
}

// Transforms returns the placement transforms in fill order.
func (p *NupPaging) Transforms() []matrix.Matrix { return p.nups }

// CurrentTransform maps the current logical page onto the physical page.
func (p *NupPaging) CurrentTransform() matrix.Matrix { return p.nups[p.slot()] }

// LogicalPageNr is the number of logical pages completed so far.
func (p *NupPaging) LogicalPageNr() int { return p.logicalPageNr }

// Configure changes margins and drawing state. The page size is fixed by
// the transforms computed at construction.
func (p *NupPaging) Configure(_ PageSize, margins Margins, style Style) {
	p.Paging.Configure(p.size, margins, style)
}

func (p *NupPaging) NextPage() error {
	if err := p.pageEnd(); err != nil {
		return err
	}
	return p.pageStart()
}

// Finalize ends the current logical page and closes the physical page even
// if not all of its tiles were used.
func (p *NupPaging) Finalize() error {
	if p.state == pageOpen {
		p.doc.Canvas().StateRestore()
		p.logicalPageNr++
	}
	return p.Paging.Finalize()
}

func (p *NupPaging) slot() int {
	return p.logicalPageNr % len(p.nups)
}

func (p *NupPaging) pageStart() error {
	if p.state == pageFinalized {
		return ErrFinalized
	}
	i := p.slot()
	if i == 0 {
		if err := p.open(); err != nil {
			return err
		}
	} else {
		// the restore drops style changes made on the previous tile
		p.doc.Canvas().StateRestore()
		p.establishStyle()
		p.resetY()
	}
	c := p.doc.Canvas()
	c.StateSave()
	c.Transform(p.nups[i])
	return nil
}

func (p *NupPaging) pageEnd() error {
	if p.state != pageOpen {
		return p.close()
	}
	c := p.doc.Canvas()
	c.StateRestore()
	p.logicalPageNr++
	if p.slot() == 0 {
		return p.close()
	}
	c.StateSave()
	return nil
}
