package layout

import (
	"github.com/gompdf/tipdf/internal/text"
)

// lineDriver lays out the events of one text input line by line.
type lineDriver struct {
	c      *Context
	lineNr int
	// open is set while a text run is open on the canvas.
	open bool
}

func (c *Context) drawText(events []text.Event) error {
	d := &lineDriver{c: c}
	for _, e := range events {
		var err error
		switch e.Kind {
		case text.KindText:
			err = d.onText(e)
		case text.KindLineEnd:
			err = d.onLineEnd()
		case text.KindPageBreak:
			err = d.onNextPage()
		}
		if err != nil {
			return err
		}
	}
	if d.open {
		return d.onLineEnd()
	}
	return nil
}

// ensureSpace starts a new page if the next line does not fit.
func (d *lineDriver) ensureSpace() error {
	if d.c.pager.EnoughSpace(d.c.lineHeight()) {
		return nil
	}
	return d.onNextPage()
}

func (d *lineDriver) onText(e text.Event) error {
	canvas := d.c.doc.Canvas()
	if !d.open {
		if err := d.ensureSpace(); err != nil {
			return err
		}
		canvas = d.c.doc.Canvas()
		d.paintZebra()
		font := d.c.font
		baseline := d.c.pager.Y() - font.Height() - font.BBoxYMin()
		canvas.TextStart(d.c.settings.Margins.Left, baseline)
		d.open = true
		d.c.placeBookmark()
	}
	if e.Styled {
		canvas.SetTextColor(d.c.tokenColors().Color(e.Token))
	}
	if e.Text != "" {
		canvas.Text(e.Text)
	}
	return nil
}

func (d *lineDriver) onLineEnd() error {
	if d.open {
		d.c.doc.Canvas().TextEnd()
	} else {
		if err := d.ensureSpace(); err != nil {
			return err
		}
		d.paintZebra()
	}
	d.lineNr++
	d.open = false
	d.c.pager.SetY(d.c.pager.Y() - d.c.lineHeight())
	return nil
}

func (d *lineDriver) onNextPage() error {
	if d.open {
		if err := d.onLineEnd(); err != nil {
			return err
		}
	}
	if err := d.c.pager.NextPage(); err != nil {
		return err
	}
	d.lineNr = 0
	return nil
}

// paintZebra fills the background of the current line with the palette
// color for its line number.
func (d *lineDriver) paintZebra() {
	col := d.c.settings.Zebra.At(d.lineNr)
	if col == nil {
		return
	}
	h := d.c.lineHeight()
	canvas := d.c.doc.Canvas()
	canvas.StateSave()
	canvas.SetFillColor(*col)
	canvas.Rectangle(d.c.settings.Margins.Left, d.c.pager.Y()-h, d.c.canvasWidth(), h)
	canvas.StateRestore()
}
