// Package layout places text lines and images onto pages. A Context holds
// everything that persists across the inputs of one document: the loaded
// fonts and images, the active paging and the settings of the current
// input.
package layout

import (
	"errors"
	"fmt"

	"github.com/gompdf/tipdf/internal/pagination"
	"github.com/gompdf/tipdf/internal/render"
	"github.com/gompdf/tipdf/internal/style"
	"github.com/gompdf/tipdf/internal/text"
)

// Context is the layout state of one document. It is not safe for
// concurrent use.
type Context struct {
	doc      render.Document
	pager    pagination.Pager
	settings Settings

	font  render.Font
	fonts map[render.FontSpec]render.Font
	// images is keyed by input name only, so a later input with the same
	// name but a different DPI override gets the first image.
	images map[string]render.Image

	colors    *style.TokenColors
	colorsKey tokenColorsKey

	inputName  string
	bookmarked bool
}

type tokenColorsKey struct {
	style    string
	fallback render.Color
}

// NewContext loads the initial font and opens the first page. The n-up
// power of s applies to the whole document.
func NewContext(doc render.Document, s Settings) (*Context, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := &Context{
		doc:      doc,
		settings: s,
		fonts:    make(map[render.FontSpec]render.Font),
		images:   make(map[string]render.Image),
	}
	font, err := c.loadFont(s.Font)
	if err != nil {
		return nil, err
	}
	c.font = font

	if s.Nup > 0 {
		c.pager, err = pagination.NewNupPaging(doc, s.Nup, s.PageSize, s.Margins, c.pageStyle())
	} else {
		c.pager, err = pagination.NewPaging(doc, s.PageSize, s.Margins, c.pageStyle())
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update switches to the settings of the next input. Font and colors take
// effect immediately; a new page size applies from the next page on.
func (c *Context) Update(s Settings, inputName string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Nup = c.settings.Nup
	if s.Nup > 0 {
		s.PageSize = c.settings.PageSize
	}
	font, err := c.loadFont(s.Font)
	if err != nil {
		return err
	}
	c.font = font
	c.settings = s
	c.inputName = inputName
	c.bookmarked = false

	st := c.pageStyle()
	c.pager.Configure(s.PageSize, s.Margins, st)
	canvas := c.doc.Canvas()
	canvas.SetFont(st.Font)
	canvas.SetCharSpacing(st.CharSpacing)
	canvas.SetTextColor(st.TextColor)
	return nil
}

// Settings returns the settings of the current input.
func (c *Context) Settings() Settings { return c.settings }

// InputName is the name of the input being laid out.
func (c *Context) InputName() string { return c.inputName }

// PageNr is the number of physical pages completed so far.
func (c *Context) PageNr() int { return c.pager.PageNr() }

// Y is the current vertical write position.
func (c *Context) Y() float64 { return c.pager.Y() }

// Text lays out a text input. data is decoded with the configured
// encoding; highlighting falls back to plain text when no lexer matches.
func (c *Context) Text(data []byte) error {
	src, err := text.Decode(data, c.settings.Encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", c.inputName, err)
	}
	events, err := c.textEvents(src)
	if err != nil {
		return err
	}
	return c.drawText(events)
}

func (c *Context) textEvents(src string) ([]text.Event, error) {
	if !c.settings.Highlight {
		return text.Plain(src, c.settings.TabSize), nil
	}
	events, err := text.Highlight(c.inputName, src, c.settings.TabSize)
	if errors.Is(err, text.ErrNoLexer) {
		return text.Plain(src, c.settings.TabSize), nil
	}
	return events, err
}

// Image lays out an image input. Images are cached by input name.
func (c *Context) Image(data []byte) error {
	img, ok := c.images[c.inputName]
	if !ok {
		var err error
		img, err = c.doc.LoadImage(c.inputName, data, c.settings.DPI)
		if err != nil {
			return fmt.Errorf("failed to load image %s: %w", c.inputName, err)
		}
		c.images[c.inputName] = img
	}
	return c.placeImage(img)
}

// Finalize closes the last page and the document.
func (c *Context) Finalize() error {
	if err := c.pager.Finalize(); err != nil {
		return err
	}
	return c.doc.Finalize()
}

func (c *Context) loadFont(spec render.FontSpec) (render.Font, error) {
	if f, ok := c.fonts[spec]; ok {
		return f, nil
	}
	f, err := c.doc.LoadFont(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", spec.Name, err)
	}
	c.fonts[spec] = f
	return f, nil
}

func (c *Context) pageStyle() pagination.Style {
	return pagination.Style{
		Font:        c.font,
		CharSpacing: c.settings.CharSpacing,
		TextColor:   c.settings.TextColor,
		PageColor:   c.settings.PageColor,
	}
}

func (c *Context) tokenColors() *style.TokenColors {
	key := tokenColorsKey{style: c.settings.HighlightStyle, fallback: c.settings.TextColor}
	if c.colors == nil || c.colorsKey != key {
		c.colors = style.NewTokenColors(key.style, key.fallback)
		c.colorsKey = key
	}
	return c.colors
}

func (c *Context) canvasWidth() float64 {
	return c.settings.Margins.CanvasWidth(c.pager.PageSize())
}

func (c *Context) lineHeight() float64 {
	return c.font.Height() * (1 + c.settings.LineSpacing)
}
