package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gompdf/tipdf/internal/pagination"
	"github.com/gompdf/tipdf/internal/render"
	"github.com/gompdf/tipdf/internal/style"
	"github.com/gompdf/tipdf/internal/text"
)

// Alignment is the horizontal placement of images narrower than the canvas
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment parses "left", "center" or "right".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return 0, fmt.Errorf("unknown image alignment %q", s)
}

// offset is the distance from the left canvas edge for content of width w.
func (a Alignment) offset(canvasWidth, w float64) float64 {
	switch a {
	case AlignCenter:
		return (canvasWidth - w) / 2
	case AlignRight:
		return canvasWidth - w
	}
	return 0
}

// Separator is the vertical space inserted between two inputs. A negative
// gap moves the cursor up, but never above the top margin.
type Separator struct {
	PageBreak bool
	Gap       float64
}

func (s Separator) String() string {
	if s.PageBreak {
		return "break"
	}
	return fmt.Sprintf("%g", s.Gap)
}

// Settings is the resolved configuration for one input
type Settings struct {
	PageSize pagination.PageSize
	Margins  pagination.Margins

	Font        render.FontSpec
	Encoding    string
	CharSpacing float64
	LineSpacing float64
	TabSize     int
	TextColor   render.Color
	PageColor   *render.Color
	Zebra       style.Palette

	Highlight      bool
	HighlightStyle string

	ImageAlign    Alignment
	ImageFitWider bool
	// DPI, if positive, replaces the resolution recorded in images.
	DPI float64

	// Nup is the n-up power; 0 disables n-up.
	Nup int

	Separator Separator
	// Bookmark is a title template; empty means no bookmarks.
	Bookmark string
}

// Validate reports configuration values the layout cannot work with.
func (s Settings) Validate() error {
	var errs []error
	if err := s.PageSize.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(s.Font.Size > 0) {
		errs = append(errs, fmt.Errorf("invalid font size %g", s.Font.Size))
	}
	if s.Font.Name == "" {
		errs = append(errs, errors.New("missing font name"))
	}
	if s.Nup < 0 || s.Nup > maxNup {
		errs = append(errs, fmt.Errorf("n-up power %d out of range [0, %d]", s.Nup, maxNup))
	}
	if s.TabSize < 0 {
		errs = append(errs, fmt.Errorf("invalid tab size %d", s.TabSize))
	}
	if s.LineSpacing <= -1 {
		errs = append(errs, fmt.Errorf("invalid line spacing %g", s.LineSpacing))
	}
	if s.DPI < 0 {
		errs = append(errs, fmt.Errorf("invalid dpi %g", s.DPI))
	}
	if err := text.ValidateEncoding(s.Encoding); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

const maxNup = 8
