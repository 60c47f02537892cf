// Package tipdf converts text files and images into a paginated PDF
// document. See pkg/api for the full API.
package tipdf

import (
	"github.com/gompdf/tipdf/pkg/api"
)

type Converter = api.Converter
type Options = api.Options
type Option = api.Option
type Input = api.Input

func New() *Converter                           { return api.New() }
func NewWithOptions(options Options) *Converter { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var ErrNoInput = api.ErrNoInput

var (
	WithPageSize       = api.WithPageSize
	WithPageSizeA4     = api.WithPageSizeA4
	WithPageSizeLetter = api.WithPageSizeLetter
	WithMargins        = api.WithMargins
	WithPageColor      = api.WithPageColor
	WithFont           = api.WithFont
	WithEncoding       = api.WithEncoding
	WithSpacing        = api.WithSpacing
	WithTabSize        = api.WithTabSize
	WithTextColor      = api.WithTextColor
	WithZebra          = api.WithZebra
	WithHighlight      = api.WithHighlight
	WithImageAlign     = api.WithImageAlign
	WithImageFitWider  = api.WithImageFitWider
	WithImageDPI       = api.WithImageDPI
	WithText           = api.WithText
	WithSeparator      = api.WithSeparator
	WithPageBreak      = api.WithPageBreak
	WithBookmark       = api.WithBookmark
	WithNup            = api.WithNup
	WithTitle          = api.WithTitle
	WithViewer         = api.WithViewer
	WithProtection     = api.WithProtection
	WithCompression    = api.WithCompression

	ParsePageSize  = api.ParsePageSize
	ParseMargins   = api.ParseMargins
	ParseSeparator = api.ParseSeparator
)

const (
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight
)
