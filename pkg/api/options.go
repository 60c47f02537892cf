package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gompdf/tipdf/internal/layout"
	"github.com/gompdf/tipdf/internal/pagination"
	"github.com/gompdf/tipdf/internal/render"
	"github.com/gompdf/tipdf/internal/render/pdf"
	"github.com/gompdf/tipdf/internal/style"
	"github.com/gompdf/tipdf/internal/text"
)

// Options represents the settings for one input. The document level
// options are taken from the first input of a conversion.
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// PageColor is the page background; empty means none.
	PageColor string

	// Text options
	Font        string // path of a TrueType file or a standard font name
	FontSize    float64
	Encoding    string
	CharSpacing float64
	LineSpacing float64
	TabSize     int
	TextColor   string
	// Zebra is a comma separated list of stripe colors. Empty entries
	// leave a line unpainted.
	Zebra          string
	Highlight      bool
	HighlightStyle string

	// Image options
	ImageAlign    string
	ImageFitWider bool
	// ImageDPI, if positive, replaces the resolution recorded in images.
	ImageDPI float64

	// IsText decides inputs that are neither recognizably text nor image.
	IsText bool

	// Vertical space after the input, or a page break
	Separator float64
	PageBreak bool

	// Bookmark is the outline title template of the input. It may contain
	// %basename, %path and %page.
	Bookmark string

	// Document level options
	Nup             int
	Title           string
	InitialDest     string // fit, fith, fitv or a zoom factor
	PageLayout      string // single, cont or cont-facing
	OwnerPassword   string
	UserPassword    string
	UserPermissions string // comma separated no_print, no_modify, no_copy
	Compress        bool
}

// Option is a function that modifies Options
type Option func(*Options)

// Standard page sizes in points (1/72 inch)
const (
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		PageWidth:  PageSizeA4Width,
		PageHeight: PageSizeA4Height,

		MarginTop:    72,
		MarginRight:  68,
		MarginBottom: 72,
		MarginLeft:   68,

		Font:           "Courier",
		FontSize:       10,
		Encoding:       text.DefaultEncoding,
		TabSize:        text.DefaultTabSize,
		TextColor:      "000000",
		HighlightStyle: style.DefaultHighlightStyle,

		ImageAlign:    "left",
		ImageFitWider: true,

		IsText:    true,
		Separator: 36,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithPageColor sets the page background color
func WithPageColor(color string) Option {
	return func(o *Options) {
		o.PageColor = color
	}
}

// WithFont sets the font and its size
func WithFont(name string, size float64) Option {
	return func(o *Options) {
		o.Font = name
		o.FontSize = size
	}
}

// WithEncoding sets the encoding of text inputs
func WithEncoding(label string) Option {
	return func(o *Options) {
		o.Encoding = label
	}
}

// WithSpacing sets character and line spacing
func WithSpacing(char, line float64) Option {
	return func(o *Options) {
		o.CharSpacing = char
		o.LineSpacing = line
	}
}

// WithTabSize sets the distance between tab stops
func WithTabSize(n int) Option {
	return func(o *Options) {
		o.TabSize = n
	}
}

// WithTextColor sets the text color
func WithTextColor(color string) Option {
	return func(o *Options) {
		o.TextColor = color
	}
}

// WithZebra sets the stripe colors painted behind text lines
func WithZebra(colors string) Option {
	return func(o *Options) {
		o.Zebra = colors
	}
}

// WithHighlight turns syntax highlighting on using the named style
func WithHighlight(styleName string) Option {
	return func(o *Options) {
		o.Highlight = true
		o.HighlightStyle = styleName
	}
}

// WithImageAlign sets the alignment of images narrower than the page
func WithImageAlign(align string) Option {
	return func(o *Options) {
		o.ImageAlign = align
	}
}

// WithImageFitWider controls whether wide images are scaled down
func WithImageFitWider(fit bool) Option {
	return func(o *Options) {
		o.ImageFitWider = fit
	}
}

// WithImageDPI overrides the resolution of images
func WithImageDPI(dpi float64) Option {
	return func(o *Options) {
		o.ImageDPI = dpi
	}
}

// WithText sets how inputs of unknown kind are treated
func WithText(isText bool) Option {
	return func(o *Options) {
		o.IsText = isText
	}
}

// WithSeparator sets the space inserted after an input
func WithSeparator(gap float64) Option {
	return func(o *Options) {
		o.Separator = gap
		o.PageBreak = false
	}
}

// WithPageBreak starts a new page after an input
func WithPageBreak() Option {
	return func(o *Options) {
		o.PageBreak = true
	}
}

// WithBookmark sets the outline title template
func WithBookmark(tmpl string) Option {
	return func(o *Options) {
		o.Bookmark = tmpl
	}
}

// WithNup puts 2^power logical pages on each sheet
func WithNup(power int) Option {
	return func(o *Options) {
		o.Nup = power
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithViewer sets the initial destination and page layout
func WithViewer(dest, pageLayout string) Option {
	return func(o *Options) {
		o.InitialDest = dest
		o.PageLayout = pageLayout
	}
}

// WithProtection encrypts the document
func WithProtection(owner, user, permissions string) Option {
	return func(o *Options) {
		o.OwnerPassword = owner
		o.UserPassword = user
		o.UserPermissions = permissions
	}
}

// WithCompression compresses page content streams
func WithCompression(compress bool) Option {
	return func(o *Options) {
		o.Compress = compress
	}
}

// Apply returns a copy of o with opts applied.
func (o Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validate reports every malformed value.
func (o Options) Validate() error {
	s, err := o.settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	_, err = o.documentOptions()
	return err
}

// settings converts o to the layout settings of one input.
func (o Options) settings() (layout.Settings, error) {
	var errs []error
	textColor, err := style.ParseColor(o.TextColor)
	if err != nil {
		errs = append(errs, fmt.Errorf("text color: %w", err))
	}
	if textColor == nil {
		textColor = &render.Black
	}
	pageColor, err := style.ParseColor(o.PageColor)
	if err != nil {
		errs = append(errs, fmt.Errorf("page color: %w", err))
	}
	zebra, err := style.ParsePalette(o.Zebra)
	if err != nil {
		errs = append(errs, fmt.Errorf("zebra: %w", err))
	}
	align, err := layout.ParseAlignment(o.ImageAlign)
	if err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return layout.Settings{}, err
	}

	return layout.Settings{
		PageSize: pagination.PageSize{Width: o.PageWidth, Height: o.PageHeight},
		Margins: pagination.Margins{
			Top:    o.MarginTop,
			Right:  o.MarginRight,
			Bottom: o.MarginBottom,
			Left:   o.MarginLeft,
		},
		Font:           render.FontSpec{Name: o.Font, Size: o.FontSize},
		Encoding:       o.Encoding,
		CharSpacing:    o.CharSpacing,
		LineSpacing:    o.LineSpacing,
		TabSize:        o.TabSize,
		TextColor:      *textColor,
		PageColor:      pageColor,
		Zebra:          zebra,
		Highlight:      o.Highlight,
		HighlightStyle: o.HighlightStyle,
		ImageAlign:     align,
		ImageFitWider:  o.ImageFitWider,
		DPI:            o.ImageDPI,
		Nup:            o.Nup,
		Separator:      layout.Separator{PageBreak: o.PageBreak, Gap: o.Separator},
		Bookmark:       o.Bookmark,
	}, nil
}

// documentOptions converts the document level options.
func (o Options) documentOptions() (pdf.Options, error) {
	var errs []error
	dest, err := parseInitialDest(o.InitialDest)
	if err != nil {
		errs = append(errs, err)
	}
	pageLayout, err := parsePageLayout(o.PageLayout)
	if err != nil {
		errs = append(errs, err)
	}
	deny, err := parsePermissions(o.UserPermissions)
	if err != nil {
		errs = append(errs, err)
	}
	return pdf.Options{
		Title:         o.Title,
		InitialDest:   dest,
		PageLayout:    pageLayout,
		OwnerPassword: o.OwnerPassword,
		UserPassword:  o.UserPassword,
		Deny:          deny,
		Compress:      o.Compress,
	}, errors.Join(errs...)
}

// ParsePageSize parses "a4", "letter" or "width,height" in points.
func ParsePageSize(s string) (width, height float64, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a3":
		return PageSizeA3Width, PageSizeA3Height, nil
	case "a4":
		return PageSizeA4Width, PageSizeA4Height, nil
	case "a5":
		return PageSizeA5Width, PageSizeA5Height, nil
	case "letter":
		return PageSizeLetterWidth, PageSizeLetterHeight, nil
	case "legal":
		return PageSizeLegalWidth, PageSizeLegalHeight, nil
	}
	v, err := parseFloats(s, 2)
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognized page format: %s", s)
	}
	return v[0], v[1], nil
}

// ParseMargins parses a "top,right,bottom,left" list.
func ParseMargins(s string) (top, right, bottom, left float64, err error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("unrecognized margins: %s", s)
	}
	return v[0], v[1], v[2], v[3], nil
}

// ParseSeparator parses "break" or a distance in points.
func ParseSeparator(s string) (gap float64, pageBreak bool, err error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "break") {
		return 0, true, nil
	}
	gap, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unrecognized separator: %s", s)
	}
	return gap, false, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(parts))
	}
	res := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// parseInitialDest maps fit, fith, fitv and zoom factors to a view. fpdf
// only knows 100% zoom, so every factor shows the real size.
func parseInitialDest(s string) (pdf.InitialDest, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return pdf.DestDefault, nil
	case "fit":
		return pdf.DestFit, nil
	case "fith":
		return pdf.DestFitH, nil
	case "fitv":
		return pdf.DestFitV, nil
	}
	if z, err := strconv.ParseFloat(s, 64); err == nil && z > 0 {
		return pdf.DestReal, nil
	}
	return 0, fmt.Errorf("unrecognized destination: %s", s)
}

func parsePageLayout(s string) (pdf.PageLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return pdf.LayoutDefault, nil
	case "single":
		return pdf.LayoutSingle, nil
	case "cont":
		return pdf.LayoutContinuous, nil
	case "cont-facing":
		return pdf.LayoutContinuousFacing, nil
	}
	return 0, fmt.Errorf("unrecognized page layout: %s", s)
}

func parsePermissions(s string) (pdf.Permission, error) {
	var deny pdf.Permission
	if strings.TrimSpace(s) == "" {
		return deny, nil
	}
	for _, p := range strings.Split(s, ",") {
		switch strings.TrimSpace(p) {
		case "no_print":
			deny |= pdf.PermPrint
		case "no_modify":
			deny |= pdf.PermModify
		case "no_copy":
			deny |= pdf.PermCopy
		default:
			return 0, fmt.Errorf("unrecognized permission: %s", p)
		}
	}
	return deny, nil
}
