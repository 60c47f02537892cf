package pdf

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gompdf/tipdf/internal/render"
)

// Font is a font selected at a fixed size
type Font struct {
	family string
	style  string
	size   float64
	utf8   bool

	height   float64
	bboxYMin float64

	// translate maps UTF-8 text to the encoding of a core font.
	translate func(string) string
}

func (f *Font) Height() float64 { return f.height }

func (f *Font) BBoxYMin() float64 { return f.bboxYMin }

func (f *Font) encode(s string) string {
	if f.translate == nil {
		return s
	}
	return f.translate(s)
}

// coreMetrics are the ascender, descender and lowest bounding box value of
// a standard font, in 1/1000 of the font size.
type coreMetrics struct {
	ascent, descent, yMin float64
}

var coreFonts = map[string]struct {
	family, style string
	metrics       coreMetrics
}{
	"courier":               {"Courier", "", coreMetrics{629, -157, -250}},
	"courier-bold":          {"Courier", "B", coreMetrics{629, -157, -250}},
	"courier-oblique":       {"Courier", "I", coreMetrics{629, -157, -250}},
	"courier-boldoblique":   {"Courier", "BI", coreMetrics{629, -157, -250}},
	"helvetica":             {"Helvetica", "", coreMetrics{718, -207, -225}},
	"helvetica-bold":        {"Helvetica", "B", coreMetrics{718, -207, -228}},
	"helvetica-oblique":     {"Helvetica", "I", coreMetrics{718, -207, -225}},
	"helvetica-boldoblique": {"Helvetica", "BI", coreMetrics{718, -207, -228}},
	"arial":                 {"Helvetica", "", coreMetrics{718, -207, -225}},
	"times":                 {"Times", "", coreMetrics{683, -217, -218}},
	"times-roman":           {"Times", "", coreMetrics{683, -217, -218}},
	"times-bold":            {"Times", "B", coreMetrics{683, -217, -218}},
	"times-italic":          {"Times", "I", coreMetrics{683, -217, -217}},
	"times-bolditalic":      {"Times", "BI", coreMetrics{683, -217, -218}},
	"zapfdingbats":          {"ZapfDingbats", "", coreMetrics{820, -143, -143}},
}

// LoadFont loads spec.Name as a TrueType file if such a file exists and as
// one of the standard fonts otherwise.
func (d *Document) LoadFont(spec render.FontSpec) (render.Font, error) {
	if !(spec.Size > 0) {
		return nil, fmt.Errorf("invalid font size %g", spec.Size)
	}
	if st, err := os.Stat(spec.Name); err == nil && st.Mode().IsRegular() {
		data, err := os.ReadFile(spec.Name)
		if err != nil {
			return nil, err
		}
		return d.loadTrueType(data, spec.Size)
	}
	return d.loadCoreFont(spec.Name, spec.Size)
}

func (d *Document) loadTrueType(data []byte, size float64) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)
	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}
	bounds, err := f.Bounds(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}

	d.fontCount++
	family := fmt.Sprintf("ttf%d", d.fontCount)
	d.pdf.AddUTF8FontFromBytes(family, "", data)
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}
	// sfnt measures y downwards
	return &Font{
		family:   family,
		size:     size,
		utf8:     true,
		height:   float64(m.Ascent+m.Descent) / 64,
		bboxYMin: -float64(bounds.Max.Y) / 64,
	}, nil
}

func (d *Document) loadCoreFont(name string, size float64) (*Font, error) {
	core, ok := coreFonts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown font %q", name)
	}
	f := &Font{
		family: core.family,
		style:  core.style,
		size:   size,
	}
	// ZapfDingbats has its own encoding
	if core.family != "ZapfDingbats" {
		if d.cp1252 == nil {
			d.cp1252 = d.pdf.UnicodeTranslatorFromDescriptor("")
		}
		f.translate = d.cp1252
	}

	m := core.metrics
	if desc := d.pdf.GetFontDesc(core.family, core.style); desc.Ascent != 0 {
		m = coreMetrics{float64(desc.Ascent), float64(desc.Descent), float64(desc.FontBBox.Ymin)}
	}
	if m.ascent == 0 {
		m = coreMetrics{800, -200, -200}
	}
	f.height = (m.ascent - m.descent) / 1000 * size
	f.bboxYMin = m.yMin / 1000 * size
	return f, d.pdf.Error()
}
