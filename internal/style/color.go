// Package style resolves colors: user-supplied color specifications, zebra
// palettes and the foreground colors of highlighted tokens.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gompdf/tipdf/internal/render"
)

// Palette is an ordered list of stripe colors. A nil entry means no stripe.
type Palette []*render.Color

// At returns the color for line n, or nil.
func (p Palette) At(n int) *render.Color {
	if len(p) == 0 {
		return nil
	}
	return p[n%len(p)]
}

// ParseColor parses "rrggbb", "#rrggbb", "#rgb" or "rgb(r,g,b)". The empty
// string yields nil.
func ParseColor(value string) (*render.Color, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var r, g, b int
	if _, err := fmt.Sscanf(strings.ReplaceAll(value, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return nil, fmt.Errorf("invalid color specification %s", value)
		}
		return &render.Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
	}

	if c, ok := parseHexColor(value); ok {
		return &c, nil
	}
	return nil, fmt.Errorf("invalid color specification %s", value)
}

// MustParseColor is like ParseColor but panics on malformed input.
func MustParseColor(value string) render.Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	if c == nil {
		return render.Black
	}
	return *c
}

// ParsePalette parses a comma separated list of colors. Empty entries
// are kept as gaps in the palette.
func ParsePalette(value string) (Palette, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var res Palette
	for _, part := range strings.Split(value, ",") {
		c, err := ParseColor(part)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

// parseHexColor parses rrggbb or rgb, with or without a leading '#'
func parseHexColor(s string) (render.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return render.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return render.Color{}, false
	}
	return render.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}
