package style

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/gompdf/tipdf/internal/render"
)

// DefaultHighlightStyle names the chroma style used when none is configured.
const DefaultHighlightStyle = "default"

// TokenColors maps token types to foreground colors. Lookups are resolved
// against the style once per token type and cached.
type TokenColors struct {
	style    *chroma.Style
	fallback render.Color
	cache    map[chroma.TokenType]render.Color
}

// NewTokenColors uses the named chroma style; unknown names fall back to
// the chroma fallback style. Tokens without a color in the style are
// drawn in fallback.
func NewTokenColors(name string, fallback render.Color) *TokenColors {
	if name == "" {
		name = DefaultHighlightStyle
	}
	return newTokenColors(styles.Get(name), fallback)
}

func newTokenColors(s *chroma.Style, fallback render.Color) *TokenColors {
	return &TokenColors{
		style:    s,
		fallback: fallback,
		cache:    make(map[chroma.TokenType]render.Color),
	}
}

// Color returns the foreground color for tokens of type tt.
func (tc *TokenColors) Color(tt chroma.TokenType) render.Color {
	if c, ok := tc.cache[tt]; ok {
		return c
	}
	c := tc.fallback
	if entry := tc.style.Get(tt); entry.Colour.IsSet() {
		c = render.Color{R: entry.Colour.Red(), G: entry.Colour.Green(), B: entry.Colour.Blue()}
	}
	tc.cache[tt] = c
	return c
}

// Len returns the number of cached token types.
func (tc *TokenColors) Len() int { return len(tc.cache) }
