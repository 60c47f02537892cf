package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrNoLexer is returned when no lexer matches an input.
var ErrNoLexer = errors.New("no lexer found")

// Highlight tokenizes src with the lexer registered for name, or with the
// lexer that best matches the content. Token values spanning several lines
// are split at line ends and form feeds.
func Highlight(name, src string, tabSize int) ([]Event, error) {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoLexer, name)
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %s: %w", name, err)
	}
	b := &tokenSplitter{tabSize: tabSize}
	for tok := it(); tok != chroma.EOF; tok = it() {
		b.token(tok.Type, tok.Value)
	}
	return b.events, nil
}

type tokenSplitter struct {
	tabSize int
	col     int
	events  []Event
}

func (b *tokenSplitter) token(tt chroma.TokenType, value string) {
	for value != "" {
		i := strings.IndexAny(value, "\n\f")
		if i < 0 {
			b.text(tt, value)
			return
		}
		b.text(tt, value[:i])
		if value[i] == '\n' {
			b.events = append(b.events, Event{Kind: KindLineEnd})
		} else {
			b.events = append(b.events, Event{Kind: KindPageBreak})
		}
		b.col = 0
		value = value[i+1:]
	}
}

func (b *tokenSplitter) text(tt chroma.TokenType, s string) {
	s = strings.ReplaceAll(s, "\r", "")
	if s == "" {
		return
	}
	s, b.col = ExpandTabs(s, b.col, b.tabSize)
	b.events = append(b.events, Event{Kind: KindText, Text: s, Styled: true, Token: tt})
}
