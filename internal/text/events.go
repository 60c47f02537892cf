// Package text turns text inputs into a stream of line events for the
// text-line driver. Plain and highlighted inputs produce the same kind of
// stream; highlighted text segments additionally carry their token type.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
)

// Kind is the type of an Event
type Kind int

const (
	// KindText is a piece of text on the current line.
	KindText Kind = iota
	// KindLineEnd terminates the current line.
	KindLineEnd
	// KindPageBreak is a form feed.
	KindPageBreak
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLineEnd:
		return "eol"
	case KindPageBreak:
		return "ff"
	}
	return "?"
}

// Event is one element of a text stream
type Event struct {
	Kind Kind
	Text string
	// Styled is set for highlighted segments; Token is only meaningful then.
	Styled bool
	Token  chroma.TokenType
}

// DefaultTabSize is the tab stop distance used when none is configured.
const DefaultTabSize = 4

// Plain splits src into lines. Every line yields its text with trailing
// whitespace removed, followed by a line end. A form feed ends the text
// before it as a line of its own and is reported as a page break.
func Plain(src string, tabSize int) []Event {
	var events []Event
	for _, line := range strings.SplitAfter(src, "\n") {
		if line == "" {
			continue
		}
		body, hasNewline := strings.CutSuffix(line, "\n")
		spans := strings.Split(body, "\f")
		for i, span := range spans {
			last := i == len(spans)-1
			if span != "" || (last && hasNewline) {
				span, _ = ExpandTabs(span, 0, tabSize)
				events = append(events,
					Event{Kind: KindText, Text: strings.TrimRightFunc(span, unicode.IsSpace)},
					Event{Kind: KindLineEnd})
			}
			if !last {
				events = append(events, Event{Kind: KindPageBreak})
			}
		}
	}
	return events
}

// ExpandTabs replaces tabs in s by spaces up to the next multiple of size,
// counting columns from col. It returns the column after s.
func ExpandTabs(s string, col, size int) (string, int) {
	if size <= 0 {
		size = DefaultTabSize
	}
	if !strings.ContainsRune(s, '\t') {
		return s, col + utf8.RuneCountInString(s)
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := size - col%size
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String(), col
}
