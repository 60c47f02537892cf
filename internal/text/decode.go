package text

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is assumed for text inputs unless configured otherwise.
const DefaultEncoding = "utf-8"

// ValidateEncoding reports whether label names a known encoding.
func ValidateEncoding(label string) error {
	if label == "" {
		return nil
	}
	if _, err := htmlindex.Get(label); err != nil {
		return fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return nil
}

// Decode converts data in the named encoding to UTF-8. A leading UTF-8
// byte order mark is removed.
func Decode(data []byte, label string) (string, error) {
	if label == "" {
		label = DefaultEncoding
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s input: %w", label, err)
	}
	return strings.TrimPrefix(string(out), "\ufeff"), nil
}
