package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned when an input does not exist.
var ErrNotFound = errors.New("resource not found")

// Stdin is the input name that stands for standard input.
const Stdin = "-"

// Kind tells how an input is laid out
type Kind int

const (
	// KindUnknown means neither the name nor the content decide.
	KindUnknown Kind = iota
	// KindText is laid out line by line.
	KindText
	// KindImage is placed as a single image.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Resource represents a loaded input
type Resource struct {
	Name     string
	Data     []byte
	MimeType string
	Kind     Kind
}

// IsText reports whether the resource is laid out as text. Resources of
// unknown kind are text if textHint is set.
func (r *Resource) IsText(textHint bool) bool {
	switch r.Kind {
	case KindText:
		return true
	case KindImage:
		return false
	}
	return textHint
}

// Loader reads inputs from standard input, local files, http(s) URLs and
// data URLs.
type Loader struct {
	// Stdin is read for the input named "-".
	Stdin io.Reader

	// Resource search paths
	searchPaths []string

	// HTTP client for remote resources
	client *http.Client
}

// NewLoader creates a new resource loader
func NewLoader() *Loader {
	return &Loader{
		Stdin:  os.Stdin,
		client: &http.Client{},
	}
}

// SetHTTPClient replaces the client used for remote inputs.
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local files that do not
// exist under their own name.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

var (
	reIsURL   = regexp.MustCompile(`(?i)^https?://\S+$`)
	reIsImage = regexp.MustCompile(`(?i)\.(?:png|jpe?g|bmp|gif|tiff?|webp|svg)$`)
)

// Load reads the named input completely.
func (l *Loader) Load(ctx context.Context, name string) (*Resource, error) {
	var (
		res *Resource
		err error
	)
	switch {
	case name == Stdin:
		res, err = l.loadStdin()
	case strings.HasPrefix(name, "data:"):
		res, err = parseDataURL(name)
	case reIsURL.MatchString(name):
		res, err = l.loadRemote(ctx, name)
	default:
		res, err = l.loadLocal(name)
	}
	if err != nil {
		return nil, err
	}
	res.Kind = classify(res.Name, res.MimeType, res.Data)
	return res, nil
}

func (l *Loader) loadStdin() (*Resource, error) {
	if l.Stdin == nil {
		return nil, fmt.Errorf("%w: no standard input", ErrNotFound)
	}
	data, err := io.ReadAll(l.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}
	return &Resource{Name: Stdin, Data: data}, nil
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := ""
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}
	return &Resource{Name: "data", Data: data, MimeType: mime}, nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, urlStr)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	name := urlStr
	if u, err := url.Parse(urlStr); err == nil && u.Path != "" {
		name = u.Path
	}
	return &Resource{
		Name:     name,
		Data:     data,
		MimeType: resp.Header.Get("Content-Type"),
	}, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(path)
	}
	if err != nil {
		return nil, err
	}
	return &Resource{Name: path, Data: data}, nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)
	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return &Resource{Name: path, Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// classify decides between text and image by file name first, then by the
// declared MIME type, then by content.
func classify(name, mimeType string, data []byte) Kind {
	if reIsImage.MatchString(name) {
		return KindImage
	}
	if k := kindOfMime(mimeType); k != KindUnknown {
		return k
	}
	if len(data) == 0 {
		return KindUnknown
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if k := kindOfMime(m.String()); k != KindUnknown {
			return k
		}
	}
	return KindUnknown
}

func kindOfMime(mimeType string) Kind {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case strings.HasPrefix(mimeType, "text/"):
		return KindText
	}
	return KindUnknown
}
