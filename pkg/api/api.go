// Package api converts text files and images into a paginated PDF
// document.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gompdf/tipdf/internal/layout"
	"github.com/gompdf/tipdf/internal/render/pdf"
	"github.com/gompdf/tipdf/internal/res"
)

// ErrNoInput is returned when a conversion is started without inputs.
var ErrNoInput = errors.New("no input")

// Input is one file, URL or "-" (standard input) together with the
// options it is laid out with.
type Input struct {
	Name    string
	Options Options
}

// Converter is the main API for converting inputs to PDF
type Converter struct {
	options Options
	loader  *res.Loader
	logger  *slog.Logger
}

// New creates a converter with default options
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a converter whose Convert method uses options for
// every input.
func NewWithOptions(options Options) *Converter {
	return &Converter{
		options: options,
		loader:  res.NewLoader(),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// Options returns the options used by Convert.
func (c *Converter) Options() Options { return c.options }

// WithOption returns a new converter with the specified option set
func (c *Converter) WithOption(option Option) *Converter {
	nc := *c
	nc.options = c.options.Apply(option)
	return &nc
}

// WithLogger returns a new converter that logs progress to l.
func (c *Converter) WithLogger(l *slog.Logger) *Converter {
	nc := *c
	nc.logger = l
	return &nc
}

// AddResourcePath adds a directory to search for inputs that do not exist
// under their own name.
func (c *Converter) AddResourcePath(path string) *Converter {
	c.loader.AddSearchPath(path)
	return c
}

// SetHTTPClient sets the client used for http and https inputs.
func (c *Converter) SetHTTPClient(client *http.Client) *Converter {
	c.loader.SetHTTPClient(client)
	return c
}

// SetStdin sets the reader used for the input "-".
func (c *Converter) SetStdin(r io.Reader) *Converter {
	c.loader.Stdin = r
	return c
}

// Convert lays out the named inputs with the converter's options and
// writes the document to output.
func (c *Converter) Convert(ctx context.Context, output io.Writer, names ...string) error {
	inputs := make([]Input, len(names))
	for i, name := range names {
		inputs[i] = Input{Name: name, Options: c.options}
	}
	return c.ConvertInputs(ctx, inputs, output)
}

// ConvertInputs lays out each input with its own options and writes the
// document to output. The page size under n-up and all document level
// options come from the first input. The first error aborts the
// conversion; output may then hold a partial document.
func (c *Converter) ConvertInputs(ctx context.Context, inputs []Input, output io.Writer) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	first := inputs[0].Options
	docOpts, err := first.documentOptions()
	if err != nil {
		return err
	}
	doc, err := pdf.NewDocument(output, docOpts)
	if err != nil {
		return err
	}

	var lc *layout.Context
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		settings, err := in.Options.settings()
		if err != nil {
			return fmt.Errorf("%s: %w", in.Name, err)
		}
		r, err := c.loader.Load(ctx, in.Name)
		if err != nil {
			return err
		}

		if lc == nil {
			if lc, err = layout.NewContext(doc, settings); err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
		}
		if err := lc.Update(settings, in.Name); err != nil {
			return fmt.Errorf("%s: %w", in.Name, err)
		}

		isText := r.IsText(in.Options.IsText)
		c.logger.Debug("input",
			"name", in.Name,
			"kind", r.Kind,
			"text", isText,
			"bytes", len(r.Data),
			"page", lc.PageNr()+1)
		if isText {
			err = lc.Text(r.Data)
		} else {
			err = lc.Image(r.Data)
		}
		if err != nil {
			return err
		}

		if i < len(inputs)-1 {
			if err := lc.InsertSeparator(); err != nil {
				return err
			}
		}
	}

	if err := lc.Finalize(); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	c.logger.Debug("done", "pages", lc.PageNr())
	return nil
}

// ConvertToFile converts inputs and writes the document to outputPath,
// creating missing directories. The file is removed if the conversion
// fails.
func (c *Converter) ConvertToFile(ctx context.Context, inputs []Input, outputPath string) (err error) {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outputPath)
		}
	}()
	return c.ConvertInputs(ctx, inputs, f)
}

// ConvertBytes converts inputs and returns the PDF bytes
func (c *Converter) ConvertBytes(ctx context.Context, inputs []Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.ConvertInputs(ctx, inputs, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
