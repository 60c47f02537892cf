// Command tipdf converts text files and images into a PDF document.
//
// Usage:
//
//	tipdf [options] input [[options] input ...]
//
// Options given before an input apply to it and to all later inputs. An
// input is a file, an http(s) or data URL, or "-" for standard input.
// Arguments of the form @file are replaced by the words in file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/gompdf/tipdf/pkg/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cmdline holds the settings that are not per input.
type cmdline struct {
	output  string
	verbose bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	args, err := expandArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "tipdf: %v\n", err)
		return 2
	}
	inputs, cl, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "tipdf: %v\n", err)
		return 2
	}

	level := slog.LevelWarn
	if cl.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	converter := api.New().WithLogger(logger).SetStdin(stdin)

	if cl.output == "-" {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(stderr, "tipdf: refusing to write PDF to a terminal, use -o FILE")
			return 2
		}
		err = converter.ConvertInputs(ctx, inputs, stdout)
	} else {
		err = converter.ConvertToFile(ctx, inputs, cl.output)
	}
	if err != nil {
		fmt.Fprintf(stderr, "tipdf: %v\n", err)
		return 1
	}
	logger.Debug("wrote", "output", cl.output, "inputs", len(inputs))
	return 0
}

// parseArgs splits the command line into inputs. The flag variables keep
// their values from one input to the next.
func parseArgs(args []string, stderr io.Writer) ([]api.Input, cmdline, error) {
	opts := api.DefaultOptions()
	cl := cmdline{output: "-"}
	fs := newFlagSet(&opts, &cl)
	fs.SetOutput(stderr)

	var inputs []api.Input
	for {
		if err := fs.Parse(args); err != nil {
			return nil, cl, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			if len(args) > 0 && len(inputs) > 0 {
				return nil, cl, errors.New("options after the last input")
			}
			break
		}
		inputs = append(inputs, api.Input{Name: rest[0], Options: opts})
		args = rest[1:]
		if len(args) == 0 {
			break
		}
	}
	if len(inputs) == 0 {
		return nil, cl, errors.New("no input, run with -help")
	}
	return inputs, cl, nil
}

func newFlagSet(o *api.Options, cl *cmdline) *flag.FlagSet {
	fs := flag.NewFlagSet("tipdf", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: tipdf [options] input [[options] input ...]")
		fs.PrintDefaults()
	}

	// common input options
	fs.Func("page", "page size: A4, Letter, Legal, A3, A5 or width,height (default A4)", func(s string) error {
		w, h, err := api.ParsePageSize(s)
		o.PageWidth, o.PageHeight = w, h
		return err
	})
	fs.Func("margins", "page margins as top,right,bottom,left (default 72,68,72,68)", func(s string) error {
		var err error
		o.MarginTop, o.MarginRight, o.MarginBottom, o.MarginLeft, err = api.ParseMargins(s)
		return err
	})
	fs.StringVar(&o.PageColor, "page-color", o.PageColor, "page background `color`")
	fs.StringVar(&o.Bookmark, "bookmark", o.Bookmark, "bookmark the input; %basename, %path and %page are replaced")
	fs.Func("separator", "vertical space after the input, or 'break' for a page break (default 36)", func(s string) error {
		var err error
		o.Separator, o.PageBreak, err = api.ParseSeparator(s)
		return err
	})
	fs.BoolFunc("t", "treat inputs of unknown kind as text (default)", func(string) error {
		o.IsText = true
		return nil
	})
	fs.BoolFunc("i", "treat inputs of unknown kind as images", func(string) error {
		o.IsText = false
		return nil
	})

	// text input options
	fs.StringVar(&o.Font, "font", o.Font, "TrueType font file or standard font name")
	fs.Float64Var(&o.FontSize, "font-size", o.FontSize, "font size in points")
	fs.StringVar(&o.Encoding, "encoding", o.Encoding, "encoding of text inputs")
	fs.Float64Var(&o.CharSpacing, "char-spacing", o.CharSpacing, "extra space between characters")
	fs.Float64Var(&o.LineSpacing, "line-spacing", o.LineSpacing, "line spacing `factor`")
	fs.IntVar(&o.TabSize, "tab-size", o.TabSize, "distance between tab stops")
	fs.StringVar(&o.TextColor, "text-color", o.TextColor, "text `color` as rrggbb")
	fs.StringVar(&o.Zebra, "zebra", o.Zebra, "comma separated `list` of line background colors")
	fs.BoolVar(&o.Highlight, "highlight", o.Highlight, "highlight the syntax of text inputs")
	fs.BoolFunc("no-highlight", "turn off -highlight", func(string) error {
		o.Highlight = false
		return nil
	})
	fs.StringVar(&o.HighlightStyle, "highlight-style", o.HighlightStyle, "highlighting style")

	// image input options
	fs.StringVar(&o.ImageAlign, "image-align", o.ImageAlign, "image alignment: left, center or right")
	fs.BoolVar(&o.ImageFitWider, "image-fit-wide", o.ImageFitWider, "scale images wider than the page down")
	fs.BoolFunc("no-image-fit-wide", "turn off -image-fit-wide", func(string) error {
		o.ImageFitWider = false
		return nil
	})
	fs.Float64Var(&o.ImageDPI, "image-dpi", o.ImageDPI, "use `dpi` instead of the image resolution")

	// document level options
	fs.StringVar(&cl.output, "o", cl.output, "output `file`, - for standard output")
	fs.StringVar(&o.Title, "doc-name", o.Title, "document title")
	fs.StringVar(&o.InitialDest, "initial-dest", o.InitialDest, "initial view: fit, fith, fitv or a zoom factor")
	fs.StringVar(&o.PageLayout, "page-layout", o.PageLayout, "page layout: single, cont or cont-facing")
	fs.StringVar(&o.OwnerPassword, "owner-pwd", o.OwnerPassword, "owner `password`")
	fs.StringVar(&o.UserPassword, "user-pwd", o.UserPassword, "user `password`")
	fs.StringVar(&o.UserPermissions, "user-perm", o.UserPermissions, "denied permissions: no_print, no_modify, no_copy")
	fs.IntVar(&o.Nup, "n-up", o.Nup, "put 2^`N` pages on each sheet")
	fs.BoolVar(&o.Compress, "compress", o.Compress, "compress page content")
	fs.BoolVar(&cl.verbose, "v", cl.verbose, "log progress to standard error")
	return fs
}

// expandArgs replaces @file arguments by the whitespace separated words of
// file.
func expandArgs(args []string) ([]string, error) {
	var res []string
	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "@")
		if !ok || name == "" {
			res = append(res, arg)
			continue
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", arg, err)
		}
		res = append(res, strings.Fields(string(data))...)
	}
	return res, nil
}
