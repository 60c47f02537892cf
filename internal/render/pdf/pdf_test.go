package pdf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/geom/matrix"

	"github.com/gompdf/tipdf/internal/render"
)

func newDoc(t *testing.T, opts Options) (*Document, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	doc, err := NewDocument(&buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	return doc, &buf
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDocument(t *testing.T) {
	doc, buf := newDoc(t, Options{Title: "listing"})
	font, err := doc.LoadFont(render.FontSpec{Name: "Courier", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	img, err := doc.LoadImage("red.png", testPNG(t, 20, 10), 0)
	if err != nil {
		t.Fatal(err)
	}

	for page := 0; page < 2; page++ {
		if err := doc.PageStart(612, 792); err != nil {
			t.Fatal(err)
		}
		c := doc.Canvas()
		c.SetFont(font)
		c.SetCharSpacing(0.5)
		doc.Bookmark("page", 720)

		c.StateSave()
		c.SetFillColor(render.Color{R: 200, G: 200, B: 200})
		c.Rectangle(72, 700, 468, 12)
		c.StateRestore()

		c.TextStart(72, 710)
		c.SetTextColor(render.Color{B: 255})
		c.Text("café ")
		c.Text("au lait")
		c.TextEnd()

		c.StateSave()
		c.Transform(matrix.Scale(0.5, 0.5).Mul(matrix.Translate(72, 400)))
		c.Image(img, 0, 0)
		c.StateRestore()

		if err := doc.PageEnd(); err != nil {
			t.Fatal(err)
		}
	}
	if err := doc.Finalize(); err != nil {
		t.Fatal(err)
	}
	// a second call is a no-op
	if err := doc.Finalize(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Errorf("output starts with %q", out[:min(len(out), 8)])
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "%%EOF") {
		t.Error("output lacks trailer")
	}
	for _, want := range []string{"/Outlines", "/Count 2", "/Title"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s", want)
		}
	}
}

func TestPageErrors(t *testing.T) {
	doc, _ := newDoc(t, Options{})
	if err := doc.PageEnd(); err == nil {
		t.Error("PageEnd without page should fail")
	}
	if err := doc.PageStart(100, 100); err != nil {
		t.Fatal(err)
	}
	if err := doc.PageStart(100, 100); err == nil {
		t.Error("nested PageStart should fail")
	}
	doc.StateSave()
	if err := doc.PageEnd(); err == nil {
		t.Error("PageEnd with unrestored state should fail")
	}
	doc.StateRestore()
	if err := doc.PageEnd(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := doc.PageStart(100, 100); err == nil {
		t.Error("PageStart after Finalize should fail")
	}
}

func TestTextOutsideRun(t *testing.T) {
	doc, _ := newDoc(t, Options{})
	if err := doc.PageStart(100, 100); err != nil {
		t.Fatal(err)
	}
	doc.Text("stray")
	if doc.Err() == nil {
		t.Error("expected error for text outside of a run")
	}
}

func TestStateRestoreWithoutSave(t *testing.T) {
	doc, _ := newDoc(t, Options{})
	if err := doc.PageStart(100, 100); err != nil {
		t.Fatal(err)
	}
	doc.StateRestore()
	if doc.Err() == nil {
		t.Error("expected error for unbalanced restore")
	}
}

func TestStateRestoreReassertsFont(t *testing.T) {
	doc, _ := newDoc(t, Options{})
	courier, err := doc.LoadFont(render.FontSpec{Name: "Courier", Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	times, err := doc.LoadFont(render.FontSpec{Name: "Times-Bold", Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.PageStart(200, 200); err != nil {
		t.Fatal(err)
	}
	doc.SetFont(courier)
	doc.SetFillColor(render.Color{R: 1})
	doc.StateSave()
	doc.SetFont(times)
	doc.SetFillColor(render.Color{G: 2})
	doc.StateRestore()

	if doc.state.font != courier {
		t.Error("font not restored")
	}
	got := []any{doc.state.fill, doc.pdf.GetFontFamily(), doc.pdf.GetFontStyle()}
	want := []any{render.Color{R: 1}, "courier", ""}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("state after restore (-want +got):\n%s", d)
	}
}

func TestCoreFonts(t *testing.T) {
	doc, _ := newDoc(t, Options{})
	cases := []struct {
		name         string
		height, ymin float64
	}{
		{"Courier", 7.86, -2.5},
		{"courier-boldoblique", 7.86, -2.5},
		{"Helvetica-Bold", 9.25, -2.28},
		{"Times-Roman", 9, -2.18},
	}
	for _, c := range cases {
		f, err := doc.LoadFont(render.FontSpec{Name: c.name, Size: 10})
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if !approx(f.Height(), c.height) || !approx(f.BBoxYMin(), c.ymin) {
			t.Errorf("%s: height %g ymin %g, want %g %g", c.name, f.Height(), f.BBoxYMin(), c.height, c.ymin)
		}
	}

	if _, err := doc.LoadFont(render.FontSpec{Name: "NoSuchFont", Size: 10}); err == nil {
		t.Error("expected error for unknown font")
	}
	if _, err := doc.LoadFont(render.FontSpec{Name: "Courier", Size: 0}); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestTrueTypeFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	doc, buf := newDoc(t, Options{})
	f, err := doc.LoadFont(render.FontSpec{Name: path, Size: 12})
	if err != nil {
		t.Fatal(err)
	}
	if !(f.Height() > 0 && f.BBoxYMin() < 0) {
		t.Errorf("implausible metrics: height %g ymin %g", f.Height(), f.BBoxYMin())
	}
	if err := doc.PageStart(300, 300); err != nil {
		t.Fatal(err)
	}
	doc.SetFont(f)
	doc.TextStart(10, 280)
	doc.Text("Grüße, κόσμε")
	doc.TextEnd()
	if err := doc.PageEnd(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/FontFile2")) {
		t.Error("TrueType font not embedded")
	}

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, _ = newDoc(t, Options{})
	if _, err := doc.LoadFont(render.FontSpec{Name: bad, Size: 12}); err == nil {
		t.Error("expected error for invalid font file")
	}
}

func TestLoadImage(t *testing.T) {
	var bmpData bytes.Buffer
	if err := bmp.Encode(&bmpData, image.NewGray(image.Rect(0, 0, 30, 15))); err != nil {
		t.Fatal(err)
	}
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20"><rect width="40" height="20" fill="red"/></svg>`

	type result struct {
		Typ        string
		W, H       int
		DPIX, DPIY float64
	}
	cases := []struct {
		name string
		data []byte
		dpi  float64
		want result
	}{
		{"a.png", testPNG(t, 20, 10), 0, result{"png", 20, 10, 72, 72}},
		{"b.png", testPNG(t, 20, 10), 144, result{"png", 20, 10, 144, 144}},
		{"c.bmp", bmpData.Bytes(), 0, result{"png", 30, 15, 72, 72}},
		{"d.svg", []byte(svg), 0, result{"png", 80, 40, 144, 144}},
	}
	doc, _ := newDoc(t, Options{})
	for _, c := range cases {
		img, err := doc.LoadImage(c.name, c.data, c.dpi)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		im := img.(*Image)
		got := result{im.typ, im.Width(), im.Height(), im.DPIX(), im.DPIY()}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.name, d)
		}
	}

	if _, err := doc.LoadImage("junk", []byte("definitely not an image"), 0); !errors.Is(err, render.ErrUnsupportedImage) {
		t.Errorf("got %v, want ErrUnsupportedImage", err)
	}
	// a rejected image must not poison the document
	if err := doc.Err(); err != nil {
		t.Errorf("document error after rejected image: %v", err)
	}
}

func TestImageSize(t *testing.T) {
	im := &Image{w: 300, h: 150, dpiX: 150, dpiY: 75}
	w, h := im.size()
	if !approx(w, 144) || !approx(h, 144) {
		t.Errorf("size %g x %g, want 144 x 144", w, h)
	}
}

func TestProtection(t *testing.T) {
	doc, buf := newDoc(t, Options{OwnerPassword: "owner", Deny: PermCopy | PermPrint})
	if err := doc.PageStart(100, 100); err != nil {
		t.Fatal(err)
	}
	if err := doc.PageEnd(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Encrypt")) {
		t.Error("protected document is not encrypted")
	}
}

func TestOptions(t *testing.T) {
	if (Options{}).protected() {
		t.Error("empty options should not be protected")
	}
	all := byte(0x04 | 0x08 | 0x10 | 0x20)
	cases := []struct {
		deny Permission
		want byte
	}{
		{0, all},
		{PermPrint, all &^ 0x04},
		{PermModify, all &^ (0x08 | 0x20)},
		{PermCopy, all &^ 0x10},
	}
	for _, c := range cases {
		if got := (Options{Deny: c.deny}).protectionFlags(); got != c.want {
			t.Errorf("deny %d: flags %#x, want %#x", c.deny, got, c.want)
		}
	}

	zooms := map[InitialDest]string{
		DestDefault: "default",
		DestFit:     "fullpage",
		DestFitH:    "fullwidth",
		DestFitV:    "fullpage",
		DestReal:    "real",
	}
	for d, want := range zooms {
		if got := d.zoom(); got != want {
			t.Errorf("zoom(%d) = %q, want %q", d, got, want)
		}
	}
	if got := LayoutContinuousFacing.mode(); got != "two" {
		t.Errorf("mode = %q", got)
	}
}
