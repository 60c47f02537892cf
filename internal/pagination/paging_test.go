package pagination

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gompdf/tipdf/internal/render"
	"github.com/gompdf/tipdf/internal/render/rendertest"
)

var letter = PageSize{Width: 612, Height: 792}

func TestCanvas(t *testing.T) {
	m := Margins{Top: 72, Right: 72, Bottom: 72, Left: 72}
	if got := m.CanvasWidth(letter); got != 468 {
		t.Errorf("CanvasWidth = %g, want 468", got)
	}
	if got := m.CanvasHeight(letter); got != 648 {
		t.Errorf("CanvasHeight = %g, want 648", got)
	}
	r := m.Canvas(letter)
	if r.Dx() != 468 || r.Dy() != 648 || r.LLx != 72 || r.LLy != 72 {
		t.Errorf("Canvas = %v", r)
	}

	wide := Margins{Left: 400, Right: 400}
	if got := wide.CanvasWidth(letter); got != -188 {
		t.Errorf("degenerate CanvasWidth = %g, want -188", got)
	}
}

func TestPageSizeValidate(t *testing.T) {
	for _, s := range []PageSize{{0, 10, ""}, {10, -1, ""}, {math.NaN(), 10, ""}} {
		if err := s.Validate(); !errors.Is(err, ErrPageSize) {
			t.Errorf("%v: got %v, want ErrPageSize", s, err)
		}
	}
	if err := PageSizeA4.Validate(); err != nil {
		t.Errorf("A4: %v", err)
	}
}

func TestEnoughSpaceOnPage(t *testing.T) {
	cases := []struct {
		y, h, bottom float64
		want         bool
	}{
		{100, 20, 72, true},
		{92, 20, 72, true}, // boundary is inclusive
		{91.5, 20, 72, false},
		{72, 0, 72, true},
		{50, 0, 72, false},
	}
	for _, c := range cases {
		if got := EnoughSpaceOnPage(c.y, c.h, c.bottom); got != c.want {
			t.Errorf("EnoughSpaceOnPage(%g, %g, %g) = %t, want %t", c.y, c.h, c.bottom, got, c.want)
		}
	}
}

func TestPagingNextPage(t *testing.T) {
	doc := rendertest.New()
	m := Margins{Top: 50, Right: 10, Bottom: 40, Left: 10}
	p, err := NewPaging(doc, letter, m, Style{})
	if err != nil {
		t.Fatal(err)
	}
	if p.PageNr() != 0 || !p.IsOpen() {
		t.Fatalf("fresh paging: page %d open %t", p.PageNr(), p.IsOpen())
	}
	if p.Y() != 742 {
		t.Errorf("Y = %g, want 742", p.Y())
	}

	const n = 7
	for i := 1; i <= n; i++ {
		p.SetY(100)
		if err := p.NextPage(); err != nil {
			t.Fatal(err)
		}
		if p.PageNr() != i {
			t.Errorf("after %d calls PageNr = %d", i, p.PageNr())
		}
		if p.Y() != letter.Height-m.Top {
			t.Errorf("after %d calls Y = %g", i, p.Y())
		}
	}
	if len(doc.Pages) != n+1 {
		t.Errorf("%d pages started, want %d", len(doc.Pages), n+1)
	}
	if err := doc.Err(); err != nil {
		t.Error(err)
	}
}

func TestPagingFinalizeTwice(t *testing.T) {
	doc := rendertest.New()
	p, err := NewPaging(doc, letter, Margins{}, Style{})
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := p.Finalize(); err != nil {
			t.Fatal(err)
		}
	}
	if doc.PageEnds() != 1 || p.PageNr() != 1 {
		t.Errorf("page ends %d, PageNr %d; want 1, 1", doc.PageEnds(), p.PageNr())
	}
	if err := p.NextPage(); !errors.Is(err, ErrFinalized) {
		t.Errorf("NextPage after Finalize: %v", err)
	}
}

func TestPagingEstablishState(t *testing.T) {
	doc := rendertest.New()
	bg := render.Color{R: 0xff, G: 0xee, B: 0xdd}
	style := Style{
		Font:        &rendertest.Font{Name: "Courier"},
		CharSpacing: 0.5,
		TextColor:   render.Color{R: 1, G: 2, B: 3},
		PageColor:   &bg,
	}
	if _, err := NewPaging(doc, letter, Margins{}, style); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"0 font Courier",
		"0 charspacing 0.5",
		"0 textcolor 010203",
		"0 fillcolor ffeedd",
		"0 rect 0 0 612 792",
	}
	if d := cmp.Diff(want, doc.Ops()); d != "" {
		t.Errorf("page setup (-want +got):\n%s", d)
	}
}

func TestPagingInvalidSize(t *testing.T) {
	_, err := NewPaging(rendertest.New(), PageSize{Width: 0, Height: 100}, Margins{}, Style{})
	if !errors.Is(err, ErrPageSize) {
		t.Errorf("got %v, want ErrPageSize", err)
	}
}

func TestPagingConfigure(t *testing.T) {
	doc := rendertest.New()
	p, err := NewPaging(doc, letter, Margins{Top: 10}, Style{})
	if err != nil {
		t.Fatal(err)
	}
	p.Configure(PageSizeA4, Margins{Top: 20, Bottom: 30}, Style{})
	if p.EnoughSpace(p.Y() - 29) {
		t.Error("new bottom margin not applied")
	}
	// the open page keeps its size
	if p.PageSize() != letter || p.TopY() != letter.Height-20 {
		t.Errorf("open page: size %v, TopY %g", p.PageSize(), p.TopY())
	}
	if err := p.NextPage(); err != nil {
		t.Fatal(err)
	}
	last := doc.Pages[len(doc.Pages)-1]
	if last.Width != PageSizeA4.Width || p.Y() != PageSizeA4.Height-20 {
		t.Errorf("page %gx%g, y %g", last.Width, last.Height, p.Y())
	}
	if p.PageSize() != PageSizeA4 {
		t.Errorf("PageSize = %v after page break", p.PageSize())
	}
}

func TestNupPagingPhysicalPages(t *testing.T) {
	for _, power := range []int{0, 1, 2, 3} {
		for _, logical := range []int{1, 2, 3, 4, 5, 8, 9, 17} {
			doc := rendertest.New()
			p, err := NewNupPaging(doc, power, PageSizeA4, Margins{}, Style{})
			if err != nil {
				t.Fatal(err)
			}
			for i := 1; i < logical; i++ {
				if err := p.NextPage(); err != nil {
					t.Fatal(err)
				}
			}
			if err := p.Finalize(); err != nil {
				t.Fatal(err)
			}
			if err := p.Finalize(); err != nil {
				t.Fatal(err)
			}

			n := 1 << power
			want := (logical + n - 1) / n
			if len(doc.Pages) != want || doc.PageEnds() != want || p.PageNr() != want {
				t.Errorf("power %d, %d logical pages: %d started, %d ended, PageNr %d; want %d",
					power, logical, len(doc.Pages), doc.PageEnds(), p.PageNr(), want)
			}
			if p.LogicalPageNr() != logical {
				t.Errorf("power %d: LogicalPageNr = %d, want %d", power, p.LogicalPageNr(), logical)
			}
			if err := doc.Err(); err != nil {
				t.Errorf("power %d, %d logical pages: %v", power, logical, err)
			}
		}
	}
}

func TestNupPagingOps(t *testing.T) {
	doc := rendertest.New()
	size := PageSize{Width: 100, Height: 200}
	p, err := NewNupPaging(doc, 2, size, Margins{Top: 10}, Style{})
	if err != nil {
		t.Fatal(err)
	}
	p.SetY(5)
	if err := p.NextPage(); err != nil {
		t.Fatal(err)
	}
	if p.Y() != 190 {
		t.Errorf("Y after logical page break = %g, want 190", p.Y())
	}
	if err := p.Finalize(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"0 charspacing 0",
		"0 textcolor 000000",
		"0 save",
		"0 transform 0.5 0 0 0.5 0 0",
		"0 restore",
		"0 save",
		"0 restore",
		"0 charspacing 0",
		"0 textcolor 000000",
		"0 save",
		"0 transform 0.5 0 0 0.5 50 0",
		"0 restore",
	}
	if d := cmp.Diff(want, doc.Ops()); d != "" {
		t.Errorf("ops (-want +got):\n%s", d)
	}
}

func TestNupPagingFixedPageSize(t *testing.T) {
	doc := rendertest.New()
	p, err := NewNupPaging(doc, 1, PageSizeA4, Margins{}, Style{})
	if err != nil {
		t.Fatal(err)
	}
	p.Configure(letter, Margins{Top: 5}, Style{})
	if p.TopY() != PageSizeA4.Height-5 {
		t.Errorf("TopY = %g", p.TopY())
	}
}

func TestNupPagingStyleOnEachTile(t *testing.T) {
	doc := rendertest.New()
	courier := &rendertest.Font{Name: "Courier"}
	p, err := NewNupPaging(doc, 1, PageSizeA4, Margins{}, Style{Font: courier})
	if err != nil {
		t.Fatal(err)
	}
	red := render.Color{R: 0xff}
	p.Configure(PageSizeA4, Margins{}, Style{Font: &rendertest.Font{Name: "Helvetica"}, TextColor: red})
	if err := p.NextPage(); err != nil {
		t.Fatal(err)
	}
	if err := p.Finalize(); err != nil {
		t.Fatal(err)
	}

	ops := doc.Ops()
	var after []string
	for i, op := range ops {
		if op == "0 restore" && i+3 < len(ops) && ops[i+1] == "0 font Helvetica" {
			after = ops[i+1 : i+4]
			break
		}
	}
	want := []string{"0 font Helvetica", "0 charspacing 0", "0 textcolor ff0000"}
	if d := cmp.Diff(want, after); d != "" {
		t.Errorf("style after tile restore (-want +got):\n%s\nall ops: %v", d, ops)
	}
}
