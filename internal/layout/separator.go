package layout

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
)

// InsertSeparator advances the cursor between two inputs. A gap that does
// not fit starts a new page; a negative gap moves the cursor up to at most
// the top margin.
func (c *Context) InsertSeparator() error {
	sep := c.settings.Separator
	switch {
	case sep.PageBreak:
		return c.pager.NextPage()
	case sep.Gap > 0:
		if !c.pager.EnoughSpace(sep.Gap) {
			return c.pager.NextPage()
		}
		c.pager.SetY(c.pager.Y() - sep.Gap)
	default:
		c.pager.SetY(math.Min(c.pager.Y()-sep.Gap, c.pager.TopY()))
	}
	return nil
}

// ExpandBookmark substitutes %basename, %path and %page (1-based) in tmpl.
func ExpandBookmark(tmpl, inputName string, pageNr int) string {
	r := strings.NewReplacer(
		"%basename", filepath.Base(inputName),
		"%path", inputName,
		"%page", strconv.Itoa(pageNr+1),
	)
	return r.Replace(tmpl)
}

type transformer interface {
	CurrentTransform() matrix.Matrix
}

// placeBookmark adds the bookmark of the current input at the cursor. Only
// the first call per input has an effect.
func (c *Context) placeBookmark() {
	if c.settings.Bookmark == "" || c.bookmarked {
		return
	}
	c.bookmarked = true
	title := ExpandBookmark(c.settings.Bookmark, c.inputName, c.pager.PageNr())
	top := c.pager.Y()
	if t, ok := c.pager.(transformer); ok {
		m := t.CurrentTransform()
		top = m[1]*c.settings.Margins.Left + m[3]*top + m[5]
	}
	c.doc.Bookmark(title, top)
}
