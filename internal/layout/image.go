package layout

import (
	"seehuhn.de/go/geom/matrix"

	"github.com/gompdf/tipdf/internal/render"
)

// imageSize returns the physical size of img in points.
func imageSize(img render.Image) (w, h float64) {
	return float64(img.Width()) / dpiOrDefault(img.DPIX()) * 72,
		float64(img.Height()) / dpiOrDefault(img.DPIY()) * 72
}

func dpiOrDefault(dpi float64) float64 {
	if dpi > 0 {
		return dpi
	}
	return 72
}

// placeImage draws img below the cursor. Images wider than the canvas are
// scaled down to the canvas width when fit-wider is on; all others are
// drawn at their physical size with the configured alignment.
func (c *Context) placeImage(img render.Image) error {
	w, h := imageSize(img)
	cw := c.canvasWidth()
	if c.settings.ImageFitWider && w > cw {
		return c.fitWiderImage(img, w, h)
	}

	if !c.pager.EnoughSpace(h) {
		if err := c.pager.NextPage(); err != nil {
			return err
		}
	}
	offset := c.settings.ImageAlign.offset(cw, w)
	c.placeBookmark()
	y := c.pager.Y() - h
	c.pager.SetY(y)
	c.doc.Canvas().Image(img, c.settings.Margins.Left+offset, y)
	return nil
}

func (c *Context) fitWiderImage(img render.Image, w, h float64) error {
	scale := c.canvasWidth() / w
	if !c.pager.EnoughSpace(scale * h) {
		if err := c.pager.NextPage(); err != nil {
			return err
		}
	}
	canvas := c.doc.Canvas()
	canvas.StateSave()
	c.placeBookmark()
	y := c.pager.Y() - scale*h
	c.pager.SetY(y)
	canvas.Transform(matrix.Scale(scale, scale).Mul(matrix.Translate(c.settings.Margins.Left, y)))
	canvas.Image(img, 0, 0)
	canvas.StateRestore()
	return nil
}
