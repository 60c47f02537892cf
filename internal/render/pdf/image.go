package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	// Register decoders for formats fpdf cannot embed directly
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"codeberg.org/go-pdf/fpdf"
	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/gompdf/tipdf/internal/render"
)

// svgScale is the oversampling factor for rasterized SVG images.
const svgScale = 2

// Image is an image registered with the document
type Image struct {
	key string
	typ string

	w, h       int
	dpiX, dpiY float64
}

func (im *Image) Width() int { return im.w }

func (im *Image) Height() int { return im.h }

func (im *Image) DPIX() float64 { return im.dpiX }

func (im *Image) DPIY() float64 { return im.dpiY }

// size returns the physical size in points.
func (im *Image) size() (w, h float64) {
	return float64(im.w) / im.dpiX * 72, float64(im.h) / im.dpiY * 72
}

// LoadImage registers data as an image. JPEG, PNG and GIF data is embedded
// as is. SVG is rasterized, and everything the image package can decode is
// converted to PNG.
func (d *Document) LoadImage(name string, data []byte, dpi float64) (render.Image, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, err
	}

	mime := mimetype.Detect(data)
	var im *Image
	switch {
	case mime.Is("image/jpeg"):
		im = d.registerNative("jpg", data)
	case mime.Is("image/png"):
		im = d.registerNative("png", data)
	case mime.Is("image/gif"):
		im = d.registerNative("gif", data)
	}
	if im == nil {
		var (
			converted []byte
			scale     float64 = 1
			err       error
		)
		if mime.Is("image/svg+xml") {
			converted, err = rasterizeSVG(data)
			scale = svgScale
		} else {
			converted, err = convertToPNG(data)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %v", render.ErrUnsupportedImage, name, mime, err)
		}
		if im = d.registerNative("png", converted); im == nil {
			return nil, fmt.Errorf("%w: %s (%s)", render.ErrUnsupportedImage, name, mime)
		}
		// rasterized SVGs keep the physical size of their view box
		im.dpiX, im.dpiY = im.dpiX*scale, im.dpiY*scale
	}

	if dpi > 0 {
		im.dpiX, im.dpiY = dpi, dpi
		d.pdf.GetImageInfo(im.key).SetDpi(dpi)
	}
	return im, nil
}

// registerNative hands data to fpdf. It returns nil if fpdf rejects the
// data; the document error is cleared in that case.
func (d *Document) registerNative(typ string, data []byte) *Image {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	d.imageCount++
	key := fmt.Sprintf("img%d", d.imageCount)
	info := d.pdf.RegisterImageOptionsReader(key, fpdf.ImageOptions{ImageType: typ, ReadDpi: true}, bytes.NewReader(data))
	if d.pdf.Error() != nil || info == nil {
		d.pdf.ClearError()
		return nil
	}

	// fpdf does not expose the resolution it read, only the size it
	// derived from it
	dpiX, dpiY := 72.0, 72.0
	if w, h := info.Extent(); w > 0 && h > 0 {
		dpiX = float64(cfg.Width) * 72 / w
		dpiY = float64(cfg.Height) * 72 / h
	}
	return &Image{
		key:  key,
		typ:  typ,
		w:    cfg.Width,
		h:    cfg.Height,
		dpiX: roundDPI(dpiX),
		dpiY: roundDPI(dpiY),
	}
}

func roundDPI(dpi float64) float64 {
	return math.Round(dpi*1000) / 1000
}

func rasterizeSVG(data []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w := int(math.Ceil(icon.ViewBox.W * svgScale))
	h := int(math.Ceil(icon.ViewBox.H * svgScale))
	if w <= 0 || h <= 0 {
		return nil, errors.New("svg without view box")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func convertToPNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
