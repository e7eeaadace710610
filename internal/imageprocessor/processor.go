package imageprocessor

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Processor normalizes uploaded photos before they reach storage.
// Oversized JPEG and PNG images are scaled down to fit the configured
// bound; anything else passes through untouched.
type Processor struct {
	maxDim  int
	quality int
}

func New(maxDim, quality int) *Processor {
	if maxDim <= 0 {
		maxDim = 1600
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{maxDim: maxDim, quality: quality}
}

// Normalize returns the image to store. Inputs that do not decode as
// JPEG or PNG are returned as-is, so callers can treat every upload
// the same way.
func (p *Processor) Normalize(r io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return bytes.NewReader(raw), nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= p.maxDim && bounds.Dy() <= p.maxDim {
		return bytes.NewReader(raw), nil
	}

	scaled := p.scaleToFit(img)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: p.quality})
	}
	if err != nil {
		return nil, err
	}
	return &buf, nil
}

func (p *Processor) scaleToFit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w >= h {
		h = h * p.maxDim / w
		w = p.maxDim
	} else {
		w = w * p.maxDim / h
		h = p.maxDim
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
