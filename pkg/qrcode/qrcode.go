// Package qrcode renders text into PNG encoded QR codes
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

var ErrNoContent = errors.New("qr code content is required")

type Options struct {
	// Pixels per QR module
	BoxSize int
	// Quiet zone around the code, in modules
	Border int
	Level  qr.ErrorCorrectionLevel
}

var DefaultOptions = Options{
	BoxSize: 10,
	Border:  4,
	Level:   qr.L,
}

// PNG encodes content into a black on white QR code and returns the PNG bytes
func PNG(content string) ([]byte, error) {
	return PNGWithOptions(content, DefaultOptions)
}

func PNGWithOptions(content string, o Options) ([]byte, error) {
	if content == "" {
		return nil, ErrNoContent
	}

	if o.BoxSize <= 0 {
		o.BoxSize = DefaultOptions.BoxSize
	}

	code, err := qr.Encode(content, o.Level, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code, %w", err)
	}

	modules := code.Bounds().Dx()
	size := modules * o.BoxSize

	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to scale qr code, %w", err)
	}

	margin := o.Border * o.BoxSize
	canvas := image.NewGray(image.Rect(0, 0, size+2*margin, size+2*margin))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(margin, margin, margin+size, margin+size), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode png, %w", err)
	}

	return buf.Bytes(), nil
}
