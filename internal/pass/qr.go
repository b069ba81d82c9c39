package pass

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

type QROptions struct {
	Size       int
	Foreground color.Color
	Background color.Color
	Level      qrcode.RecoveryLevel
}

// DefaultQR is black on white, level H, as printed on every pass.
func DefaultQR(size int) QROptions {
	return QROptions{
		Size:       size,
		Foreground: color.Black,
		Background: color.White,
		Level:      qrcode.Highest,
	}
}

func newQR(payload string, opts QROptions) (*qrcode.QRCode, error) {
	q, err := qrcode.New(payload, opts.Level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = opts.Foreground
	q.BackgroundColor = opts.Background
	return q, nil
}

func QRImage(payload string, opts QROptions) (image.Image, error) {
	q, err := newQR(payload, opts)
	if err != nil {
		return nil, err
	}
	return q.Image(opts.Size), nil
}

// QRDataURI renders the symbol as a PNG data URI for the HTML pass.
func QRDataURI(payload string, opts QROptions) (template.URL, error) {
	q, err := newQR(payload, opts)
	if err != nil {
		return "", err
	}
	png, err := q.PNG(opts.Size)
	if err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
