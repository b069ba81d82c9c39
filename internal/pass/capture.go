package pass

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Capturer turns a pass view into a PNG raster.
type Capturer interface {
	Capture(ctx context.Context, v View, page Page, opts CaptureOptions) ([]byte, error)
}

// baseWidth is the on-screen pass width in CSS pixels.
const baseWidth = 380

var loadFonts = sync.OnceValues(func() (fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fonts{}, err
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fonts{}, err
	}
	return fonts{regular: regular, bold: bold}, nil
})

type fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// NativeCapturer draws the pass layout directly, without a browser.
type NativeCapturer struct{}

func NewNativeCapturer() *NativeCapturer { return &NativeCapturer{} }

func (NativeCapturer) Capture(ctx context.Context, v View, page Page, opts CaptureOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(baseWidth * scale)
	h := int(float64(w) * page.Height / page.Width)
	px := func(u float64) int { return int(u * scale) }

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), hexColor(opts.Background, color.White))

	c := &canvas{img: img, fonts: f, scale: scale, width: w}

	headerH := h * 20 / 100
	fill(img, image.Rect(0, 0, w, headerH), hexColor(v.Theme.Header, color.White))
	headerText := hexColor(v.Theme.HeaderText, color.Black)
	c.text(v.Organization, f.bold, 9, headerText, h*6/100)
	c.text(v.Event, f.bold, 26, headerText, h*13/100)
	c.text(v.Tagline, f.regular, 10, headerText, h*18/100)

	footerH := h * 7 / 100
	fill(img, image.Rect(0, headerH, w, h-footerH), hexColor(v.Theme.Body, color.White))

	body := hexColor(v.Theme.BodyText, color.Black)
	muted := hexColor(v.Theme.Muted, color.Gray{Y: 0x80})
	c.text(v.Ribbon, f.bold, 12, hexColor(v.Theme.Accent, body), h*27/100)
	c.text(v.HolderName, f.bold, 20, body, h*33/100)
	role := v.RoleLine
	if v.RoleLabel != "" {
		role = v.RoleLabel + ": " + v.RoleLine
	}
	c.text(role, f.regular, 13, body, h*38/100)
	if v.Mobile != "" {
		c.text("Mobile: "+v.Mobile, f.regular, 13, body, h*43/100)
	}

	qrSize := px(float64(v.QRSize))
	qr, err := QRImage(v.QRPayload, DefaultQR(qrSize))
	if err != nil {
		return nil, err
	}
	pad := px(6)
	qb := qr.Bounds()
	top := h * 47 / 100
	left := (w - qb.Dx()) / 2
	fill(img, image.Rect(left-pad, top-pad, left+qb.Dx()+pad, top+qb.Dy()+pad), color.White)
	draw.Draw(img, image.Rect(left, top, left+qb.Dx(), top+qb.Dy()), qr, qb.Min, draw.Src)

	if v.CodeLine != "" {
		c.text(v.CodeLine, f.bold, 10, muted, top+qb.Dy()+pad+px(18))
	}

	fill(img, image.Rect(0, h-footerH, w, h), hexColor(v.Theme.Footer, color.Black))
	c.text(v.Footer, f.bold, 10, hexColor(v.Theme.FooterText, color.White), h-footerH/2+px(4))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type canvas struct {
	img   *image.RGBA
	fonts fonts
	scale float64
	width int
}

// text draws s centred on baseline y, shrinking the face until it fits.
func (c *canvas) text(s string, f *opentype.Font, size float64, col color.Color, y int) {
	if s == "" {
		return
	}
	maxWidth := fixed.I(c.width - int(32*c.scale))
	for pt := size; pt >= 6; pt -= 1 {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: pt * c.scale, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
		adv := d.MeasureString(s)
		if adv > maxWidth && pt > 6 {
			face.Close()
			continue
		}
		d.Dot = fixed.Point26_6{X: (fixed.I(c.width) - adv) / 2, Y: fixed.I(y)}
		d.DrawString(s)
		face.Close()
		return
	}
}

func fill(img *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// hexColor parses #rrggbb, falling back to def.
func hexColor(s string, def color.Color) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
