package pass

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Packager wraps a PNG into a single page document.
type Packager interface {
	Package(png []byte, page Page) ([]byte, error)
}

type PDFPackager struct{}

func NewPDFPackager() *PDFPackager { return &PDFPackager{} }

func (PDFPackager) Package(png []byte, page Page) ([]byte, error) {
	orientation := page.Orientation
	if orientation == "" {
		orientation = "P"
	}
	unit := page.Unit
	if unit == "" {
		unit = "mm"
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        unit,
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pass", opt, bytes.NewReader(png))
	pdf.ImageOptions("pass", 0, 0, page.Width, page.Height, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
