package pass

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/pass.html
var templateFS embed.FS

var passTemplates = template.Must(template.ParseFS(templateFS, "templates/pass.html"))

type htmlView struct {
	View
	QRDataURI  template.URL
	Background string
}

func newHTMLView(v View, background string) (htmlView, error) {
	uri, err := QRDataURI(v.QRPayload, DefaultQR(v.QRSize))
	if err != nil {
		return htmlView{}, err
	}
	return htmlView{View: v, QRDataURI: uri, Background: background}, nil
}

// HTML renders the on-screen pass fragment. The fragment flags data-ready once drawn.
func HTML(v View) (template.HTML, error) {
	hv, err := newHTMLView(v, "")
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := passTemplates.ExecuteTemplate(&buf, "pass", hv); err != nil {
		return "", fmt.Errorf("render pass: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// CaptureDocument renders a standalone page holding only the pass, used for headless capture.
func CaptureDocument(v View, opts CaptureOptions) ([]byte, error) {
	hv, err := newHTMLView(v, opts.Background)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := passTemplates.ExecuteTemplate(&buf, "document", hv); err != nil {
		return nil, fmt.Errorf("render pass document: %w", err)
	}
	return buf.Bytes(), nil
}
