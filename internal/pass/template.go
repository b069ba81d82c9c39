package pass

import "github.com/gdg-garage/maitri-passes/internal/models"

// QRSource selects which frozen value becomes the QR payload.
type QRSource int

const (
	QRFromPIN QRSource = iota
	QRFromCode
)

type Theme struct {
	Background string
	Header     string
	HeaderText string
	Body       string
	BodyText   string
	Accent     string
	Muted      string
	Footer     string
	FooterText string
}

// Page is the physical size of the generated document.
type Page struct {
	Orientation string // "P" or "L"
	Unit        string // "mm"
	Width       float64
	Height      float64
}

type CaptureOptions struct {
	Scale      float64
	Background string
}

// Template is the per-variant presentation of a pass.
type Template struct {
	Kind         models.Kind
	Organization string
	Event        string
	Tagline      string
	Dates        string
	// Ribbon sits above the holder name. Empty means the upper-cased designation.
	Ribbon    string
	RoleLabel string
	// RoleLine is the line under the name. Empty means the PIN or designation.
	RoleLine   string
	Footer     string
	ShowMobile bool
	ShowCode   bool

	QRSource   QRSource
	QRFallback string
	QRSize     int

	Theme   Theme
	Page    Page
	Capture CaptureOptions

	FilePrefix string
	FileByPIN  bool
}
