package pass

import (
	"regexp"
	"strings"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// Credential is the frozen result of a successful registration.
type Credential struct {
	Template    Template
	Name        string
	PIN         string
	// EnteredPIN is the trimmed PIN as typed; only the filename uses it.
	EnteredPIN  string
	Designation string
	Mobile      string
	Code        string
	IssuedAt    time.Time
}

func (c Credential) Kind() models.Kind { return c.Template.Kind }

// QRPayload is the normalised PIN or the generated code, never raw input.
func (c Credential) QRPayload() string {
	var v string
	switch c.Template.QRSource {
	case QRFromCode:
		v = c.Code
	default:
		v = c.PIN
	}
	if v == "" {
		return c.Template.QRFallback
	}
	return v
}

// Filename is the download name, e.g. Maitri_Pass_mt-2026.pdf or VIP_Pass_Asha_Rao.pdf.
func (c Credential) Filename() string {
	key := c.Name
	if c.Template.FileByPIN {
		key = c.EnteredPIN
		if strings.TrimSpace(key) == "" {
			key = c.PIN
		}
	}
	key = whitespace.ReplaceAllString(strings.TrimSpace(key), "_")
	return c.Template.FilePrefix + "_" + key + ".pdf"
}

// View is everything the pass layout needs, already resolved.
type View struct {
	Kind         models.Kind
	Organization string
	Event        string
	Tagline      string
	Dates        string
	Ribbon       string
	HolderName   string
	RoleLabel    string
	RoleLine     string
	Mobile       string
	QRPayload    string
	QRSize       int
	CodeLine     string
	Footer       string
	Theme        Theme
}

// Render maps a credential to its visual template data. It does not validate.
func Render(c Credential) View {
	t := c.Template
	identity := c.PIN
	if identity == "" {
		identity = c.Designation
	}

	v := View{
		Kind:         t.Kind,
		Organization: t.Organization,
		Event:        t.Event,
		Tagline:      t.Tagline,
		Dates:        t.Dates,
		Ribbon:       t.Ribbon,
		HolderName:   strings.ToUpper(c.Name),
		RoleLabel:    t.RoleLabel,
		RoleLine:     t.RoleLine,
		QRPayload:    c.QRPayload(),
		QRSize:       t.QRSize,
		Footer:       t.Footer,
		Theme:        t.Theme,
	}
	if v.Ribbon == "" {
		v.Ribbon = strings.ToUpper(c.Designation)
	}
	if v.RoleLine == "" {
		v.RoleLine = identity
	}
	if t.ShowMobile {
		v.Mobile = c.Mobile
	}
	if t.ShowCode {
		v.CodeLine = "ID: " + c.Code
	}
	return v
}
