package registration

import (
	"github.com/gdg-garage/maitri-passes/internal/auth"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
)

// Schema is the set of fields a form collects besides name and mobile.
type Schema int

const (
	SchemaPIN         Schema = iota // pin number
	SchemaDesignation               // free text designation
	SchemaRole                      // designation from a fixed list
)

type Option struct {
	Value string
	Label string
}

// FacultyDesignations are the roles a faculty pass can carry.
var FacultyDesignations = []Option{
	{Value: "Principal", Label: "Principal"},
	{Value: "Vice Principal", Label: "Vice Principal"},
	{Value: "HOD", Label: "Head of Department (HOD)"},
	{Value: "Faculty", Label: "Faculty Member"},
	{Value: "Staff", Label: "Administrative Staff"},
}

// Copy is the page text of a variant.
type Copy struct {
	Badge             string
	Title             string
	Subtitle          string
	Heading           string
	Intro             string
	NamePlaceholder   string
	PinPlaceholder    string
	DesigPlaceholder  string
	MobilePlaceholder string
	Submit            string
	Submitting        string
	Note              string
	SuccessHeading    string
	SuccessNote       string
	Download          string
	Downloading       string
	Reset             string
	GateHeading       string
	GatePlaceholder   string
	GateSubmit        string
}

type Variant struct {
	Kind   models.Kind
	Path   string
	Table  string
	Schema Schema

	// CodePrefix is empty for variants identified by PIN.
	CodePrefix string
	// Gate is nil for public forms.
	Gate *auth.Gate

	DuplicateMessage   string
	Designations       []Option
	DefaultDesignation string

	Copy Copy
	Pass pass.Template
}

func (v *Variant) Gated() bool { return v.Gate != nil }

// Record maps a frozen credential to the row written for this variant.
func (v *Variant) Record(c pass.Credential) models.Record {
	switch v.Kind {
	case models.KindVIP:
		return &models.VipRegistration{FullName: c.Name, Designation: c.Designation, MobileNumber: c.Mobile, VipCode: c.Code}
	case models.KindFaculty:
		return &models.FacultyRegistration{FullName: c.Name, Designation: c.Designation, MobileNumber: c.Mobile, FacCode: c.Code}
	default:
		return &models.AttendeeRegistration{FullName: c.Name, PinNumber: c.PIN, MobileNumber: c.Mobile}
	}
}

type Settings struct {
	AttendeeTable   string
	VipTable        string
	FacultyTable    string
	VipPasscode     string
	FacultyPasscode string
	CaptureScale    float64
}

// Variants is the fixed set of registration forms served by the process.
type Variants struct {
	order  []*Variant
	byKind map[models.Kind]*Variant
}

func NewVariants(s Settings) *Variants {
	scale := s.CaptureScale
	if scale <= 0 {
		scale = 3
	}
	vs := &Variants{byKind: map[models.Kind]*Variant{}}
	for _, v := range []*Variant{attendee(s.AttendeeTable, scale), vip(s.VipTable, s.VipPasscode, scale), faculty(s.FacultyTable, s.FacultyPasscode, scale)} {
		vs.order = append(vs.order, v)
		vs.byKind[v.Kind] = v
	}
	return vs
}

func (vs *Variants) All() []*Variant { return vs.order }

func (vs *Variants) Get(k models.Kind) (*Variant, bool) {
	v, ok := vs.byKind[k]
	return v, ok
}

// Template is the pass template lookup used when rebuilding credentials from tokens.
func (vs *Variants) Template(k models.Kind) (pass.Template, bool) {
	v, ok := vs.byKind[k]
	if !ok {
		return pass.Template{}, false
	}
	return v.Pass, true
}

const (
	organization = "Godavari Global University"
	event        = "MAITRI 2026"
	eventDates   = "March 06 & 07, 2026"
)

func attendee(table string, scale float64) *Variant {
	return &Variant{
		Kind:             models.KindAttendee,
		Path:             "/",
		Table:            table,
		Schema:           SchemaPIN,
		DuplicateMessage: "This PIN is already registered. Each PIN can only be used once.",
		Copy: Copy{
			Badge:             organization,
			Title:             event,
			Subtitle:          "An Annual Youth Carnival of GGUites",
			Heading:           "Student Registration",
			Intro:             "Fill in your details to get your Entry Pass",
			NamePlaceholder:   "Enter Your Full Name",
			PinPlaceholder:    "Enter Your Pin Number",
			MobilePlaceholder: "Enter Your mobile number",
			Submit:            "Register & Get Pass",
			Submitting:        "Registering…",
			Note:              "Your data is stored securely. Each PIN can only register once.",
			SuccessHeading:    "Registration Successful!",
			SuccessNote:       "Your Entry Pass for Maitri 2026 is ready",
			Download:          "Download Entry Pass PDF",
			Downloading:       "Generating…",
			Reset:             "Register Another",
		},
		Pass: pass.Template{
			Kind:         models.KindAttendee,
			Organization: organization,
			Event:        event,
			Tagline:      "An Annual Youth Carnival of GGUites",
			Dates:        eventDates,
			Ribbon:       "STUDENT",
			RoleLabel:    "PIN / ID",
			Footer:       "GODAVARI GLOBAL UNIVERSITY • Chaitanya Knowledge City, NH-16, Rajamahendravaram",
			ShowMobile:   true,
			QRSource:     pass.QRFromPIN,
			QRFallback:   "MAITRI2026",
			QRSize:       100,
			Theme: pass.Theme{
				Background: "#ffffff",
				Header:     "#3b0764",
				HeaderText: "#ffffff",
				Body:       "#ffffff",
				BodyText:   "#18181b",
				Accent:     "#d97706",
				Muted:      "#6b7280",
				Footer:     "#f9fafb",
				FooterText: "#3b0764",
			},
			Page:       pass.Page{Orientation: "P", Unit: "mm", Width: 100, Height: 152},
			Capture:    pass.CaptureOptions{Scale: scale, Background: "#ffffff"},
			FilePrefix: "Maitri_Pass",
			FileByPIN:  true,
		},
	}
}

func vip(table, passcode string, scale float64) *Variant {
	return &Variant{
		Kind:       models.KindVIP,
		Path:       "/vip-access-only",
		Table:      table,
		Schema:     SchemaDesignation,
		CodePrefix: "VIP",
		Gate:       auth.NewGate(models.KindVIP, passcode, "Incorrect VIP Passcode"),
		Copy: Copy{
			Badge:             "VIP PORTAL",
			Title:             "VIP PORTAL",
			Subtitle:          organization + " • " + event,
			Heading:           "Issue VIP Pass",
			Intro:             "Enter guest details to generate a pristine VIP credentials pass.",
			NamePlaceholder:   "Enter The VIP Name",
			DesigPlaceholder:  "Chief Guest / Dean",
			MobilePlaceholder: "Enter The Mobile Number Of VIP",
			Submit:            "Generate VIP Pass",
			Submitting:        "Generating VIP Pass...",
			SuccessHeading:    "Pass Generated",
			SuccessNote:       "Privileged access granted.",
			Download:          "Download VIP Pass",
			Downloading:       "Downloading...",
			Reset:             "Issue Another",
			GateHeading:       "Restricted Area",
			GatePlaceholder:   "Enter VIP Passcode",
			GateSubmit:        "Unlock VIP Portal",
		},
		Pass: pass.Template{
			Kind:         models.KindVIP,
			Organization: organization,
			Event:        event,
			Dates:        eventDates,
			Ribbon:       "GUEST OF HONOR",
			Footer:       "ALL ACCESS • MARCH 06-07",
			ShowCode:     true,
			QRSource:     pass.QRFromCode,
			QRFallback:   "VIP",
			QRSize:       110,
			Theme: pass.Theme{
				Background: "#18181b",
				Header:     "#09090b",
				HeaderText: "#ffffff",
				Body:       "#18181b",
				BodyText:   "#ffffff",
				Accent:     "#fcd34d",
				Muted:      "#a1a1aa",
				Footer:     "#b45309",
				FooterText: "#fcd34d",
			},
			Page:       pass.Page{Orientation: "P", Unit: "mm", Width: 100, Height: 155},
			Capture:    pass.CaptureOptions{Scale: scale, Background: "#18181b"},
			FilePrefix: "VIP_Pass",
		},
	}
}

func faculty(table, passcode string, scale float64) *Variant {
	return &Variant{
		Kind:               models.KindFaculty,
		Path:               "/faculty-access-only",
		Table:              table,
		Schema:             SchemaRole,
		CodePrefix:         "FAC",
		Gate:               auth.NewGate(models.KindFaculty, passcode, "Incorrect Faculty Passcode"),
		Designations:       FacultyDesignations,
		DefaultDesignation: "Faculty",
		Copy: Copy{
			Badge:             "Academic Excellence",
			Title:             "FACULTY PORTAL",
			Subtitle:          organization + " • " + event,
			Heading:           "Issue Faculty Pass",
			Intro:             "Generate an official entry pass for faculty and administration members.",
			NamePlaceholder:   "e.g. Prof. R. S. Rao",
			MobilePlaceholder: "10-digit number",
			Submit:            "Generate Faculty Pass",
			Submitting:        "Generating Pass...",
			SuccessHeading:    "Pass Generated",
			SuccessNote:       "Official faculty credentials issued.",
			Download:          "Download Pass",
			Downloading:       "Downloading...",
			Reset:             "Issue Another",
			GateHeading:       "Restricted Area",
			GatePlaceholder:   "Enter Faculty Passcode",
			GateSubmit:        "Unlock Faculty Portal",
		},
		Pass: pass.Template{
			Kind:         models.KindFaculty,
			Organization: organization,
			Event:        event,
			Dates:        eventDates,
			RoleLine:     "GGU Academic Staff",
			Footer:       "OFFICIAL ENTRY • MARCH 06-07",
			ShowCode:     true,
			QRSource:     pass.QRFromCode,
			QRFallback:   "FACULTY",
			QRSize:       110,
			Theme: pass.Theme{
				Background: "#1e1b4b",
				Header:     "#0f172a",
				HeaderText: "#cbd5e1",
				Body:       "#1e1b4b",
				BodyText:   "#ffffff",
				Accent:     "#cbd5e1",
				Muted:      "#94a3b8",
				Footer:     "#6366f1",
				FooterText: "#ffffff",
			},
			Page:       pass.Page{Orientation: "P", Unit: "mm", Width: 100, Height: 155},
			Capture:    pass.CaptureOptions{Scale: scale, Background: "#1e1b4b"},
			FilePrefix: "Faculty_Pass",
		},
	}
}
