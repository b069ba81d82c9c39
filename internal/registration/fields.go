package registration

import "strings"

const (
	FieldName        = "name"
	FieldPin         = "pin"
	FieldDesignation = "designation"
	FieldMobile      = "mobile"
)

// Fields are the raw form values as typed by the user.
type Fields struct {
	Name        string `json:"name" form:"name"`
	Pin         string `json:"pin,omitempty" form:"pin"`
	Designation string `json:"designation,omitempty" form:"designation"`
	Mobile      string `json:"mobile" form:"mobile"`
}

// Normalize produces the values that are stored and printed.
func Normalize(v *Variant, f Fields) Fields {
	out := Fields{
		Name:   strings.TrimSpace(f.Name),
		Mobile: strings.TrimSpace(f.Mobile),
	}
	switch v.Schema {
	case SchemaPIN:
		out.Pin = strings.ToUpper(strings.TrimSpace(f.Pin))
	case SchemaDesignation, SchemaRole:
		out.Designation = strings.TrimSpace(f.Designation)
		if out.Designation == "" {
			out.Designation = v.DefaultDesignation
		}
	}
	return out
}
