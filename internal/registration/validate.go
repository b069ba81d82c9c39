package registration

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
	pinPattern    = regexp.MustCompile(`^[A-Za-z0-9-]{5,20}$`)
)

type attendeeInput struct {
	Name   string `form:"name" validate:"notblank"`
	Pin    string `form:"pin" validate:"notblank,pin"`
	Mobile string `form:"mobile" validate:"notblank,mobile"`
}

type vipInput struct {
	Name        string `form:"name" validate:"notblank"`
	Designation string `form:"designation" validate:"notblank"`
	Mobile      string `form:"mobile" validate:"notblank,mobile"`
}

type facultyInput struct {
	Name        string `form:"name" validate:"notblank"`
	Designation string `form:"designation" validate:"designation"`
	Mobile      string `form:"mobile" validate:"notblank,mobile"`
}

var messages = map[string]map[string]string{
	FieldName: {
		"notblank": "Full name is required",
	},
	FieldPin: {
		"notblank": "PIN number is required",
		"pin":      "PIN must be 5–20 alphanumeric characters or hyphens",
	},
	FieldDesignation: {
		"notblank":    "Designation/Role is required",
		"designation": "Select a valid designation",
	},
	FieldMobile: {
		"notblank": "Mobile number is required",
		"mobile":   "Enter a valid 10-digit Indian mobile number",
	},
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	trimmed := func(fl validator.FieldLevel) string { return strings.TrimSpace(fl.Field().String()) }
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("notblank", func(fl validator.FieldLevel) bool { return trimmed(fl) != "" })
	must("mobile", func(fl validator.FieldLevel) bool { return mobilePattern.MatchString(trimmed(fl)) })
	must("pin", func(fl validator.FieldLevel) bool { return pinPattern.MatchString(trimmed(fl)) })
	// An empty designation falls back to the default role.
	must("designation", func(fl validator.FieldLevel) bool {
		d := trimmed(fl)
		return d == "" || slices.ContainsFunc(FacultyDesignations, func(o Option) bool { return o.Value == d })
	})
	return v
}

// Validate checks every field of the variant and returns field to message.
// An empty map means the values can be submitted.
func Validate(v *Variant, f Fields) map[string]string {
	var input any
	switch v.Schema {
	case SchemaPIN:
		input = attendeeInput{Name: f.Name, Pin: f.Pin, Mobile: f.Mobile}
	case SchemaDesignation:
		input = vipInput{Name: f.Name, Designation: f.Designation, Mobile: f.Mobile}
	default:
		input = facultyInput{Name: f.Name, Designation: f.Designation, Mobile: f.Mobile}
	}

	out := map[string]string{}
	err := validate.Struct(input)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FieldName] = err.Error()
		return out
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out[fe.Field()] = msg
	}
	return out
}

// ValidationError carries the per-field messages of a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	slices.Sort(names)
	return "invalid " + strings.Join(names, ", ")
}
