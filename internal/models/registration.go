package models

import "time"

// Kind identifies one of the registration forms.
type Kind string

const (
	KindAttendee Kind = "attendee"
	KindVIP      Kind = "vip"
	KindFaculty  Kind = "faculty"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindAttendee, KindVIP, KindFaculty:
		return k, true
	}
	return "", false
}

// Record is a row the stores know how to insert.
type Record interface {
	// Columns returns column name to value, without id or created_at.
	Columns() map[string]any
}

type AttendeeRegistration struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	PinNumber    string    `gorm:"uniqueIndex;not null" json:"pin_number"`
	MobileNumber string    `gorm:"not null" json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *AttendeeRegistration) Columns() map[string]any {
	return map[string]any{
		"full_name":     r.FullName,
		"pin_number":    r.PinNumber,
		"mobile_number": r.MobileNumber,
	}
}

// VipRegistration codes are generated per submission and may collide.
type VipRegistration struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Designation  string    `gorm:"not null" json:"designation"`
	MobileNumber string    `gorm:"not null" json:"mobile_number"`
	VipCode      string    `gorm:"index;not null" json:"vip_code"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *VipRegistration) Columns() map[string]any {
	return map[string]any{
		"full_name":     r.FullName,
		"designation":   r.Designation,
		"mobile_number": r.MobileNumber,
		"vip_code":      r.VipCode,
	}
}

type FacultyRegistration struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Designation  string    `gorm:"not null" json:"designation"`
	MobileNumber string    `gorm:"not null" json:"mobile_number"`
	FacCode      string    `gorm:"index;not null" json:"fac_code"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *FacultyRegistration) Columns() map[string]any {
	return map[string]any{
		"full_name":     r.FullName,
		"designation":   r.Designation,
		"mobile_number": r.MobileNumber,
		"fac_code":      r.FacCode,
	}
}
