package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/pass"
)

type Notifier interface {
	NotifyRegistration(ctx context.Context, c pass.Credential) error
}

// Event is the published form of an accepted registration. The mobile number stays out of it.
type Event struct {
	Kind        models.Kind `json:"kind"`
	Name        string      `json:"name"`
	PIN         string      `json:"pin,omitempty"`
	Designation string      `json:"designation,omitempty"`
	Code        string      `json:"code,omitempty"`
	Filename    string      `json:"filename"`
	IssuedAt    time.Time   `json:"issued_at"`
}

func NewEvent(c pass.Credential) Event {
	return Event{
		Kind:        c.Kind(),
		Name:        c.Name,
		PIN:         c.PIN,
		Designation: c.Designation,
		Code:        c.Code,
		Filename:    c.Filename(),
		IssuedAt:    c.IssuedAt,
	}
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyRegistration(ctx context.Context, c pass.Credential) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyRegistration(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
