package registration

import "github.com/gdg-garage/maitri-passes/internal/pass"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is one of Idle, Loading, Success or Failed.
type State interface {
	Status() Status
}

type Idle struct{}

type Loading struct{}

// Success holds the values frozen at submission.
type Success struct {
	Credential pass.Credential
}

// Failed leaves the form editable with a banner message.
type Failed struct {
	Message string
}

func (Idle) Status() Status    { return StatusIdle }
func (Loading) Status() Status { return StatusLoading }
func (Success) Status() Status { return StatusSuccess }
func (Failed) Status() Status  { return StatusError }
