package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/gdg-garage/maitri-passes/internal/models"
)

var ErrIncorrectPasscode = errors.New("incorrect passcode")

// Gate guards a privileged registration form with a shared passcode.
// The passcode is a shared secret; anyone who has it can issue passes.
type Gate struct {
	Kind models.Kind
	// Mismatch is shown to the user after a wrong passcode.
	Mismatch string

	secret string
}

func NewGate(kind models.Kind, secret, mismatch string) *Gate {
	return &Gate{Kind: kind, Mismatch: mismatch, secret: secret}
}

// Unlock compares candidate with the gate secret. There is no attempt limit.
func (g *Gate) Unlock(candidate string) error {
	if g.secret == "" {
		return ErrIncorrectPasscode
	}
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(g.secret)) != 1 {
		return ErrIncorrectPasscode
	}
	return nil
}
