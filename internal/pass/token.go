package pass

import (
	"fmt"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/auth"
	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carry a frozen credential so the pass can be rebuilt without reading the store.
type Claims struct {
	Kind        models.Kind `json:"kind"`
	Name        string      `json:"name"`
	PIN         string      `json:"pin,omitempty"`
	EnteredPIN  string      `json:"entered_pin,omitempty"`
	Designation string      `json:"designation,omitempty"`
	Mobile      string      `json:"mobile,omitempty"`
	Code        string      `json:"code,omitempty"`
	jwt.RegisteredClaims
}

type Tokens struct {
	signer *auth.Signer
	ttl    time.Duration
}

func NewTokens(signer *auth.Signer, ttl time.Duration) *Tokens {
	return &Tokens{signer: signer, ttl: ttl}
}

func (t *Tokens) Issue(c Credential) (string, error) {
	claims := Claims{
		Kind:        c.Kind(),
		Name:        c.Name,
		PIN:         c.PIN,
		EnteredPIN:  c.EnteredPIN,
		Designation: c.Designation,
		Code:        c.Code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
		},
	}
	if c.Template.ShowMobile {
		claims.Mobile = c.Mobile
	}
	return t.signer.Sign(claims)
}

// Parse rebuilds the credential; lookup supplies the template for the token's variant.
func (t *Tokens) Parse(token string, lookup func(models.Kind) (Template, bool)) (Credential, error) {
	var claims Claims
	if err := t.signer.Parse(token, &claims); err != nil {
		return Credential{}, err
	}
	tmpl, ok := lookup(claims.Kind)
	if !ok {
		return Credential{}, fmt.Errorf("%w: unknown variant %q", auth.ErrInvalidToken, claims.Kind)
	}
	c := Credential{
		Template:    tmpl,
		Name:        claims.Name,
		PIN:         claims.PIN,
		EnteredPIN:  claims.EnteredPIN,
		Designation: claims.Designation,
		Mobile:      claims.Mobile,
		Code:        claims.Code,
	}
	if claims.IssuedAt != nil {
		c.IssuedAt = claims.IssuedAt.Time
	}
	return c, nil
}
