package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const cookiePrefix = "maitri_gate_"

var ErrLocked = errors.New("gate is locked")

type GateClaims struct {
	Gate models.Kind `json:"gate"`
	jwt.RegisteredClaims
}

// Capabilities hands out and checks the signed proof that a gate was unlocked.
type Capabilities struct {
	signer *Signer
	ttl    time.Duration
	secure bool
}

func NewCapabilities(signer *Signer, ttl time.Duration, secureCookies bool) *Capabilities {
	return &Capabilities{signer: signer, ttl: ttl, secure: secureCookies}
}

func CookieName(kind models.Kind) string {
	return cookiePrefix + string(kind)
}

func (c *Capabilities) Issue(kind models.Kind) (string, error) {
	now := time.Now()
	claims := GateClaims{
		Gate: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return c.signer.Sign(claims)
}

// Cookie wraps a capability token. It carries no Expires so it ends with the browser session.
func (c *Capabilities) Cookie(kind models.Kind, token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}

func (c *Capabilities) Verify(token string, kind models.Kind) error {
	if token == "" {
		return ErrLocked
	}
	var claims GateClaims
	if err := c.signer.Parse(token, &claims); err != nil {
		return err
	}
	if claims.Gate != kind {
		return ErrLocked
	}
	return nil
}

// Allowed reports whether r carries a valid capability cookie for kind.
func (c *Capabilities) Allowed(r *http.Request, kind models.Kind) bool {
	cookie, err := r.Cookie(CookieName(kind))
	if err != nil {
		return false
	}
	return c.Verify(cookie.Value, kind) == nil
}

// FromHeaders checks a bearer token first and then the Cookie header, for API calls.
func (c *Capabilities) FromHeaders(authorization, cookieHeader string, kind models.Kind) error {
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return c.Verify(strings.TrimSpace(token), kind)
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return ErrLocked
	}
	for _, ck := range cookies {
		if ck.Name == CookieName(kind) {
			return c.Verify(ck.Value, kind)
		}
	}
	return ErrLocked
}
