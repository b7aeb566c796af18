package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken reports a session cookie that is not a usable JWT.
	ErrInvalidToken = errors.New("auth: invalid session token")
	// ErrExpiredToken reports a session token past its exp claim.
	ErrExpiredToken = errors.New("auth: session token expired")
)

// Claims is the session token payload issued by the identity service.
type Claims struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// Identity is the signed-in user as seen by this portal.
type Identity struct {
	Subject   string
	Name      string
	Email     string
	Username  string
	ExpiresAt time.Time
	// Verified is set when the token's signature was checked.
	Verified  bool
}

// DisplayName prefers the full name, then the username, then the email.
func (i Identity) DisplayName() string {
	for _, v := range []string{i.Name, i.Username, i.Email} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return i.Subject
}

// ClaimsDecoder turns a session cookie value into an Identity. With a secret
// the HMAC signature must verify; without one the claims are read as-is and
// the backend stays the authority on the session.
type ClaimsDecoder struct {
	secret []byte
	now    func() time.Time
}

// NewClaimsDecoder builds a decoder. An empty secret disables verification.
func NewClaimsDecoder(secret string, now func() time.Time) *ClaimsDecoder {
	if now == nil {
		now = time.Now
	}
	var key []byte
	if s := strings.TrimSpace(secret); s != "" {
		key = []byte(s)
	}
	return &ClaimsDecoder{secret: key, now: now}
}

// Verifies reports whether signatures are checked.
func (d *ClaimsDecoder) Verifies() bool {
	return d != nil && len(d.secret) > 0
}

// Decode parses token and returns the identity it carries.
func (d *ClaimsDecoder) Decode(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	if d.Verifies() {
		_, err := jwt.ParseWithClaims(token, claims,
			func(*jwt.Token) (any, error) { return d.secret, nil },
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithTimeFunc(d.now),
		)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Identity{}, ErrExpiredToken
			}
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if claims.ExpiresAt != nil && !d.now().Before(claims.ExpiresAt.Time) {
			return Identity{}, ErrExpiredToken
		}
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	identity := Identity{
		Subject:  claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
		Username: claims.PreferredUsername,
		Verified: d.Verifies(),
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
