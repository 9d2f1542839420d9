package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// claims is the token payload. sub holds the numeric actor id; imp, when
// present, is the id of the user doing the impersonating.
type claims struct {
	jwt.RegisteredClaims
	Imp *int64 `json:"imp,omitempty"`
}

// Verifier checks HS256 bearer tokens.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier returns a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Verify parses token and returns the identity it asserts.
func (v *Verifier) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var id Identity
	if c.Subject != "" {
		n, err := strconv.ParseInt(c.Subject, 10, 64)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, c.Subject)
		}
		id.ActorID = &n
	}
	id.ImpersonatorID = c.Imp
	return id, nil
}

// Issue signs a token asserting id that expires after ttl (no expiry when
// ttl is zero).
func (v *Verifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := v.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
		Imp:              id.ImpersonatorID,
	}
	if id.ActorID != nil {
		c.Subject = strconv.FormatInt(*id.ActorID, 10)
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}
