package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalid = errors.New("invalid session")

type Type string

const (
	TypeEmployee Type = "Employee"
	TypeAdmin    Type = "Admin"
)

// Session identifies who is using the app. It is built once and handed to
// every controller that needs it.
type Session struct {
	Type  Type
	Email string
}

func (s Session) IsEmployee() bool {
	return s.Type == TypeEmployee
}

// Scope is the email the bill store is restricted to. Admins see every bill.
func (s Session) Scope() string {
	if s.Type == TypeAdmin {
		return ""
	}

	return s.Email
}

type claims struct {
	Type  Type   `json:"type"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec turns sessions into signed tokens and back.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

func (c *Codec) Encode(s Session) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type:  s.Type,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session: %w", err)
	}

	return signed, nil
}

func (c *Codec) Decode(raw string) (Session, error) {
	var cl claims

	token, err := jwt.ParseWithClaims(raw, &cl, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}

		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if cl.Type != TypeEmployee && cl.Type != TypeAdmin {
		return Session{}, fmt.Errorf("%w: unknown type %q", ErrInvalid, cl.Type)
	}

	return Session{Type: cl.Type, Email: cl.Email}, nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by NewContext, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
