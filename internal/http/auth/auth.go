// Package auth reads the session of an HTTP request.
package auth

import (
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/billed/internal/session"
)

// Authenticator decodes the session token from the session cookie or from a
// Bearer authorization header.
type Authenticator struct {
	codec  *session.Codec
	cookie string
}

func New(codec *session.Codec, cookie string) *Authenticator {
	return &Authenticator{codec: codec, cookie: cookie}
}

// Session returns the session carried by r.
func (a *Authenticator) Session(r *http.Request) (session.Session, error) {
	raw := ""

	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		raw = strings.TrimPrefix(h, "Bearer ")
	} else if c, err := r.Cookie(a.cookie); err == nil {
		raw = c.Value
	}

	if raw == "" {
		return session.Session{}, session.ErrInvalid
	}

	return a.codec.Decode(raw)
}

// Load stores the request session in the context when there is a valid one.
// Requests without a session go through untouched.
func (a *Authenticator) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, err := a.Session(r); err == nil {
			r = r.WithContext(session.NewContext(r.Context(), s))
		}

		next.ServeHTTP(w, r)
	})
}

// Require rejects requests that carry no valid session.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := a.Session(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

// SetCookie starts a browser session.
func (a *Authenticator) SetCookie(w http.ResponseWriter, s session.Session) error {
	token, err := a.codec.Encode(s)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
