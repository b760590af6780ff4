package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

func TestAuthenticator_Session(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	a := auth.New(codec, "billed_session")

	want := session.Session{Type: session.TypeEmployee, Email: "employee@test.tld"}
	token, err := codec.Encode(want)
	require.NoError(t, err)

	type testCase struct {
		name    string
		setup   func(r *http.Request)
		wantErr bool
	}

	tests := []testCase{
		{
			name:  "Cookie",
			setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "billed_session", Value: token}) },
		},
		{
			name:  "Bearer",
			setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
		},
		{
			name:    "Missing",
			setup:   func(*http.Request) {},
			wantErr: true,
		},
		{
			name:    "Garbage",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)

			got, err := a.Session(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, session.ErrInvalid)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestAuthenticator_Require(t *testing.T) {
	a := auth.New(session.NewCodec("secret", time.Hour), "billed_session")

	called := false
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticator_SetCookie(t *testing.T) {
	a := auth.New(session.NewCodec("secret", time.Hour), "billed_session")

	rec := httptest.NewRecorder()
	require.NoError(t, a.SetCookie(rec, session.Session{Type: session.TypeAdmin, Email: "admin@test.tld"}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	got, err := a.Session(r)
	require.NoError(t, err)
	assert.Equal(t, session.TypeAdmin, got.Type)
}

func TestAuthenticator_Load(t *testing.T) {
	codec := session.NewCodec("secret", time.Hour)
	a := auth.New(codec, "billed_session")

	token, err := codec.Encode(session.Session{Type: session.TypeEmployee, Email: "employee@test.tld"})
	require.NoError(t, err)

	var got []bool

	h := a.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := session.FromContext(r.Context())
		got = append(got, ok)
	}))

	withCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	withCookie.AddCookie(&http.Cookie{Name: "billed_session", Value: token})

	h.ServeHTTP(httptest.NewRecorder(), withCookie)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []bool{true, false}, got)
}
