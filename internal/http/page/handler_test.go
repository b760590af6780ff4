package page_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/bill/billtest"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/http/page"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

var employee = session.Session{Type: session.TypeEmployee, Email: "employee@test.tld"}

type fixture struct {
	srv    *httptest.Server
	api    *bill.MockAPI
	files  *attachment.Storage
	client *http.Client
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	api := bill.NewMockAPI(ctrl)
	store := bill.NewMockStore(ctrl)
	store.EXPECT().Bills().Return(api).AnyTimes()

	files, err := attachment.Open(filepath.Join(t.TempDir(), "files.db"), "http://localhost")
	require.NoError(t, err)
	t.Cleanup(func() { _ = files.Close() })

	codec := session.NewCodec("secret", time.Hour)
	token, err := codec.Encode(employee)
	require.NoError(t, err)

	h := page.NewHandler(
		auth.New(codec, "billed_session"),
		func(session.Session) (bill.Store, error) { return store, nil },
		files,
		"Billed",
		1<<20,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	r := chi.NewRouter()
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &fixture{
		srv:   srv,
		api:   api,
		files: files,
		token: token,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, f.srv.URL+path, body)
	require.NoError(t, err)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if f.token != "" {
		req.AddCookie(&http.Cookie{Name: "billed_session", Value: f.token})
	}

	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(data)
}

func newBillForm(t *testing.T, fileName string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"type":       "Hôtel et logement",
		"name":       "encore",
		"date":       "2004-04-04",
		"amount":     "400",
		"vat":        "80",
		"pct":        "20",
		"commentary": "séminaire billed",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)

		_, err = part.Write([]byte(fileName))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestHandler_RequiresSession(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	resp, _ := f.do(t, http.MethodGet, route.PathBills, nil, "")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, route.PathLogin, resp.Header.Get("Location"))
}

func TestHandler_LoginPage(t *testing.T) {
	type testCase struct {
		name         string
		signedIn     bool
		wantStatus   int
		wantLocation string
	}

	tests := []testCase{
		{
			name:       "SignedOut",
			wantStatus: http.StatusOK,
		},
		{
			name:         "SignedIn",
			signedIn:     true,
			wantStatus:   http.StatusSeeOther,
			wantLocation: route.PathBills,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if !tt.signedIn {
				f.token = ""
			}

			resp, body := f.do(t, http.MethodGet, route.PathLogin, nil, "")

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
			assert.Equal(t, !tt.signedIn, strings.Contains(body, `data-testid="form-login"`))
		})
	}
}

func TestHandler_Login(t *testing.T) {
	type testCase struct {
		name       string
		form       url.Values
		wantStatus int
		wantCookie bool
	}

	tests := []testCase{
		{
			name:       "Employee",
			form:       url.Values{"type": {"Employee"}, "email": {"employee@test.tld"}},
			wantStatus: http.StatusSeeOther,
			wantCookie: true,
		},
		{
			name:       "UnknownType",
			form:       url.Values{"type": {"Guest"}, "email": {"guest@test.tld"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingEmail",
			form:       url.Values{"type": {"Admin"}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.token = ""

			resp, _ := f.do(t, http.MethodPost, "/login", strings.NewReader(tt.form.Encode()), "application/x-www-form-urlencoded")

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCookie, len(resp.Cookies()) > 0)
		})
	}
}

func TestHandler_BillsPage(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().List(gomock.Any()).Return(billtest.Bills(), nil)

	resp, body := f.do(t, http.MethodGet, route.PathBills, nil, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<div class="content-title">Mes notes de frais</div>`)
	assert.Contains(t, body, `data-testid="icon-window" class="active-icon"`)
	assert.Equal(t, 4, strings.Count(body, `data-testid="icon-eye"`))
}

func TestHandler_BillsPage_StoreError(t *testing.T) {
	for _, msg := range []string{"Erreur 404", "Erreur 500"} {
		t.Run(msg, func(t *testing.T) {
			f := newFixture(t)
			f.api.EXPECT().List(gomock.Any()).Return(nil, errors.New(msg))

			_, body := f.do(t, http.MethodGet, route.PathBills, nil, "")

			assert.Contains(t, body, msg)
			assert.NotContains(t, body, `data-testid="tbody"`)
		})
	}
}

func TestHandler_ClickNewBill(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPost, route.PathBills+"/new", nil, "")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, route.PathNewBill, resp.Header.Get("Location"))
}

func TestHandler_Preview(t *testing.T) {
	f := newFixture(t)

	_, body := f.do(t, http.MethodGet, route.PathBills+"/preview?width=600&url="+url.QueryEscape("http://localhost/files/k.png"), nil, "")

	assert.Contains(t, body, `<img width="300" src="http://localhost/files/k.png" alt="Bill" />`)
}

func TestHandler_SubmitNewBill(t *testing.T) {
	type testCase struct {
		name         string
		fileName     string
		setupMock    func(api *bill.MockAPI)
		wantStatus   int
		wantLocation string
		wantAlerts   int
		wantBody     string
	}

	tests := []testCase{
		{
			name:       "WrongFormat",
			fileName:   "document.txt",
			setupMock:  func(*bill.MockAPI) {},
			wantStatus: http.StatusBadRequest,
			wantAlerts: 1,
			wantBody:   "Choose a jpg, jpeg, or png format",
		},
		{
			name:       "NoFile",
			setupMock:  func(*bill.MockAPI) {},
			wantStatus: http.StatusBadRequest,
			wantAlerts: 1,
			wantBody:   "Choose a jpg, jpeg, or png format",
		},
		{
			name:     "Success",
			fileName: "image.png",
			setupMock: func(api *bill.MockAPI) {
				api.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *bill.Bill, file *bill.File) (*bill.Bill, error) {
						assert.Equal(t, "employee@test.tld", b.Email)
						assert.Equal(t, "image.png", file.Name)

						return b, nil
					}).
					Times(1)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: route.PathBills,
		},
		{
			name:     "StoreError",
			fileName: "image.png",
			setupMock: func(api *bill.MockAPI) {
				api.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("Erreur 500")).Times(1)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `data-testid="error-message">Erreur 500</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.api)

			body, contentType := newBillForm(t, tt.fileName)

			resp, page := f.do(t, http.MethodPost, route.PathNewBill, body, contentType)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
			assert.Equal(t, tt.wantAlerts, strings.Count(page, `data-testid="alert"`))
			assert.Contains(t, page, tt.wantBody)
		})
	}
}

func TestHandler_File(t *testing.T) {
	f := newFixture(t)

	png := []byte("\x89PNG\r\n\x1a\n")
	u, err := f.files.Put(context.Background(), bill.File{Name: "receipt.png", Data: png})
	require.NoError(t, err)

	resp, body := f.do(t, http.MethodGet, strings.TrimPrefix(u, "http://localhost"), nil, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, string(png), body)

	resp, _ = f.do(t, http.MethodGet, "/files/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
