// Package page serves the server-rendered pages of the app.
package page

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/container"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/navigation"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/view"
)

// StoreFunc opens the bill store on behalf of a session.
type StoreFunc func(s session.Session) (bill.Store, error)

// Files serves stored receipts.
type Files interface {
	Get(key string) (*attachment.Object, error)
}

type Handler struct {
	auth      *auth.Authenticator
	stores    StoreFunc
	files     Files
	title     string
	maxUpload int64
	logger    *slog.Logger
}

func NewHandler(a *auth.Authenticator, stores StoreFunc, files Files, title string, maxUpload int64, logger *slog.Logger) *Handler {
	return &Handler{
		auth:      a,
		stores:    stores,
		files:     files,
		title:     title,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(h.auth.Load).Get(route.PathLogin, h.login)
	r.Post("/login", h.doLogin)
	r.Get("/logout", h.logout)
	r.Get("/files/{key}", h.file)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get(route.PathBills, h.page)
		r.Post(route.PathBills+"/new", h.clickNewBill)
		r.Get(route.PathBills+"/preview", h.preview)
		r.Get(route.PathNewBill, h.page)
		r.Post(route.PathNewBill, h.submitNewBill)
	})
}

// nav is the navigation of a single request. Navigating records the target
// so the handler can redirect to it.
type nav struct {
	*navigation.Router
	target string
	alerts []string
}

func (h *Handler) navigation(r *http.Request) (*nav, error) {
	sess, _ := session.FromContext(r.Context())

	store, err := h.stores(sess)
	if err != nil {
		return nil, fmt.Errorf("opening bill store: %w", err)
	}

	n := &nav{}
	n.Router = navigation.New(
		store,
		sess,
		func(path string) { n.target = path },
		container.AlertFunc(func(msg string) { n.alerts = append(n.alerts, msg) }),
		h.logger,
	)

	return n, nil
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.auth.Session(r)
		if err != nil {
			http.Redirect(w, r, route.PathLogin, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

// login shows the login form, or sends a user who is already signed in
// straight to the bills list.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, route.PathBills, http.StatusSeeOther)
		return
	}

	h.write(w, http.StatusOK, view.LoginUI())
}

func (h *Handler) doLogin(w http.ResponseWriter, r *http.Request) {
	s := session.Session{
		Type:  session.Type(r.FormValue("type")),
		Email: strings.TrimSpace(r.FormValue("email")),
	}

	if (s.Type != session.TypeEmployee && s.Type != session.TypeAdmin) || s.Email == "" {
		h.write(w, http.StatusBadRequest, view.LoginUI())
		return
	}

	if err := h.auth.SetCookie(w, s); err != nil {
		h.logger.Error("failed to start session", "email", s.Email, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	http.Redirect(w, r, route.PathBills, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearCookie(w)
	http.Redirect(w, r, route.PathLogin, http.StatusSeeOther)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	n, err := h.navigation(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.write(w, http.StatusOK, n.OnNavigate(r.Context(), r.URL.Path))
}

func (h *Handler) clickNewBill(w http.ResponseWriter, r *http.Request) {
	n, err := h.navigation(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	n.Bills().HandleClickNewBill()
	http.Redirect(w, r, n.target, http.StatusSeeOther)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	n, err := h.navigation(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("width"))

	h.write(w, http.StatusOK, view.PreviewUI(n.Bills().HandleClickIconEye(r.URL.Query().Get("url"), width)))
}

func (h *Handler) submitNewBill(w http.ResponseWriter, r *http.Request) {
	n, err := h.navigation(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := container.Form{
		Type:       r.FormValue("type"),
		Name:       r.FormValue("name"),
		Date:       r.FormValue("date"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}

	nb := n.NewBill()

	f, err := readFile(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if f != nil {
		if err := nb.HandleChangeFile(*f); err != nil {
			h.write(w, http.StatusBadRequest, nb.RenderAlert(form, strings.Join(n.alerts, "\n")))
			return
		}
	}

	err = nb.HandleSubmit(r.Context(), form)

	var vErr *attachment.ValidationError

	switch {
	case err == nil:
		http.Redirect(w, r, n.target, http.StatusSeeOther)
	case errors.As(err, &vErr):
		h.write(w, http.StatusBadRequest, nb.RenderAlert(form, strings.Join(n.alerts, "\n")))
	case errors.Is(err, bill.ErrInvalid):
		h.write(w, http.StatusBadRequest, nb.RenderAlert(form, err.Error()))
	default:
		h.write(w, http.StatusInternalServerError, nb.ErrorPage())
	}
}

func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	obj, err := h.files.Get(chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, attachment.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}

		h.fail(w, err)

		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", obj.Name))

	if _, err := w.Write(obj.Data); err != nil {
		h.logger.Error("failed to write file", "key", obj.Key, "error", err)
	}
}

// readFile returns the uploaded receipt, or nil when none was sent.
func readFile(r *http.Request) (*bill.File, error) {
	part, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return &bill.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, view.Document(h.title, body)); err != nil {
		h.logger.Error("failed to write page", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to serve page", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
