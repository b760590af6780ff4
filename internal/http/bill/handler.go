package bill

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type Handler struct {
	svc       *bill.Service
	maxUpload int64
}

func NewHandler(svc *bill.Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
}

type billRequest struct {
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
	Status       bill.Status     `json:"status"`
	CommentAdmin string          `json:"commentAdmin"`
	Email        string          `json:"email"`
}

func (req billRequest) toBill() *bill.Bill {
	return &bill.Bill{
		Email:        req.Email,
		Type:         req.Type,
		Name:         req.Name,
		Amount:       req.Amount,
		Date:         req.Date,
		VAT:          req.VAT,
		Pct:          req.Pct,
		Commentary:   req.Commentary,
		FileURL:      req.FileURL,
		FileName:     req.FileName,
		Status:       req.Status,
		CommentAdmin: req.CommentAdmin,
	}
}

// api returns the bills the caller is allowed to see.
func (h *Handler) api(r *http.Request) (bill.API, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return nil, false
	}

	return h.svc.Scoped(s.Scope()), true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bills, err := api.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(bills))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	var req billRequest
	if err := json.Unmarshal([]byte(r.FormValue("bill")), &req); err != nil {
		http.Error(w, "invalid bill: "+err.Error(), http.StatusBadRequest)
		return
	}

	var file *bill.File

	part, header, err := r.FormFile("file")

	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		defer part.Close()

		data, err := io.ReadAll(part)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		file = &bill.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	created, err := api.Create(r.Context(), req.toBill(), file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b := req.toBill()
	b.ID = id

	updated, err := api.Update(r.Context(), b)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(updated))
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *attachment.ValidationError

	switch {
	case errors.As(err, &vErr), errors.Is(err, bill.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, bill.ErrNotFound):
		http.Error(w, "bill not found", http.StatusNotFound)
	default:
		slog.Error("failed to handle bill request", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
