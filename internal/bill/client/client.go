// Package client talks to the bills JSON API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

// RemoteError is returned for any non-2xx answer from the API.
// Its message always carries "Erreur <status>" so the UI can show it as is.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Erreur %d", e.StatusCode)
	}

	return fmt.Sprintf("Erreur %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Bills() bill.API {
	return c
}

type billPayload struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
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
}

func toPayload(b *bill.Bill) billPayload {
	return billPayload{
		ID:           b.ID,
		Email:        b.Email,
		Type:         b.Type,
		Name:         b.Name,
		Amount:       b.Amount,
		Date:         b.Date,
		VAT:          b.VAT,
		Pct:          b.Pct,
		Commentary:   b.Commentary,
		FileURL:      b.FileURL,
		FileName:     b.FileName,
		Status:       b.Status,
		CommentAdmin: b.CommentAdmin,
	}
}

func (p billPayload) toBill() *bill.Bill {
	return &bill.Bill{
		ID:           p.ID,
		Email:        p.Email,
		Type:         p.Type,
		Name:         p.Name,
		Amount:       p.Amount,
		Date:         p.Date,
		VAT:          p.VAT,
		Pct:          p.Pct,
		Commentary:   p.Commentary,
		FileURL:      p.FileURL,
		FileName:     p.FileName,
		Status:       p.Status,
		CommentAdmin: p.CommentAdmin,
	}
}

func (c *Client) List(ctx context.Context) ([]*bill.Bill, error) {
	var payloads []billPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/bills", nil, "", &payloads); err != nil {
		return nil, err
	}

	bills := make([]*bill.Bill, len(payloads))
	for i, p := range payloads {
		bills[i] = p.toBill()
	}

	return bills, nil
}

func (c *Client) Create(ctx context.Context, b *bill.Bill, f *bill.File) (*bill.Bill, error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	meta, err := json.Marshal(toPayload(b))
	if err != nil {
		return nil, fmt.Errorf("encoding bill: %w", err)
	}

	if err := mw.WriteField("bill", string(meta)); err != nil {
		return nil, fmt.Errorf("writing bill field: %w", err)
	}

	if f != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
		h.Set("Content-Type", f.ContentType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("creating file part: %w", err)
		}

		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing file part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	var created billPayload
	if err := c.do(ctx, http.MethodPost, "/api/v1/bills", &body, mw.FormDataContentType(), &created); err != nil {
		return nil, err
	}

	return created.toBill(), nil
}

func (c *Client) Update(ctx context.Context, b *bill.Bill) (*bill.Bill, error) {
	data, err := json.Marshal(toPayload(b))
	if err != nil {
		return nil, fmt.Errorf("encoding bill: %w", err)
	}

	var updated billPayload
	if err := c.do(ctx, http.MethodPut, "/api/v1/bills/"+b.ID.String(), bytes.NewReader(data), "application/json", &updated); err != nil {
		return nil, err
	}

	return updated.toBill(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))

		return &RemoteError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
