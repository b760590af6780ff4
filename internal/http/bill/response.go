package bill

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

type billResponse struct {
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

func toResponse(b *bill.Bill) billResponse {
	return billResponse{
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

func toResponseList(bills []*bill.Bill) []billResponse {
	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toResponse(b)
	}

	return resp
}
