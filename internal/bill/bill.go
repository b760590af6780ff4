package bill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("bill not found")
	ErrInvalid  = errors.New("invalid bill")
)

// Status represents where a bill is in the approval flow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}

	return false
}

// Label returns the text shown to employees in the bills list.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refusé"
	}

	return string(s)
}

// Types lists the expense categories offered by the new bill form.
var Types = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

// Bill is an expense report submitted by an employee for reimbursement.
type Bill struct {
	ID           uuid.UUID
	Email        string
	Type         string
	Name         string
	Amount       decimal.Decimal
	Date         string // YYYY-MM-DD
	VAT          string
	Pct          int
	Commentary   string
	FileURL      string
	FileName     string
	Status       Status
	CommentAdmin string
}

// Validate checks the rules every stored bill must satisfy.
func (b *Bill) Validate() error {
	if b.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}

	if _, err := time.Parse(time.DateOnly, b.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalid, b.Date)
	}

	if !b.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, b.Status)
	}

	return nil
}

// File is a receipt attached to a bill at creation.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

//go:generate mockgen -source=bill.go -destination=api_mock.go -package=bill
type API interface {
	List(ctx context.Context) ([]*Bill, error)
	Create(ctx context.Context, b *Bill, f *File) (*Bill, error)
	Update(ctx context.Context, b *Bill) (*Bill, error)
}

// Store is the entry point the controllers talk to.
type Store interface {
	Bills() API
}
