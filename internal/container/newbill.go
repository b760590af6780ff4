package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/view"
)

const defaultPct = 20

var ErrSubmitted = errors.New("bill already submitted")

// State is where the new bill form is in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateFileChosen
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFileChosen:
		return "file chosen"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// Form holds the raw field values of the new bill form.
type Form = view.BillForm

// NewBill drives the new bill form.
type NewBill struct {
	store    bill.Store
	navigate route.Navigate
	alert    Alerter
	session  session.Session
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	file     *bill.File
	fileName string
	fileURL  string
	err      error
}

func NewNewBill(store bill.Store, navigate route.Navigate, alert Alerter, sess session.Session, logger *slog.Logger) *NewBill {
	return &NewBill{
		store:    store,
		navigate: navigate,
		alert:    alert,
		session:  sess,
		logger:   logger,
	}
}

func (c *NewBill) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// FileName is the name of the chosen receipt, empty when none is chosen.
func (c *NewBill) FileName() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileName
}

// FileURL is where the receipt is served from. The URL is assigned by the store,
// so it stays empty until the bill is created.
func (c *NewBill) FileURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileURL
}

func (c *NewBill) Render() string {
	return view.NewBillUI(view.NewBillPage{Layout: c.layout()})
}

// RenderAlert shows the form again with what the user typed and a blocking
// alert on top.
func (c *NewBill) RenderAlert(form Form, alert string) string {
	return view.NewBillUI(view.NewBillPage{Layout: c.layout(), Alert: alert, Values: form})
}

// ErrorPage renders the store failure of the last submission.
func (c *NewBill) ErrorPage() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := ""
	if c.err != nil {
		msg = c.err.Error()
	}

	return view.BillsUI(view.BillsPage{
		Layout: view.Layout{Employee: c.session.IsEmployee(), Active: view.IconWindow},
		Error:  msg,
	})
}

// HandleChangeFile keeps the receipt for the upload, or rejects it and alerts
// the user when it is not a jpg, jpeg or png.
func (c *NewBill) HandleChangeFile(f bill.File) error {
	c.mu.Lock()

	if c.state == StateSubmitting || c.state == StateSuccess {
		c.mu.Unlock()
		return ErrSubmitted
	}

	if err := attachment.ValidateFileName(f.Name); err != nil {
		c.file = nil
		c.fileName = ""
		c.fileURL = ""
		c.state = StateEmpty
		c.mu.Unlock()

		c.alert.Alert(err.Error())

		return err
	}

	c.file = &f
	c.fileName = f.Name
	c.fileURL = ""
	c.state = StateFileChosen
	c.mu.Unlock()

	return nil
}

// HandleSubmit sends the bill to the store once. On success the user is taken
// back to the bills list.
func (c *NewBill) HandleSubmit(ctx context.Context, form Form) error {
	c.mu.Lock()

	switch c.state {
	case StateEmpty:
		c.mu.Unlock()

		err := attachment.ValidateFileName("")
		c.alert.Alert(err.Error())

		return err
	case StateSubmitting, StateSuccess:
		c.mu.Unlock()
		return ErrSubmitted
	}

	draft, err := c.draft(form)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	file := c.file
	c.state = StateSubmitting
	c.mu.Unlock()

	created, err := c.store.Bills().Create(ctx, draft, file)

	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
		c.err = err
		c.mu.Unlock()

		c.logger.Error("failed to create bill", "email", c.session.Email, "error", err)

		return err
	}

	c.state = StateSuccess
	c.fileURL = created.FileURL
	c.mu.Unlock()

	c.navigate(route.PathBills)

	return nil
}

// UpdateBill saves an existing bill and goes back to the bills list.
func (c *NewBill) UpdateBill(ctx context.Context, b *bill.Bill) error {
	if _, err := c.store.Bills().Update(ctx, b); err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.err = err
		c.mu.Unlock()

		c.logger.Error("failed to update bill", "id", b.ID, "error", err)

		return err
	}

	c.navigate(route.PathBills)

	return nil
}

func (c *NewBill) draft(form Form) (*bill.Bill, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(form.Amount))
	if err != nil {
		return nil, fmt.Errorf("%w: amount %q is not a number", bill.ErrInvalid, form.Amount)
	}

	pct := defaultPct
	if s := strings.TrimSpace(form.Pct); s != "" {
		if pct, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("%w: pct %q is not a number", bill.ErrInvalid, form.Pct)
		}
	}

	return &bill.Bill{
		Email:      c.session.Email,
		Type:       form.Type,
		Name:       form.Name,
		Amount:     amount,
		Date:       form.Date,
		VAT:        form.VAT,
		Pct:        pct,
		Commentary: form.Commentary,
		FileName:   c.fileName,
		Status:     bill.StatusPending,
	}, nil
}

func (c *NewBill) layout() view.Layout {
	return view.Layout{Employee: c.session.IsEmployee(), Active: view.IconMail}
}
