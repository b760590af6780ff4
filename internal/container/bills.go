package container

import (
	"context"
	"log/slog"
	"net/url"
	"path"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/view"
)

const defaultModalWidth = 800

// Bills drives the employee bills list.
type Bills struct {
	store    bill.Store
	navigate route.Navigate
	session  session.Session
	logger   *slog.Logger
}

func NewBills(store bill.Store, navigate route.Navigate, sess session.Session, logger *slog.Logger) *Bills {
	return &Bills{
		store:    store,
		navigate: navigate,
		session:  sess,
		logger:   logger,
	}
}

// GetBills fetches the bills and orders them most recent first.
func (c *Bills) GetBills(ctx context.Context) ([]*bill.Bill, error) {
	bills, err := c.store.Bills().List(ctx)
	if err != nil {
		return nil, err
	}

	bill.SortByDateDesc(bills)

	return bills, nil
}

// Render fetches the bills and renders the list. A failed fetch renders the
// error message as is.
func (c *Bills) Render(ctx context.Context) string {
	layout := view.Layout{Employee: c.session.IsEmployee(), Active: view.IconWindow}

	bills, err := c.GetBills(ctx)
	if err != nil {
		c.logger.Error("failed to fetch bills", "email", c.session.Email, "error", err)
		return view.BillsUI(view.BillsPage{Layout: layout, Error: err.Error()})
	}

	return view.BillsUI(view.BillsPage{Layout: layout, Bills: bills})
}

// HandleClickIconEye builds the receipt preview. Only images are shown inline;
// anything else gets a link.
func (c *Bills) HandleClickIconEye(fileURL string, modalWidth int) view.Preview {
	if modalWidth <= 0 {
		modalWidth = defaultModalWidth
	}

	return view.Preview{
		URL:      fileURL,
		FileName: fileNameFromURL(fileURL),
		Image:    attachment.IsImage(fileURL),
		Width:    modalWidth / 2,
	}
}

func (c *Bills) HandleClickNewBill() {
	c.navigate(route.PathNewBill)
}

func fileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}

	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil {
		return path.Base(u.Path)
	}

	return name
}
