// Package navigation maps a path to the controller and view that render it.
package navigation

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/container"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/view"
)

type Router struct {
	store    bill.Store
	session  session.Session
	navigate route.Navigate
	alert    container.Alerter
	logger   *slog.Logger
}

func New(store bill.Store, sess session.Session, navigate route.Navigate, alert container.Alerter, logger *slog.Logger) *Router {
	return &Router{
		store:    store,
		session:  sess,
		navigate: navigate,
		alert:    alert,
		logger:   logger,
	}
}

// OnNavigate renders the page behind path. Unknown paths land on the login page.
func (r *Router) OnNavigate(ctx context.Context, path string) string {
	switch path {
	case route.PathBills:
		return r.Bills().Render(ctx)
	case route.PathNewBill:
		return r.NewBill().Render()
	}

	return view.LoginUI()
}

func (r *Router) Bills() *container.Bills {
	return container.NewBills(r.store, r.navigate, r.session, r.logger)
}

func (r *Router) NewBill() *container.NewBill {
	return container.NewNewBill(r.store, r.navigate, r.alert, r.session, r.logger)
}
