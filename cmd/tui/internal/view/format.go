package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const storeTimeout = 10 * time.Second

// StoreCtx returns a context with a standard timeout for bill store calls.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(s)
}
