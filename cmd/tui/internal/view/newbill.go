package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/container"
)

type newBillState int

const (
	newBillStateForm newBillState = iota
	newBillStateSubmitting
	newBillStateFailed
)

type NewBillModel struct {
	newBill *container.NewBill

	state   newBillState
	form    *huh.Form
	spinner spinner.Model

	// Form bindings. Pointers so they survive the model being copied.
	values *container.Form
	path   *string

	alert string
	err   error
}

func NewNewBillModel(c *container.NewBill) NewBillModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := NewBillModel{
		newBill: c,
		spinner: s,
		values:  &container.Form{Pct: "20"},
		path:    new(string),
	}
	m.form = m.buildForm()

	return m
}

func (m NewBillModel) Title() string { return "Envoyer une note de frais" }

func (m NewBillModel) ShortHelp() string {
	switch m.state {
	case newBillStateSubmitting:
		return "Sending..."
	case newBillStateFailed:
		return "Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m NewBillModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m NewBillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AlertMsg:
		m.alert = msg.Text
		return m, nil

	case submitResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if m.state != newBillStateSubmitting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && m.state != newBillStateSubmitting {
			return m, Back
		}
	}

	if m.state != newBillStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = newBillStateSubmitting
	m.alert = ""

	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func (m NewBillModel) handleResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	var vErr *attachment.ValidationError

	switch {
	case msg.err == nil:
		// The controller has already navigated back to the bills list.
		return m, nil
	case errors.As(msg.err, &vErr):
		// The alert arrives on its own as an AlertMsg.
	case errors.Is(msg.err, bill.ErrInvalid), errors.Is(msg.err, os.ErrNotExist):
		m.alert = msg.err.Error()
	default:
		m.state = newBillStateFailed
		m.err = msg.err

		return m, nil
	}

	m.state = newBillStateForm
	m.form = m.buildForm()

	return m, m.form.Init()
}

func (m NewBillModel) View() string {
	title := lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(m.Title())

	switch m.state {
	case newBillStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render(title + "\n" + m.spinner.View() + " Envoi en cours...")
	case newBillStateFailed:
		return lipgloss.NewStyle().Padding(2).Render(title + "\n" + errorStyle(m.err.Error()) + "\n\n(Esc to back)")
	}

	content := title
	if m.alert != "" {
		content += "\n" + lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Render(errorStyle(m.alert)) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + m.form.View())
}

func (m NewBillModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type de dépense").
				Options(huh.NewOptions(bill.Types...)...).
				Value(&m.values.Type),

			huh.NewInput().
				Title("Nom de la dépense").
				Placeholder("Vol Paris Londres").
				Value(&m.values.Name),

			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.values.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use the YYYY-MM-DD format")
					}
					return nil
				}),

			huh.NewInput().
				Title("Montant TTC").
				Placeholder("348").
				Value(&m.values.Amount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return fmt.Errorf("amount must be a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("TVA").
				Placeholder("70").
				Value(&m.values.VAT),

			huh.NewInput().
				Title("%").
				Placeholder("20").
				Value(&m.values.Pct).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("pct must be a whole number")
					}
					return nil
				}),

			huh.NewText().
				Title("Commentaire").
				Value(&m.values.Commentary),

			huh.NewInput().
				Title("Justificatif").
				Placeholder("./receipt.png").
				Value(m.path),
		),
	).WithWidth(60).WithShowHelp(false)
}

type submitResultMsg struct {
	err error
}

// submitCmd picks the receipt from disk and sends the bill.
func (m NewBillModel) submitCmd() tea.Cmd {
	form := *m.values
	path := strings.TrimSpace(*m.path)

	return func() tea.Msg {
		if path != "" {
			f := bill.File{Name: filepath.Base(path)}

			// Unsupported receipts are refused by name, before touching the disk.
			if attachment.ValidateFileName(f.Name) == nil {
				var err error
				if f, err = readReceipt(path); err != nil {
					return submitResultMsg{err: err}
				}
			}

			if err := m.newBill.HandleChangeFile(f); err != nil {
				return submitResultMsg{err: err}
			}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		return submitResultMsg{err: m.newBill.HandleSubmit(ctx, form)}
	}
}

func readReceipt(path string) (bill.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bill.File{}, fmt.Errorf("reading receipt: %w", err)
	}

	return bill.File{
		Name:        filepath.Base(path),
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}
