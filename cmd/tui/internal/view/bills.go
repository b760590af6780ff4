package view

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/container"
	billView "github.com/MrJamesThe3rd/billed/internal/view"
)

// loads numbers every bills load across screens, so a screen never picks up a
// result fetched for an earlier one.
var loads atomic.Int64

type BillsModel struct {
	bills *container.Bills

	table   table.Model
	rows    []*bill.Bill
	preview *billView.Preview

	// seq identifies the latest load. Results of older loads are dropped.
	seq     int64
	loading bool
	err     error
}

func NewBillsModel(c *container.Bills) BillsModel {
	columns := []table.Column{
		{Title: "Type", Width: 22},
		{Title: "Nom", Width: 24},
		{Title: "Date", Width: 12},
		{Title: "Montant", Width: 12},
		{Title: "Statut", Width: 12},
		{Title: "Justificatif", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BillsModel{
		bills:   c,
		table:   t,
		seq:     loads.Add(1),
		loading: true,
	}
}

func (m BillsModel) Title() string { return "Mes notes de frais" }

func (m BillsModel) ShortHelp() string {
	if m.preview != nil {
		return "Esc: close preview"
	}

	return "Esc: back | n: new bill | enter: preview receipt | r: refresh"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		if msg.seq != m.seq {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.rows = msg.bills
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		if m.preview != nil {
			if msg.String() == "esc" {
				m.preview = nil
			}

			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.seq = loads.Add(1)
			m.loading = true
			m.err = nil

			return m, m.loadCmd()
		case "n":
			return m, func() tea.Msg {
				m.bills.HandleClickNewBill()
				return nil
			}
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.rows) {
				p := m.bills.HandleClickIconEye(m.rows[idx].FileURL, 0)
				m.preview = &p
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(m.err.Error()) + "\n\n(Esc to back)")
	}

	header := lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render(m.Title())

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left, header, tableView)

	if m.preview != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, previewPanel(*m.preview))
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func previewPanel(p billView.Preview) string {
	body := "Aucun justificatif"

	switch {
	case p.URL == "":
	case p.Image:
		body = fmt.Sprintf("Image: %s\n\n%s", activeStyle(p.FileName), p.URL)
	default:
		body = fmt.Sprintf("Fichier: %s\n\n%s", p.FileName, p.URL)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render("Justificatif\n\n" + body)
}

func (m *BillsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, b := range m.rows {
		rows = append(rows, table.Row{
			b.Type,
			b.Name,
			billView.ISODate(b.Date),
			billView.FormatAmount(b.Amount),
			b.Status.Label(),
			b.FileName,
		})
	}

	m.table.SetRows(rows)
}

type loadBillsMsg struct {
	seq   int64
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadCmd() tea.Cmd {
	seq := m.seq

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		bills, err := m.bills.GetBills(ctx)

		return loadBillsMsg{seq: seq, bills: bills, err: err}
	}
}
