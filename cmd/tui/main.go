package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billed/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/bill/client"
	billStore "github.com/MrJamesThe3rd/billed/internal/bill/store"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/container"
	"github.com/MrJamesThe3rd/billed/internal/database"
	"github.com/MrJamesThe3rd/billed/internal/navigation"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

type model struct {
	router *navigation.Router
	name   string
	sess   session.Session

	currentView View
	screen      view.View
}

type View int

const (
	ViewMenu    View = 0
	ViewBills   View = 1
	ViewNewBill View = 2
)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				return m.navigate(route.PathBills)
			case "2":
				return m.navigate(route.PathNewBill)
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.NavigateMsg:
		return m.navigate(msg.Path)
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	if m.currentView != ViewMenu && m.screen != nil {
		var newModel tea.Model
		newModel, cmd = m.screen.Update(msg)
		m.screen = newModel.(view.View)
	}

	return m, cmd
}

// navigate builds a fresh screen for path, the same way the web app renders
// a fresh page on every request.
func (m model) navigate(path string) (tea.Model, tea.Cmd) {
	switch path {
	case route.PathBills:
		m.currentView = ViewBills
		m.screen = view.NewBillsModel(m.router.Bills())

		return m, m.screen.Init()
	case route.PathNewBill:
		m.currentView = ViewNewBill
		m.screen = view.NewNewBillModel(m.router.NewBill())

		return m, m.screen.Init()
	}

	m.currentView = ViewMenu

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s TUI (%s %s)\n\n", m.name, m.sess.Type, m.sess.Email) +
				"1. Mes notes de frais\n" +
				"2. Envoyer une note de frais\n\n" +
				"q. Quit",
		)
	case ViewBills, ViewNewBill:
		return m.screen.View() + "\n" + helpStyle(m.screen.ShortHelp())
	}

	return "Unknown View"
}

func helpStyle(s string) string {
	return lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(s)
}

func openStore(cfg *config.Config, sess session.Session) (bill.Store, func(), error) {
	if cfg.Remote.APIURL != "" {
		token, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL).Encode(sess)
		if err != nil {
			return nil, nil, err
		}

		return client.New(cfg.Remote.APIURL, token, cfg.Server.Timeout), func() {}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	files, err := attachment.Open(cfg.Storage.Path, cfg.App.PublicURL)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("opening attachment storage: %w", err)
	}

	svc := bill.NewService(billStore.New(db), files)

	closeFn := func() {
		files.Close()
		db.Close()
	}

	return bill.NewLocal(svc, sess.Scope()), closeFn, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sess := session.Session{Type: session.Type(cfg.TUI.SessionType), Email: cfg.TUI.Email}
	if (sess.Type != session.TypeEmployee && sess.Type != session.TypeAdmin) || sess.Email == "" {
		slog.Error("invalid TUI session, set TUI_SESSION_TYPE and TUI_EMAIL", "type", sess.Type, "email", sess.Email)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg, sess)
	if err != nil {
		slog.Error("failed to open bill store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// The terminal belongs to the TUI, so controllers log to a file.
	logFile, err := tea.LogToFile("billed-tui.log", "billed")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(logFile, nil))

	// Controllers navigate and alert from commands, outside the update loop,
	// so going through the program is safe.
	var p *tea.Program

	router := navigation.New(
		store,
		sess,
		func(path string) { p.Send(view.NavigateMsg{Path: path}) },
		container.AlertFunc(func(msg string) { p.Send(view.AlertMsg{Text: msg}) }),
		logger,
	)

	p = tea.NewProgram(model{router: router, name: cfg.App.Name, sess: sess, currentView: ViewMenu})
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeStore()
		os.Exit(1)
	}
}
