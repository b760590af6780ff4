package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// NavigateMsg asks the app to switch to the screen behind Path.
type NavigateMsg struct {
	Path string
}

// AlertMsg carries a blocking message raised by a controller.
type AlertMsg struct {
	Text string
}
