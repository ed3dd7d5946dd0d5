package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/state"
)

type loginModel struct {
	state  *state.State
	cursor int
	width  int
	height int

	input        textinput.Model
	inputFocused bool
}

func newLoginModel(st *state.State) loginModel {
	input := textinput.New()
	input.Placeholder = "Your name..."
	input.CharLimit = 40
	input.Width = 32

	m := loginModel{state: st, input: input}

	// Preselect the most recently used account.
	for i, a := range st.Accounts() {
		if a.Name == st.LastUser() {
			m.cursor = i
			break
		}
	}
	if len(st.Accounts()) == 0 {
		m.inputFocused = true
		m.input.Focus()
	}
	return m
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	if l.inputFocused {
		return l.updateInput(keyMsg)
	}
	return l.updateList(keyMsg)
}

func (l loginModel) updateInput(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		name := strings.TrimSpace(l.input.Value())
		if name == "" {
			return l, nil
		}
		return l.authenticate(name)

	case key.Matches(msg, keys.Back):
		if len(l.state.Accounts()) > 0 {
			l.inputFocused = false
			l.input.Blur()
		}
		return l, nil
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l loginModel) updateList(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	accounts := l.state.Accounts()

	switch {
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}

	case key.Matches(msg, keys.Down):
		if l.cursor < len(accounts)-1 {
			l.cursor++
		}

	case key.Matches(msg, keys.New):
		l.inputFocused = true
		return l, l.input.Focus()

	case key.Matches(msg, keys.Enter):
		if l.cursor >= len(accounts) {
			return l, nil
		}
		return l.authenticate(accounts[l.cursor].Name)
	}
	return l, nil
}

func (l loginModel) authenticate(name string) (loginModel, tea.Cmd) {
	account, err := l.state.Authenticate(name)
	if err != nil {
		return l, statusErrCmd(fmt.Sprintf("Login failed: %v", err))
	}
	return l, func() tea.Msg { return loginDoneMsg{account: account} }
}

func (l loginModel) view() string {
	title := timerStyle.Render("CHRONOS")
	subtitle := mutedStyle.Render("personal focus intelligence")

	var body string
	if l.inputFocused {
		body = lipgloss.JoinVertical(lipgloss.Center,
			normalItemStyle.Render("Who is tracking today?"),
			"",
			l.input.View(),
		)
	} else {
		var rows []string
		for i, a := range l.state.Accounts() {
			prefix := "  "
			name := normalItemStyle.Render(a.Name)
			if i == l.cursor {
				prefix = selectedItemStyle.Render("> ")
				name = selectedItemStyle.Render(a.Name)
			}
			since := time.UnixMilli(a.CreatedAt).Local().Format("Jan 2006")
			rows = append(rows, fmt.Sprintf("%s%s %s", prefix, name, mutedStyle.Render("since "+since)))
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			strings.Join(rows, "\n"),
			"",
			footerStyle.Render("enter select · n new account"),
		)
	}

	card := activePanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", body),
	)

	if l.width > 0 && l.height > 0 {
		return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
