package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/state"
)

type mentorModel struct {
	state     *state.State
	assistant ai.Assistant
	width     int
	height    int

	messages []ai.ChatMessage
	input    textinput.Model
	vp       viewport.Model
	waiting  bool
}

func newMentorModel(st *state.State, assistant ai.Assistant) mentorModel {
	input := textinput.New()
	input.Placeholder = "Ask your mentor..."
	input.CharLimit = 280
	input.Width = 48
	input.Focus()

	return mentorModel{
		state:     st,
		assistant: assistant,
		messages:  []ai.ChatMessage{{Role: ai.RoleModel, Text: ai.MentorGreeting}},
		input:     input,
		vp:        viewport.New(0, 0),
	}
}

func (m *mentorModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.vp.Width = w - 8
	m.vp.Height = h - 10
	if m.vp.Height < 4 {
		m.vp.Height = 4
	}
	m.refreshViewport()
}

func (m mentorModel) formActive() bool { return m.input.Focused() }

func (m mentorModel) update(msg tea.Msg) (mentorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceMsg:
		m.waiting = false
		m.messages = append(m.messages, ai.ChatMessage{Role: ai.RoleModel, Text: msg.text})
		m.refreshViewport()
		return m, nil

	case praiseMsg:
		m.messages = append(m.messages, ai.ChatMessage{Role: ai.RoleModel, Text: msg.text})
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			switch {
			case key.Matches(msg, keys.Enter):
				return m.send()
			case key.Matches(msg, keys.Back):
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return m, m.input.Focus()
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m mentorModel) send() (mentorModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	// Snapshot the history before appending the new turn; the collaborator
	// receives prior turns plus the message separately.
	history := append([]ai.ChatMessage(nil), m.messages...)

	m.messages = append(m.messages, ai.ChatMessage{Role: ai.RoleUser, Text: text})
	m.input.Reset()
	m.waiting = true
	m.refreshViewport()

	assistant := m.assistant
	return m, func() tea.Msg {
		reply, err := assistant.Advise(context.Background(), text, history)
		if err != nil || strings.TrimSpace(reply) == "" {
			reply = ai.FallbackAdvice
		}
		return adviceMsg{text: reply}
	}
}

func (m *mentorModel) refreshViewport() {
	wrapW := m.vp.Width - 4
	if wrapW < 16 {
		wrapW = 16
	}
	userStyle := lipgloss.NewStyle().Foreground(colorPrimary).Width(wrapW)
	modelStyle := lipgloss.NewStyle().Foreground(colorFg).Width(wrapW)

	var lines []string
	for _, msg := range m.messages {
		if msg.Role == ai.RoleUser {
			lines = append(lines, mutedStyle.Render("You"), userStyle.Render(msg.Text), "")
		} else {
			lines = append(lines, mutedStyle.Render("Mentor"), modelStyle.Render(msg.Text), "")
		}
	}
	if m.waiting {
		lines = append(lines, warningStyle.Render("◌ thinking..."))
	}

	m.vp.SetContent(strings.Join(lines, "\n"))
	m.vp.GotoBottom()
}

func (m mentorModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	contentWidth := m.width - 4

	var inputLine string
	if m.input.Focused() {
		inputLine = m.input.View()
	} else {
		inputLine = mutedStyle.Render("enter to type · ↑/↓ to scroll")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(contentWidth).Render(m.vp.View()),
		panelStyle.Width(contentWidth).Render(inputLine),
	)
}
