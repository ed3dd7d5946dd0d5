package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/ai"
	"github.com/sadopc/chronos/internal/state"
)

type plannerModel struct {
	state     *state.State
	assistant ai.Assistant
	cursor    int
	width     int
	height    int

	input        textinput.Model
	inputFocused bool

	// refining holds the ids of items with an in-flight rewrite.
	refining map[string]bool
}

func newPlannerModel(st *state.State, assistant ai.Assistant) plannerModel {
	input := textinput.New()
	input.Placeholder = "New objective..."
	input.CharLimit = 160
	input.Width = 48

	return plannerModel{
		state:     st,
		assistant: assistant,
		input:     input,
		refining:  make(map[string]bool),
	}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p plannerModel) formActive() bool { return p.inputFocused }

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rewriteMsg:
		delete(p.refining, msg.id)
		applied, err := p.state.SetPlannedText(msg.id, msg.text)
		if err != nil {
			return p, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		if !applied {
			// Item was deleted while the rewrite was in flight.
			return p, nil
		}
		return p, statusCmd("Objective professionalized")

	case tea.KeyMsg:
		if p.inputFocused {
			return p.updateInput(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p plannerModel) updateInput(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		text := strings.TrimSpace(p.input.Value())
		if text == "" {
			return p, nil
		}
		if _, err := p.state.AddPlanned(text); err != nil {
			return p, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		p.input.Reset()
		p.inputFocused = false
		p.input.Blur()
		p.cursor = len(p.state.Planned()) - 1
		return p, statusCmd("Objective added")

	case key.Matches(msg, keys.Back):
		p.inputFocused = false
		p.input.Blur()
		return p, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p plannerModel) updateList(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	items := p.state.Planned()

	switch {
	case key.Matches(msg, keys.New):
		p.inputFocused = true
		return p, p.input.Focus()

	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}

	case key.Matches(msg, keys.Down):
		if p.cursor < len(items)-1 {
			p.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if p.cursor >= len(items) {
			return p, nil
		}
		if err := p.state.TogglePlanned(items[p.cursor].ID); err != nil {
			return p, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}

	case key.Matches(msg, keys.Delete):
		if p.cursor >= len(items) {
			return p, nil
		}
		if err := p.state.RemovePlanned(items[p.cursor].ID); err != nil {
			return p, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		if p.cursor > 0 && p.cursor >= len(p.state.Planned()) {
			p.cursor--
		}

	case key.Matches(msg, keys.Refine):
		if p.cursor >= len(items) {
			return p, nil
		}
		item := items[p.cursor]
		if p.refining[item.ID] {
			return p, nil
		}
		p.refining[item.ID] = true
		return p, tea.Batch(p.refineCmd(item.ID, item.Text), statusCmd("Refining objective..."))
	}
	return p, nil
}

func (p plannerModel) refineCmd(id, text string) tea.Cmd {
	persona := p.state.User().Persona
	assistant := p.assistant
	return func() tea.Msg {
		rewritten, err := assistant.Rewrite(context.Background(), text, persona)
		if err != nil || strings.TrimSpace(rewritten) == "" {
			// Keep the original text when the rewrite fails.
			rewritten = text
		}
		return rewriteMsg{id: id, text: rewritten}
	}
}

func (p plannerModel) view() string {
	if p.width < 20 {
		return "Terminal too small"
	}
	contentWidth := p.width - 4

	items := p.state.Planned()
	var rows []string
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("No objectives yet. Press n to add one."))
	}
	for i, item := range items {
		check := "[ ]"
		text := normalItemStyle.Render(truncate(item.Text, contentWidth-12))
		if item.Completed {
			check = successStyle.Render("[✓]")
			text = mutedStyle.Render(truncate(item.Text, contentWidth-12))
		}
		if p.refining[item.ID] {
			text += warningStyle.Render("  ◌")
		}

		prefix := "  "
		if i == p.cursor && !p.inputFocused {
			prefix = selectedItemStyle.Render("> ")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", prefix, check, text))
	}

	var sections []string
	sections = append(sections,
		panelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Daily objectives"),
				"",
				strings.Join(rows, "\n"),
			),
		),
	)

	if p.inputFocused {
		sections = append(sections, activePanelStyle.Width(contentWidth).Render(p.input.View()))
	} else {
		sections = append(sections, footerStyle.Render("n new · enter toggle · d delete · r professionalize"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
