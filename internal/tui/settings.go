package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/chronos/internal/state"
)

type settingsMode int

const (
	settingsBrowse settingsMode = iota
	settingsForm
	settingsAddCategory
)

type settingsModel struct {
	state  *state.State
	mode   settingsMode
	cursor int
	width  int
	height int

	form      *huh.Form
	persona   *string
	goalHours *string

	catInput textinput.Model
}

func newSettingsModel(st *state.State) settingsModel {
	catInput := textinput.New()
	catInput.Placeholder = "New category..."
	catInput.CharLimit = 40
	catInput.Width = 32

	return settingsModel{state: st, catInput: catInput}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) formActive() bool {
	return s.mode != settingsBrowse
}

func (s settingsModel) newForm() settingsModel {
	user := s.state.User()
	persona := user.Persona
	goalHours := strconv.FormatFloat(float64(user.DailyFocusGoal)/3600, 'f', -1, 64)
	s.persona = &persona
	s.goalHours = &goalHours

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mentor persona").
				Description("Voice the AI uses when advising you").
				Value(s.persona),
			huh.NewInput().
				Title("Daily focus goal (hours)").
				Value(s.goalHours).
				Validate(func(v string) error {
					f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
					if err != nil || f < 0 {
						return fmt.Errorf("enter a non-negative number of hours")
					}
					return nil
				}),
		),
	)
	s.mode = settingsForm
	return s
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch s.mode {
	case settingsForm:
		return s.updateForm(msg)
	case settingsAddCategory:
		if msg, ok := msg.(tea.KeyMsg); ok {
			return s.updateAddCategory(msg)
		}
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return s.updateBrowse(msg)
	}
	return s, nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		persona := strings.TrimSpace(*s.persona)
		hours, _ := strconv.ParseFloat(strings.TrimSpace(*s.goalHours), 64)
		goal := int64(hours * 3600)

		s.mode = settingsBrowse
		if _, err := s.state.UpdatePreferences(state.Preferences{
			Persona:        &persona,
			DailyFocusGoal: &goal,
		}); err != nil {
			return s, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		return s, statusCmd("Preferences saved")

	case huh.StateAborted:
		s.mode = settingsBrowse
		return s, nil
	}
	return s, cmd
}

func (s settingsModel) updateAddCategory(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		name := strings.TrimSpace(s.catInput.Value())
		if name == "" {
			return s, nil
		}
		categories := append([]string(nil), s.state.User().Categories...)
		for _, c := range categories {
			if c == name {
				return s, statusErrCmd("Category already exists")
			}
		}
		categories = append(categories, name)

		s.catInput.Reset()
		s.catInput.Blur()
		s.mode = settingsBrowse
		if _, err := s.state.UpdatePreferences(state.Preferences{Categories: &categories}); err != nil {
			return s, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		return s, statusCmd("Category added")

	case key.Matches(msg, keys.Back):
		s.catInput.Blur()
		s.mode = settingsBrowse
		return s, nil
	}

	var cmd tea.Cmd
	s.catInput, cmd = s.catInput.Update(msg)
	return s, cmd
}

func (s settingsModel) updateBrowse(msg tea.KeyMsg) (settingsModel, tea.Cmd) {
	categories := s.state.User().Categories

	switch {
	case key.Matches(msg, keys.Enter):
		s = s.newForm()
		return s, s.form.Init()

	case key.Matches(msg, keys.New):
		s.mode = settingsAddCategory
		return s, s.catInput.Focus()

	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}

	case key.Matches(msg, keys.Down):
		if s.cursor < len(categories)-1 {
			s.cursor++
		}

	case key.Matches(msg, keys.Delete):
		if len(categories) <= 1 {
			// At least one category must remain for classification.
			return s, statusErrCmd("Keep at least one category")
		}
		if s.cursor >= len(categories) {
			return s, nil
		}
		next := append([]string(nil), categories[:s.cursor]...)
		next = append(next, categories[s.cursor+1:]...)
		if s.cursor > 0 && s.cursor >= len(next) {
			s.cursor--
		}
		if _, err := s.state.UpdatePreferences(state.Preferences{Categories: &next}); err != nil {
			return s, statusErrCmd(fmt.Sprintf("Save failed: %v", err))
		}
		return s, statusCmd("Category removed")
	}
	return s, nil
}

func (s settingsModel) view() string {
	if s.width < 20 {
		return "Terminal too small"
	}
	contentWidth := s.width - 4

	if s.mode == settingsForm {
		return panelStyle.Width(contentWidth).Render(s.form.View())
	}

	user := s.state.User()

	profile := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Profile"),
		"",
		fmt.Sprintf("%s %s", mutedStyle.Render("Account:"), normalItemStyle.Render(user.Name)),
		fmt.Sprintf("%s %s", mutedStyle.Render("Persona:"), normalItemStyle.Render(user.Persona)),
		fmt.Sprintf("%s %s", mutedStyle.Render("Daily goal:"), normalItemStyle.Render(formatHours(user.DailyFocusGoal))),
		"",
		footerStyle.Render("enter to edit persona and goal"),
	)

	var rows []string
	for i, c := range user.Categories {
		prefix := "  "
		if i == s.cursor && s.mode == settingsBrowse {
			prefix = selectedItemStyle.Render("> ")
		}
		rows = append(rows, prefix+normalItemStyle.Render(c))
	}

	catFooter := footerStyle.Render("n add · d remove")
	if s.mode == settingsAddCategory {
		catFooter = s.catInput.View()
	}

	categoriesPanel := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Categories"),
		"",
		strings.Join(rows, "\n"),
		"",
		catFooter,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(contentWidth).Render(profile),
		panelStyle.Width(contentWidth).Render(categoriesPanel),
	)
}
