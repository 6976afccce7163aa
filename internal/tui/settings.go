package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/planr/internal/config"
)

type settingsModel struct {
	cfg     *config.Config
	cfgPath string
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultView *string
	showAllDay  *bool
	dbPath      *string
}

func newSettingsModel(cfg *config.Config, cfgPath string) settingsModel {
	dv, db := "", ""
	sad := true
	return settingsModel{
		cfg:         cfg,
		cfgPath:     cfgPath,
		defaultView: &dv,
		showAllDay:  &sad,
		dbPath:      &db,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultView = s.cfg.DefaultView
	*s.showAllDay = s.cfg.ShowAllDay
	*s.dbPath = s.cfg.DBPath

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default view").
				Options(
					huh.NewOption("Month", "month"),
					huh.NewOption("Week", "week"),
					huh.NewOption("Day", "day"),
				).Value(s.defaultView),
			huh.NewConfirm().Title("Show all-day row").Value(s.showAllDay),
			huh.NewInput().Title("Database path (blank = default)").Value(s.dbPath),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.cfg.DefaultView = *s.defaultView
		s.cfg.ShowAllDay = *s.showAllDay
		s.cfg.DBPath = *s.dbPath
		if err := s.cfg.Save(s.cfgPath); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
		return s, func() tea.Msg {
			return statusMsg{text: "Settings saved"}
		}
	}

	return s, cmd
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	showAllDay := "yes"
	if !s.cfg.ShowAllDay {
		showAllDay = "no"
	}
	dbPath := s.cfg.DBPath
	if dbPath == "" {
		dbPath = "(default)"
	}

	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("default_view"), highlightStyle.Render(s.cfg.DefaultView)),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("show_all_day"), highlightStyle.Render(showAllDay)),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render("db_path"), highlightStyle.Render(dbPath)),
		"",
		mutedStyle.Render("  Database changes apply on next launch"),
		"",
		hint,
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
