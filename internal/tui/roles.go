package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/planr/internal/cal"
	"github.com/sadopc/planr/internal/store"
)

var roleColors = []string{"#4285f4", "#34a853", "#fbbc05", "#ea4335", "#6C63FF", "#2EC4B6", "#FF6B6B", "#9B59B6"}

type rolesModel struct {
	store  *store.Store
	width  int
	height int

	roles  []cal.Role
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "role", "edit_role"

	// Form field pointers (survive value copies)
	formName  *string
	formColor *string

	editingID string
}

func newRolesModel(s *store.Store) rolesModel {
	name, color := "", roleColors[0]
	return rolesModel{
		store:     s,
		formName:  &name,
		formColor: &color,
	}
}

func (r *rolesModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r rolesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		roles, _ := r.store.ListRoles()
		return rolesDataMsg{roles: roles}
	}
}

func (r rolesModel) update(msg tea.Msg) (rolesModel, tea.Cmd) {
	if r.formActive && r.form != nil {
		return r.updateForm(msg)
	}

	switch msg := msg.(type) {
	case rolesDataMsg:
		r.roles = msg.roles
		if r.cursor >= len(r.roles) {
			r.cursor = max(0, len(r.roles)-1)
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < len(r.roles)-1 {
				r.cursor++
			}
		case key.Matches(msg, keys.New):
			return r.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(r.roles) > 0 {
				role := r.roles[r.cursor]
				return r.showForm(&role)
			}
		case key.Matches(msg, keys.Delete):
			if len(r.roles) > 0 {
				role := r.roles[r.cursor]
				if err := r.store.DeleteRole(role.ID); err != nil {
					return r, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
				}
				// Events keep the dangling reference and fall back to
				// the default colors.
				return r, r.refresh()
			}
		}
	}
	return r, nil
}

func (r rolesModel) showForm(role *cal.Role) (rolesModel, tea.Cmd) {
	if role != nil {
		r.formType = "edit_role"
		r.editingID = role.ID
		*r.formName = role.Name
		*r.formColor = role.Color
	} else {
		r.formType = "role"
		r.editingID = ""
		*r.formName = ""
		*r.formColor = roleColors[0]
	}

	colorOptions := make([]huh.Option[string], len(roleColors))
	for i, c := range roleColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	r.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Role Name").Value(r.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(r.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	r.formActive = true
	return r, r.form.Init()
}

func (r rolesModel) updateForm(msg tea.Msg) (rolesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			r.formActive = false
			r.form = nil
			return r, nil
		}
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	if r.form.State == huh.StateCompleted {
		r.formActive = false
		if *r.formName != "" {
			if r.formType == "edit_role" {
				r.store.UpdateRole(r.editingID, *r.formName, *r.formColor)
			} else {
				r.store.CreateRole(*r.formName, *r.formColor)
			}
		}
		return r, r.refresh()
	}

	return r, cmd
}

func (r rolesModel) view() string {
	w := r.width - 4

	if r.formActive && r.form != nil {
		title := titleStyle.Render("New Role")
		if r.formType == "edit_role" {
			title = titleStyle.Render("Edit Role")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", r.form.View()),
		)
	}

	title := titleStyle.Render("Roles")

	if len(r.roles) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No roles. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s", "", "Name", "Color"))
	rows = append(rows, header)

	for i, role := range r.roles {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(role.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-10s", cursor, colorDot, role.Name, role.Color))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  x: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
