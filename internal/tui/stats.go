package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/planr/internal/cal"
	"github.com/sadopc/planr/internal/store"
)

// statsModel charts how busy each day of the visible week is, with one
// bar segment per role.
type statsModel struct {
	store  *store.Store
	width  int
	height int

	offset int // weeks back from the current one (0 = current)

	events []cal.Event
	roles  map[string]cal.Role

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	events []cal.Event
	roles  map[string]cal.Role
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		events, _ := s.store.ListEvents()
		roles, _ := s.store.RoleMap()
		ok, _ := cal.Partition(events)
		return statsDataMsg{events: ok, roles: roles}
	}
}

// weekStart is the Monday of the charted week.
func (s statsModel) weekStart() time.Time {
	return cal.Midnight(cal.StartOfWeek(time.Now())).AddDate(0, 0, -7*s.offset)
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.events = msg.events
		s.roles = msg.roles
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.offset++
			s.buildChart()
			return s, nil
		case key.Matches(msg, keys.Right):
			if s.offset > 0 {
				s.offset--
				s.buildChart()
			}
			return s, nil
		}
	}
	return s, nil
}

// hoursByRole sums scheduled hours per role for one day.
func (s statsModel) hoursByRole(day time.Time) map[string]float64 {
	sums := make(map[string]float64)
	for _, e := range s.events {
		if !cal.SameDay(e.Start, day) {
			continue
		}
		d := e.End.Sub(e.Start)
		if d < 0 {
			continue
		}
		if cal.IsAllDay(e) {
			d = 24 * time.Hour
		}
		sums[e.RoleID] += d.Hours()
	}
	return sums
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	start := s.weekStart()

	var bars []barchart.BarData
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		label := day.Format("Mon 02")

		var values []barchart.BarValue
		for roleID, hours := range s.hoursByRole(day) {
			color := cal.DefaultEventColor
			name := "No role"
			if r, ok := s.roles[roleID]; ok {
				color = r.Color
				name = r.Name
			}
			values = append(values, barchart.BarValue{
				Name:  name,
				Value: hours,
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(color)),
			})
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	start := s.weekStart()
	end := start.AddDate(0, 0, 6)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Scheduled hours"), "  ", dateLabel,
	)

	chartView := s.chart.View()
	legend := s.renderLegend()
	table := s.renderTotals()
	nav := mutedStyle.Render("  ←/→: week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", table, "", nav,
		),
	)
}

func (s statsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	start := s.weekStart()
	for i := 0; i < 7; i++ {
		for roleID := range s.hoursByRole(start.AddDate(0, 0, i)) {
			if seen[roleID] {
				continue
			}
			seen[roleID] = true
			color, name := cal.DefaultEventColor, "No role"
			if r, ok := s.roles[roleID]; ok {
				color, name = r.Color, r.Name
			}
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
			items = append(items, fmt.Sprintf("%s %s", dot, name))
		}
	}
	if len(items) == 0 {
		return mutedStyle.Render("  Nothing scheduled this week")
	}
	return "  " + strings.Join(items, "  ")
}

func (s statsModel) renderTotals() string {
	start := s.weekStart()
	totals := make(map[string]float64)
	count := 0
	for i := 0; i < 7; i++ {
		for roleID, hours := range s.hoursByRole(start.AddDate(0, 0, i)) {
			totals[roleID] += hours
			count++
		}
	}
	if count == 0 {
		return ""
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %10s", "Role", "Hours")))
	for roleID, hours := range totals {
		color, name := cal.DefaultEventColor, "No role"
		if r, ok := s.roles[roleID]; ok {
			color, name = r.Color, r.Name
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-18s %9.1fh", dot, name, hours))
	}
	return strings.Join(rows, "\n")
}
