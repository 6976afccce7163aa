package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/planr/internal/cal"
	"github.com/sadopc/planr/internal/store"
)

const formTimeLayout = "2006-01-02 15:04"

type calendarModel struct {
	store  *store.Store
	width  int
	height int

	state      cal.ViewState
	events     []cal.Event
	roles      map[string]cal.Role
	roleList   []cal.Role
	bad        int
	showAllDay bool

	cursor int // event cursor in the day view

	formActive bool
	form       *huh.Form
	formType   string // "event", "edit_event", "filter"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formStart    *string
	formEnd      *string
	formLocation *string
	formNotes    *string
	formRole     *string
	formFilter   *string
}

func newCalendarModel(s *store.Store, mode cal.ViewMode, showAllDay bool) calendarModel {
	title, start, end, loc, notes, role, filter := "", "", "", "", "", "", cal.RoleAll
	return calendarModel{
		store: s,
		state: cal.ViewState{
			Reference:  time.Now(),
			Mode:       mode,
			RoleFilter: cal.RoleAll,
		},
		showAllDay:   showAllDay,
		formTitle:    &title,
		formStart:    &start,
		formEnd:      &end,
		formLocation: &loc,
		formNotes:    &notes,
		formRole:     &role,
		formFilter:   &filter,
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		events, err := c.store.ListEvents()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		roleList, err := c.store.ListRoles()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		roles := make(map[string]cal.Role, len(roleList))
		for _, r := range roleList {
			roles[r.ID] = r
		}
		ok, bad := cal.Partition(events)
		return calendarDataMsg{events: ok, roles: roles, roleList: roleList, bad: len(bad)}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case calendarDataMsg:
		c.events = msg.events
		c.roles = msg.roles
		c.roleList = msg.roleList
		c.bad = msg.bad
		if c.cursor >= len(c.dayList()) {
			c.cursor = max(0, len(c.dayList())-1)
		}
		if c.bad > 0 {
			n := c.bad
			return c, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("%d event(s) skipped: bad timestamps", n), isError: true}
			}
		}
		return c, nil

	case tea.KeyMsg:
		return c.updateKeys(msg)
	}
	return c, nil
}

func (c calendarModel) updateKeys(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Month):
		c.state.Mode = cal.ModeMonth
	case key.Matches(msg, keys.Week):
		c.state.Mode = cal.ModeWeek
	case key.Matches(msg, keys.Day):
		c.state.Mode = cal.ModeDay
		c.cursor = 0
	case key.Matches(msg, keys.Today):
		c.state.Reference = time.Now()
		c.cursor = 0
	case key.Matches(msg, keys.Left):
		c.state.Reference = c.shift(-1)
		c.cursor = 0
	case key.Matches(msg, keys.Right):
		c.state.Reference = c.shift(1)
		c.cursor = 0
	case key.Matches(msg, keys.Up):
		if c.state.Mode == cal.ModeDay && c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, keys.Down):
		if c.state.Mode == cal.ModeDay && c.cursor < len(c.dayList())-1 {
			c.cursor++
		}
	case key.Matches(msg, keys.Enter):
		// Drill into the day view from the wider geometries.
		if c.state.Mode != cal.ModeDay {
			c.state.Mode = cal.ModeDay
			c.cursor = 0
		}
	case key.Matches(msg, keys.New):
		return c.showEventForm(nil)
	case key.Matches(msg, keys.Edit):
		if c.state.Mode == cal.ModeDay {
			if list := c.dayList(); len(list) > 0 {
				e := list[min(c.cursor, len(list)-1)]
				return c.showEventForm(&e)
			}
		}
	case key.Matches(msg, keys.Delete):
		if c.state.Mode == cal.ModeDay {
			if list := c.dayList(); len(list) > 0 {
				e := list[min(c.cursor, len(list)-1)]
				if err := c.store.DeleteEvent(e.ID); err != nil {
					return c, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
				}
				return c, c.refresh()
			}
		}
	case key.Matches(msg, keys.Filter):
		return c.showFilterForm()
	}
	return c, nil
}

// shift moves the reference date by one period of the current mode.
func (c calendarModel) shift(dir int) time.Time {
	switch c.state.Mode {
	case cal.ModeDay:
		return c.state.Reference.AddDate(0, 0, dir)
	case cal.ModeWeek:
		return c.state.Reference.AddDate(0, 0, 7*dir)
	default:
		return c.state.Reference.AddDate(0, dir, 0)
	}
}

// visible applies the role filter.
func (c calendarModel) visible() []cal.Event {
	return cal.FilterByRole(c.events, c.state.RoleFilter)
}

// dayList is the cursor target list in the day view: the reference
// day's events sorted by start.
func (c calendarModel) dayList() []cal.Event {
	day := cal.Midnight(c.state.Reference)
	var out []cal.Event
	for _, e := range c.visible() {
		if cal.SameDay(e.Start, day) {
			out = append(out, e)
		}
	}
	return out
}

// --- Forms ---

func (c calendarModel) roleOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, r := range c.roleList {
		opts = append(opts, huh.NewOption(r.Name, r.ID))
	}
	return opts
}

func (c calendarModel) showEventForm(e *cal.Event) (calendarModel, tea.Cmd) {
	if e != nil {
		c.formType = "edit_event"
		c.editingID = e.ID
		*c.formTitle = e.Title
		*c.formStart = e.Start.Format(formTimeLayout)
		*c.formEnd = e.End.Format(formTimeLayout)
		*c.formLocation = e.Location
		*c.formNotes = e.Notes
		*c.formRole = e.RoleID
	} else {
		c.formType = "event"
		c.editingID = ""
		ref := cal.Midnight(c.state.Reference)
		*c.formTitle = ""
		*c.formStart = ref.Add(9 * time.Hour).Format(formTimeLayout)
		*c.formEnd = ref.Add(10 * time.Hour).Format(formTimeLayout)
		*c.formLocation = ""
		*c.formNotes = ""
		*c.formRole = ""
	}

	validTime := func(s string) error {
		if _, err := time.ParseInLocation(formTimeLayout, s, time.Local); err != nil {
			return fmt.Errorf("use YYYY-MM-DD HH:MM")
		}
		return nil
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(c.formTitle),
			huh.NewInput().Title("Start (YYYY-MM-DD HH:MM)").Value(c.formStart).Validate(validTime),
			huh.NewInput().Title("End (YYYY-MM-DD HH:MM)").Value(c.formEnd).Validate(validTime),
			huh.NewSelect[string]().Title("Role").Options(c.roleOptions()...).Value(c.formRole),
			huh.NewInput().Title("Location").Value(c.formLocation),
			huh.NewInput().Title("Notes").Value(c.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) showFilterForm() (calendarModel, tea.Cmd) {
	*c.formFilter = c.state.RoleFilter
	c.formType = "filter"

	opts := []huh.Option[string]{huh.NewOption("All roles", cal.RoleAll)}
	for _, r := range c.roleList {
		opts = append(opts, huh.NewOption(r.Name, r.ID))
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Show events for").Options(opts...).Value(c.formFilter),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		switch c.formType {
		case "filter":
			c.state.RoleFilter = *c.formFilter
			c.cursor = 0
			return c, nil
		case "event", "edit_event":
			return c.saveEvent()
		}
	}

	return c, cmd
}

func (c calendarModel) saveEvent() (calendarModel, tea.Cmd) {
	if *c.formTitle == "" {
		return c, nil
	}
	start, err := time.ParseInLocation(formTimeLayout, *c.formStart, time.Local)
	if err != nil {
		return c, func() tea.Msg {
			return statusMsg{text: "Invalid start time", isError: true}
		}
	}
	end, err := time.ParseInLocation(formTimeLayout, *c.formEnd, time.Local)
	if err != nil {
		return c, func() tea.Msg {
			return statusMsg{text: "Invalid end time", isError: true}
		}
	}

	e := cal.Event{
		ID:       c.editingID,
		Title:    *c.formTitle,
		Start:    start,
		End:      end,
		Location: *c.formLocation,
		Notes:    *c.formNotes,
		RoleID:   *c.formRole,
	}
	if c.formType == "edit_event" {
		if err := c.store.UpdateEvent(e); err != nil {
			return c, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
	} else {
		if _, err := c.store.CreateEvent(e); err != nil {
			return c, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
	}
	return c, c.refresh()
}

// --- Rendering ---

func (c calendarModel) view() string {
	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Event")
		switch c.formType {
		case "edit_event":
			title = titleStyle.Render("Edit Event")
		case "filter":
			title = titleStyle.Render("Filter")
		}
		return panelStyle.Width(c.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View()),
		)
	}

	header := c.renderViewHeader()

	var body string
	switch c.state.Mode {
	case cal.ModeWeek:
		body = c.renderWeek()
	case cal.ModeDay:
		body = c.renderDay()
	default:
		body = c.renderMonth()
	}

	return panelStyle.Width(c.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body),
	)
}

func (c calendarModel) renderViewHeader() string {
	label := titleStyle.Render(cal.HeaderLabel(c.state.Mode, c.state.Reference))

	modes := []struct {
		mode cal.ViewMode
		name string
	}{
		{cal.ModeMonth, "Month"},
		{cal.ModeWeek, "Week"},
		{cal.ModeDay, "Day"},
	}
	var tabs []string
	for _, m := range modes {
		if m.mode == c.state.Mode {
			tabs = append(tabs, activeTabStyle.Render(m.name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.name))
		}
	}

	filter := ""
	if c.state.RoleFilter != cal.RoleAll {
		name := c.state.RoleFilter
		if r, ok := c.roles[c.state.RoleFilter]; ok {
			name = r.Name
		}
		filter = highlightStyle.Render(" [" + name + "]")
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		label, filter, "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)
}

// The month grid aligns its first column to Sunday; the week view
// columns start on Monday.
var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (c calendarModel) renderMonth() string {
	today := time.Now()
	cells := cal.MonthGrid(c.state.Reference, today)
	placed := cal.MonthPlacements(c.visible(), c.roles)

	cellW := max(8, (c.width-10)/7)

	var headers []string
	for _, wd := range weekdayHeaders {
		headers = append(headers, weekdayHeaderStyle.Width(cellW).Render(wd))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}

	for row := 0; row < cal.MonthGridSize/7; row++ {
		var cols []string
		for col := 0; col < 7; col++ {
			cols = append(cols, c.renderMonthCell(cells[row*7+col], placed, cellW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: month  enter: day view  n: new  f: filter"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c calendarModel) renderMonthCell(cell cal.MonthCell, placed map[time.Time]cal.DayEvents, w int) string {
	numStyle := dayNumStyle
	if !cell.InMonth {
		numStyle = outMonthStyle
	}
	if cell.Today {
		numStyle = todayStyle
	}

	lines := []string{numStyle.Render(fmt.Sprintf("%2d", cell.Date.Day()))}

	de := placed[cell.Date]
	for _, p := range de.Visible {
		lines = append(lines, eventChipStyle(p.Background, p.Foreground).Render(truncate(p.Title, w-3)))
	}
	if de.Overflow > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", de.Overflow)))
	}

	return lipgloss.NewStyle().Width(w).Height(4).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (c calendarModel) renderWeek() string {
	today := time.Now()
	cols := cal.WeekGrid(c.state.Reference, today)
	plan := cal.WeekPlacements(c.visible(), c.roles, cols[0].Date)

	colW := max(12, (c.width-10)/7)

	var rendered []string
	for _, col := range cols {
		head := weekdayHeaderStyle.Render(col.Date.Format("Mon 2"))
		if col.Today {
			head = todayStyle.Render(col.Date.Format("Mon 2"))
		}
		lines := []string{head}

		if c.showAllDay {
			for _, p := range plan.AllDay[col.Date] {
				lines = append(lines, eventChipStyle(p.Background, p.Foreground).Render(truncate(p.Title, colW-3)))
			}
		}

		for _, slot := range col.Slots {
			ps := plan.Timed[cal.SlotKey{Day: col.Date, Slot: slot}]
			for _, p := range ps {
				label := cal.HourLabel(slot.Hour)
				if slot.EarlyMorning {
					lines = append(lines, earlySlotStyle.Render(label)+" "+
						eventChipStyle(p.Background, p.Foreground).Render(truncate(p.Title, colW-9)))
				} else {
					lines = append(lines, mutedStyle.Render(label)+" "+
						eventChipStyle(p.Background, p.Foreground).Render(truncate(p.Title, colW-9)))
				}
			}
		}

		rendered = append(rendered, lipgloss.NewStyle().Width(colW).Render(
			lipgloss.JoinVertical(lipgloss.Left, lines...),
		))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	nav := mutedStyle.Render("  ←/→: week  enter: day view  n: new  f: filter")
	return lipgloss.JoinVertical(lipgloss.Left, body, "", nav)
}

func (c calendarModel) renderDay() string {
	today := time.Now()
	col := cal.DayGrid(c.state.Reference, today)
	plan := cal.DayPlacements(c.visible(), c.roles, col.Date)
	list := c.dayList()

	// Map placements back to cursor positions by event ID.
	selected := ""
	if len(list) > 0 {
		selected = list[min(c.cursor, len(list)-1)].ID
	}

	var rows []string

	if c.showAllDay && len(plan.AllDay) > 0 {
		rows = append(rows, mutedStyle.Render("All day"))
		for _, p := range plan.AllDay {
			rows = append(rows, "  "+c.renderDayEvent(p, selected))
		}
		rows = append(rows, "")
	}

	for _, slot := range col.Slots {
		label := cal.HourLabel(slot.Hour)
		style := mutedStyle
		if slot.EarlyMorning {
			style = earlySlotStyle
		}
		ps := plan.Timed[slot]
		if len(ps) == 0 {
			rows = append(rows, style.Render(fmt.Sprintf("%6s │", label)))
			continue
		}
		rows = append(rows, style.Render(fmt.Sprintf("%6s │", label)))
		for _, p := range ps {
			rows = append(rows, "       │ "+c.renderDayEvent(p, selected))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: select  e: edit  x: delete  n: new  ←/→: day"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c calendarModel) renderDayEvent(p cal.Placement, selectedID string) string {
	chip := eventChipStyle(p.Background, p.Foreground).Render(p.Title)
	line := chip + " " + mutedStyle.Render(p.TimeLabel)
	if p.EventID == selectedID {
		return selectedItemStyle.Render("> ") + line
	}
	return "  " + line
}

// truncate shortens s to at most n runes, ending in an ellipsis when it
// had to cut. Rune-based so multi-byte titles never split mid-character.
func truncate(s string, n int) string {
	if n < 1 {
		n = 1
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
