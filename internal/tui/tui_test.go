package tui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/planr/internal/cal"
	"github.com/sadopc/planr/internal/config"
	"github.com/sadopc/planr/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func keyPress(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// loadCalendar runs the refresh command and feeds the result back in,
// the way the Bubble Tea runtime would.
func loadCalendar(t *testing.T, c calendarModel) calendarModel {
	t.Helper()
	msg := c.refresh()()
	data, ok := msg.(calendarDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T: %v", msg, msg)
	}
	c, _ = c.update(data)
	return c
}

func addEvent(t *testing.T, s *store.Store, title string, start time.Time, dur time.Duration, roleID string) *cal.Event {
	t.Helper()
	e, err := s.CreateEvent(cal.Event{Title: title, Start: start, End: start.Add(dur), RoleID: roleID})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// ============================================================
// Calendar model
// ============================================================

func TestCalendarDefaults(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	if c.state.Mode != cal.ModeMonth {
		t.Fatalf("mode = %v, want month", c.state.Mode)
	}
	if c.state.RoleFilter != cal.RoleAll {
		t.Fatalf("filter = %q, want all", c.state.RoleFilter)
	}
	if !cal.SameDay(c.state.Reference, time.Now()) {
		t.Fatal("reference should start at today")
	}
}

func TestCalendarModeKeys(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)

	c, _ = c.update(keyPress("w"))
	if c.state.Mode != cal.ModeWeek {
		t.Fatalf("mode = %v after w, want week", c.state.Mode)
	}
	c, _ = c.update(keyPress("d"))
	if c.state.Mode != cal.ModeDay {
		t.Fatalf("mode = %v after d, want day", c.state.Mode)
	}
	c, _ = c.update(keyPress("m"))
	if c.state.Mode != cal.ModeMonth {
		t.Fatalf("mode = %v after m, want month", c.state.Mode)
	}
}

func TestCalendarNavigationByMode(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	// Mid-month reference keeps AddDate normalization out of the way.
	ref := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	c.state.Reference = ref

	c, _ = c.update(keyPress("l"))
	if c.state.Reference.Month() == ref.Month() && c.state.Reference.Year() == ref.Year() {
		t.Fatal("right in month mode should move a month")
	}
	c, _ = c.update(keyPress("h"))
	if !cal.SameDay(c.state.Reference, ref) {
		t.Fatal("left should move back to the original month")
	}

	c.state.Mode = cal.ModeWeek
	c, _ = c.update(keyPress("l"))
	if got := int(cal.Midnight(c.state.Reference).Sub(cal.Midnight(ref)).Hours() / 24); got != 7 {
		t.Fatalf("right in week mode moved %d days, want 7", got)
	}

	c.state.Mode = cal.ModeDay
	c, _ = c.update(keyPress("l"))
	if got := int(cal.Midnight(c.state.Reference).Sub(cal.Midnight(ref)).Hours() / 24); got != 8 {
		t.Fatalf("right in day mode moved to day %d, want 8", got)
	}
}

func TestCalendarTodayKey(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	c.state.Reference = c.state.Reference.AddDate(0, 3, 0)

	c, _ = c.update(keyPress("t"))
	if !cal.SameDay(c.state.Reference, time.Now()) {
		t.Fatal("t should jump back to today")
	}
}

func TestCalendarEnterDrillsToDay(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.state.Mode != cal.ModeDay {
		t.Fatalf("mode = %v after enter, want day", c.state.Mode)
	}
}

func TestCalendarLoadsData(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local)
	addEvent(t, s, "standup", start, time.Hour, "work")

	c := newCalendarModel(s, cal.ModeMonth, true)
	c = loadCalendar(t, c)

	if len(c.events) != 1 || c.events[0].Title != "standup" {
		t.Fatalf("events not loaded: %+v", c.events)
	}
	if _, ok := c.roles["work"]; !ok {
		t.Fatal("roles not loaded")
	}
	if len(c.roleList) != 3 {
		t.Fatalf("expected 3 seeded roles, got %d", len(c.roleList))
	}
}

func TestCalendarRoleFilter(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	addEvent(t, s, "job", day.Add(9*time.Hour), time.Hour, "work")
	addEvent(t, s, "gym", day.Add(18*time.Hour), time.Hour, "personal")

	c := newCalendarModel(s, cal.ModeDay, true)
	c = loadCalendar(t, c)

	if got := len(c.dayList()); got != 2 {
		t.Fatalf("unfiltered day list = %d, want 2", got)
	}
	c.state.RoleFilter = "work"
	list := c.dayList()
	if len(list) != 1 || list[0].Title != "job" {
		t.Fatalf("filtered day list = %+v", list)
	}
}

func TestCalendarDayCursor(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	addEvent(t, s, "a", day.Add(9*time.Hour), time.Hour, "")
	addEvent(t, s, "b", day.Add(11*time.Hour), time.Hour, "")

	c := newCalendarModel(s, cal.ModeDay, true)
	c = loadCalendar(t, c)

	c, _ = c.update(keyPress("j"))
	if c.cursor != 1 {
		t.Fatalf("cursor = %d after down, want 1", c.cursor)
	}
	c, _ = c.update(keyPress("j"))
	if c.cursor != 1 {
		t.Fatal("cursor should clamp at the last event")
	}
	c, _ = c.update(keyPress("k"))
	if c.cursor != 0 {
		t.Fatalf("cursor = %d after up, want 0", c.cursor)
	}
}

func TestCalendarDeleteSelected(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	e := addEvent(t, s, "gone", day.Add(9*time.Hour), time.Hour, "")

	c := newCalendarModel(s, cal.ModeDay, true)
	c = loadCalendar(t, c)

	_, cmd := c.update(keyPress("x"))
	if cmd == nil {
		t.Fatal("delete should trigger a refresh")
	}
	if _, err := s.GetEvent(e.ID); err == nil {
		t.Fatal("event should be deleted from the store")
	}
}

func TestCalendarNewEventForm(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	c = loadCalendar(t, c)

	c, cmd := c.update(keyPress("n"))
	if !c.formActive || c.form == nil {
		t.Fatal("n should open the event form")
	}
	if cmd == nil {
		t.Fatal("form init command expected")
	}
	// Defaults: 9-10 AM on the reference day.
	if !strings.Contains(*c.formStart, "09:00") || !strings.Contains(*c.formEnd, "10:00") {
		t.Fatalf("form defaults: %q - %q", *c.formStart, *c.formEnd)
	}

	// esc cancels
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEsc})
	if c.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestCalendarEditFormPrefills(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	addEvent(t, s, "dentist", day.Add(14*time.Hour), time.Hour, "personal")

	c := newCalendarModel(s, cal.ModeDay, true)
	c = loadCalendar(t, c)

	c, _ = c.update(keyPress("e"))
	if !c.formActive {
		t.Fatal("e should open the edit form")
	}
	if *c.formTitle != "dentist" || *c.formRole != "personal" {
		t.Fatalf("form not prefilled: %q / %q", *c.formTitle, *c.formRole)
	}
	if c.editingID == "" {
		t.Fatal("editing ID should be set")
	}
}

func TestCalendarSaveEventBadTime(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	*c.formTitle = "x"
	*c.formStart = "garbage"
	*c.formEnd = "2024-06-15 10:00"
	c.formType = "event"

	_, cmd := c.saveEvent()
	if cmd == nil {
		t.Fatal("expected error status command")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("expected error status, got %v", msg)
	}
}

func TestCalendarSaveEventPersists(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	c = loadCalendar(t, c)
	*c.formTitle = "review"
	*c.formStart = "2024-06-15 10:00"
	*c.formEnd = "2024-06-15 11:00"
	*c.formRole = "work"
	c.formType = "event"

	if _, cmd := c.saveEvent(); cmd == nil {
		t.Fatal("save should trigger a refresh")
	}
	events, err := s.ListEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Title != "review" {
		t.Fatalf("event not persisted: %+v", events)
	}
}

func TestCalendarBadTimestampsSurface(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)

	msg := calendarDataMsg{bad: 2}
	_, cmd := c.update(msg)
	if cmd == nil {
		t.Fatal("bad rows should produce a status command")
	}
	status, ok := cmd().(statusMsg)
	if !ok || !status.isError || !strings.Contains(status.text, "2") {
		t.Fatalf("unexpected status: %+v", status)
	}
}

// ============================================================
// Calendar rendering
// ============================================================

func TestCalendarMonthViewRendering(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeMonth, true)
	c.setSize(120, 40)
	c.state.Reference = time.Date(2024, time.December, 25, 0, 0, 0, 0, time.Local)
	c = loadCalendar(t, c)

	out := c.view()
	if !strings.Contains(out, "December 2024") {
		t.Fatal("month header missing")
	}
	for _, wd := range weekdayHeaders {
		if !strings.Contains(out, wd) {
			t.Fatalf("weekday header %q missing", wd)
		}
	}
}

func TestCalendarMonthOverflowIndicator(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2024, time.December, 10, 0, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		addEvent(t, s, string(rune('a'+i)), day.Add(time.Duration(9+i)*time.Hour), time.Hour, "")
	}

	c := newCalendarModel(s, cal.ModeMonth, true)
	c.setSize(120, 40)
	c.state.Reference = day
	c = loadCalendar(t, c)

	out := c.view()
	if !strings.Contains(out, "+2 more") {
		t.Fatal("overflow indicator missing")
	}
}

func TestCalendarDayViewRendering(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	addEvent(t, s, "standup", day.Add(9*time.Hour), 30*time.Minute, "work")

	c := newCalendarModel(s, cal.ModeDay, true)
	c.setSize(120, 40)
	c = loadCalendar(t, c)

	out := c.view()
	if !strings.Contains(out, "standup") {
		t.Fatal("event missing from day view")
	}
	// The 6 AM rotation puts 12 AM near the bottom.
	first := strings.Index(out, "6 AM")
	last := strings.Index(out, "12 AM")
	if first == -1 || last == -1 || first > last {
		t.Fatal("hour slots not in rotated order")
	}
}

func TestCalendarWeekViewRendering(t *testing.T) {
	s := newTestStore(t)
	c := newCalendarModel(s, cal.ModeWeek, true)
	c.setSize(120, 40)
	c = loadCalendar(t, c)

	out := c.view()
	if !strings.Contains(out, cal.HeaderLabel(cal.ModeWeek, c.state.Reference)) {
		t.Fatal("week header missing")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	if got := truncate("a long title", 5); got != "a lo…" {
		t.Fatalf("truncate(a long title, 5) = %q", got)
	}
	// Multi-byte titles must cut on rune boundaries, never mid-character.
	if got := truncate("café déjeuner", 6); got != "café …" || !utf8.ValidString(got) {
		t.Fatalf("truncate(café déjeuner, 6) = %q", got)
	}
	if got := truncate("日本語のタイトル", 4); got != "日本語…" || !utf8.ValidString(got) {
		t.Fatalf("truncate(日本語のタイトル, 4) = %q", got)
	}
	if got := truncate("日本語", 1); got != "日" {
		t.Fatalf("truncate(日本語, 1) = %q", got)
	}
}

// ============================================================
// Roles model
// ============================================================

func TestRolesRefreshAndCursor(t *testing.T) {
	s := newTestStore(t)
	r := newRolesModel(s)

	msg := r.refresh()()
	data, ok := msg.(rolesDataMsg)
	if !ok {
		t.Fatalf("refresh returned %T", msg)
	}
	r, _ = r.update(data)
	if len(r.roles) != 3 {
		t.Fatalf("expected 3 seeded roles, got %d", len(r.roles))
	}

	r, _ = r.update(keyPress("j"))
	r, _ = r.update(keyPress("j"))
	r, _ = r.update(keyPress("j"))
	if r.cursor != 2 {
		t.Fatalf("cursor = %d, want clamp at 2", r.cursor)
	}
}

func TestRolesDeleteKeepsEvents(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	e := addEvent(t, s, "job", day.Add(9*time.Hour), time.Hour, "work")

	r := newRolesModel(s)
	data := r.refresh()().(rolesDataMsg)
	r, _ = r.update(data)

	// cursor 0 = "work"
	r, _ = r.update(keyPress("x"))

	if _, err := s.GetRole("work"); err == nil {
		t.Fatal("role should be deleted")
	}
	got, err := s.GetEvent(e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RoleID != "work" {
		t.Fatal("event should keep its dangling role reference")
	}
}

func TestRolesFormOpens(t *testing.T) {
	s := newTestStore(t)
	r := newRolesModel(s)
	data := r.refresh()().(rolesDataMsg)
	r, _ = r.update(data)

	r, _ = r.update(keyPress("n"))
	if !r.formActive || r.form == nil {
		t.Fatal("n should open the role form")
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyEsc})
	if r.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// Stats model
// ============================================================

func TestStatsHoursByRole(t *testing.T) {
	s := newTestStore(t)
	day := cal.Midnight(time.Now())
	addEvent(t, s, "job", day.Add(9*time.Hour), 2*time.Hour, "work")
	addEvent(t, s, "meet", day.Add(14*time.Hour), time.Hour, "work")
	addEvent(t, s, "gym", day.Add(18*time.Hour), time.Hour, "personal")

	m := newStatsModel(s)
	data := m.refresh()().(statsDataMsg)
	m, _ = m.update(data)

	sums := m.hoursByRole(day)
	if sums["work"] != 3 {
		t.Fatalf("work hours = %v, want 3", sums["work"])
	}
	if sums["personal"] != 1 {
		t.Fatalf("personal hours = %v, want 1", sums["personal"])
	}
}

func TestStatsWeekOffset(t *testing.T) {
	s := newTestStore(t)
	m := newStatsModel(s)
	m.setSize(100, 30)
	data := m.refresh()().(statsDataMsg)
	m, _ = m.update(data)

	start := m.weekStart()
	m, _ = m.update(keyPress("h"))
	if got := int(start.Sub(m.weekStart()).Hours() / 24); got != 7 {
		t.Fatalf("left moved %d days back, want 7", got)
	}
	m, _ = m.update(keyPress("l"))
	if !m.weekStart().Equal(start) {
		t.Fatal("right should move forward again")
	}
	m, _ = m.update(keyPress("l"))
	if !m.weekStart().Equal(start) {
		t.Fatal("offset should clamp at the current week")
	}
}

func TestStatsDateRangeLabel(t *testing.T) {
	s := newTestStore(t)
	m := newStatsModel(s)
	m.setSize(100, 30)
	data := m.refresh()().(statsDataMsg)
	m, _ = m.update(data)

	out := m.view()
	// Date ranges join with a plain hyphen, same as the week header.
	if !strings.Contains(out, " - ") {
		t.Fatal("date range label missing hyphen separator")
	}
	if strings.Contains(out, "—") {
		t.Fatal("date range label should not use an em-dash")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsFormSaves(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	cfg := config.DefaultConfig()

	m := newSettingsModel(cfg, path)
	m, _ = m.showForm()
	if !m.formActive {
		t.Fatal("form should be active")
	}

	*m.defaultView = "week"
	*m.showAllDay = false
	m.cfg.DefaultView = *m.defaultView
	m.cfg.ShowAllDay = *m.showAllDay
	if err := m.cfg.Save(m.cfgPath); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.DefaultView != "week" || loaded.ShowAllDay {
		t.Fatalf("config not persisted: %+v", loaded)
	}
}

// ============================================================
// App
// ============================================================

func newTestApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	cfg := config.DefaultConfig()
	return NewApp(s, cfg, t.TempDir()+"/config.yaml")
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t)
	if a.activeView != viewCalendar {
		t.Fatal("app should open on the calendar")
	}
	if a.calendar.state.Mode != cal.ModeMonth {
		t.Fatal("default view should be month")
	}
}

func TestAppConfigDefaultView(t *testing.T) {
	s := newTestStore(t)
	cfg := &config.Config{DefaultView: "week", ShowAllDay: true}
	a := NewApp(s, cfg, "")
	if a.calendar.state.Mode != cal.ModeWeek {
		t.Fatal("config default view not applied")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := newTestApp(t)

	model, _ := a.Update(keyPress("2"))
	a = model.(App)
	if a.activeView != viewRoles {
		t.Fatalf("view = %v after 2, want roles", a.activeView)
	}

	model, _ = a.Update(keyPress("4"))
	a = model.(App)
	if a.activeView != viewSettings {
		t.Fatalf("view = %v after 4, want settings", a.activeView)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(App)
	if a.activeView != viewCalendar {
		t.Fatal("tab should wrap back to the calendar")
	}
}

func TestAppExportPicker(t *testing.T) {
	a := newTestApp(t)

	model, _ := a.Update(keyPress("o"))
	a = model.(App)
	if !a.exportPicking {
		t.Fatal("o should open the export picker")
	}

	model, _ = a.Update(keyPress("j"))
	a = model.(App)
	if a.exportCursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.exportCursor)
	}
	model, _ = a.Update(keyPress("j"))
	a = model.(App)
	model, _ = a.Update(keyPress("j"))
	a = model.(App)
	if a.exportCursor != 2 {
		t.Fatal("cursor should clamp at the last format")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newTestApp(t)
	model, _ := a.Update(statusMsg{text: "hello"})
	a = model.(App)
	if a.status != "hello" {
		t.Fatalf("status = %q", a.status)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := newTestApp(t)
	a.width = 120
	a.height = 40
	header := a.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "planr") {
		t.Fatal("header missing app title")
	}
}

func TestAppLoadingState(t *testing.T) {
	a := newTestApp(t)
	if a.View() != "Loading..." {
		t.Fatal("zero-width view should show loading")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 views, got %d", len(viewNames))
	}
	if viewNames[viewCalendar] != "Calendar" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("unexpected view names: %v", viewNames)
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help empty")
	}
	if len(keys.FullHelp()) == 0 {
		t.Fatal("full help empty")
	}
}

func TestMinMax(t *testing.T) {
	if min(1, 2) != 1 || min(2, 1) != 1 {
		t.Fatal("min broken")
	}
	if max(1, 2) != 2 || max(2, 1) != 2 {
		t.Fatal("max broken")
	}
}
