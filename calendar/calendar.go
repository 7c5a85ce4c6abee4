// Package calendar implements the availability date-picker used by the
// booking flow: a navigable month grid constrained to a [min, max] window,
// decorated with advisory available-day markers. It is a pure state
// component; the owning wizard pushes availability into it and receives
// selections through a callback. It knows nothing about doctors or bookings.
package calendar

import (
	"fmt"
	"time"

	"sahatak/models"
)

// The week starts on Saturday: columns run Sat, Sun, Mon, Tue, Wed, Thu, Fri.
// This is a fixed regional convention, not a locale setting.
func weekColumn(d time.Weekday) int {
	return (int(d) + 1) % 7
}

// Cell is one day cell of the rendered month grid. Cells outside the
// visible month are filler from the adjacent months and are always inert.
type Cell struct {
	Date      time.Time
	Key       models.DateKey
	Day       int
	InMonth   bool
	Disabled  bool
	Available bool
	Selected  bool
	Focused   bool
	Today     bool
}

// Calendar tracks the visible month, the selectable window, the advisory
// availability set and a single selected date. All mutation goes through
// its methods; the zero value is not usable, construct with New.
type Calendar struct {
	min, max  time.Time
	visible   time.Time // first day of the visible month
	selected  time.Time
	hasSelect bool
	focus     time.Time
	available map[models.DateKey]bool
	onSelect  func(time.Time)
	locale    Locale
	now       func() time.Time
}

// Option customizes a Calendar at construction time.
type Option func(*Calendar)

// WithLocale sets the display locale for month and weekday names.
func WithLocale(l Locale) Option {
	return func(c *Calendar) { c.locale = l }
}

// WithAvailableDates seeds the advisory availability set.
func WithAvailableDates(dates []models.DateKey) Option {
	return func(c *Calendar) {
		for _, k := range dates {
			c.available[k] = true
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// New builds a calendar restricted to the inclusive [min, max] day window.
// min after max is a configuration error and fails construction. onSelect
// fires exactly once, synchronously, per successful selection; it may be nil.
func New(min, max time.Time, onSelect func(time.Time), opts ...Option) (*Calendar, error) {
	min = models.Midnight(min)
	max = models.Midnight(max)
	if min.After(max) {
		return nil, fmt.Errorf("calendar: min bound %s is after max bound %s",
			models.NewDateKey(min), models.NewDateKey(max))
	}

	c := &Calendar{
		min:       min,
		max:       max,
		available: make(map[models.DateKey]bool),
		onSelect:  onSelect,
		locale:    English(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	start := c.clamp(models.Midnight(c.now()))
	c.visible = firstOfMonth(start)
	c.focus = start
	return c, nil
}

func (c *Calendar) clamp(t time.Time) time.Time {
	if t.Before(c.min) {
		return c.min
	}
	if t.After(c.max) {
		return c.max
	}
	return t
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func (c *Calendar) inRange(t time.Time) bool {
	return !t.Before(c.min) && !t.After(c.max)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SetAvailableDates replaces the advisory availability set. It never
// touches the selected date; availability is a visual hint, not a
// selectability constraint.
func (c *Calendar) SetAvailableDates(dates []models.DateKey) {
	c.available = make(map[models.DateKey]bool, len(dates))
	for _, k := range dates {
		c.available[k] = true
	}
}

// SelectDate selects the given day and reports whether it was accepted.
// Out-of-window dates are rejected silently: no state change, no callback.
// The visible month is left alone; only explicit navigation scrolls it.
func (c *Calendar) SelectDate(date time.Time) bool {
	date = models.Midnight(date)
	if !c.inRange(date) {
		return false
	}
	c.selected = date
	c.hasSelect = true
	c.focus = date
	if c.onSelect != nil {
		c.onSelect(date)
	}
	return true
}

// NavigateMonth moves the visible month by delta months. The selected
// date is kept even when it scrolls off-screen.
func (c *Calendar) NavigateMonth(delta int) {
	c.visible = c.visible.AddDate(0, delta, 0)
}

// MoveFocus shifts keyboard focus by the given number of days (±1 for
// horizontal arrows, ±7 for vertical). Crossing a month boundary renders
// the new month first and only then moves focus, so focus never lands on
// a cell that is not on screen. Targets outside the window are ignored.
func (c *Calendar) MoveFocus(days int) {
	target := c.focus.AddDate(0, 0, days)
	if !c.inRange(target) {
		return
	}
	if !sameMonth(target, c.visible) {
		c.visible = firstOfMonth(target)
	}
	c.focus = target
}

// ActivateFocused selects the focused day, exactly as clicking its cell
// would. Returns false when the focused cell is not an active cell of the
// visible month.
func (c *Calendar) ActivateFocused() bool {
	if !sameMonth(c.focus, c.visible) {
		return false
	}
	return c.SelectDate(c.focus)
}

// SelectedDate returns the selected day, if any.
func (c *Calendar) SelectedDate() (time.Time, bool) {
	return c.selected, c.hasSelect
}

// SelectedKey returns the DateKey of the selected day, or "" when none.
func (c *Calendar) SelectedKey() models.DateKey {
	if !c.hasSelect {
		return ""
	}
	return models.NewDateKey(c.selected)
}

// FocusedDate returns the day that currently holds keyboard focus.
func (c *Calendar) FocusedDate() time.Time {
	return c.focus
}

// VisibleMonth returns the year and month currently rendered.
func (c *Calendar) VisibleMonth() (int, time.Month) {
	return c.visible.Year(), c.visible.Month()
}

// Bounds returns the inclusive selectable window.
func (c *Calendar) Bounds() (min, max time.Time) {
	return c.min, c.max
}

// Title returns the visible month heading, e.g. "March 2026".
func (c *Calendar) Title() string {
	return fmt.Sprintf("%s %d", c.locale.MonthName(c.visible.Month()), c.visible.Year())
}

// Weekdays returns the column headers in the fixed Sat-first order.
func (c *Calendar) Weekdays() []string {
	names := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		names[weekColumn(d)] = c.locale.WeekdayName(d)
	}
	return names
}

// Grid renders the visible month as rows of seven cells. Leading and
// trailing filler cells belong to the adjacent months and are disabled.
func (c *Calendar) Grid() [][]Cell {
	first := c.visible
	lead := weekColumn(first.Weekday())
	daysInMonth := first.AddDate(0, 1, -1).Day()
	total := lead + daysInMonth
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	today := models.Midnight(c.now())
	start := first.AddDate(0, 0, -lead)

	rows := make([][]Cell, 0, total/7)
	for i := 0; i < total; i += 7 {
		row := make([]Cell, 7)
		for j := 0; j < 7; j++ {
			date := start.AddDate(0, 0, i+j)
			key := models.NewDateKey(date)
			inMonth := sameMonth(date, first)
			row[j] = Cell{
				Date:      date,
				Key:       key,
				Day:       date.Day(),
				InMonth:   inMonth,
				Disabled:  !inMonth || !c.inRange(date),
				Available: inMonth && c.available[key],
				Selected:  c.hasSelect && date.Equal(c.selected),
				Focused:   inMonth && date.Equal(c.focus),
				Today:     date.Equal(today),
			}
		}
		rows = append(rows, row)
	}
	return rows
}
