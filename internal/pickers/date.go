// Package pickers holds the concrete date, clock and recurrence sub-pickers.
// Each one keeps its own selection and talks to the coordinator only through
// picker.Sink events.
package pickers

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/picker"
	"github.com/jask/sublimepicker/internal/selection"
)

var _ picker.DateSurface = (*Date)(nil)

// Date is a month grid with a day cursor. In range mode the first pick opens a
// range and the second closes it; the endpoints are kept in pick order.
type Date struct {
	picker.Visibility

	sink       picker.Sink
	cursor     selection.Date
	sel        selection.Selected
	allowRange bool
	awaiting   bool
	min        selection.Date
	max        selection.Date
	valid      bool
	detached   bool
	weekStart  time.Weekday
}

func NewDate(weekStart time.Weekday) *Date {
	return &Date{valid: true, weekStart: weekStart}
}

func (d *Date) Kind() options.Picker { return options.PickerDate }

func (d *Date) Init(p picker.Params, sink picker.Sink) {
	d.sink = sink
	d.cursor = p.Date
	d.sel = selection.Single(p.Date)
	d.allowRange = p.AllowRange
	d.awaiting = false
	d.min, d.max = p.MinDate, p.MaxDate
	d.valid = true
}

func (d *Date) SetValidationCallback(sink picker.Sink) { d.sink = sink }

func (d *Date) Detach() {
	d.Hide()
	d.detached = true
	d.sink = nil
}

func (d *Date) Detached() bool { return d.detached }

// Reinit replaces range tracking with sel. A complete range closes tracking;
// a partial one reopens it.
func (d *Date) Reinit(sel selection.Selected, allowRange bool) {
	d.sel = sel
	d.allowRange = allowRange
	switch {
	case !allowRange:
		d.awaiting = false
	case sel.Mode() == selection.ModeRange:
		_, closed := sel.Second()
		d.awaiting = !closed
	}
}

func (d *Date) SetMinDate(day selection.Date) {
	d.min = day
	d.checkValidity()
}

func (d *Date) SetMaxDate(day selection.Date) {
	d.max = day
	d.checkValidity()
}

func (d *Date) SetFirstEndpoint(day selection.Date) {
	d.cursor = day
	d.sel = selection.Single(day)
	d.awaiting = d.allowRange
	d.checkValidity()
}

// SetSecondEndpoint closes the range on day. It is ignored outside range mode.
func (d *Date) SetSecondEndpoint(day selection.Date) {
	if !d.allowRange {
		return
	}
	d.cursor = day
	d.sel = selection.Range(d.sel.First(), day)
	d.awaiting = false
	d.checkValidity()
}

func (d *Date) Selection() selection.Selected { return d.sel }

func (d *Date) Cursor() selection.Date { return d.cursor }

// AwaitingSecond is true between the two picks of a range.
func (d *Date) AwaitingSecond() bool { return d.awaiting }

func (d *Date) Valid() bool { return d.valid }

func (d *Date) InBounds(day selection.Date) bool {
	if !d.min.IsZero() && day.Before(d.min) {
		return false
	}
	if !d.max.IsZero() && day.After(d.max) {
		return false
	}
	return true
}

// Pick selects day as the next endpoint. Days outside the bounds are refused.
func (d *Date) Pick(day selection.Date) bool {
	if d.detached || !d.InBounds(day) {
		return false
	}
	d.cursor = day
	d.checkValidity()
	if d.allowRange && d.awaiting {
		d.sel = selection.Range(d.sel.First(), day)
		d.awaiting = false
		d.emit(picker.RangeEndpoint(false, d.sel))
		return true
	}
	d.sel = selection.Single(day)
	d.awaiting = d.allowRange
	d.emit(picker.RangeEndpoint(true, d.sel))
	return true
}

func (d *Date) HandleKey(msg tea.KeyMsg) bool {
	if d.detached {
		return false
	}
	switch msg.String() {
	case "left", "h":
		d.moveTo(d.cursor.AddDays(-1))
	case "right", "l":
		d.moveTo(d.cursor.AddDays(1))
	case "up", "k":
		d.moveTo(d.cursor.AddDays(-7))
	case "down", "j":
		d.moveTo(d.cursor.AddDays(7))
	case "[", "pgup":
		d.moveTo(d.cursor.AddMonths(-1))
	case "]", "pgdown":
		d.moveTo(d.cursor.AddMonths(1))
	case ".":
		d.moveTo(selection.Today())
	case "enter", " ":
		d.Pick(d.cursor)
	default:
		return false
	}
	return true
}

func (d *Date) moveTo(day selection.Date) {
	monthChanged := day.Year != d.cursor.Year || day.Month != d.cursor.Month
	d.cursor = day
	d.checkValidity()
	if monthChanged {
		d.emit(picker.DateChanged(d.sel))
	}
}

func (d *Date) checkValidity() {
	valid := d.InBounds(d.cursor)
	if valid == d.valid {
		return
	}
	d.valid = valid
	d.emit(picker.Validity(options.PickerDate, valid))
}

func (d *Date) emit(ev picker.Event) {
	if d.sink != nil {
		d.sink.Dispatch(ev)
	}
}

// View renders the month holding the cursor.
func (d *Date) View() string {
	var b strings.Builder
	first := selection.NewDate(d.cursor.Year, d.cursor.Month, 1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", d.cursor.Month, d.cursor.Year)))
	b.WriteString("\n")

	heads := make([]string, 7)
	for i := range heads {
		wd := time.Weekday((int(d.weekStart) + i) % 7)
		heads[i] = weekdayStyle.Render(fmt.Sprintf("%2.2s", wd.String()))
	}
	b.WriteString(strings.Join(heads, " "))
	b.WriteString("\n")

	lead := (int(first.Weekday()) - int(d.weekStart) + 7) % 7
	cells := make([]string, 0, 42)
	for i := 0; i < lead; i++ {
		cells = append(cells, "  ")
	}
	for day := 1; day <= selection.DaysIn(first.Year, first.Month); day++ {
		cells = append(cells, d.renderDay(selection.NewDate(first.Year, first.Month, day)))
	}
	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		b.WriteString(strings.Join(cells[i:end], " "))
		if end < len(cells) {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	if d.valid {
		b.WriteString(mutedStyle.Render(d.statusLine()))
	} else {
		b.WriteString(errorStyle.Render(d.statusLine()))
	}
	return b.String()
}

func (d *Date) renderDay(day selection.Date) string {
	label := fmt.Sprintf("%2d", day.Day)
	second, hasSecond := d.sel.Second()
	style := dayStyle
	switch {
	case !d.InBounds(day):
		style = outsideStyle
	case day == d.sel.First() || (hasSecond && day == second):
		style = endpointStyle
	case d.sel.Contains(day):
		style = rangeStyle
	}
	if day == d.cursor {
		style = style.Inherit(cursorStyle).Underline(true)
	}
	return style.Render(label)
}

func (d *Date) statusLine() string {
	switch {
	case !d.valid:
		return d.cursor.String() + " is outside the allowed dates"
	case d.awaiting:
		return "from " + d.sel.First().String() + ", pick the end date"
	default:
		return d.sel.String()
	}
}
