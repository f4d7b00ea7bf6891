package pickers

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/picker"
)

var _ picker.SubPicker = (*Clock)(nil)

type clockField int

const (
	fieldHour clockField = iota
	fieldMinute
)

// Clock picks an hour and minute. Arrows adjust the focused field; typing
// four digits enters HHMM directly and the picker reports itself invalid until
// the entry forms a real time.
type Clock struct {
	picker.Visibility

	sink     picker.Sink
	hour     int
	minute   int
	is24     bool
	field    clockField
	entry    string
	valid    bool
	detached bool
}

func NewClock() *Clock {
	return &Clock{valid: true}
}

func (c *Clock) Kind() options.Picker { return options.PickerTime }

func (c *Clock) Init(p picker.Params, sink picker.Sink) {
	c.sink = sink
	c.hour = wrap(p.Hour, 24)
	c.minute = wrap(p.Minute, 60)
	c.is24 = p.Is24Hour
	c.field = fieldHour
	c.entry = ""
	c.valid = true
}

func (c *Clock) SetValidationCallback(sink picker.Sink) { c.sink = sink }

func (c *Clock) Detach() {
	c.Hide()
	c.detached = true
	c.sink = nil
}

// Value is the committed time in 24h form. A pending typed entry is not part of it.
func (c *Clock) Value() (hour, minute int) {
	return c.hour, c.minute
}

func (c *Clock) Is24Hour() bool { return c.is24 }

func (c *Clock) Valid() bool { return c.valid }

func (c *Clock) HandleKey(msg tea.KeyMsg) bool {
	if c.detached {
		return false
	}
	key := msg.String()
	switch key {
	case "up", "k":
		c.step(1)
	case "down", "j":
		c.step(-1)
	case "left", "h", "right", "l":
		if c.field == fieldHour {
			c.field = fieldMinute
		} else {
			c.field = fieldHour
		}
	case "t":
		c.is24 = !c.is24
	case "a":
		if c.hour >= 12 {
			c.hour -= 12
		}
	case "p":
		if c.hour < 12 {
			c.hour += 12
		}
	case "backspace":
		if c.entry == "" {
			return false
		}
		c.entry = c.entry[:len(c.entry)-1]
		c.commitEntry()
	case "esc":
		if c.entry == "" {
			return false
		}
		c.entry = ""
		c.setValid(true)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			if len(c.entry) < 4 {
				c.entry += key
			}
			c.commitEntry()
			return true
		}
		return false
	}
	return true
}

// commitEntry applies a complete, valid HHMM entry and reports validity.
func (c *Clock) commitEntry() {
	if c.entry == "" {
		c.setValid(true)
		return
	}
	if len(c.entry) < 4 {
		c.setValid(false)
		return
	}
	h, _ := strconv.Atoi(c.entry[:2])
	m, _ := strconv.Atoi(c.entry[2:])
	if h > 23 || m > 59 {
		c.setValid(false)
		return
	}
	c.hour, c.minute = h, m
	c.entry = ""
	c.setValid(true)
}

func (c *Clock) step(delta int) {
	if c.field == fieldHour {
		c.hour = wrap(c.hour+delta, 24)
		return
	}
	c.minute = wrap(c.minute+delta, 60)
}

func (c *Clock) setValid(valid bool) {
	if valid == c.valid {
		return
	}
	c.valid = valid
	if c.sink != nil {
		c.sink.Dispatch(picker.Validity(options.PickerTime, valid))
	}
}

// Format renders the committed time in the configured clock format.
func (c *Clock) Format() string {
	if c.is24 {
		return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
	}
	h := c.hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.minute, suffix)
}

func (c *Clock) View() string {
	hourText := fmt.Sprintf("%02d", c.hour)
	if !c.is24 {
		h := c.hour % 12
		if h == 0 {
			h = 12
		}
		hourText = fmt.Sprintf("%2d", h)
	}
	minuteText := fmt.Sprintf("%02d", c.minute)
	if c.field == fieldHour {
		hourText = focusStyle.Render(hourText)
	} else {
		minuteText = focusStyle.Render(minuteText)
	}

	lines := []string{titleStyle.Render("Time"), "", "  " + hourText + " : " + minuteText}
	if !c.is24 {
		ampm := "AM"
		if c.hour >= 12 {
			ampm = "PM"
		}
		lines[2] += "  " + ampm
	}
	lines = append(lines, "")
	switch {
	case c.entry != "" && !c.valid:
		lines = append(lines, errorStyle.Render("entry "+padEntry(c.entry)+" is not a valid time"))
	case c.entry != "":
		lines = append(lines, mutedStyle.Render("entry "+padEntry(c.entry)))
	default:
		lines = append(lines, mutedStyle.Render("↑/↓ adjust · ←/→ field · t 12/24h · type HHMM"))
	}
	return strings.Join(lines, "\n")
}

func padEntry(entry string) string {
	return entry + strings.Repeat("_", 4-len(entry))
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
