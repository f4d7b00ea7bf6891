package pickers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/teambition/rrule-go"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/picker"
	"github.com/jask/sublimepicker/internal/selection"
)

var _ picker.SubPicker = (*Recurrence)(nil)

const customID = "custom"

// Presets are offered in this order. The empty rule means "does not repeat".
var Presets = []Option{
	{ID: "", Label: "Does not repeat"},
	{ID: "FREQ=DAILY", Label: "Daily"},
	{ID: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR", Label: "Weekdays"},
	{ID: "FREQ=WEEKLY", Label: "Weekly"},
	{ID: "FREQ=MONTHLY", Label: "Monthly"},
	{ID: "FREQ=YEARLY", Label: "Yearly"},
	{ID: customID, Label: "Custom…", Hint: "RRULE text"},
}

// Recurrence offers the preset list and a free-form RRULE editor. Choosing a
// rule or backing out both hand control back to the coordinator.
type Recurrence struct {
	picker.Visibility

	sink     picker.Sink
	list     *OptionList
	input    textinput.Model
	custom   bool
	rule     string
	anchor   selection.Date
	valid    bool
	ruleErr  string
	detached bool
}

func NewRecurrence() *Recurrence {
	in := textinput.New()
	in.Prompt = "RRULE: "
	in.Placeholder = "FREQ=WEEKLY;BYDAY=MO,WE"
	in.CharLimit = 256
	return &Recurrence{
		list:  NewOptionList(Presets),
		input: in,
		valid: true,
	}
}

func (r *Recurrence) Kind() options.Picker { return options.PickerRecurrence }

func (r *Recurrence) Init(p picker.Params, sink picker.Sink) {
	r.sink = sink
	r.anchor = p.Date
	r.SetRule(p.RecurrenceRule)
}

func (r *Recurrence) SetValidationCallback(sink picker.Sink) { r.sink = sink }

func (r *Recurrence) Detach() {
	r.Hide()
	r.detached = true
	r.sink = nil
}

// SetRule loads rule as the current value without notifying anyone. Hosts use
// it to hand back a rule carried through saved state.
func (r *Recurrence) SetRule(rule string) {
	normalized, err := NormalizeRule(rule)
	if err != nil {
		normalized = strings.TrimSpace(rule)
	}
	r.rule = normalized
	r.custom = false
	r.ruleErr = ""
	r.input.Blur()
	r.resetList()
}

// resetList drops any filter text and puts the cursor on the current rule, so
// the next time the list opens it starts clean.
func (r *Recurrence) resetList() {
	if isPreset(r.rule) {
		r.list.Focus(r.rule)
		return
	}
	r.list.Focus(customID)
}

// SetAnchor sets the first occurrence used by the preview.
func (r *Recurrence) SetAnchor(d selection.Date) { r.anchor = d }

func (r *Recurrence) Rule() string { return r.rule }

func (r *Recurrence) Valid() bool { return r.valid }

func (r *Recurrence) Editing() bool { return r.custom }

// Filter is the text typed into the preset list.
func (r *Recurrence) Filter() string { return r.list.Query() }

// HandleKey consumes every key while the picker is shown, so typing never
// leaks to the host's shortcuts.
func (r *Recurrence) HandleKey(msg tea.KeyMsg) bool {
	if r.detached {
		return false
	}
	if r.custom {
		r.handleCustom(msg)
		return true
	}
	res := r.list.HandleKey(msg.String())
	switch res.Action {
	case ListActionSelected:
		if res.Option.ID == customID {
			r.custom = true
			r.input.SetValue(r.rule)
			r.input.CursorEnd()
			r.input.Focus()
			r.revalidate()
			return true
		}
		r.choose(res.Option.ID)
	case ListActionCancelled:
		r.resetList()
		r.emit(picker.RecurrenceCancelled())
	}
	return true
}

func (r *Recurrence) handleCustom(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc":
		r.custom = false
		r.input.Blur()
		r.ruleErr = ""
		r.resetList()
		r.setValid(true)
	case "enter":
		normalized, err := NormalizeRule(r.input.Value())
		if err != nil {
			r.ruleErr = err.Error()
			r.setValid(false)
			return
		}
		r.custom = false
		r.input.Blur()
		r.choose(normalized)
	default:
		r.input, _ = r.input.Update(msg)
		r.revalidate()
	}
}

func (r *Recurrence) revalidate() {
	if _, err := NormalizeRule(r.input.Value()); err != nil {
		r.ruleErr = err.Error()
		r.setValid(false)
		return
	}
	r.ruleErr = ""
	r.setValid(true)
}

func (r *Recurrence) choose(rule string) {
	r.rule = rule
	r.ruleErr = ""
	r.resetList()
	r.setValid(true)
	r.emit(picker.RecurrenceRule(rule))
}

func (r *Recurrence) setValid(valid bool) {
	if valid == r.valid {
		return
	}
	r.valid = valid
	r.emit(picker.Validity(options.PickerRecurrence, valid))
}

func (r *Recurrence) emit(ev picker.Event) {
	if r.sink != nil {
		r.sink.Dispatch(ev)
	}
}

// Preview lists up to n occurrences of the current rule starting at the anchor.
func (r *Recurrence) Preview(n int) []time.Time {
	return Occurrences(r.rule, r.anchor, n)
}

// Describe names the current rule: a preset label, or the raw RRULE.
func (r *Recurrence) Describe() string {
	return DescribeRule(r.rule)
}

func (r *Recurrence) View() string {
	lines := []string{}
	if r.custom {
		lines = append(lines, r.input.View(), "")
		if r.ruleErr != "" {
			lines = append(lines, errorStyle.Render(r.ruleErr))
		} else {
			lines = append(lines, mutedStyle.Render("enter apply · esc back to presets"))
		}
		return strings.Join(lines, "\n")
	}

	if q := r.list.Query(); q != "" {
		lines = append(lines, "Filter: "+q)
	}
	visible := r.list.Visible()
	if len(visible) == 0 {
		lines = append(lines, mutedStyle.Render("  no match"))
		if s, ok := r.list.Suggest(); ok {
			lines = append(lines, mutedStyle.Render("  did you mean "+s.Label+"?"))
		}
	}
	for i, opt := range visible {
		prefix := "  "
		if i == r.list.Cursor() {
			prefix = "> "
		}
		label := opt.Label
		if opt.ID == r.rule || (opt.ID == customID && !isPreset(r.rule)) {
			label += " ✓"
		}
		if opt.Hint != "" {
			label += mutedStyle.Render("  " + opt.Hint)
		}
		lines = append(lines, prefix+label)
	}

	if next := r.Preview(3); len(next) > 0 {
		parts := make([]string, len(next))
		for i, t := range next {
			parts[i] = t.Format("Mon 2 Jan")
		}
		lines = append(lines, "", mutedStyle.Render("next: "+strings.Join(parts, ", ")))
	}
	lines = append(lines, "", mutedStyle.Render("type to filter · enter choose · esc back"))
	return strings.Join(lines, "\n")
}

// NormalizeRule trims an optional RRULE: prefix, upper-cases the text and
// checks it with rrule-go. The empty rule is valid and means no repetition.
func NormalizeRule(rule string) (string, error) {
	s := strings.TrimSpace(rule)
	s = strings.TrimPrefix(strings.ToUpper(s), "RRULE:")
	if s == "" {
		return "", nil
	}
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return "", fmt.Errorf("invalid rule: %w", err)
	}
	if _, err := rrule.NewRRule(*opt); err != nil {
		return "", fmt.Errorf("invalid rule: %w", err)
	}
	return s, nil
}

// Occurrences expands rule from anchor, at most n times.
func Occurrences(rule string, anchor selection.Date, n int) []time.Time {
	if rule == "" || n <= 0 || anchor.IsZero() {
		return nil
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil
	}
	opt.Dtstart = anchor.In(time.UTC)
	if opt.Count == 0 || opt.Count > n {
		opt.Count = n
	}
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil
	}
	return r.All()
}

func DescribeRule(rule string) string {
	for _, p := range Presets {
		if p.ID == rule && p.ID != customID {
			return p.Label
		}
	}
	return rule
}

func isPreset(rule string) bool {
	for _, p := range Presets {
		if p.ID == rule && p.ID != customID {
			return true
		}
	}
	return false
}
