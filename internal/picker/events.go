package picker

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/selection"
)

type EventKind int

const (
	EventNone EventKind = iota
	// EventDateChanged is date-picker navigation (e.g. a month change), not a pick.
	EventDateChanged
	// EventRangeEndpoint is a completed pick of one endpoint.
	EventRangeEndpoint
	EventValidity
	EventRecurrenceRule
	EventRecurrenceCancelled
)

func (k EventKind) String() string {
	switch k {
	case EventDateChanged:
		return "date-changed"
	case EventRangeEndpoint:
		return "range-endpoint"
	case EventValidity:
		return "validity"
	case EventRecurrenceRule:
		return "recurrence-rule"
	case EventRecurrenceCancelled:
		return "recurrence-cancelled"
	default:
		return "none"
	}
}

// Event is the single message type flowing from sub-pickers to the coordinator.
// Which payload fields matter depends on Kind.
type Event struct {
	Kind      EventKind
	Source    options.Picker
	Selection selection.Selected
	FirstPick bool
	Valid     bool
	Rule      string
}

func DateChanged(sel selection.Selected) Event {
	return Event{Kind: EventDateChanged, Source: options.PickerDate, Selection: sel}
}

func RangeEndpoint(firstPick bool, sel selection.Selected) Event {
	return Event{Kind: EventRangeEndpoint, Source: options.PickerDate, FirstPick: firstPick, Selection: sel}
}

func Validity(source options.Picker, valid bool) Event {
	return Event{Kind: EventValidity, Source: source, Valid: valid}
}

func RecurrenceRule(rule string) Event {
	return Event{Kind: EventRecurrenceRule, Source: options.PickerRecurrence, Rule: rule}
}

func RecurrenceCancelled() Event {
	return Event{Kind: EventRecurrenceCancelled, Source: options.PickerRecurrence}
}

func (e Event) String() string {
	switch e.Kind {
	case EventRangeEndpoint:
		return fmt.Sprintf("%s(first=%t, %s)", e.Kind, e.FirstPick, e.Selection)
	case EventDateChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Selection)
	case EventValidity:
		return fmt.Sprintf("%s(%s=%t)", e.Kind, e.Source, e.Valid)
	case EventRecurrenceRule:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Rule)
	default:
		return e.Kind.String()
	}
}
