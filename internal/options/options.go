// Package options describes how a picker widget is configured. A caller fills
// in Options, and the coordinator validates them once before building any state.
package options

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/selection"
)

// Options is the client's configuration. Zero dates in MinDate/MaxDate mean
// "no bound"; a zero Date means "today" at initialization.
type Options struct {
	Enabled            PickerSet
	AllowRange         bool
	Date               selection.Date
	MinDate            selection.Date
	MaxDate            selection.Date
	Hour               int
	Minute             int
	Is24Hour           bool
	PickerToShow       Picker
	AnimateTransitions bool
	RecurrenceRule     string
}

// Default is what a coordinator uses when it is handed no Options: the date
// picker alone, single-date mode, today preselected.
func Default() Options {
	return Options{
		Enabled:      ActivateDate,
		Date:         selection.Today(),
		PickerToShow: PickerDate,
	}
}

// Validate runs the checks in a fixed order and stops at the first failure.
// On success it returns a copy equal to o.
func (o Options) Validate() (Options, error) {
	if o.Enabled.Empty() {
		return Options{}, &ConfigError{Reason: ReasonNoPickers}
	}
	if !o.Enabled.Has(o.PickerToShow) {
		return Options{}, &ConfigError{
			Reason: ReasonPickerNotEnabled,
			Detail: fmt.Sprintf("%s not in %s", o.PickerToShow, o.Enabled),
		}
	}
	if !o.MinDate.IsZero() && !o.MaxDate.IsZero() && o.MinDate.After(o.MaxDate) {
		return Options{}, &ConfigError{
			Reason: ReasonBoundsInverted,
			Detail: fmt.Sprintf("%s > %s", o.MinDate, o.MaxDate),
		}
	}
	return o, nil
}

// IsEnabled reports whether p was switched on.
func (o Options) IsEnabled(p Picker) bool {
	return o.Enabled.Has(p)
}

// CanPickDateRange is only meaningful with the date picker on.
func (o Options) CanPickDateRange() bool {
	return o.AllowRange && o.Enabled.Has(PickerDate)
}

// DateParams returns the initial date, resolving a zero value to today.
func (o Options) DateParams() selection.Date {
	if o.Date.IsZero() {
		return selection.Today()
	}
	return o.Date
}

func (o Options) WithPickers(pickers ...Picker) Options {
	o.Enabled = SetOf(pickers...)
	return o
}

func (o Options) WithRange(allow bool) Options {
	o.AllowRange = allow
	return o
}

func (o Options) WithDateBounds(min, max selection.Date) Options {
	o.MinDate, o.MaxDate = min, max
	return o
}

func (o Options) WithDate(d selection.Date) Options {
	o.Date = d
	return o
}

func (o Options) WithTime(hour, minute int, is24Hour bool) Options {
	o.Hour, o.Minute, o.Is24Hour = hour, minute, is24Hour
	return o
}

func (o Options) WithPickerToShow(p Picker) Options {
	o.PickerToShow = p
	return o
}

func (o Options) WithAnimation(animate bool) Options {
	o.AnimateTransitions = animate
	return o
}

func (o Options) WithRecurrenceRule(rule string) Options {
	o.RecurrenceRule = rule
	return o
}
