// Package picker defines what the coordinator expects from a sub-picker and the
// events sub-pickers send back.
//
// Allowed here:
// - capability interfaces and the event message contract
// - the visibility flag shared by all surfaces
//
// Not allowed here:
// - drawing, key handling or any concrete picker state
package picker

import (
	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/selection"
)

// Surface is anything the coordinator can show or hide, including the shared
// container that holds the date and time pickers.
type Surface interface {
	Show()
	Hide()
	Visible() bool
}

// Params is the slice of the configuration a sub-picker is initialized with.
// Each picker reads only the fields that concern it.
type Params struct {
	Date           selection.Date
	AllowRange     bool
	MinDate        selection.Date
	MaxDate        selection.Date
	Hour           int
	Minute         int
	Is24Hour       bool
	RecurrenceRule string
}

// SubPicker is the capability every date, time and recurrence picker exposes
// to the coordinator.
type SubPicker interface {
	Surface
	Kind() options.Picker
	Init(params Params, sink Sink)
	SetValidationCallback(sink Sink)
	// Detach tears the picker down for good. A detached picker never receives
	// another call from the coordinator.
	Detach()
}

// DateSurface is the extra capability of the date picker.
type DateSurface interface {
	SubPicker
	Reinit(sel selection.Selected, allowRange bool)
	SetMinDate(d selection.Date)
	SetMaxDate(d selection.Date)
	SetFirstEndpoint(d selection.Date)
	SetSecondEndpoint(d selection.Date)
}

// Sink receives events from sub-pickers. Delivery is synchronous.
type Sink interface {
	Dispatch(ev Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Dispatch(ev Event) {
	if f != nil {
		f(ev)
	}
}

// Visibility is an embeddable Surface.
type Visibility struct {
	visible bool
}

func (v *Visibility) Show()         { v.visible = true }
func (v *Visibility) Hide()         { v.visible = false }
func (v *Visibility) Visible() bool { return v.visible }
