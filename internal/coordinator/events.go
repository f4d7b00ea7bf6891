package coordinator

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/picker"
	"github.com/jask/sublimepicker/internal/selection"
)

// Dispatch implements picker.Sink.
func (c *Coordinator) Dispatch(ev picker.Event) {
	c.queue = append(c.queue, ev)
	if c.dispatching {
		return
	}
	c.run(func() {})
}

func (c *Coordinator) handle(ev picker.Event) {
	if !c.initialized {
		c.log.Debug().Stringer("event", ev).Msg("event before initialization dropped")
		return
	}
	c.log.Debug().Stringer("event", ev).Msg("dispatch")

	switch ev.Kind {
	case picker.EventDateChanged:
		c.onDateSelectionChanged(ev.Selection)
	case picker.EventRangeEndpoint:
		c.listener.OnDateRangeOrSingleDateSelected(ev.FirstPick, ev.Selection)
	case picker.EventValidity:
		c.onPickerValidityChanged(ev.Source, ev.Valid)
	case picker.EventRecurrenceRule:
		c.recurrenceRule = ev.Rule
		c.listener.OnRecurrenceRuleSelected(ev.Rule)
		c.leaveRecurrence()
	case picker.EventRecurrenceCancelled:
		c.leaveRecurrence()
	}
}

// onDateSelectionChanged is date-picker navigation. It resets range tracking
// but is not a completed pick, so the listener hears nothing.
func (c *Coordinator) onDateSelectionChanged(sel selection.Selected) {
	if c.date == nil {
		return
	}
	c.date.Reinit(sel, c.opts.CanPickDateRange())
}

func (c *Coordinator) onPickerValidityChanged(which options.Picker, valid bool) {
	if _, tracked := c.validity[which]; !tracked {
		return
	}
	c.validity[which] = valid
	c.reassessValidity()
}

func (c *Coordinator) reassessValidity() {
	all := c.Valid()
	c.log.Debug().Bool("valid", all).Msg("validity reassessed")
	if c.onValidity != nil {
		c.onValidity(all)
	}
}

// Valid is the AND of every enabled picker's last reported validity.
func (c *Coordinator) Valid() bool {
	for _, ok := range c.validity {
		if !ok {
			return false
		}
	}
	return true
}

// PickerValid reports the last validity of p. Pickers that are not enabled
// are reported invalid.
func (c *Coordinator) PickerValid(p options.Picker) bool {
	ok, tracked := c.validity[p]
	return tracked && ok
}

func (c *Coordinator) leaveRecurrence() {
	if c.current != options.PickerRecurrence || c.hidden == options.PickerNone {
		return
	}
	c.current = c.hidden
	c.hidden = options.PickerNone
	c.updateDisplay()
}

// Cancel tells the listener the user backed out of the whole widget.
func (c *Coordinator) Cancel() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.run(c.listener.OnCancelled)
	return nil
}

// SetInitialRangeEndpoint pre-seeds the first endpoint (a check-in date).
func (c *Coordinator) SetInitialRangeEndpoint(d selection.Date) error {
	if err := c.requireDate(); err != nil {
		return err
	}
	c.run(func() { c.date.SetFirstEndpoint(d) })
	return nil
}

// SetInitialSecondEndpoint pre-seeds the second endpoint (a check-out date).
func (c *Coordinator) SetInitialSecondEndpoint(d selection.Date) error {
	if err := c.requireDate(); err != nil {
		return err
	}
	c.run(func() { c.date.SetSecondEndpoint(d) })
	return nil
}

func (c *Coordinator) requireDate() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.date == nil {
		return fmt.Errorf("%w: date picker is not enabled", ErrInvalidArgument)
	}
	return nil
}
