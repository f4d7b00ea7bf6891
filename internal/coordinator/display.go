package coordinator

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/options"
)

// updateDisplay maps (current, hidden, enabled pickers) onto visibility flags.
// It is idempotent: a second call on unchanged state flips nothing.
func (c *Coordinator) updateDisplay() {
	before := c.Layout()

	switch c.current {
	case options.PickerDate:
		if c.time != nil {
			c.time.Hide()
		}
		if c.recurrence != nil {
			c.recurrence.Hide()
		}
		if c.date != nil {
			c.date.Show()
		}
		if c.container != nil {
			c.container.Show()
		}
	case options.PickerTime:
		if c.date != nil {
			c.date.Hide()
		}
		if c.recurrence != nil {
			c.recurrence.Hide()
		}
		if c.time != nil {
			c.time.Show()
		}
		if c.container != nil {
			c.container.Show()
		}
	case options.PickerRecurrence:
		c.updateHiddenPicker()
		// Recurrence is drawn on its own surface, so the shared container goes away.
		if c.container != nil {
			c.container.Hide()
		}
		if c.recurrence != nil {
			c.recurrence.Show()
		}
	default:
		return
	}

	after := c.Layout()
	c.log.Debug().
		Str("current", c.current.String()).
		Str("hidden", c.hidden.String()).
		Interface("layout", after).
		Msg("display updated")
	if after != before && c.onLayout != nil {
		c.onLayout(after)
	}
}

// updateHiddenPicker runs right before recurrence is shown so that leaving it
// returns to the picker the user came from.
func (c *Coordinator) updateHiddenPicker() {
	switch {
	case c.date != nil && c.time != nil:
		switch {
		case c.date.Visible():
			c.hidden = options.PickerDate
		case c.time.Visible():
			c.hidden = options.PickerTime
		default:
			c.hidden = options.PickerDate
		}
	case c.date != nil:
		c.hidden = options.PickerDate
	case c.time != nil:
		c.hidden = options.PickerTime
	default:
		c.hidden = options.PickerNone
	}
}

// NavigateTo overrides the current picker. PickerNone is accepted and leaves
// every surface as it is.
func (c *Coordinator) NavigateTo(p options.Picker) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if p != options.PickerNone && !c.opts.IsEnabled(p) {
		return fmt.Errorf("%w: %s is not enabled", ErrInvalidArgument, p)
	}
	c.run(func() {
		c.current = p
		if p != options.PickerRecurrence {
			c.hidden = options.PickerNone
		}
		c.updateDisplay()
	})
	return nil
}

// Back leaves the recurrence picker for the picker it replaced. Outside of
// recurrence, or with nothing to return to, it does nothing.
func (c *Coordinator) Back() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.current != options.PickerRecurrence || c.hidden == options.PickerNone {
		return nil
	}
	return c.NavigateTo(c.hidden)
}

// Toggle switches between the date and time pickers when both are enabled.
func (c *Coordinator) Toggle() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	switch c.current {
	case options.PickerDate:
		if c.time != nil {
			return c.NavigateTo(options.PickerTime)
		}
	case options.PickerTime:
		if c.date != nil {
			return c.NavigateTo(options.PickerDate)
		}
	}
	return nil
}
