package coordinator

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/parcel"
)

// SaveState captures visibility only. Selections live in the sub-pickers.
func (c *Coordinator) SaveState() parcel.State {
	return parcel.State{
		Current:        c.current,
		Hidden:         c.hidden,
		RecurrenceRule: c.recurrenceRule,
	}
}

// RestoreState re-applies saved visibility and re-runs the display transition.
// Call it only after the sub-pickers are attached and have restored their own
// state, because the transition reads their visibility flags.
//
// A hidden picker only means something under recurrence and is dropped otherwise.
// Validity is not restored; sub-pickers report it again as they come back.
// The rule text is kept as-is for the next SaveState.
func (c *Coordinator) RestoreState(s parcel.State) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if s.Current != options.PickerNone && !c.opts.IsEnabled(s.Current) {
		return fmt.Errorf("%w: saved picker %s is not enabled", ErrInvalidArgument, s.Current)
	}
	switch s.Hidden {
	case options.PickerNone:
	case options.PickerDate, options.PickerTime:
		if !c.opts.IsEnabled(s.Hidden) {
			return fmt.Errorf("%w: saved hidden picker %s is not enabled", ErrInvalidArgument, s.Hidden)
		}
	default:
		return fmt.Errorf("%w: %s cannot be the hidden picker", ErrInvalidArgument, s.Hidden)
	}

	c.run(func() {
		c.current = s.Current
		c.hidden = options.PickerNone
		c.recurrenceRule = s.RecurrenceRule
		if s.Current == options.PickerRecurrence {
			c.hidden = s.Hidden
			c.primeHidden(s.Hidden)
		}
		c.updateDisplay()
	})
	c.log.Debug().
		Str("current", c.current.String()).
		Str("hidden", c.hidden.String()).
		Msg("state restored")
	return nil
}

// primeHidden puts the saved hidden picker on top inside the (about to be
// hidden) shared container, so the recompute in updateDisplay lands on it
// rather than on whatever a fresh instance showed first.
func (c *Coordinator) primeHidden(hidden options.Picker) {
	switch hidden {
	case options.PickerDate:
		if c.time != nil {
			c.time.Hide()
		}
		c.date.Show()
	case options.PickerTime:
		if c.date != nil {
			c.date.Hide()
		}
		c.time.Show()
	}
}
