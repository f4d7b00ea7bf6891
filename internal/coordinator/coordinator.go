// Package coordinator owns which sub-picker is on screen, aggregates their
// validity and forwards finished picks to the host.
//
// Everything runs on the caller's goroutine. Events raised while another event
// is being handled are queued and handled afterwards, in arrival order.
package coordinator

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/picker"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotInitialized     = errors.New("picker is not initialized")
	ErrAlreadyInitialized = errors.New("picker is already initialized")
)

// Pickers are the collaborators handed to New. Any of them may be nil when
// the matching picker will never be enabled. A nil Container is replaced by a
// bare visibility flag.
type Pickers struct {
	Date       picker.DateSurface
	Time       picker.SubPicker
	Recurrence picker.SubPicker
	Container  picker.Surface
}

// Layout is the raw visibility of every surface.
type Layout struct {
	Container  bool
	Date       bool
	Time       bool
	Recurrence bool
}

type Option func(*Coordinator)

func WithLogger(log zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithValidityHook receives the AND of every enabled picker's validity each
// time one of them reports a change. The coordinator itself applies no policy.
func WithValidityHook(fn func(allValid bool)) Option {
	return func(c *Coordinator) { c.onValidity = fn }
}

// WithLayoutHook is called after a transition that changed the layout.
// Re-running a transition on unchanged state does not call it.
func WithLayoutHook(fn func(Layout)) Option {
	return func(c *Coordinator) { c.onLayout = fn }
}

type Coordinator struct {
	date       picker.DateSurface
	time       picker.SubPicker
	recurrence picker.SubPicker
	container  picker.Surface

	opts     options.Options
	listener Listener

	current        options.Picker
	hidden         options.Picker
	validity       map[options.Picker]bool
	recurrenceRule string
	initialized    bool

	queue       []picker.Event
	dispatching bool

	log        zerolog.Logger
	onValidity func(bool)
	onLayout   func(Layout)
}

func New(p Pickers, opts ...Option) *Coordinator {
	c := &Coordinator{
		date:       p.Date,
		time:       p.Time,
		recurrence: p.Recurrence,
		container:  p.Container,
		log:        zerolog.Nop(),
	}
	if c.container == nil {
		c.container = &picker.Visibility{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize applies o once. A nil o means options.Default(). On error the
// coordinator is left untouched and Initialize may be called again.
func (c *Coordinator) Initialize(o *options.Options, listener Listener) error {
	if listener == nil {
		return fmt.Errorf("%w: listener cannot be nil", ErrInvalidArgument)
	}
	if c.initialized {
		return ErrAlreadyInitialized
	}
	cfg := options.Default()
	if o != nil {
		cfg = *o
	}
	validated, err := cfg.Validate()
	if err != nil {
		return err
	}
	if err := c.checkCollaborators(validated.Enabled); err != nil {
		return err
	}

	c.opts = validated
	c.listener = listener
	c.run(func() {
		c.processOptions()
		c.initialized = true
		c.updateDisplay()
	})
	c.log.Debug().
		Str("enabled", validated.Enabled.String()).
		Bool("range", validated.CanPickDateRange()).
		Str("current", c.current.String()).
		Msg("picker initialized")
	return nil
}

func (c *Coordinator) checkCollaborators(enabled options.PickerSet) error {
	missing := func(p options.Picker) error {
		return fmt.Errorf("%w: %s enabled but no picker supplied", ErrInvalidArgument, p)
	}
	if enabled.Has(options.PickerDate) && c.date == nil {
		return missing(options.PickerDate)
	}
	if enabled.Has(options.PickerTime) && c.time == nil {
		return missing(options.PickerTime)
	}
	if enabled.Has(options.PickerRecurrence) && c.recurrence == nil {
		return missing(options.PickerRecurrence)
	}
	return nil
}

// processOptions wires enabled pickers and detaches the rest for the lifetime
// of this coordinator.
func (c *Coordinator) processOptions() {
	params := picker.Params{
		Date:           c.opts.DateParams(),
		AllowRange:     c.opts.CanPickDateRange(),
		MinDate:        c.opts.MinDate,
		MaxDate:        c.opts.MaxDate,
		Hour:           c.opts.Hour,
		Minute:         c.opts.Minute,
		Is24Hour:       c.opts.Is24Hour,
		RecurrenceRule: c.opts.RecurrenceRule,
	}
	c.validity = make(map[options.Picker]bool, 3)

	if c.opts.IsEnabled(options.PickerDate) {
		c.date.Init(params, c)
		if !c.opts.MinDate.IsZero() {
			c.date.SetMinDate(c.opts.MinDate)
		}
		if !c.opts.MaxDate.IsZero() {
			c.date.SetMaxDate(c.opts.MaxDate)
		}
		c.date.SetValidationCallback(c)
		c.validity[options.PickerDate] = true
	} else if c.date != nil {
		c.date.Detach()
		c.date = nil
	}

	if c.opts.IsEnabled(options.PickerTime) {
		c.time.Init(params, c)
		c.time.SetValidationCallback(c)
		c.validity[options.PickerTime] = true
	} else if c.time != nil {
		c.time.Detach()
		c.time = nil
	}

	if c.opts.IsEnabled(options.PickerRecurrence) {
		c.recurrence.Init(params, c)
		c.recurrence.SetValidationCallback(c)
		c.validity[options.PickerRecurrence] = true
	} else if c.recurrence != nil {
		c.recurrence.Detach()
		c.recurrence = nil
	}

	if c.date == nil && c.time == nil {
		c.container.Hide()
		c.container = nil
	}

	c.recurrenceRule = c.opts.RecurrenceRule
	c.current = c.opts.PickerToShow
	c.hidden = options.PickerNone
}

// run executes fn as one step of the event loop: events raised inside fn are
// handled after it returns, never in the middle of it.
func (c *Coordinator) run(fn func()) {
	if c.dispatching {
		fn()
		return
	}
	c.dispatching = true
	defer func() { c.dispatching = false }()
	fn()
	c.drain()
}

func (c *Coordinator) drain() {
	for len(c.queue) > 0 {
		ev := c.queue[0]
		c.queue = c.queue[1:]
		c.handle(ev)
	}
}

// Options returns the validated configuration.
func (c *Coordinator) Options() options.Options { return c.opts }

func (c *Coordinator) Initialized() bool { return c.initialized }

func (c *Coordinator) CurrentPicker() options.Picker { return c.current }

func (c *Coordinator) HiddenPicker() options.Picker { return c.hidden }

// RecurrenceRule is the last rule chosen or restored. The coordinator only
// carries it; the recurrence picker owns editing it.
func (c *Coordinator) RecurrenceRule() string { return c.recurrenceRule }

func (c *Coordinator) Layout() Layout {
	l := Layout{}
	if c.container != nil {
		l.Container = c.container.Visible()
	}
	if c.date != nil {
		l.Date = c.date.Visible()
	}
	if c.time != nil {
		l.Time = c.time.Visible()
	}
	if c.recurrence != nil {
		l.Recurrence = c.recurrence.Visible()
	}
	return l
}
