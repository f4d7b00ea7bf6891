package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/parcel"
	"github.com/jask/sublimepicker/internal/picker"
	"github.com/jask/sublimepicker/internal/pickers"
	"github.com/jask/sublimepicker/internal/selection"
)

type fakePicker struct {
	picker.Visibility
	kind     options.Picker
	params   picker.Params
	sink     picker.Sink
	inits    int
	detached bool
}

func (f *fakePicker) Kind() options.Picker { return f.kind }

func (f *fakePicker) Init(p picker.Params, sink picker.Sink) {
	f.inits++
	f.params = p
	f.sink = sink
}

func (f *fakePicker) SetValidationCallback(sink picker.Sink) { f.sink = sink }

func (f *fakePicker) Detach() {
	f.Hide()
	f.detached = true
}

func (f *fakePicker) emit(ev picker.Event) { f.sink.Dispatch(ev) }

type fakeDate struct {
	fakePicker
	reinits  []selection.Selected
	min, max selection.Date
	first    selection.Date
	second   selection.Date
}

func (f *fakeDate) Reinit(sel selection.Selected, allowRange bool) {
	f.reinits = append(f.reinits, sel)
}

func (f *fakeDate) SetMinDate(d selection.Date)        { f.min = d }
func (f *fakeDate) SetMaxDate(d selection.Date)        { f.max = d }
func (f *fakeDate) SetFirstEndpoint(d selection.Date)  { f.first = d }
func (f *fakeDate) SetSecondEndpoint(d selection.Date) { f.second = d }

type fixture struct {
	date       *fakeDate
	time       *fakePicker
	recurrence *fakePicker
	container  *picker.Visibility
}

func newFixture() *fixture {
	return &fixture{
		date:       &fakeDate{fakePicker: fakePicker{kind: options.PickerDate}},
		time:       &fakePicker{kind: options.PickerTime},
		recurrence: &fakePicker{kind: options.PickerRecurrence},
		container:  &picker.Visibility{},
	}
}

func (f *fixture) pickers() Pickers {
	return Pickers{Date: f.date, Time: f.time, Recurrence: f.recurrence, Container: f.container}
}

type call struct {
	first bool
	sel   selection.Selected
}

type recordingListener struct {
	calls     []call
	rules     []string
	cancelled int
}

func (l *recordingListener) OnDateRangeOrSingleDateSelected(first bool, sel selection.Selected) {
	l.calls = append(l.calls, call{first: first, sel: sel})
}

func (l *recordingListener) OnRecurrenceRuleSelected(rule string) { l.rules = append(l.rules, rule) }

func (l *recordingListener) OnCancelled() { l.cancelled++ }

func allPickers(show options.Picker) *options.Options {
	o := options.Default().
		WithPickers(options.PickerDate, options.PickerTime, options.PickerRecurrence).
		WithPickerToShow(show).
		WithDate(selection.NewDate(2024, 1, 10))
	return &o
}

func mustInit(t *testing.T, f *fixture, o *options.Options, opts ...Option) (*Coordinator, *recordingListener) {
	t.Helper()
	c := New(f.pickers(), opts...)
	l := &recordingListener{}
	require.NoError(t, c.Initialize(o, l))
	return c, l
}

func TestInitializeRequiresListener(t *testing.T) {
	c := New(newFixture().pickers())
	err := c.Initialize(nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.False(t, c.Initialized())
}

func TestInitializeRejectsBadConfiguration(t *testing.T) {
	f := newFixture()
	c := New(f.pickers())
	bad := options.Default().WithPickerToShow(options.PickerTime)

	err := c.Initialize(&bad, &recordingListener{})
	require.ErrorIs(t, err, options.ErrConfiguration)
	require.False(t, c.Initialized())
	require.Zero(t, f.date.inits)
	require.False(t, f.container.Visible())

	// Nothing was half-applied, so a corrected configuration still goes through.
	require.NoError(t, c.Initialize(nil, &recordingListener{}))
	require.ErrorIs(t, c.Initialize(nil, &recordingListener{}), ErrAlreadyInitialized)
}

func TestInitializeRequiresEnabledCollaborators(t *testing.T) {
	c := New(Pickers{Date: newFixture().date})
	o := options.Default().WithPickers(options.PickerDate, options.PickerTime)
	err := c.Initialize(&o, &recordingListener{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.False(t, c.Initialized())
}

func TestInitializeDefaults(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, nil)

	require.Equal(t, options.PickerDate, c.CurrentPicker())
	require.Equal(t, options.PickerNone, c.HiddenPicker())
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())
	require.Equal(t, selection.Today(), f.date.params.Date)
	require.False(t, f.date.params.AllowRange)
	require.True(t, f.time.detached)
	require.True(t, f.recurrence.detached)
	require.Zero(t, f.time.inits)
}

func TestInitializePassesParams(t *testing.T) {
	f := newFixture()
	o := options.Default().
		WithPickers(options.PickerDate, options.PickerTime).
		WithRange(true).
		WithDate(selection.NewDate(2024, 5, 1)).
		WithDateBounds(selection.NewDate(2024, 1, 1), selection.NewDate(2024, 12, 31)).
		WithTime(18, 45, true)
	mustInit(t, f, &o)

	require.True(t, f.date.params.AllowRange)
	require.Equal(t, selection.NewDate(2024, 1, 1), f.date.min)
	require.Equal(t, selection.NewDate(2024, 12, 31), f.date.max)
	require.Equal(t, 18, f.time.params.Hour)
	require.Equal(t, 45, f.time.params.Minute)
	require.True(t, f.time.params.Is24Hour)
	require.NotNil(t, f.date.sink)
	require.True(t, f.recurrence.detached)
}

func TestRecurrenceOnlyDropsContainer(t *testing.T) {
	f := newFixture()
	o := options.Default().
		WithPickers(options.PickerRecurrence).
		WithPickerToShow(options.PickerRecurrence)
	c, _ := mustInit(t, f, &o)

	require.True(t, f.date.detached)
	require.True(t, f.time.detached)
	require.Equal(t, options.PickerNone, c.HiddenPicker())
	require.Equal(t, Layout{Recurrence: true}, c.Layout())
}

func TestTransitionTable(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate))
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())

	require.NoError(t, c.NavigateTo(options.PickerTime))
	require.Equal(t, Layout{Container: true, Time: true}, c.Layout())

	require.NoError(t, c.NavigateTo(options.PickerRecurrence))
	require.Equal(t, options.PickerTime, c.HiddenPicker())
	require.Equal(t, Layout{Time: true, Recurrence: true}, c.Layout())

	require.NoError(t, c.NavigateTo(options.PickerDate))
	require.Equal(t, options.PickerNone, c.HiddenPicker())
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())

	// NONE leaves every surface alone.
	require.NoError(t, c.NavigateTo(options.PickerNone))
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())
}

func TestHiddenPickerRecompute(t *testing.T) {
	cases := []struct {
		name    string
		enabled []options.Picker
		want    options.Picker
	}{
		{"both enabled, neither visible", []options.Picker{options.PickerDate, options.PickerTime, options.PickerRecurrence}, options.PickerDate},
		{"date only", []options.Picker{options.PickerDate, options.PickerRecurrence}, options.PickerDate},
		{"time only", []options.Picker{options.PickerTime, options.PickerRecurrence}, options.PickerTime},
		{"neither", []options.Picker{options.PickerRecurrence}, options.PickerNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			o := options.Default().WithPickers(tc.enabled...).WithPickerToShow(options.PickerRecurrence)
			c, _ := mustInit(t, f, &o)
			require.Equal(t, tc.want, c.HiddenPicker())
		})
	}
}

func TestRecurrenceRoundTripKeepsDate(t *testing.T) {
	f := newFixture()
	c, l := mustInit(t, f, allPickers(options.PickerDate))

	require.NoError(t, c.NavigateTo(options.PickerRecurrence))
	require.Equal(t, options.PickerDate, c.HiddenPicker())

	require.NoError(t, c.Back())
	require.Equal(t, options.PickerDate, c.CurrentPicker())
	require.True(t, f.date.Visible())
	require.False(t, f.time.Visible())
	require.False(t, f.recurrence.Visible())

	// Choosing a rule also goes back.
	require.NoError(t, c.NavigateTo(options.PickerRecurrence))
	f.recurrence.emit(picker.RecurrenceRule("FREQ=DAILY"))
	require.Equal(t, []string{"FREQ=DAILY"}, l.rules)
	require.Equal(t, "FREQ=DAILY", c.RecurrenceRule())
	require.Equal(t, options.PickerDate, c.CurrentPicker())

	require.NoError(t, c.NavigateTo(options.PickerRecurrence))
	f.recurrence.emit(picker.RecurrenceCancelled())
	require.Equal(t, options.PickerDate, c.CurrentPicker())
	require.Len(t, l.rules, 1)
}

func TestTransitionIsIdempotent(t *testing.T) {
	for _, target := range []options.Picker{
		options.PickerDate, options.PickerTime, options.PickerRecurrence, options.PickerNone,
	} {
		t.Run(target.String(), func(t *testing.T) {
			layouts := 0
			f := newFixture()
			c, _ := mustInit(t, f, allPickers(options.PickerTime), WithLayoutHook(func(Layout) { layouts++ }))

			require.NoError(t, c.NavigateTo(target))
			once, hidden, fired := c.Layout(), c.HiddenPicker(), layouts
			c.run(c.updateDisplay)
			require.Equal(t, once, c.Layout())
			require.Equal(t, hidden, c.HiddenPicker())
			require.Equal(t, fired, layouts)
		})
	}
}

func TestLayoutHookFiresOnChangeOnly(t *testing.T) {
	var seen []Layout
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate), WithLayoutHook(func(l Layout) { seen = append(seen, l) }))
	require.Len(t, seen, 1)

	require.NoError(t, c.NavigateTo(options.PickerDate))
	require.Len(t, seen, 1)
	require.NoError(t, c.NavigateTo(options.PickerTime))
	require.Equal(t, []Layout{
		{Container: true, Date: true},
		{Container: true, Time: true},
	}, seen)
}

func TestNavigateErrors(t *testing.T) {
	c := New(newFixture().pickers())
	require.ErrorIs(t, c.NavigateTo(options.PickerDate), ErrNotInitialized)
	require.ErrorIs(t, c.Back(), ErrNotInitialized)
	require.ErrorIs(t, c.Toggle(), ErrNotInitialized)
	require.ErrorIs(t, c.Cancel(), ErrNotInitialized)
	require.ErrorIs(t, c.RestoreState(c.SaveState()), ErrNotInitialized)
	require.ErrorIs(t, c.SetInitialRangeEndpoint(selection.Today()), ErrNotInitialized)

	f := newFixture()
	c, _ = mustInit(t, f, nil)
	require.ErrorIs(t, c.NavigateTo(options.PickerTime), ErrInvalidArgument)
	require.Equal(t, options.PickerDate, c.CurrentPicker())
	require.NoError(t, c.Toggle())
	require.Equal(t, options.PickerDate, c.CurrentPicker())
	require.NoError(t, c.Back())
}

func TestToggle(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate))
	require.NoError(t, c.Toggle())
	require.Equal(t, options.PickerTime, c.CurrentPicker())
	require.NoError(t, c.Toggle())
	require.Equal(t, options.PickerDate, c.CurrentPicker())
}

func TestDateChangedReinitsWithoutListener(t *testing.T) {
	f := newFixture()
	o := options.Default().WithRange(true)
	_, l := mustInit(t, f, &o)

	sel := selection.Partial(selection.NewDate(2024, 2, 3))
	f.date.emit(picker.DateChanged(sel))
	require.Equal(t, []selection.Selected{sel}, f.date.reinits)
	require.Empty(t, l.calls)
}

func TestValidityAggregation(t *testing.T) {
	var hook []bool
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate), WithValidityHook(func(v bool) { hook = append(hook, v) }))
	require.True(t, c.Valid())

	f.time.emit(picker.Validity(options.PickerTime, false))
	require.False(t, c.Valid())
	require.False(t, c.PickerValid(options.PickerTime))
	require.True(t, c.PickerValid(options.PickerDate))

	f.date.emit(picker.Validity(options.PickerDate, false))
	f.time.emit(picker.Validity(options.PickerTime, true))
	f.date.emit(picker.Validity(options.PickerDate, true))
	require.Equal(t, []bool{false, false, false, true}, hook)
	require.True(t, c.Valid())
}

func TestValidityIgnoresDisabledPickers(t *testing.T) {
	var hook []bool
	f := newFixture()
	c, _ := mustInit(t, f, nil, WithValidityHook(func(v bool) { hook = append(hook, v) }))

	c.Dispatch(picker.Validity(options.PickerTime, false))
	require.True(t, c.Valid())
	require.False(t, c.PickerValid(options.PickerTime))
	require.Empty(t, hook)
}

func TestEventsBeforeInitializeAreDropped(t *testing.T) {
	f := newFixture()
	c := New(f.pickers())
	c.Dispatch(picker.RangeEndpoint(true, selection.Single(selection.Today())))

	l := &recordingListener{}
	require.NoError(t, c.Initialize(nil, l))
	require.Empty(t, l.calls)
}

// reentrantListener raises a second event from inside a listener callback.
type reentrantListener struct {
	recordingListener
	c     *Coordinator
	order []string
}

func (l *reentrantListener) OnDateRangeOrSingleDateSelected(first bool, sel selection.Selected) {
	l.order = append(l.order, "pick:start")
	if first {
		l.c.Dispatch(picker.Validity(options.PickerDate, false))
	}
	l.order = append(l.order, "pick:end")
}

func TestNestedEventsAreQueued(t *testing.T) {
	f := newFixture()
	c := New(f.pickers())
	l := &reentrantListener{c: c}
	require.NoError(t, c.Initialize(nil, l))
	c.onValidity = func(bool) { l.order = append(l.order, "validity") }

	f.date.emit(picker.RangeEndpoint(true, selection.Single(selection.Today())))
	require.Equal(t, []string{"pick:start", "pick:end", "validity"}, l.order)
	require.False(t, c.Valid())
}

func TestCancel(t *testing.T) {
	f := newFixture()
	c, l := mustInit(t, f, nil)
	require.NoError(t, c.Cancel())
	require.Equal(t, 1, l.cancelled)
}

func TestInitialEndpoints(t *testing.T) {
	f := newFixture()
	o := options.Default().WithRange(true)
	c, _ := mustInit(t, f, &o)

	in, out := selection.NewDate(2024, 7, 1), selection.NewDate(2024, 7, 4)
	require.NoError(t, c.SetInitialRangeEndpoint(in))
	require.NoError(t, c.SetInitialSecondEndpoint(out))
	require.Equal(t, in, f.date.first)
	require.Equal(t, out, f.date.second)

	g := newFixture()
	onlyTime := options.Default().WithPickers(options.PickerTime).WithPickerToShow(options.PickerTime)
	c, _ = mustInit(t, g, &onlyTime)
	require.ErrorIs(t, c.SetInitialRangeEndpoint(in), ErrInvalidArgument)
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	steps := map[options.Picker][]options.Picker{
		options.PickerDate:       {options.PickerTime, options.PickerDate},
		options.PickerTime:       {options.PickerTime},
		options.PickerRecurrence: {options.PickerTime, options.PickerRecurrence},
		options.PickerNone:       {options.PickerTime, options.PickerNone},
	}
	for current, path := range steps {
		t.Run(current.String(), func(t *testing.T) {
			f := newFixture()
			c, _ := mustInit(t, f, allPickers(options.PickerDate))
			for _, p := range path {
				require.NoError(t, c.NavigateTo(p))
			}
			want := c.Layout()
			saved := c.SaveState()
			require.Equal(t, current, saved.Current)

			// A fresh instance stands in for the recreated widget.
			g := newFixture()
			fresh, _ := mustInit(t, g, allPickers(options.PickerTime))
			require.NoError(t, fresh.RestoreState(saved))
			require.Equal(t, want, fresh.Layout())
			require.Equal(t, saved, fresh.SaveState())
		})
	}
}

func TestRestoreRecurrenceReturnsToSavedPicker(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerTime))
	require.NoError(t, c.NavigateTo(options.PickerRecurrence))
	saved := c.SaveState()
	require.Equal(t, options.PickerTime, saved.Hidden)

	g := newFixture()
	fresh, _ := mustInit(t, g, allPickers(options.PickerDate))
	require.NoError(t, fresh.RestoreState(saved))
	require.Equal(t, options.PickerTime, fresh.HiddenPicker())
	require.NoError(t, fresh.Back())
	require.Equal(t, options.PickerTime, fresh.CurrentPicker())
	require.True(t, g.time.Visible())
	require.False(t, g.date.Visible())
}

func TestRestoreRejectsForeignState(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, nil)
	before := c.SaveState()

	saved := c.SaveState()
	saved.Current = options.PickerTime
	require.ErrorIs(t, c.RestoreState(saved), ErrInvalidArgument)
	saved = c.SaveState()
	saved.Hidden = options.PickerRecurrence
	require.ErrorIs(t, c.RestoreState(saved), ErrInvalidArgument)
	require.Equal(t, before, c.SaveState())
}

func TestRestoreDropsHiddenOutsideRecurrence(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate))
	require.NoError(t, c.RestoreState(parcel.State{
		Current: options.PickerDate,
		Hidden:  options.PickerTime,
	}))
	require.Equal(t, options.PickerNone, c.HiddenPicker())
	require.Equal(t, parcel.State{Current: options.PickerDate, Hidden: options.PickerNone}, c.SaveState())
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())
}

func TestRestoreNoneLeavesSurfacesAlone(t *testing.T) {
	f := newFixture()
	c, _ := mustInit(t, f, allPickers(options.PickerDate))
	require.NoError(t, c.NavigateTo(options.PickerTime))
	require.NoError(t, c.NavigateTo(options.PickerNone))
	saved := c.SaveState()
	require.Equal(t, parcel.State{Current: options.PickerNone, Hidden: options.PickerNone}, saved)
	require.Equal(t, Layout{Container: true, Time: true}, c.Layout())

	// The recreated widget shows a different picker first; NONE must not move it.
	g := newFixture()
	var layouts []Layout
	fresh, _ := mustInit(t, g, allPickers(options.PickerDate),
		WithLayoutHook(func(l Layout) { layouts = append(layouts, l) }))
	before := fresh.Layout()
	require.Equal(t, Layout{Container: true, Date: true}, before)
	layouts = nil

	require.NoError(t, fresh.RestoreState(saved))
	require.Equal(t, options.PickerNone, fresh.CurrentPicker())
	require.Equal(t, before, fresh.Layout())
	require.Empty(t, layouts)
	require.Equal(t, saved, fresh.SaveState())
}

func TestRangeScenarioWithDatePicker(t *testing.T) {
	date := pickers.NewDate(time.Monday)
	c := New(Pickers{Date: date, Time: pickers.NewClock()})
	l := &recordingListener{}
	o := options.Default().
		WithPickers(options.PickerDate, options.PickerTime).
		WithRange(true).
		WithDate(selection.NewDate(2024, 1, 1))
	require.NoError(t, c.Initialize(&o, l))
	require.True(t, date.Visible())
	require.Equal(t, Layout{Container: true, Date: true}, c.Layout())

	d1, d2 := selection.NewDate(2024, 1, 10), selection.NewDate(2024, 1, 8)
	require.True(t, date.Pick(d1))
	require.True(t, date.Pick(d2))
	require.Equal(t, []call{
		{first: true, sel: selection.Single(d1)},
		{first: false, sel: selection.Range(d1, d2)},
	}, l.calls)
}
