// Package tui hosts the picker widget in a bubbletea program. The App builds
// the sub-pickers, hands them to a coordinator and plays the listener role.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/sublimepicker/internal/coordinator"
	"github.com/jask/sublimepicker/internal/database/repository"
	"github.com/jask/sublimepicker/internal/export"
	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/parcel"
	"github.com/jask/sublimepicker/internal/pickers"
	"github.com/jask/sublimepicker/internal/selection"
	"github.com/jask/sublimepicker/internal/widgets"
)

// StateStore keeps the coordinator's saved state between runs.
type StateStore interface {
	Load(ctx context.Context, instanceID string) (*repository.SavedState, error)
	Save(ctx context.Context, instanceID string, st parcel.State) error
	Delete(ctx context.Context, instanceID string) error
}

type Settings struct {
	Options    options.Options
	InstanceID string
	// MaxRangeDays clamps completed ranges; zero means no limit.
	MaxRangeDays  int
	WeekStart     time.Weekday
	ExportPath    string
	Location      *time.Location
	FlashDuration time.Duration
}

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeConfirmed
	OutcomeCancelled
	OutcomeSaved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeSaved:
		return "saved"
	default:
		return "pending"
	}
}

// Result is what the program ended with.
type Result struct {
	Outcome   Outcome
	Selection selection.Selected
	HasTime   bool
	Hour      int
	Minute    int
	Rule      string
	Err       error
}

// App ties together the pickers, the coordinator and the state store.
type App struct {
	ctx      context.Context
	settings Settings
	store    StateStore
	log      zerolog.Logger
	keys     *KeyRegistry

	coord      *coordinator.Coordinator
	date       *pickers.Date
	clock      *pickers.Clock
	recurrence *pickers.Recurrence

	selection selection.Selected
	rule      string
	valid     bool
	restored  bool

	width     int
	height    int
	status    string
	statusErr bool
	flash     bool
	flashSeq  int

	// pending collects commands raised from coordinator hooks during a step.
	pending []tea.Cmd
	result  Result
}

// New builds and initializes the widget, then restores any saved state for
// s.InstanceID. store may be nil.
func New(ctx context.Context, s Settings, store StateStore, log zerolog.Logger) (*App, error) {
	if s.FlashDuration <= 0 {
		s.FlashDuration = 250 * time.Millisecond
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	a := &App{
		ctx:      ctx,
		settings: s,
		store:    store,
		log:      log,
		keys:     NewKeyRegistry(DefaultKeyBindings()),
		valid:    true,
		width:    80,
		height:   24,
	}
	a.date = pickers.NewDate(s.WeekStart)
	a.clock = pickers.NewClock()
	a.recurrence = pickers.NewRecurrence()
	a.coord = coordinator.New(
		coordinator.Pickers{Date: a.date, Time: a.clock, Recurrence: a.recurrence},
		coordinator.WithLogger(log),
		coordinator.WithValidityHook(a.onValidity),
		coordinator.WithLayoutHook(a.onLayout),
	)

	opts := s.Options
	if err := a.coord.Initialize(&opts, hostListener{app: a}); err != nil {
		return nil, err
	}
	a.rule = a.coord.RecurrenceRule()
	if a.coord.Options().IsEnabled(options.PickerDate) {
		a.selection = a.date.Selection()
	}
	a.restore()
	return a, nil
}

// restore runs after Initialize so the sub-pickers exist before the
// coordinator re-reads their visibility.
func (a *App) restore() {
	if a.store == nil {
		a.seedRange()
		return
	}
	saved, err := a.store.Load(a.ctx, a.settings.InstanceID)
	if err != nil {
		a.log.Warn().Err(err).Str("instance", a.settings.InstanceID).Msg("saved state unreadable")
		a.setStatus("saved state ignored: "+err.Error(), true)
		a.seedRange()
		return
	}
	if saved == nil {
		a.seedRange()
		return
	}

	if a.coord.Options().IsEnabled(options.PickerRecurrence) {
		a.recurrence.SetRule(saved.State.RecurrenceRule)
	}
	if err := a.coord.RestoreState(saved.State); err != nil {
		a.log.Warn().Err(err).Str("instance", a.settings.InstanceID).Msg("saved state does not fit configuration")
		a.setStatus("saved state ignored: "+err.Error(), true)
		a.seedRange()
		return
	}
	a.rule = a.coord.RecurrenceRule()
	a.restored = true
	a.setStatus("restored "+strings.ToLower(saved.State.Current.String()), false)
}

// seedRange pre-selects a one-night stay from the initial date when range
// picking is on.
func (a *App) seedRange() {
	o := a.coord.Options()
	if !o.CanPickDateRange() {
		return
	}
	first := o.DateParams()
	if err := a.coord.SetInitialRangeEndpoint(first); err != nil {
		a.report(err)
		return
	}
	if a.settings.MaxRangeDays != 1 {
		if err := a.coord.SetInitialSecondEndpoint(first.AddDays(1)); err != nil {
			a.report(err)
			return
		}
	}
	a.selection = a.date.Selection()
	a.recurrence.SetAnchor(first)
}

func (a *App) Init() tea.Cmd {
	return a.flush()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case StatusMsg:
		a.setStatus(msg.Text, msg.IsErr)
	case flashDoneMsg:
		if msg.seq == a.flashSeq {
			a.flash = false
		}
	case tea.KeyMsg:
		a.handleKey(msg)
	}
	return a, a.flush()
}

func (a *App) flush() tea.Cmd {
	cmds := a.pending
	a.pending = nil
	return tea.Batch(cmds...)
}

func (a *App) scope() string {
	switch a.coord.CurrentPicker() {
	case options.PickerTime:
		return scopeTime
	case options.PickerRecurrence:
		if a.coord.HiddenPicker() == options.PickerNone {
			return scopeRepeatOnly
		}
		return scopeRecurrence
	default:
		return scopeDate
	}
}

func (a *App) handleKey(msg tea.KeyMsg) {
	scope := a.scope()
	if a.keys.IsAction(msg, actionQuit, scope) {
		a.quit()
		return
	}
	if scope == scopeRecurrence {
		a.recurrence.HandleKey(msg)
		return
	}
	if scope == scopeRepeatOnly {
		a.handleRepeatOnly(msg)
		return
	}

	switch {
	case a.keys.IsAction(msg, actionToggle, scope):
		if a.actionAvailable(actionToggle) {
			a.report(a.coord.Toggle())
		}
		return
	case a.keys.IsAction(msg, actionRecurrence, scope):
		if !a.actionAvailable(actionRecurrence) {
			a.setStatus("repeat is not enabled", true)
			return
		}
		a.report(a.coord.NavigateTo(options.PickerRecurrence))
		return
	case a.keys.IsAction(msg, actionConfirm, scope):
		a.confirm()
		return
	}

	// The visible picker gets first refusal, so esc can drop a typed entry.
	if a.forward(msg) {
		return
	}
	if a.keys.IsAction(msg, actionCancel, scope) {
		a.report(a.coord.Cancel())
	}
}

// handleRepeatOnly drives a widget whose only picker is recurrence. Leaving
// the popup has nowhere to go, so confirm and cancel act on the whole widget.
func (a *App) handleRepeatOnly(msg tea.KeyMsg) {
	switch {
	case a.keys.IsAction(msg, actionConfirm, scopeRepeatOnly):
		a.confirm()
	case a.keys.IsAction(msg, actionCancel, scopeRepeatOnly) && !a.recurrence.Editing() && a.recurrence.Filter() == "":
		a.report(a.coord.Cancel())
	default:
		a.recurrence.HandleKey(msg)
	}
}

func (a *App) forward(msg tea.KeyMsg) bool {
	switch a.coord.CurrentPicker() {
	case options.PickerDate:
		return a.date.HandleKey(msg)
	case options.PickerTime:
		return a.clock.HandleKey(msg)
	}
	return false
}

func (a *App) actionAvailable(action string) bool {
	o := a.coord.Options()
	switch action {
	case actionToggle:
		return o.IsEnabled(options.PickerDate) && o.IsEnabled(options.PickerTime)
	case actionRecurrence:
		return o.IsEnabled(options.PickerRecurrence)
	}
	return true
}

func (a *App) confirm() {
	if !a.valid {
		a.setStatus("cannot confirm: "+a.invalidPickers()+" is not valid", true)
		return
	}
	o := a.coord.Options()
	if o.CanPickDateRange() && a.date.AwaitingSecond() {
		a.setStatus("pick the end date first", true)
		return
	}

	res := Result{Outcome: OutcomeConfirmed, Rule: a.rule}
	if o.IsEnabled(options.PickerDate) {
		res.Selection = a.selection
	}
	if o.IsEnabled(options.PickerTime) {
		res.HasTime = true
		res.Hour, res.Minute = a.clock.Value()
	}

	if a.settings.ExportPath != "" {
		if !o.IsEnabled(options.PickerDate) {
			res.Selection = selection.Single(o.DateParams())
		}
		err := export.WriteFile(a.settings.ExportPath, export.Pick{
			Selection: res.Selection,
			HasTime:   res.HasTime,
			Hour:      res.Hour,
			Minute:    res.Minute,
			Rule:      res.Rule,
			Location:  a.settings.Location,
		})
		if err != nil {
			a.log.Error().Err(err).Str("path", a.settings.ExportPath).Msg("export failed")
			a.pending = append(a.pending, ErrorCmd(err))
			return
		}
		a.log.Info().Str("path", a.settings.ExportPath).Msg("exported pick")
	}

	a.forget()
	a.finish(res)
}

func (a *App) invalidPickers() string {
	var names []string
	for _, p := range a.coord.Options().Enabled.Pickers() {
		if !a.coord.PickerValid(p) {
			names = append(names, strings.ToLower(pickerTitle(p)))
		}
	}
	if len(names) == 0 {
		return "selection"
	}
	return strings.Join(names, ", ")
}

// quit keeps the visibility state so the next run opens where this one left off.
func (a *App) quit() {
	res := Result{Outcome: OutcomeSaved, Selection: a.selection, Rule: a.rule}
	if a.store != nil {
		st := a.coord.SaveState()
		if err := a.store.Save(a.ctx, a.settings.InstanceID, st); err != nil {
			a.log.Error().Err(err).Msg("save picker state")
			res.Err = err
		} else {
			a.log.Debug().
				Str("current", st.Current.String()).
				Str("hidden", st.Hidden.String()).
				Msg("picker state saved")
		}
	}
	a.finish(res)
}

func (a *App) forget() {
	if a.store == nil {
		return
	}
	if err := a.store.Delete(a.ctx, a.settings.InstanceID); err != nil {
		a.log.Warn().Err(err).Msg("delete picker state")
	}
}

func (a *App) finish(res Result) {
	a.result = res
	a.pending = append(a.pending, tea.Quit)
}

func (a *App) onValidity(valid bool) {
	a.valid = valid
}

func (a *App) onLayout(coordinator.Layout) {
	if !a.settings.Options.AnimateTransitions {
		return
	}
	a.flash = true
	a.flashSeq++
	seq := a.flashSeq
	a.pending = append(a.pending, tea.Tick(a.settings.FlashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	}))
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.log.Warn().Err(err).Msg("picker action failed")
	a.setStatus(err.Error(), true)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) Result() Result { return a.result }

func (a *App) Coordinator() *coordinator.Coordinator { return a.coord }

func (a *App) Selection() selection.Selected { return a.selection }

func (a *App) Rule() string { return a.rule }

func (a *App) Valid() bool { return a.valid }

func (a *App) Restored() bool { return a.restored }

func (a *App) Status() (string, bool) { return a.status, a.statusErr }

func (a *App) View() string {
	w, h := max(24, a.width), max(10, a.height)
	header := a.renderHeader(w)
	status := a.renderStatusBar()
	footer := a.renderFooter()
	bodyH := max(3, h-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer))
	return lipgloss.JoinVertical(lipgloss.Left, header, a.renderBody(w, bodyH), status, footer)
}

func (a *App) renderHeader(width int) string {
	o := a.coord.Options()
	parts := []string{}
	if o.IsEnabled(options.PickerDate) {
		text := a.selection.String()
		if o.CanPickDateRange() && a.date.AwaitingSecond() {
			text += " → …"
		}
		parts = append(parts, summaryLabelStyle.Render("date ")+summaryStyle.Render(text))
	}
	if o.IsEnabled(options.PickerTime) {
		parts = append(parts, summaryLabelStyle.Render("time ")+summaryStyle.Render(a.clock.Format()))
	}
	if o.IsEnabled(options.PickerRecurrence) {
		parts = append(parts, summaryLabelStyle.Render("repeat ")+summaryStyle.Render(pickers.DescribeRule(a.rule)))
	}
	mark := validStyle.Render("✓")
	if !a.valid {
		mark = invalidStyle.Render("✗")
	}
	line := headerStyle.Render("sublimepicker") + "  " + strings.Join(parts, "   ") + "  " + mark
	return widgets.FitHeight(renderBar(lipgloss.NewStyle(), width, line, widgets.ColorMantle), 1)
}

func (a *App) renderBody(width, height int) string {
	layout := a.coord.Layout()
	pane := widgets.Pane{Active: a.flash}
	switch {
	case layout.Time:
		pane.Title, pane.Content = pickerTitle(options.PickerTime), a.clock.View()
	case layout.Date:
		pane.Title, pane.Content = pickerTitle(options.PickerDate), a.date.View()
	default:
		pane.Title = "Picker"
	}
	if !layout.Recurrence {
		return pane.Render(width, height)
	}
	// The hidden picker stays drawn under the popup.
	pane.Active = false
	popup := widgets.Popup{Title: pickerTitle(options.PickerRecurrence), Body: a.recurrence.View()}
	return popup.Over(pane.Render(width, height), width, height)
}

func pickerTitle(p options.Picker) string {
	switch p {
	case options.PickerDate:
		return "Date"
	case options.PickerTime:
		return "Time"
	case options.PickerRecurrence:
		return "Repeat"
	default:
		return fmt.Sprint(p)
	}
}
