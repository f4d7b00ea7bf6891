package tui

import (
	"fmt"

	"github.com/jask/sublimepicker/internal/coordinator"
	"github.com/jask/sublimepicker/internal/pickers"
	"github.com/jask/sublimepicker/internal/selection"
)

var _ coordinator.Listener = hostListener{}

// hostListener is the App's side of the coordinator contract. Range-length
// policy lives here, not in the coordinator.
type hostListener struct {
	app *App
}

func (l hostListener) OnDateRangeOrSingleDateSelected(isFirstPick bool, sel selection.Selected) {
	l.app.onPicked(isFirstPick, sel)
}

func (l hostListener) OnRecurrenceRuleSelected(rule string) {
	a := l.app
	a.rule = rule
	a.setStatus("repeat: "+pickers.DescribeRule(rule), false)
}

func (l hostListener) OnCancelled() {
	a := l.app
	a.forget()
	a.finish(Result{Outcome: OutcomeCancelled})
}

func (a *App) onPicked(isFirstPick bool, sel selection.Selected) {
	a.selection = sel
	a.recurrence.SetAnchor(sel.First())
	if isFirstPick {
		if a.coord.Options().CanPickDateRange() {
			a.setStatus("from "+sel.First().String()+", pick the end date", false)
		} else {
			a.setStatus("picked "+sel.String(), false)
		}
		return
	}

	limit := a.settings.MaxRangeDays
	if limit <= 0 || sel.Span() <= limit {
		a.setStatus("picked "+sel.String(), false)
		return
	}
	// Keep the first endpoint and pull the second towards it.
	end, _ := sel.Second()
	step := limit - 1
	if end.Before(sel.First()) {
		step = -step
	}
	clamped := sel.First().AddDays(step)
	if err := a.coord.SetInitialSecondEndpoint(clamped); err != nil {
		a.report(err)
		return
	}
	a.selection = selection.Range(sel.First(), clamped)
	a.log.Debug().
		Str("picked", sel.String()).
		Str("clamped", a.selection.String()).
		Int("max_days", limit).
		Msg("range clamped")
	a.pending = append(a.pending, StatusCmd(fmt.Sprintf("range limited to %d days: %s", limit, a.selection)))
}
