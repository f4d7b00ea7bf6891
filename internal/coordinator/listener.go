package coordinator

import "github.com/jask/sublimepicker/internal/selection"

// Listener is the host application's side of the widget.
type Listener interface {
	// OnDateRangeOrSingleDateSelected fires once per picked endpoint. isFirstPick
	// is true for the first endpoint of a range and for every single-date pick.
	OnDateRangeOrSingleDateSelected(isFirstPick bool, sel selection.Selected)
	OnRecurrenceRuleSelected(rule string)
	OnCancelled()
}

// ListenerFuncs lets a host implement only the callbacks it cares about.
type ListenerFuncs struct {
	Selected   func(isFirstPick bool, sel selection.Selected)
	Recurrence func(rule string)
	Cancelled  func()
}

func (l ListenerFuncs) OnDateRangeOrSingleDateSelected(isFirstPick bool, sel selection.Selected) {
	if l.Selected != nil {
		l.Selected(isFirstPick, sel)
	}
}

func (l ListenerFuncs) OnRecurrenceRuleSelected(rule string) {
	if l.Recurrence != nil {
		l.Recurrence(rule)
	}
}

func (l ListenerFuncs) OnCancelled() {
	if l.Cancelled != nil {
		l.Cancelled()
	}
}
