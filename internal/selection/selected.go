// Package selection holds the value reported to listeners when the user picks
// one date or the endpoints of a date range.
package selection

// Mode tells a single-date selection apart from a range selection.
type Mode int

const (
	ModeSingle Mode = iota
	ModeRange
)

func (m Mode) String() string {
	if m == ModeRange {
		return "RANGE"
	}
	return "SINGLE"
}

// Selected is immutable; every pick builds a new value.
//
// In range mode the second endpoint may still be missing, and nothing orders
// the endpoints: a picker may accept them either way round.
type Selected struct {
	mode      Mode
	first     Date
	second    Date
	hasSecond bool
}

func Single(d Date) Selected {
	return Selected{mode: ModeSingle, first: d}
}

// Partial is a range whose second endpoint has not been picked yet.
func Partial(first Date) Selected {
	return Selected{mode: ModeRange, first: first}
}

func Range(first, second Date) Selected {
	return Selected{mode: ModeRange, first: first, second: second, hasSecond: true}
}

func (s Selected) Mode() Mode { return s.mode }

func (s Selected) First() Date { return s.first }

// Second reports false for single selections and partial ranges.
func (s Selected) Second() (Date, bool) {
	return s.second, s.hasSecond
}

func (s Selected) IsZero() bool {
	return s == Selected{}
}

// Complete is true for a single date or a range with both endpoints.
func (s Selected) Complete() bool {
	return s.mode == ModeSingle || s.hasSecond
}

// Span is the number of days covered, counting both endpoints. A reversed
// range still reports a positive span.
func (s Selected) Span() int {
	if !s.hasSecond {
		return 1
	}
	n := s.first.DaysBetween(s.second)
	if n < 0 {
		n = -n
	}
	return n + 1
}

// Contains reports whether d falls between the endpoints, whichever order they
// were picked in.
func (s Selected) Contains(d Date) bool {
	if s.IsZero() {
		return false
	}
	if !s.hasSecond {
		return d == s.first
	}
	lo, hi := s.first, s.second
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	return !d.Before(lo) && !d.After(hi)
}

func (s Selected) String() string {
	if s.hasSecond {
		return s.first.String() + " → " + s.second.String()
	}
	return s.first.String()
}
