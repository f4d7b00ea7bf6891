package options

import (
	"fmt"
	"strings"
)

// Picker names one of the sub-pickers. PickerNone doubles as "nothing shown"
// for the current picker and "nothing to return to" for the hidden one.
type Picker int

const (
	PickerNone Picker = iota
	PickerDate
	PickerTime
	PickerRecurrence
)

// Wire names. They are persisted, so they must not change.
var pickerNames = map[Picker]string{
	PickerNone:       "INVALID",
	PickerDate:       "DATE_PICKER",
	PickerTime:       "TIME_PICKER",
	PickerRecurrence: "REPEAT_OPTION_PICKER",
}

func (p Picker) String() string {
	if name, ok := pickerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Picker(%d)", int(p))
}

// ParsePicker accepts the wire name or a short config alias
// ("date", "time", "recurrence", "none").
func ParsePicker(s string) (Picker, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for p, name := range pickerNames {
		if key == name {
			return p, nil
		}
	}
	switch key {
	case "DATE":
		return PickerDate, nil
	case "TIME":
		return PickerTime, nil
	case "RECURRENCE", "REPEAT":
		return PickerRecurrence, nil
	case "NONE", "":
		return PickerNone, nil
	}
	return PickerNone, fmt.Errorf("unknown picker %q", s)
}

// PickerSet is a bit set of enabled pickers. It is a plain value so copies of
// a validated Options never alias.
type PickerSet uint8

const (
	ActivateDate PickerSet = 1 << iota
	ActivateTime
	ActivateRecurrence
)

func SetOf(pickers ...Picker) PickerSet {
	var s PickerSet
	for _, p := range pickers {
		s |= flagFor(p)
	}
	return s
}

func (s PickerSet) Has(p Picker) bool {
	f := flagFor(p)
	return f != 0 && s&f != 0
}

func (s PickerSet) Empty() bool {
	return s&(ActivateDate|ActivateTime|ActivateRecurrence) == 0
}

// Pickers lists members in DATE, TIME, RECURRENCE order.
func (s PickerSet) Pickers() []Picker {
	out := make([]Picker, 0, 3)
	for _, p := range []Picker{PickerDate, PickerTime, PickerRecurrence} {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s PickerSet) String() string {
	names := make([]string, 0, 3)
	for _, p := range s.Pickers() {
		names = append(names, p.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

func flagFor(p Picker) PickerSet {
	switch p {
	case PickerDate:
		return ActivateDate
	case PickerTime:
		return ActivateTime
	case PickerRecurrence:
		return ActivateRecurrence
	default:
		return 0
	}
}
