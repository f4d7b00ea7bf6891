// Package parcel encodes the coordinator's saved visibility state so it can
// outlive the widget instance that produced it.
//
// The layout is three length-prefixed UTF-8 strings in a fixed order:
// current-picker name, hidden-picker name, recurrence rule text. Each length is
// a big-endian uint32.
package parcel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/jask/sublimepicker/internal/options"
)

// maxField bounds a single string so a corrupt length cannot force a huge allocation.
const maxField = 64 << 10

var ErrMalformed = errors.New("malformed picker state")

// State is the coordinator's minimal persisted state. Selections are not part
// of it; sub-pickers keep and restore those themselves.
type State struct {
	Current        options.Picker
	Hidden         options.Picker
	RecurrenceRule string
}

func Encode(s State) ([]byte, error) {
	var buf bytes.Buffer
	for _, field := range []string{s.Current.String(), s.Hidden.String(), s.RecurrenceRule} {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func Decode(data []byte) (State, error) {
	r := bytes.NewReader(data)
	fields := make([]string, 3)
	for i := range fields {
		v, err := readString(r)
		if err != nil {
			return State{}, fmt.Errorf("%w: field %d: %v", ErrMalformed, i, err)
		}
		fields[i] = v
	}
	if r.Len() != 0 {
		return State{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.Len())
	}

	current, err := parseName(fields[0])
	if err != nil {
		return State{}, err
	}
	hidden, err := parseName(fields[1])
	if err != nil {
		return State{}, err
	}
	if hidden == options.PickerRecurrence {
		return State{}, fmt.Errorf("%w: hidden picker cannot be %s", ErrMalformed, hidden)
	}
	return State{Current: current, Hidden: hidden, RecurrenceRule: fields[2]}, nil
}

func parseName(name string) (options.Picker, error) {
	// Only exact wire names; config aliases are not valid here.
	for _, p := range []options.Picker{options.PickerNone, options.PickerDate, options.PickerTime, options.PickerRecurrence} {
		if p.String() == name {
			return p, nil
		}
	}
	return options.PickerNone, fmt.Errorf("%w: unknown picker %q", ErrMalformed, name)
}

func writeString(w io.Writer, s string) error {
	if len(s) > maxField {
		return fmt.Errorf("field too long: %d bytes", len(s))
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("field is not valid UTF-8")
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", fmt.Errorf("read length: %w", err)
	}
	if n > maxField || int(n) > r.Len() {
		return "", fmt.Errorf("length %d exceeds remaining %d bytes", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not valid UTF-8")
	}
	return string(b), nil
}
