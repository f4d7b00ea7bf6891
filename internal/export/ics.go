// Package export writes a confirmed pick as an iCalendar event.
package export

import (
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jask/sublimepicker/internal/selection"
)

const productID = "-//sublimepicker//picker export//EN"

// Pick is everything the user confirmed. Without a time the event is all-day.
type Pick struct {
	Selection selection.Selected
	HasTime   bool
	Hour      int
	Minute    int
	Rule      string
	Summary   string
	Location  *time.Location
	Stamp     time.Time
}

// span orders the endpoints; a range picked backwards still exports forwards.
func (p Pick) span() (selection.Date, selection.Date) {
	first := p.Selection.First()
	last, ok := p.Selection.Second()
	if !ok {
		return first, first
	}
	if last.Before(first) {
		first, last = last, first
	}
	return first, last
}

// UID is stable for the same pick, so re-exporting updates rather than duplicates.
func (p Pick) UID() string {
	key := strings.Join([]string{p.Selection.String(), p.Rule, clockKey(p)}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("sublimepicker:"+key)).String() + "@sublimepicker"
}

func clockKey(p Pick) string {
	if !p.HasTime {
		return "all-day"
	}
	return time.Date(0, 1, 1, p.Hour, p.Minute, 0, 0, time.UTC).Format("15:04")
}

// Calendar builds a one-event calendar for p.
func Calendar(p Pick) (*ics.Calendar, error) {
	if p.Selection.IsZero() {
		return nil, errors.New("nothing selected")
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := p.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	event := cal.AddEvent(p.UID())
	event.SetDtStampTime(stamp.UTC())
	summary := p.Summary
	if summary == "" {
		summary = "Picked " + p.Selection.String()
	}
	event.SetSummary(summary)

	first, last := p.span()
	if p.HasTime {
		start := first.In(loc).Add(time.Duration(p.Hour)*time.Hour + time.Duration(p.Minute)*time.Minute)
		end := last.In(loc).Add(time.Duration(p.Hour)*time.Hour + time.Duration(p.Minute)*time.Minute)
		if !end.After(start) {
			end = start.Add(time.Hour)
		}
		event.SetStartAt(start)
		event.SetEndAt(end)
	} else {
		event.SetAllDayStartAt(first.In(loc))
		event.SetAllDayEndAt(last.AddDays(1).In(loc))
	}

	if p.Rule != "" {
		event.AddRrule(p.Rule)
	}
	return cal, nil
}

// Serialize renders p as iCalendar text.
func Serialize(p Pick) (string, error) {
	cal, err := Calendar(p)
	if err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// WriteFile writes p to path, replacing any previous export.
func WriteFile(path string, p Pick) error {
	out, err := Serialize(p)
	if err != nil {
		return errors.Wrap(err, "build calendar")
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errors.Wrap(err, "write calendar")
	}
	return nil
}
