package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"

	"github.com/jask/sublimepicker/internal/selection"
)

func parseOne(t *testing.T, text string) *ics.VEvent {
	t.Helper()
	cal, err := ics.ParseCalendar(strings.NewReader(text))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	return events[0]
}

func TestAllDayRangeIsOrdered(t *testing.T) {
	p := Pick{
		Selection: selection.Range(selection.NewDate(2024, 1, 10), selection.NewDate(2024, 1, 8)),
		Location:  time.UTC,
	}
	out, err := Serialize(p)
	require.NoError(t, err)

	ev := parseOne(t, out)
	require.Equal(t, "20240108", ev.GetProperty(ics.ComponentPropertyDtStart).Value)
	require.Equal(t, "20240111", ev.GetProperty(ics.ComponentPropertyDtEnd).Value)
	require.Nil(t, ev.GetProperty(ics.ComponentPropertyRrule))
	require.Equal(t, p.UID(), ev.Id())
}

func TestTimedRecurringEvent(t *testing.T) {
	p := Pick{
		Selection: selection.Single(selection.NewDate(2024, 3, 4)),
		HasTime:   true,
		Hour:      9,
		Minute:    30,
		Rule:      "FREQ=WEEKLY;BYDAY=MO",
		Summary:   "Standup",
		Location:  time.UTC,
		Stamp:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	out, err := Serialize(p)
	require.NoError(t, err)

	ev := parseOne(t, out)
	require.Equal(t, "Standup", ev.GetProperty(ics.ComponentPropertySummary).Value)
	require.Equal(t, "FREQ=WEEKLY;BYDAY=MO", ev.GetProperty(ics.ComponentPropertyRrule).Value)
	start, err := ev.GetStartAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), start.UTC())
	end, err := ev.GetEndAt()
	require.NoError(t, err)
	require.Equal(t, time.Hour, end.Sub(start))
}

func TestUIDIsStable(t *testing.T) {
	a := Pick{Selection: selection.Single(selection.NewDate(2024, 1, 1))}
	b := a
	require.Equal(t, a.UID(), b.UID())
	b.Rule = "FREQ=DAILY"
	require.NotEqual(t, a.UID(), b.UID())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pick.ics")
	require.Error(t, WriteFile(path, Pick{}))

	require.NoError(t, WriteFile(path, Pick{Selection: selection.Single(selection.NewDate(2024, 5, 5))}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "BEGIN:VEVENT")
	require.Contains(t, string(data), productID)
}
