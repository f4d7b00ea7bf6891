package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/selection"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, []string{"date", "time", "recurrence"}, cfg.Picker.Pickers)
	require.Equal(t, "default", cfg.State.Instance)
	require.Equal(t, 30, cfg.Picker.MaxRangeDays)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[picker]
pickers = ["date", "recurrence"]
show = "REPEAT_OPTION_PICKER"
allow_range = true
date = "2024-01-10"
min_date = "2024-01-01"
recurrence = "FREQ=DAILY"
week_start = "sunday"

[state]
instance = "booking"
`), 0o644))
	t.Setenv("SUBLIMEPICKER_PICKER_MAX_RANGE_DAYS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Picker.MaxRangeDays)
	require.Equal(t, "booking", cfg.State.Instance)
	require.Equal(t, time.Sunday, cfg.WeekStart())

	o, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, options.SetOf(options.PickerDate, options.PickerRecurrence), o.Enabled)
	require.Equal(t, options.PickerRecurrence, o.PickerToShow)
	require.True(t, o.CanPickDateRange())
	require.Equal(t, selection.NewDate(2024, 1, 10), o.Date)
	require.Equal(t, selection.NewDate(2024, 1, 1), o.MinDate)
	require.True(t, o.MaxDate.IsZero())
	require.Equal(t, 9, o.Hour)
	require.Equal(t, "FREQ=DAILY", o.RecurrenceRule)

	_, err = o.Validate()
	require.NoError(t, err)
}

func TestConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	t.Setenv("SUBLIMEPICKER_CONFIG", path)

	require.Equal(t, path, Path(""))
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[picker\nshow ="), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := Default()
	cfg.Picker.Pickers = []string{"time"}
	cfg.Picker.Show = "time"
	cfg.Picker.Time = "18:30"
	cfg.Picker.Is24Hour = false

	path, err := Save(cfg, filepath.Join(t.TempDir(), "nested", "config.toml"))
	require.NoError(t, err)
	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	o, err := loaded.Options()
	require.NoError(t, err)
	require.Equal(t, 18, o.Hour)
	require.Equal(t, 30, o.Minute)
	require.False(t, o.Is24Hour)
}

func TestOptionsErrors(t *testing.T) {
	cases := map[string]func(*Config){
		"picker name": func(c *Config) { c.Picker.Pickers = []string{"calendar"} },
		"show":        func(c *Config) { c.Picker.Show = "calendar" },
		"date":        func(c *Config) { c.Picker.Date = "10/01/2024" },
		"time":        func(c *Config) { c.Picker.Time = "25:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			_, err := cfg.Options()
			require.Error(t, err)
		})
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock(" 07:05 ")
	require.NoError(t, err)
	require.Equal(t, 7, h)
	require.Equal(t, 5, m)

	for _, bad := range []string{"7", "24:00", "12:60", "aa:00"} {
		_, _, err := ParseClock(bad)
		require.Error(t, err, bad)
	}
}
