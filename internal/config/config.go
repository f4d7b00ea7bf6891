// Package config loads picker settings from a TOML file and SUBLIMEPICKER_*
// environment variables.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jask/sublimepicker/internal/options"
	"github.com/jask/sublimepicker/internal/selection"
)

// Config holds application configuration.
type Config struct {
	Picker   PickerConfig
	Database DatabaseConfig
	State    StateConfig
	Log      LogConfig
}

// PickerConfig is the widget configuration in file form. Dates are
// YYYY-MM-DD; an empty date means today, an empty bound means unbounded.
type PickerConfig struct {
	Pickers      []string `mapstructure:"pickers"`
	Show         string   `mapstructure:"show"`
	AllowRange   bool     `mapstructure:"allow_range"`
	Date         string   `mapstructure:"date"`
	MinDate      string   `mapstructure:"min_date"`
	MaxDate      string   `mapstructure:"max_date"`
	Time         string   `mapstructure:"time"`
	Is24Hour     bool     `mapstructure:"is_24_hour"`
	Animate      bool     `mapstructure:"animate"`
	Recurrence   string   `mapstructure:"recurrence"`
	MaxRangeDays int      `mapstructure:"max_range_days"`
	WeekStart    string   `mapstructure:"week_start"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StateConfig names the saved-state slot this run reads and writes.
type StateConfig struct {
	Instance string `mapstructure:"instance"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Path resolves the config file: an explicit override, then
// SUBLIMEPICKER_CONFIG, then ~/.config/sublimepicker/config.toml.
func Path(override string) string {
	if override != "" {
		return override
	}
	if p := os.Getenv("SUBLIMEPICKER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "sublimepicker", "config.toml")
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("picker.pickers", []string{"date", "time", "recurrence"})
	v.SetDefault("picker.show", "date")
	v.SetDefault("picker.allow_range", false)
	v.SetDefault("picker.date", "")
	v.SetDefault("picker.min_date", "")
	v.SetDefault("picker.max_date", "")
	v.SetDefault("picker.time", "09:00")
	v.SetDefault("picker.is_24_hour", true)
	v.SetDefault("picker.animate", true)
	v.SetDefault("picker.recurrence", "")
	v.SetDefault("picker.max_range_days", 30)
	v.SetDefault("picker.week_start", "monday")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "sublimepicker", "state.db"))
	v.SetDefault("state.instance", "default")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "sublimepicker", "picker.log"))
	v.SetDefault("log.level", "info")
}

// Default is the configuration used when no file exists.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration from file and env. Env var overrides use prefix
// SUBLIMEPICKER_. A missing file is not an error.
func Load(override string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path(override))

	v.SetEnvPrefix("SUBLIMEPICKER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Config{}, errors.Wrap(err, "read config")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Save writes cfg to the resolved path, creating the config directory if needed.
func Save(cfg Config, override string) (string, error) {
	path := Path(override)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "mkdir config dir")
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("picker.pickers", cfg.Picker.Pickers)
	v.Set("picker.show", cfg.Picker.Show)
	v.Set("picker.allow_range", cfg.Picker.AllowRange)
	v.Set("picker.date", cfg.Picker.Date)
	v.Set("picker.min_date", cfg.Picker.MinDate)
	v.Set("picker.max_date", cfg.Picker.MaxDate)
	v.Set("picker.time", cfg.Picker.Time)
	v.Set("picker.is_24_hour", cfg.Picker.Is24Hour)
	v.Set("picker.animate", cfg.Picker.Animate)
	v.Set("picker.recurrence", cfg.Picker.Recurrence)
	v.Set("picker.max_range_days", cfg.Picker.MaxRangeDays)
	v.Set("picker.week_start", cfg.Picker.WeekStart)
	v.Set("database.path", cfg.Database.Path)
	v.Set("state.instance", cfg.State.Instance)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return "", errors.Wrap(err, "write config")
	}
	return path, nil
}

// Options converts the picker section. It does not validate the combination;
// the coordinator does that when it is initialized.
func (c Config) Options() (options.Options, error) {
	p := c.Picker
	o := options.Options{
		AllowRange:         p.AllowRange,
		Is24Hour:           p.Is24Hour,
		AnimateTransitions: p.Animate,
		RecurrenceRule:     strings.TrimSpace(p.Recurrence),
	}

	enabled := make([]options.Picker, 0, len(p.Pickers))
	for _, name := range p.Pickers {
		kind, err := options.ParsePicker(name)
		if err != nil {
			return options.Options{}, errors.Wrap(err, "picker.pickers")
		}
		if kind != options.PickerNone {
			enabled = append(enabled, kind)
		}
	}
	o.Enabled = options.SetOf(enabled...)

	show, err := options.ParsePicker(p.Show)
	if err != nil {
		return options.Options{}, errors.Wrap(err, "picker.show")
	}
	o.PickerToShow = show

	for _, f := range []struct {
		key string
		raw string
		dst *selection.Date
	}{
		{"picker.date", p.Date, &o.Date},
		{"picker.min_date", p.MinDate, &o.MinDate},
		{"picker.max_date", p.MaxDate, &o.MaxDate},
	} {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		d, err := selection.ParseDate(strings.TrimSpace(f.raw))
		if err != nil {
			return options.Options{}, errors.Wrap(err, f.key)
		}
		*f.dst = d
	}

	if strings.TrimSpace(p.Time) != "" {
		h, m, err := ParseClock(p.Time)
		if err != nil {
			return options.Options{}, errors.Wrap(err, "picker.time")
		}
		o.Hour, o.Minute = h, m
	}
	return o, nil
}

// ParseClock parses "HH:MM" in 24h form.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, errors.Errorf("time %q is not HH:MM", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, errors.Errorf("hour in %q is out of range", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, errors.Errorf("minute in %q is out of range", s)
	}
	return hour, minute, nil
}

// WeekStart returns the first column of the month grid. Only Sunday and
// Monday are recognised; anything else means Monday.
func (c Config) WeekStart() time.Weekday {
	if strings.EqualFold(strings.TrimSpace(c.Picker.WeekStart), "sunday") {
		return time.Sunday
	}
	return time.Monday
}
