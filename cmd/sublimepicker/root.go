package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/sublimepicker/internal/config"
	"github.com/jask/sublimepicker/internal/database"
	"github.com/jask/sublimepicker/internal/database/repository"
	"github.com/jask/sublimepicker/internal/logging"
	"github.com/jask/sublimepicker/internal/pickers"
	"github.com/jask/sublimepicker/internal/tui"
)

type rootFlags struct {
	configPath string
	instance   string
	exportPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "sublimepicker",
		Short: "Pick a date, a time and a repeat rule in the terminal",
		Long: `sublimepicker shows a date picker, a clock and a repeat-rule editor
behind one coordinator. Quitting keeps the open picker for next time;
confirming prints the pick and can export it as an iCalendar file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPicker(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default is $HOME/.config/sublimepicker/config.toml)")
	cmd.PersistentFlags().StringVar(&flags.instance, "instance", "", "saved-state slot (default from state.instance)")
	cmd.Flags().StringVar(&flags.exportPath, "export", "", "write the confirmed pick to this .ics file")

	cmd.AddCommand(newConfigCmd(flags), newStateCmd(flags))
	return cmd
}

// loadConfig applies flag overrides on top of the file and env.
func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if strings.TrimSpace(flags.instance) != "" {
		cfg.State.Instance = flags.instance
	}
	return cfg, nil
}

func openStore(cfg config.Config) (*sql.DB, *repository.StateRepo, error) {
	db, err := database.OpenAndMigrate(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return db, repository.NewStateRepo(db), nil
}

func runPicker(ctx context.Context, out io.Writer, flags *rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, closer, err := logging.ToFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	app, err := tui.New(ctx, tui.Settings{
		Options:      opts,
		InstanceID:   database.InstanceID(cfg.State.Instance),
		MaxRangeDays: cfg.Picker.MaxRangeDays,
		WeekStart:    cfg.WeekStart(),
		ExportPath:   flags.exportPath,
	}, store, log.With().Str("instance", cfg.State.Instance).Logger())
	if err != nil {
		return err
	}

	log.Info().Msg("picker started")
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	res := app.Result()
	log.Info().Str("outcome", res.Outcome.String()).Msg("picker finished")
	printResult(out, cfg.State.Instance, flags.exportPath, res)
	return res.Err
}

func printResult(out io.Writer, instance, exportPath string, res tui.Result) {
	switch res.Outcome {
	case tui.OutcomeConfirmed:
		if !res.Selection.IsZero() {
			fmt.Fprintf(out, "date:   %s\n", res.Selection)
		}
		if res.HasTime {
			fmt.Fprintf(out, "time:   %02d:%02d\n", res.Hour, res.Minute)
		}
		fmt.Fprintf(out, "repeat: %s\n", pickers.DescribeRule(res.Rule))
		if exportPath != "" {
			fmt.Fprintf(out, "exported to %s\n", exportPath)
		}
	case tui.OutcomeCancelled:
		fmt.Fprintln(out, "cancelled")
	case tui.OutcomeSaved:
		fmt.Fprintf(out, "picker state kept for %q\n", instance)
	}
}
