package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/sublimepicker/internal/database"
	"github.com/jask/sublimepicker/internal/logging"
)

func newStateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear saved picker state",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "List saved picker state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			db, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			states, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(states) == 0 {
				fmt.Fprintln(out, "no saved state")
				return nil
			}
			current := database.InstanceID(cfg.State.Instance)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INSTANCE\tCURRENT\tHIDDEN\tRULE\tUPDATED")
			for _, s := range states {
				id := s.InstanceID
				if id == current {
					id += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					id, s.State.Current, s.State.Hidden, s.State.RecurrenceRule,
					s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	var all bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget saved picker state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			log, err := logging.ToStderr(cfg.Log.Level)
			if err != nil {
				return err
			}
			db, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ids := []string{database.InstanceID(cfg.State.Instance)}
			if all {
				states, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				ids = ids[:0]
				for _, s := range states {
					ids = append(ids, s.InstanceID)
				}
			}
			for _, id := range ids {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				log.Debug().Str("instance_id", id).Msg("state cleared")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d saved state(s)\n", len(ids))
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&all, "all", false, "clear every instance")

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}
