package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show missing and extra packages per source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, w := range cfg.Warnings {
				fmt.Println("warning:", w)
			}

			planner, cleanup, err := buildPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			plan := planner.Status(cmd.Context(), cfg.Sources, desiredFromConfig(cfg))
			for _, name := range cfg.SourceOrder {
				sp, ok := plan.Sources[name]
				if !ok {
					continue
				}
				if sp.Unavailable {
					fmt.Printf("%s: unavailable (%s)\n", name, sp.Warning)
					continue
				}
				fmt.Printf("%s: %d missing, %d extra\n", name, len(sp.Missing), len(sp.Extra))
				for _, pkg := range sp.Missing {
					fmt.Println("  - missing:", pkg)
				}
				for _, pkg := range sp.Extra {
					fmt.Println("  + extra:", pkg)
				}
			}
			if plan.Cancelled {
				fmt.Println("status run was cancelled before every source finished")
			}
			return nil
		},
	}
	return cmd
}
