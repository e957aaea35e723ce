package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Resolve and validate the configuration layers without planning installs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("%d sources, %d packages\n", len(cfg.Sources), len(cfg.Packages))
			for _, w := range cfg.Warnings {
				fmt.Println("warning:", w)
			}
			return nil
		},
	}
}
