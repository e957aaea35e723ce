package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the project config file and reload on changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := loadConfig()
			if err != nil {
				return err
			}

			watchPath := resolveProjectPath()
			w, err := santaNewWatcher(watchPath, initial)
			if err != nil {
				return err
			}
			defer w.Close()

			go w.Run(cmd.Context())

			fmt.Println("watching", watchPath, "- ctrl-c to stop")
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case view, ok := <-w.Views():
					if !ok {
						return nil
					}
					fmt.Printf("reloaded: %d sources, %d packages\n", len(view.Sources), len(view.Packages))
				case diag, ok := <-w.Diagnostics():
					if !ok {
						return nil
					}
					log.Error().Err(diag.Err).Time("at", diag.At).Msg("reload failed, keeping previous config")
				}
			}
		},
	}
}
