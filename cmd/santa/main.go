package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/santa-org/santa/cmd/santa/commands"
	"github.com/santa-org/santa/pkg/santa"
	"github.com/rs/zerolog/log"
)

// Version is set via ldflags during release builds.
var Version = "dev"

func main() {
	logger, err := santa.NewLogger(santa.DefaultLogConfig())
	if err != nil {
		log.Error().Err(err).Msg("failed to configure logger, falling back to default")
	} else {
		log.Logger = logger
	}
	santa.Version = Version

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("received interrupt, shutting down")
		cancel()
	}()

	if err := commands.Execute(ctx, Version); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command failure to the CLI's exit-code table: 0 ok, 1
// generic failure, 2 usage error, 3 configuration-validation failure, 4
// security violation, 5 subprocess timeout. A cobra flag-parsing failure
// never wraps a *santa.Error, so it falls through to the generic case.
func exitCode(err error) int {
	switch santa.Category(err) {
	case santa.KindSecurity:
		return 4
	case santa.KindTimeout:
		return 5
	case santa.KindConfig, santa.KindParse, santa.KindValidation:
		return 3
	default:
		return 1
	}
}
