package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"modloc/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	env := config.LoadEnv()
	setupLogging(env)

	if err := newRootCmd(env).Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			log.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}

func newRootCmd(env *config.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "modloc",
		Short:         "Generate localisation and sprite cleanup files for game mods",
		Long:          "modloc renders localisation files and placeholder spriteType definitions from small YAML documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(spritesCmd())
	rootCmd.AddCommand(localizeCmd())
	rootCmd.AddCommand(checkCmd(env))

	return rootCmd
}

func setupLogging(env *config.Env) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if env.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	fd := os.Stderr.Fd()
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)),
	})
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
