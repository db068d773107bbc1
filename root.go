package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/atomicstack/caption-pair-manager/internal/app"
	"github.com/atomicstack/caption-pair-manager/internal/config"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
)

// configError marks failures that exit with status 2.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

const envUsage = "Every flag can also be set with CAPTION_PAIRS_<NAME>, e.g. CAPTION_PAIRS_FOLDER.\n"

func flagUsage() string {
	return "Flags:\n" + config.FlagSet(os.Environ()).FlagUsages() + "\n" + envUsage
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                "caption-pair-manager [flags] [folder]",
		Short:              "Browse and edit the captions of an image dataset folder",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil || cfg == nil {
				return err
			}
			return app.Run(cfg.App)
		},
	}
	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + "\n" + flagUsage())

	rootCmd.AddCommand(newWebCommand(), newListCommand())
	return rootCmd
}

func newWebCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "web [flags] [folder]",
		Short:              "Serve the caption editor to a local browser",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil || cfg == nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.RunWeb(ctx, cfg.App, func(url string) {
				fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s\n", cfg.App.Root, url)
			})
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "list [flags] [folder]",
		Short:              "Print the image/caption pairs found in a folder",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil || cfg == nil {
				return err
			}
			list, err := app.List(cfg.App)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPairs(list, isTerminal(cmd.OutOrStdout())))
			return nil
		},
	}
}

// loadConfig parses args with the config package, configures logging and
// traces startup. A nil config with a nil error means help was printed.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.LoadArgs(args, os.Environ())
	if errors.Is(err, pflag.ErrHelp) {
		return nil, cmd.Help()
	}
	if err != nil {
		return nil, configError{err}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, configError{err}
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	traceStartup(cfg)
	return &cfg, nil
}
