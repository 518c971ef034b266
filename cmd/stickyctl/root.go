package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"activesticky/internal/logging"
	"activesticky/internal/platform"
	"activesticky/internal/state"
)

// newProvider is replaced in tests.
var newProvider = platform.NewProvider

// cli carries the values resolved from the persistent flags.
type cli struct {
	format    Format
	statePath string
	log       *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "stickyctl",
		Short:        "Inspect and manage the ActiveSticky desktop widget",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("format", "yaml", "Output format: yaml or json")
	root.PersistentFlags().String("state", "", "State file path (default: per-user config dir, or $"+state.PathEnv+")")
	root.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch Format(format) {
		case FormatYAML, FormatJSON:
			c.format = Format(format)
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}

		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return err
		}
		c.log, _, err = logging.New(logging.Options{Level: level, Console: os.Stderr})
		if err != nil {
			return err
		}

		c.statePath, _ = cmd.Flags().GetString("state")
		if c.statePath == "" {
			if c.statePath, err = state.DefaultPath(); err != nil {
				return err
			}
		}
		return nil
	}

	root.AddCommand(
		newStateCmd(c),
		newWindowsCmd(c),
		newMonitorsCmd(c),
		newEvictCmd(c),
	)
	return root
}

func (c *cli) store() *state.Store {
	return state.NewStore(c.statePath, c.log)
}
