package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show, locate or reset the saved widget state",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved state, with defaults filled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printOut(cmd.OutOrStdout(), c.format, c.store().Load())
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the state file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), c.statePath)
			return err
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved state so the next start uses defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.store()
			existed := s.Exists()
			s.Delete()
			if s.Exists() {
				return fmt.Errorf("could not delete %s", s.Path())
			}
			if existed {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", s.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "no state at %s\n", s.Path())
			}
			return nil
		},
	}

	cmd.AddCommand(show, path, reset)
	return cmd
}
