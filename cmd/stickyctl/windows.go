package main

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"activesticky/internal/geometry"
	"activesticky/internal/instance"
	"activesticky/internal/platform"
	"activesticky/internal/session"
)

func newWindowsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List visible top-level windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvider()
			if err != nil {
				return err
			}
			windows, err := p.Windows.VisibleWindows()
			if err != nil {
				return err
			}

			if title, _ := cmd.Flags().GetString("title"); title != "" {
				windows = lo.Filter(windows, func(w platform.Window, _ int) bool {
					return w.Title == title
				})
			}
			if windows == nil {
				windows = []platform.Window{}
			}
			return printOut(cmd.OutOrStdout(), c.format, windows)
		},
	}
	cmd.Flags().String("title", "", "Only list windows with exactly this title")
	return cmd
}

// monitorEntry is the output row of the monitors command.
type monitorEntry struct {
	platform.Monitor `yaml:",inline"`
	Fallback         *platform.Rect `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

func newMonitorsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List monitors and where an off-screen widget would be placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvider()
			if err != nil {
				return err
			}
			ms, err := p.Monitors.Monitors()
			if err != nil {
				return err
			}

			fb := geometry.SafeFallback(ms)
			entries := lo.Map(ms, func(m platform.Monitor, _ int) monitorEntry {
				e := monitorEntry{Monitor: m}
				if m.WorkArea.ContainsRect(fb) {
					e.Fallback = &fb
				}
				return e
			})
			return printOut(cmd.OutOrStdout(), c.format, entries)
		},
	}
}

// evictResult is the output of the evict command.
type evictResult struct {
	Title   string `json:"title"   yaml:"title"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Found   bool   `json:"found"   yaml:"found"`
}

func newEvictCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evict",
		Short: "Close a running widget the way a new instance would",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvider()
			if err != nil {
				return err
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			title, _ := cmd.Flags().GetString("title")

			outcome := instance.NewGuard(p.Windows, c.log).EvictByTitle(title, timeout)
			return printOut(cmd.OutOrStdout(), c.format, evictResult{
				Title:   title,
				Outcome: outcome.String(),
				Found:   outcome.Found(),
			})
		},
	}
	cmd.Flags().Duration("timeout", 2*time.Second, "How long to wait for the window to close")
	cmd.Flags().String("title", session.DefaultTitle, "Window title to match")
	return cmd
}
