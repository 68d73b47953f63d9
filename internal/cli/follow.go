package cli

import (
	"context"
	stderrors "errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/plotter"
)

// followCommand attaches to a server's progress stream.
func (c *CLI) followCommand() *cobra.Command {
	var (
		server string
		plain  bool
		once   bool
	)

	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Follow plot progress on a plotter server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(server)
			if err != nil {
				return err
			}
			job := func(ctx context.Context, report func(tea.Msg)) error {
				return followProgress(ctx, client, once, report)
			}
			if plain {
				return job(cmd.Context(), textReporter)
			}
			err = runPlotView(cmd.Context(), os.Stdin, os.Stderr, "Following "+client.BaseURL(), job)
			if stderrors.Is(err, context.Canceled) && cmd.Context().Err() == nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "plotter server URL (default from config)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print progress lines instead of the live view")
	cmd.Flags().BoolVar(&once, "once", false, "exit when the current plot finishes")
	return cmd
}

// followProgress reports every progress message until the stream ends or,
// with once, until a plot finishes.
func followProgress(ctx context.Context, client *plotter.Client, once bool, report func(tea.Msg)) error {
	return client.Progress(ctx, func(msg string) error {
		report(lineMsg(msg))
		if once && plotter.IsFinal(msg) {
			return plotter.ErrStop
		}
		return nil
	})
}
