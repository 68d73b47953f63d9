package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/archive"
	"github.com/sdjayna/penplot/pkg/config"
	"github.com/sdjayna/penplot/pkg/plotter"
)

// serveCommand runs the plotter HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plotter over HTTP",
		Long: `Serve accepts plotter commands over HTTP, runs them through axicli and streams
plot progress as server-sent events. It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noArchive)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "disable /save-svg")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noArchive bool) error {
	logger := loggerFromContext(ctx)
	settings := plotterSettings(c.Config.Plotter)
	if err := settings.Validate(); err != nil {
		return err
	}

	tempDir := c.Config.Plotter.TempDir
	if n, err := plotter.CleanupTemp(tempDir); err != nil {
		logger.Warn("Could not remove stale plot files", "error", err)
	} else if n > 0 {
		logger.Info("Removed stale plot files", "count", n)
	}

	var store archive.Store
	if !noArchive {
		s, err := c.newArchive(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	events := plotter.NewBroadcaster(c.Config.Server.Heartbeat)
	session := plotter.NewSession(settings, events, plotter.SessionOptions{
		TempDir:     tempDir,
		StopTimeout: c.Config.Plotter.StopTimeout,
		Logger:      logger,
	})
	srv := plotter.NewServer(session, events, store, logger)

	printInfo("Plotter server on %s", StyleHighlight.Render(addr))
	printKeyValue("axicli", settings.Axicli)
	printKeyValue("archive", archiveLabel(c.Config.Archive, noArchive))
	return srv.ListenAndServe(ctx, addr)
}

// plotterSettings converts the [plotter] section.
func plotterSettings(p config.Plotter) plotter.Settings {
	return plotter.Settings{
		Axicli:       p.Axicli,
		Model:        p.Model,
		Penlift:      p.Penlift,
		PenPosUp:     p.PenPosUp,
		PenPosDown:   p.PenPosDown,
		PenRateLower: p.PenRateLower,
	}
}

func archiveLabel(a config.Archive, disabled bool) string {
	switch {
	case disabled:
		return "disabled"
	case a.Backend == config.BackendMongo:
		return "mongo " + a.Database + "." + a.Collection
	case a.Dir == "":
		return "file ."
	}
	return "file " + a.Dir
}
