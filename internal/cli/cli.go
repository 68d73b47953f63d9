// Package cli implements the penplot command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/archive"
	"github.com/sdjayna/penplot/pkg/buildinfo"
	"github.com/sdjayna/penplot/pkg/cache"
	"github.com/sdjayna/penplot/pkg/config"
	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/observability"
	"github.com/sdjayna/penplot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "penplot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "penplot",
		Short: "Penplot turns generative drawings into pen plotter jobs",
		Long: `Penplot fills generated shapes with continuous hatch strokes, writes them as
layered SVG documents and drives an AxiDraw pen plotter through axicli.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/penplot/config.toml)")

	root.AddCommand(c.drawingsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.hatchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.penCommand())
	root.AddCommand(c.followCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the configuration and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := logHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		observability.SetPlotHooks(hooks)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	for _, key := range cfg.Undecoded() {
		c.Logger.Warn("Unknown config key", "key", key)
	}
	if cfg.Path() != "" {
		c.Logger.Debug("Loaded config", "config", cfg)
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(backend, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache opens the configured cache. A file cache that cannot locate its
// directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("Caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newArchive opens the configured archive backend.
func (c *CLI) newArchive(ctx context.Context) (archive.Store, error) {
	cfg := c.Config.Archive
	if cfg.Backend == config.BackendMongo {
		return archive.NewMongoStore(ctx, archive.MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	return archive.NewFileStore(cfg.Dir), nil
}

// pipelineOptions builds run options for drawingID from the configuration,
// including the drawing's [drawing.<id>] table.
func (c *CLI) pipelineOptions(reg *drawing.Registry, drawingID string) (pipeline.Options, error) {
	def, err := reg.Lookup(drawingID)
	if err != nil {
		return pipeline.Options{}, err
	}
	params, err := c.Config.DrawingConfig(def)
	if err != nil {
		return pipeline.Options{}, err
	}
	p, o, err := c.Config.Sheet()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		DrawingID:   drawingID,
		Config:      params,
		Paper:       p,
		Orientation: o,
		Settings:    c.Config.ComposeSettings(),
		MarginGuide: c.Config.Render.MarginGuide,
		Precision:   c.Config.Render.Precision,
		Logger:      c.Logger,
	}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/penplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
