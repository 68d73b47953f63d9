// Package config loads penplot's TOML configuration.
//
// Every field has a default (see [Default]); a configuration file only needs
// the values it changes:
//
//	[paper]
//	preset = "A4"
//	orientation = "portrait"
//
//	[hatch]
//	style = "contour"
//	spacing = 1.5
//
//	[drawing.bouwkamp]
//	palette = "molotow"
//	line = { spacing = 1.2, stroke_width = 0.5, vertex_gap = 0.4 }
//
// Drawing tables are kept undecoded until a generator asks for them with
// [Config.DrawingConfig], so each generator decodes into its own type.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/hatch"
	"github.com/sdjayna/penplot/pkg/paper"
)

const appName = "penplot"

// Backend names shared by the cache and archive sections.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Server  Server         `toml:"server"`
	Plotter Plotter        `toml:"plotter"`
	Paper   Paper          `toml:"paper"`
	Hatch   hatch.Settings `toml:"hatch"`
	Render  Render         `toml:"render"`
	Cache   Cache          `toml:"cache"`
	Archive Archive        `toml:"archive"`

	// Drawing holds per-generator tables, keyed by drawing id.
	Drawing map[string]toml.Primitive `toml:"drawing,omitempty"`

	meta toml.MetaData
	path string
}

// Server configures the plotter HTTP server and how clients reach it.
type Server struct {
	Addr string `toml:"addr"`
	URL  string `toml:"url"`
	// Heartbeat is the interval between SSE keep-alive comments.
	Heartbeat time.Duration `toml:"heartbeat"`
}

// Plotter configures the axicli invocation.
type Plotter struct {
	Axicli       string        `toml:"axicli"`
	Model        int           `toml:"model"`
	Penlift      int           `toml:"penlift"`
	PenPosUp     int           `toml:"pen_pos_up"`
	PenPosDown   int           `toml:"pen_pos_down"`
	PenRateLower int           `toml:"pen_rate_lower"`
	TempDir      string        `toml:"temp_dir"`
	StopTimeout  time.Duration `toml:"stop_timeout"`
}

// Paper selects the sheet.
type Paper struct {
	Preset      string `toml:"preset"`
	Orientation string `toml:"orientation"`
	// Margin overrides the preset's margin when set.
	Margin *float64 `toml:"margin"`
}

// Render configures document composition and SVG output.
type Render struct {
	LineWidth   float64 `toml:"line_width"`
	MaxTravel   float64 `toml:"max_travel"`
	MarginGuide bool    `toml:"margin_guide"`
	Precision   int     `toml:"precision"`
}

// Cache selects the render cache backend.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
	TTL       time.Duration `toml:"ttl"`
}

// Archive selects where saved SVGs go.
type Archive struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration: an AxiDraw SE/A3 on A3 paper
// in landscape, serpentine fills and a file cache.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:      ":8000",
			URL:       "http://localhost:8000",
			Heartbeat: time.Second,
		},
		Plotter: Plotter{
			Axicli:       "axicli",
			Model:        2,
			Penlift:      1,
			PenPosUp:     60,
			PenPosDown:   30,
			PenRateLower: 25,
			StopTimeout:  5 * time.Second,
		},
		Paper: Paper{Preset: paper.Default.Name, Orientation: string(paper.Landscape)},
		Hatch: hatch.DefaultSettings(),
		Render: Render{
			LineWidth: drawing.DefaultLineWidth,
			Precision: 3,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       7 * 24 * time.Hour,
		},
		Archive: Archive{
			Backend:    BackendFile,
			Dir:        "output",
			MongoURI:   "mongodb://localhost:27017",
			Database:   appName,
			Collection: "drawings",
		},
	}
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME
// (~/.config/penplot/ otherwise).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the configuration file in [Dir].
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path on top of [Default]. An empty path
// loads [DefaultPath] and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes TOML text on top of [Default] and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.meta = md
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }

// Undecoded lists keys present in the file that no setting consumed.
// Drawing tables are excluded; they are decoded on demand.
func (c *Config) Undecoded() []string {
	var keys []string
	for _, k := range c.meta.Undecoded() {
		if len(k) > 0 && k[0] == "drawing" {
			continue
		}
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, _, err := c.Sheet(); err != nil {
		return err
	}
	if err := c.Hatch.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[hatch]")
	}
	switch {
	case c.Render.LineWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "[render] line_width must be non-negative")
	case c.Render.MaxTravel < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "[render] max_travel must be non-negative")
	case c.Render.Precision < 0 || c.Render.Precision > 6:
		return errors.New(errors.ErrCodeInvalidConfig, "[render] precision must lie within [0, 6]")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] addr is required")
	}
	if c.Server.URL != "" {
		if err := errors.ValidateURL(c.Server.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[server] url")
		}
	}
	if c.Plotter.Axicli == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[plotter] axicli is required")
	}
	for _, v := range []struct {
		name string
		val  int
	}{
		{"pen_pos_up", c.Plotter.PenPosUp},
		{"pen_pos_down", c.Plotter.PenPosDown},
		{"pen_rate_lower", c.Plotter.PenRateLower},
	} {
		if v.val < 0 || v.val > 100 {
			return errors.New(errors.ErrCodeInvalidConfig, "[plotter] %s must lie within [0, 100], got %d", v.name, v.val)
		}
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q", c.Cache.Backend)
	}
	switch c.Archive.Backend {
	case BackendFile, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[archive] unknown backend %q", c.Archive.Backend)
	}
	return nil
}

// Sheet resolves the paper section into a preset and orientation.
func (c *Config) Sheet() (paper.Paper, paper.Orientation, error) {
	p, err := paper.Lookup(c.Paper.Preset)
	if err != nil {
		return paper.Paper{}, "", err
	}
	if c.Paper.Margin != nil {
		p.Margin = *c.Paper.Margin
	}
	if err := p.Validate(); err != nil {
		return paper.Paper{}, "", err
	}
	o, err := paper.ParseOrientation(c.Paper.Orientation)
	if err != nil {
		return paper.Paper{}, "", err
	}
	return p, o, nil
}

// ComposeSettings returns the hatch and render settings used by
// [drawing.Compose].
func (c *Config) ComposeSettings() drawing.Settings {
	return drawing.Settings{
		Hatch:     c.Hatch,
		LineWidth: c.Render.LineWidth,
		MaxTravel: c.Render.MaxTravel,
	}
}

// DrawingConfig returns def's default parameters overlaid with the file's
// [drawing.<id>] table, validated.
func (c *Config) DrawingConfig(def drawing.Definition) (drawing.Config, error) {
	cfg := def.NewConfig()
	if prim, ok := c.Drawing[def.ID]; ok {
		if err := c.meta.PrimitiveDecode(prim, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[drawing.%s]", def.ID)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes c, plus the default table of every drawing in reg, as TOML.
// It is the starting point written by "penplot config init".
func (c *Config) Write(w io.Writer, reg *drawing.Registry) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return err
	}
	if reg == nil {
		return nil
	}
	drawings := make(map[string]any)
	for _, d := range reg.List() {
		drawings[d.ID] = d.NewConfig()
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(map[string]any{"drawing": drawings})
}

// String summarises the configuration for logs.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "paper=%s/%s hatch=%s@%v", c.Paper.Preset, c.Paper.Orientation, c.Hatch.Style, c.Hatch.Spacing)
	if c.path != "" {
		fmt.Fprintf(&b, " file=%s", c.path)
	}
	return b.String()
}
