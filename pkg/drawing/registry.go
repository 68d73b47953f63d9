package drawing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sdjayna/penplot/pkg/errors"
)

// Config is a generator's parameter set. Implementations are pointers to
// structs with toml tags so configuration files can decode into them.
type Config interface {
	Validate() error
}

// Definition registers one generator.
type Definition struct {
	ID          string
	Name        string
	Description string
	// NewConfig returns the generator's default parameters.
	NewConfig func() Config
	// Draw builds the scene for a validated config.
	Draw func(cfg Config) (*Scene, error)
}

// Define builds a Definition from typed constructors. Draw rejects configs of
// any other type.
func Define[C Config](id, name, description string, newConfig func() C, draw func(C) (*Scene, error)) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Description: description,
		NewConfig:   func() Config { return newConfig() },
		Draw: func(cfg Config) (*Scene, error) {
			c, ok := cfg.(C)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidDrawing, "drawing %q: unexpected config type %T", id, cfg)
			}
			return draw(c)
		},
	}
}

// Registry maps drawing ids to definitions. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds d after validating it. Ids must be unique.
func (r *Registry) Register(d Definition) error {
	if err := errors.ValidateDrawingID(d.ID); err != nil {
		return err
	}
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidDrawing, "drawing %q is missing a display name", d.ID)
	}
	if d.NewConfig == nil {
		return errors.New(errors.ErrCodeInvalidDrawing, "drawing %q is missing a config constructor", d.ID)
	}
	if d.Draw == nil {
		return errors.New(errors.ErrCodeInvalidDrawing, "drawing %q is missing a draw function", d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[d.ID]; ok {
		return errors.New(errors.ErrCodeInvalidDrawing, "drawing %q is already registered", d.ID)
	}
	r.defs[d.ID] = d
	return nil
}

// MustRegister is Register that panics on error, for init-time wiring.
func (r *Registry) MustRegister(d Definition) {
	if err := r.Register(d); err != nil {
		panic(fmt.Sprintf("drawing: %v", err))
	}
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, errors.New(errors.ErrCodeDrawingNotFound, "unknown drawing %q", id)
	}
	return d, nil
}

// List returns all definitions sorted by id.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Builtins returns a registry with every built-in generator.
func Builtins() *Registry {
	r := NewRegistry()
	r.MustRegister(BouwkampDrawing)
	r.MustRegister(CalibrationDrawing)
	r.MustRegister(LissajousDrawing)
	r.MustRegister(PolygonsDrawing)
	return r
}
