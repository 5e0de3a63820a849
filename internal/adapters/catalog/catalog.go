// Package catalog loads the shot templates, default effects and solver
// settings the service starts with.
//
// Two files are read: the shot list ({"shots": [...]}) and the app config
// ({"effects": {name: effect}, "solvers": {type: {"model": ...}}}). Both are
// JSON, which the YAML parser accepts as-is.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
)

// Solver names the detection model a shot's solver type runs on the client.
type Solver struct {
	Model string `json:"model" koanf:"model"`
}

// Catalog is the immutable set of shots, effects and solvers.
type Catalog struct {
	shots   []shot.Template
	byID    map[string]int
	effects []effect.Effect
	solvers map[string]Solver
}

// New builds a catalog from already decoded values. Shots and effects are
// validated; effects are additionally allowed to be skipped by the caller.
func New(shots []shot.Template, effects []effect.Effect, solvers map[string]Solver) (*Catalog, error) {
	c := &Catalog{
		shots:   make([]shot.Template, 0, len(shots)),
		byID:    make(map[string]int, len(shots)),
		solvers: make(map[string]Solver, len(solvers)),
	}
	for _, t := range shots {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateShot, t.ID)
		}
		c.byID[t.ID] = len(c.shots)
		c.shots = append(c.shots, t)
	}
	for _, e := range effects {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		c.effects = append(c.effects, e)
	}
	sort.Slice(c.effects, func(i, j int) bool { return c.effects[i].Name < c.effects[j].Name })
	for k, v := range solvers {
		c.solvers[k] = v
	}
	return c, nil
}

// Load reads and validates both catalog files.
func Load(ctx context.Context, shotsPath, appConfigPath string) (*Catalog, error) {
	shots, err := loadShots(shotsPath)
	if err != nil {
		return nil, err
	}
	effects, solvers, err := loadAppConfig(appConfigPath)
	if err != nil {
		return nil, err
	}
	c, err := New(shots, effects, solvers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	logger.Get().Named("catalog").Info(ctx, "catalog loaded",
		logger.Int("shots", len(c.shots)),
		logger.Int("effects", len(c.effects)),
		logger.Int("solvers", len(c.solvers)),
	)
	return c, nil
}

func loadShots(path string) ([]shot.Template, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	var shots []shot.Template
	if err := k.UnmarshalWithConf("shots", &shots, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	for i := range shots {
		shots[i].GuidanceSteps = shots[i].Plan().Steps
	}
	return shots, nil
}

func loadAppConfig(path string) ([]effect.Effect, map[string]Solver, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	var named map[string]effect.Effect
	if err := k.UnmarshalWithConf("effects", &named, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: effects: %w", ErrLoad, path, err)
	}
	effects := make([]effect.Effect, 0, len(named))
	for key, e := range named {
		if e.Name == "" {
			e.Name = key
		}
		effects = append(effects, e)
	}

	var solvers map[string]Solver
	if err := k.UnmarshalWithConf("solvers", &solvers, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: solvers: %w", ErrLoad, path, err)
	}
	return effects, solvers, nil
}

// Shots returns every template in file order.
func (c *Catalog) Shots() []shot.Template {
	out := make([]shot.Template, len(c.shots))
	copy(out, c.shots)
	return out
}

// Shot returns the template with the given id.
func (c *Catalog) Shot(id string) (shot.Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return shot.Template{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.shots[i], nil
}

// Effects returns the configured default effects ordered by name.
func (c *Catalog) Effects() []effect.Effect {
	out := make([]effect.Effect, len(c.effects))
	copy(out, c.effects)
	return out
}

// Solver returns the settings for a solver type. A shot whose solver type
// is unknown gets no alignment feedback.
func (c *Catalog) Solver(solverType string) (Solver, bool) {
	s, ok := c.solvers[solverType]
	return s, ok
}
