package persona

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/sandevgo/mira/internal/core"
)

// Provider serves personas from a YAML file. The file is read once and
// cached; personas change by editing the file and restarting.
type Provider struct {
	path string

	mu       sync.Mutex
	personas map[string]core.Persona
}

func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

type personasFile struct {
	Personas []core.Persona `yaml:"personas"`
}

// Get returns the persona with the given id, or the built-in default
// when the file is absent and the default id is requested.
func (p *Provider) Get(ctx context.Context, id string) (core.Persona, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.personas == nil {
		if err := p.load(); err != nil {
			return core.Persona{}, err
		}
	}

	if persona, ok := p.personas[id]; ok {
		return persona, nil
	}
	return core.Persona{}, fmt.Errorf("persona %q: %w", id, core.ErrNotFound)
}

// List returns every configured persona id.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.personas == nil {
		if err := p.load(); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(p.personas))
	for id := range p.personas {
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *Provider) load() error {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		p.personas = map[string]core.Persona{DefaultPersona.ID: DefaultPersona}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read personas file: %w", err)
	}

	var file personasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse personas file: %w", err)
	}

	p.personas = make(map[string]core.Persona, len(file.Personas)+1)
	p.personas[DefaultPersona.ID] = DefaultPersona
	for _, persona := range file.Personas {
		if persona.ID == "" {
			return fmt.Errorf("%w: persona without id in %s", core.ErrValidation, p.path)
		}
		p.personas[persona.ID] = persona
	}
	return nil
}
