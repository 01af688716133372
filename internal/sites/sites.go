// Package sites holds the registry of ticket marketplaces a search can fan
// out to: per-site URLs, agent instructions, and priority ordering.
package sites

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sites.yaml
var embeddedConfig []byte

// Config describes one marketplace.
type Config struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Instructions string `yaml:"instructions"`
	Priority     int    `yaml:"priority"`
	Default      bool   `yaml:"default"`
}

// Registry maps site identifiers (lowercase, e.g. "ticketmaster") to their
// configuration.
type Registry struct {
	sites map[string]Config
}

type registryFile struct {
	Sites map[string]Config `yaml:"sites"`
}

// Load returns the built-in registry.
func Load() (*Registry, error) {
	return parse(embeddedConfig)
}

// LoadFile reads a registry from a YAML file, replacing the built-in one.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

func parse(b []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse site registry: %w", err)
	}
	if len(f.Sites) == 0 {
		return nil, fmt.Errorf("site registry is empty")
	}
	for id, cfg := range f.Sites {
		if strings.TrimSpace(cfg.Name) == "" || strings.TrimSpace(cfg.URL) == "" {
			return nil, fmt.Errorf("site %q is missing name or url", id)
		}
	}
	return &Registry{sites: f.Sites}, nil
}

// Get returns the configuration for one site.
func (r *Registry) Get(id string) (Config, error) {
	cfg, ok := r.sites[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Config{}, fmt.Errorf("unknown site: %s (valid: %s)", id, strings.Join(r.IDs(), ", "))
	}
	return cfg, nil
}

// IDs returns every configured site identifier, ordered by priority.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sites))
	for id := range r.sites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.sites[ids[i]], r.sites[ids[j]]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return ids[i] < ids[j]
	})
	return ids
}

// DefaultIDs returns the sites searched when the caller does not restrict
// the set, ordered by priority.
func (r *Registry) DefaultIDs() []string {
	var ids []string
	for _, id := range r.IDs() {
		if r.sites[id].Default {
			ids = append(ids, id)
		}
	}
	return ids
}
