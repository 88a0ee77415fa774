// Package content loads creature templates and spawns from a content source.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/creatureai/internal/domain/creature"
	"github.com/zjrosen/creatureai/internal/log"
)

// Backend names accepted in Config.Backend.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

var (
	// ErrTemplateNotFound is returned when no template has the requested entry.
	ErrTemplateNotFound = errors.New("creature template not found")
	// ErrInvalidContent wraps rows that cannot be turned into domain values.
	ErrInvalidContent = errors.New("invalid content")
	// ErrUnknownBackend is returned by NewStore for an unsupported backend.
	ErrUnknownBackend = errors.New("unknown content backend")
)

// Store is a read-only source of creature content.
type Store interface {
	// Templates returns every template ordered by entry.
	Templates(ctx context.Context) ([]creature.Template, error)
	// Template returns the template for entry or ErrTemplateNotFound.
	Template(ctx context.Context, entry uint32) (creature.Template, error)
	// Spawns returns every spawn ordered by guid counter.
	Spawns(ctx context.Context) ([]creature.Spawn, error)
	Close() error
}

// Config selects and configures the content backend.
type Config struct {
	Backend string      `mapstructure:"backend"` // "yaml" (default) or "sqlite"
	Path    string      `mapstructure:"path"`    // content file or database
	Cache   CacheConfig `mapstructure:"cache"`
}

// CacheConfig controls the template cache in front of the store.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// DefaultConfig returns the yaml backend reading creatures.yaml with caching on.
func DefaultConfig() Config {
	return Config{
		Backend: BackendYAML,
		Path:    "creatures.yaml",
		Cache:   CacheConfig{Enabled: true, TTL: 10 * time.Minute},
	}
}

// Validate checks the backend name and path.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendYAML, BackendSQLite, "":
	default:
		return fmt.Errorf("content.backend must be \"yaml\" or \"sqlite\", got %q", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("content.path is required")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("content.cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}

// NewStore opens the backend named by cfg, wrapped in a CachedStore when the
// cache is enabled.
func NewStore(cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case BackendYAML, "":
		store, err = OpenYAMLStore(cfg.Path)
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		return NewCachedStore(store, cfg.Cache.TTL), nil
	}
	return store, nil
}

// Snapshots joins every spawn with its template. A spawn whose entry has no
// template is logged on the db category and skipped.
func Snapshots(ctx context.Context, store Store, logger *log.Logger) ([]*creature.Snapshot, error) {
	spawns, err := store.Spawns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spawns: %w", err)
	}

	out := make([]*creature.Snapshot, 0, len(spawns))
	for _, spawn := range spawns {
		tmpl, err := store.Template(ctx, spawn.Entry)
		if errors.Is(err, ErrTemplateNotFound) {
			logger.Error(log.CatDB, "spawn references unknown creature entry",
				"guid", spawn.GUID, "entry", spawn.Entry)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load template %d: %w", spawn.Entry, err)
		}
		out = append(out, creature.NewSnapshot(tmpl, spawn))
	}
	return out, nil
}

func spawnGUID(counter uint32, pet bool) creature.GUID {
	if pet {
		return creature.NewGUID(creature.HighPet, counter)
	}
	return creature.NewGUID(creature.HighUnit, counter)
}
