// Package registry provides a global registry for score storage backends.
// Backends register themselves in init() functions, allowing the CLI to
// select one by name from configuration without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/storage"
)

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory opens a score store from the storage configuration.
type Factory func(ctx context.Context, cfg config.StorageConfig) (storage.ScoreStore, error)

type entry struct {
	factory     Factory
	description string
}

var (
	backends = make(map[string]entry)
	mu       sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}
	backends[name] = entry{factory: f, description: description}
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(backends))
	for name, e := range backends {
		result = append(result, BackendInfo{Name: name, Description: e.description})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Open creates a store with the backend named by cfg.Backend.
// Returns an error if the backend is not registered.
func Open(ctx context.Context, cfg config.StorageConfig) (storage.ScoreStore, error) {
	mu.RLock()
	e, ok := backends[cfg.Backend]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown storage backend %q", cfg.Backend)
	}

	store, err := e.factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s backend: %w", cfg.Backend, err)
	}
	return store, nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := backends[name]
	return ok
}
