// internal/platform/registry/source_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
)

// SourceRegistry gestiona el registro y construcción de fuentes de
// noticias. Implementa el patrón Registry + Factory: el dispatch por
// nombre de fuente es un mapa cerrado de identificadores a factories,
// no una cadena de switch.
type SourceRegistry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
	metadata  map[string]ports.SourceMetadata
	logger    logx.Logger
}

// SourceFactory es una función que crea una instancia de NewsSource.
type SourceFactory func(cfg ports.SourceConfig, logger logx.Logger) (ports.NewsSource, error)

// globalRegistry es la instancia global del registry.
var globalRegistry *SourceRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *SourceRegistry {
	once.Do(func() {
		globalRegistry = NewSourceRegistry(logx.New())
	})
	return globalRegistry
}

// NewSourceRegistry crea un nuevo registry de fuentes.
func NewSourceRegistry(logger logx.Logger) *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[string]SourceFactory),
		metadata:  make(map[string]ports.SourceMetadata),
		logger:    logger.With("component", "source-registry"),
	}
}

// Register registra una source factory con su metadata.
// Típicamente llamado desde init() de cada package de fuente.
func (r *SourceRegistry) Register(name string, factory SourceFactory, meta ports.SourceMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for source %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("source registered", "name", name, "priority", meta.Priority)
	return nil
}

// Build construye todas las fuentes habilitadas según la configuración,
// ordenadas por prioridad descendente. Ese orden es el orden de
// configuración del fan-out: fija tanto el orden de los outcomes como
// la precedencia en el dedupe.
func (r *SourceRegistry) Build(configs map[string]ports.SourceConfig, logger logx.Logger) ([]ports.NewsSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	type candidate struct {
		name     string
		config   ports.SourceConfig
		priority int
	}

	candidates := make([]candidate, 0, len(configs))
	var buildErrs []error

	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, exists := r.factories[name]; !exists {
			r.logger.Warn("source not registered, skipping", "source", name)
			buildErrs = append(buildErrs, fmt.Errorf("source %s not registered in registry", name))
			continue
		}
		if cfg.Priority < 0 {
			cfg.Priority = 0
		}
		candidates = append(candidates, candidate{name: name, config: cfg, priority: cfg.Priority})
	}

	// Orden estable: prioridad desc, nombre como desempate determinista
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority == candidates[j].priority {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].priority > candidates[j].priority
	})

	sources := make([]ports.NewsSource, 0, len(candidates))
	for _, c := range candidates {
		source, err := r.factories[c.name](c.config, logger)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to build source %s: %w", c.name, err))
			continue
		}
		sources = append(sources, source)
		r.logger.Debug("source built", "name", c.name, "priority", c.priority)
	}

	for _, err := range buildErrs {
		r.logger.Warn("source build error", "error", err.Error())
	}

	if len(sources) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no sources could be built")
	}

	logger.Info("sources built", "count", len(sources), "requested", len(configs))
	return sources, nil
}

// List retorna los nombres de todas las fuentes registradas.
func (r *SourceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de una fuente.
func (r *SourceRegistry) GetMetadata(name string) (ports.SourceMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// GetAllMetadata retorna el metadata de todas las fuentes registradas.
func (r *SourceRegistry) GetAllMetadata() map[string]ports.SourceMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]ports.SourceMetadata, len(r.metadata))
	for name, meta := range r.metadata {
		result[name] = meta
	}
	return result
}

// IsRegistered verifica si una fuente está registrada.
func (r *SourceRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todas las fuentes registradas (útil para testing).
func (r *SourceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]SourceFactory)
	r.metadata = make(map[string]ports.SourceMetadata)
}
