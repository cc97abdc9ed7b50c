// internal/platform/registry/network_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
)

// NetworkRegistry gestiona el registro y construcción de ad networks.
// El orden de construcción (prioridad configurada) es el orden de
// desempate cuando dos redes obtienen el mismo score de revenue.
type NetworkRegistry struct {
	mu        sync.RWMutex
	factories map[string]NetworkFactory
	metadata  map[string]ports.NetworkMetadata
	logger    logx.Logger
}

// NetworkFactory es una función que crea una instancia de AdNetwork.
type NetworkFactory func(cfg ports.NetworkConfig, logger logx.Logger) (ports.AdNetwork, error)

var globalNetworks *NetworkRegistry
var networksOnce sync.Once

// Networks retorna la instancia global del registry de redes.
func Networks() *NetworkRegistry {
	networksOnce.Do(func() {
		globalNetworks = NewNetworkRegistry(logx.New())
	})
	return globalNetworks
}

// NewNetworkRegistry crea un nuevo registry de redes.
func NewNetworkRegistry(logger logx.Logger) *NetworkRegistry {
	return &NetworkRegistry{
		factories: make(map[string]NetworkFactory),
		metadata:  make(map[string]ports.NetworkMetadata),
		logger:    logger.With("component", "network-registry"),
	}
}

// Register registra una network factory con su metadata.
// Típicamente llamado desde init() de cada package de red.
func (r *NetworkRegistry) Register(name string, factory NetworkFactory, meta ports.NetworkMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("network name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for network %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("network %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("network registered", "name", name, "priority", meta.Priority)
	return nil
}

// Build construye todas las redes habilitadas en orden de prioridad
// configurada descendente.
func (r *NetworkRegistry) Build(configs map[string]ports.NetworkConfig, logger logx.Logger) ([]ports.AdNetwork, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}

	type candidate struct {
		name     string
		config   ports.NetworkConfig
		priority int
	}

	candidates := make([]candidate, 0, len(configs))
	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		if _, exists := r.factories[name]; !exists {
			r.logger.Warn("network not registered, skipping", "network", name)
			continue
		}
		candidates = append(candidates, candidate{name: name, config: cfg, priority: cfg.Priority})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority == candidates[j].priority {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].priority > candidates[j].priority
	})

	networks := make([]ports.AdNetwork, 0, len(candidates))
	for _, c := range candidates {
		network, err := r.factories[c.name](c.config, logger)
		if err != nil {
			r.logger.Warn("failed to build network", "network", c.name, "error", err.Error())
			continue
		}
		networks = append(networks, network)
	}

	if len(networks) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no ad networks could be built")
	}

	logger.Info("ad networks built", "count", len(networks), "requested", len(configs))
	return networks, nil
}

// List retorna los nombres de todas las redes registradas.
func (r *NetworkRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered verifica si una red está registrada.
func (r *NetworkRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todas las redes registradas (útil para testing).
func (r *NetworkRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]NetworkFactory)
	r.metadata = make(map[string]ports.NetworkMetadata)
}
