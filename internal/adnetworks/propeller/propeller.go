// internal/adnetworks/propeller/propeller.go
package propeller

import (
	"context"
	"fmt"
	"math/rand"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
)

const (
	networkName = "propeller"
	baseRevenue = 1.20
)

// Auto-registro de la red al importar el package
func init() {
	if err := registry.Networks().Register(
		networkName,
		func(cfg ports.NetworkConfig, logger logx.Logger) (ports.AdNetwork, error) {
			return New(cfg, logger), nil
		},
		ports.NetworkMetadata{
			Name:         networkName,
			Description:  "PropellerAds zone creative",
			RequiresAuth: true,
			Priority:     3,
		},
	); err != nil {
		logx.New().Warn("failed to register propeller network", "error", err.Error())
	}
}

// Network sirve creatividades PropellerAds por zone id.
type Network struct {
	zoneID     string
	loadTimeMs int
	fillRate   float64
	logger     logx.Logger

	roll func() float64
}

// New crea una nueva instancia de la red propeller.
func New(cfg ports.NetworkConfig, logger logx.Logger) ports.AdNetwork {
	return &Network{
		zoneID:     cfg.PublisherID,
		loadTimeMs: cfg.LoadTimeMs,
		fillRate:   cfg.FillRate,
		logger:     logger.With("network", networkName),
		roll:       rand.Float64,
	}
}

// Name retorna el nombre de la red.
func (n *Network) Name() string {
	return networkName
}

// LoadTimeMs retorna la latencia de carga configurada.
func (n *Network) LoadTimeMs() int {
	return n.loadTimeMs
}

// FillRate retorna el fill rate configurado.
func (n *Network) FillRate() float64 {
	return n.fillRate
}

// Request solicita una creatividad a la red.
func (n *Network) Request(ctx context.Context, req domain.AdRequest) (*domain.AdCreative, error) {
	if n.zoneID == "" {
		return nil, errors.ErrMissingConfig
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n.roll() >= n.fillRate {
		return nil, errors.Wrap(errors.ErrServiceUnavailable, "propeller no fill")
	}

	html := fmt.Sprintf(
		`<div data-zone=%q data-format=%q data-slot=%q></div><script src="https://propellerads.com/sdk.js" data-zone=%q async></script>`,
		n.zoneID, req.Type, req.Placement, n.zoneID,
	)

	n.logger.Debug("propeller creative served", "placement", req.Placement)
	return &domain.AdCreative{
		Network:          networkName,
		HTML:             html,
		EstimatedRevenue: baseRevenue * (0.8 + 0.4*n.roll()),
		LoadTimeMs:       n.loadTimeMs,
	}, nil
}

// Close implementa ports.AdNetwork.
func (n *Network) Close() error {
	return nil
}
