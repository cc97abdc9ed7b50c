// internal/adnetworks/adsense/adsense.go
package adsense

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
	networkName = "adsense"

	// baseRevenue ingreso estimado base por impresión en USD
	baseRevenue = 2.50
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
			Description:  "Google AdSense display creative",
			RequiresAuth: true,
			Priority:     10,
		},
	); err != nil {
		logx.New().Warn("failed to register adsense network", "error", err.Error())
	}
}

// Network sirve creatividades AdSense. El fill se simula contra el
// fillRate configurado; una petición sin fill devuelve error y pasa la
// selección a la siguiente red.
type Network struct {
	publisherID string
	loadTimeMs  int
	fillRate    float64
	logger      logx.Logger

	// roll produce el draw de fill en [0,1). Sustituible en tests.
	roll func() float64
}

// New crea una nueva instancia de la red adsense.
func New(cfg ports.NetworkConfig, logger logx.Logger) ports.AdNetwork {
	return &Network{
		publisherID: cfg.PublisherID,
		loadTimeMs:  cfg.LoadTimeMs,
		fillRate:    cfg.FillRate,
		logger:      logger.With("network", networkName),
		roll:        rand.Float64,
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
	if n.publisherID == "" {
		return nil, errors.ErrMissingConfig
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n.roll() >= n.fillRate {
		return nil, errors.Wrap(errors.ErrServiceUnavailable, "adsense no fill")
	}

	html := fmt.Sprintf(
		`<ins class="adsbygoogle" style="display:block" data-ad-client=%q data-ad-slot=%q data-ad-format=%q></ins><script>(adsbygoogle=window.adsbygoogle||[]).push({});</script>`,
		n.publisherID, req.Placement, mapFormat(req.Type),
	)

	n.logger.Debug("adsense creative served", "placement", req.Placement)
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

// mapFormat traduce el tipo interno al formato que AdSense entiende.
func mapFormat(adType string) string {
	switch adType {
	case "native":
		return "fluid"
	case "video":
		return "auto"
	default:
		return "rectangle"
	}
}
