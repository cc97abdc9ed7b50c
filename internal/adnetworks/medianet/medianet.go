// internal/adnetworks/medianet/medianet.go
package medianet

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
	networkName = "medianet"
	baseRevenue = 1.80
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
			Description:  "Media.net contextual creative",
			RequiresAuth: true,
			Priority:     6,
		},
	); err != nil {
		logx.New().Warn("failed to register medianet network", "error", err.Error())
	}
}

// Network sirve creatividades contextuales de Media.net. El hint de
// preferencia del usuario se propaga al markup como contexto.
type Network struct {
	publisherID string
	loadTimeMs  int
	fillRate    float64
	logger      logx.Logger

	roll func() float64
}

// New crea una nueva instancia de la red medianet.
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
		return nil, errors.Wrap(errors.ErrServiceUnavailable, "medianet no fill")
	}

	topic := req.UserPreference
	if topic == "" {
		topic = "finance"
	}
	html := fmt.Sprintf(
		`<div id="mnet-%s" data-cid=%q data-context=%q></div><script src="https://contextual.media.net/dmedianet.js?cid=%s" async></script>`,
		req.Placement, n.publisherID, topic, n.publisherID,
	)

	n.logger.Debug("medianet creative served", "placement", req.Placement, "context", topic)
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
