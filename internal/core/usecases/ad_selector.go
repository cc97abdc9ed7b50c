// internal/core/usecases/ad_selector.go
package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
)

// Pesos de la fórmula de score de red. Fijos en tiempo de compilación;
// se exponen para tests pero no se ajustan en runtime.
const (
	weightRevenue     = 0.4
	weightSuccessRate = 0.3
	weightLoadTime    = 0.2
	weightFillRate    = 0.1

	// revenueNorm divisor de normalización del revenue acumulado
	revenueNorm = 1000.0

	// loadTimeNorm divisor de normalización de la latencia
	loadTimeNorm = 1000.0
)

// AdSelector implementa la instanciación publicitaria del pipeline:
// puntúa las redes con los contadores rolling, las intenta en orden
// estricto de score descendente y usa la primera que entregue
// creatividad. Cada intento, exitoso o no, actualiza el store antes de
// pasar a la siguiente red. Si todas fallan sirve el house ad sin
// registrarlo.
type AdSelector struct {
	networks []ports.AdNetwork
	store    ports.RevenueStore
	fallback *FallbackProvider
	logger   logx.Logger
}

// AdSelectorOptions configura el selector.
type AdSelectorOptions struct {
	// Networks redes en orden de prioridad configurada; desempata
	// scores iguales
	Networks []ports.AdNetwork

	// Store contadores rolling inyectados (uno por proceso en
	// producción, uno por escenario en tests)
	Store ports.RevenueStore

	Fallback *FallbackProvider
	Logger   logx.Logger
}

// NewAdSelector crea una nueva instancia del selector.
func NewAdSelector(opts AdSelectorOptions) *AdSelector {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Fallback == nil {
		opts.Fallback = NewFallbackProvider(NewScoreService(DefaultScoreConfig()))
	}

	return &AdSelector{
		networks: opts.Networks,
		store:    opts.Store,
		fallback: opts.Fallback,
		logger:   opts.Logger.With("component", "ad-selector"),
	}
}

// NetworkScore calcula el score de selección de una red:
// 0.4×min(totalRevenue/1000,1) + 0.3×successRate +
// 0.2×(1000−loadTimeMs)/1000 + 0.1×fillRate.
// Función pura de los contadores y la configuración de la red.
func NetworkScore(m domain.NetworkMetrics, loadTimeMs int, fillRate float64) float64 {
	revenue := m.TotalRevenue / revenueNorm
	if revenue > 1 {
		revenue = 1
	}

	loadScore := (loadTimeNorm - float64(loadTimeMs)) / loadTimeNorm
	if loadScore < 0 {
		loadScore = 0
	}

	return weightRevenue*revenue +
		weightSuccessRate*m.SuccessRate +
		weightLoadTime*loadScore +
		weightFillRate*fillRate
}

// Select ejecuta la selección de red para la petición dada. Nunca
// retorna error: el agotamiento de todas las redes degrada al house ad.
func (s *AdSelector) Select(ctx context.Context, req domain.AdRequest) (decision domain.AdDecision) {
	req.Normalize()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("ad selection panicked, serving house ad", "panic", fmt.Sprint(r))
			decision = s.fallback.AdDecision(req, nil)
		}
	}()

	if len(s.networks) == 0 {
		s.logger.Warn("no ad networks configured")
		return s.fallback.AdDecision(req, nil)
	}

	ranked := s.rank()
	attempted := make([]string, 0, len(ranked))

	for _, rn := range ranked {
		name := rn.network.Name()
		attempted = append(attempted, name)

		start := time.Now()
		creative, err := rn.network.Request(ctx, req)
		success := err == nil && creative.IsValid()

		revenue := 0.0
		if success {
			revenue = creative.EstimatedRevenue
		}

		// Todo intento actualiza el record antes de pasar a la
		// siguiente red
		s.store.Record(name, success, revenue)

		if !success {
			reason := "invalid creative"
			if err != nil {
				reason = err.Error()
			}
			s.logger.Warn("network attempt failed",
				"network", name,
				"error", reason,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			continue
		}

		s.logger.Info("ad served",
			"network", name,
			"score", rn.score,
			"revenue", revenue,
			"attempts", len(attempted),
		)

		metrics := s.store.Snapshot(name)
		return domain.AdDecision{
			Success:          true,
			Network:          name,
			HTML:             creative.HTML,
			RevenueScore:     rn.score,
			LoadTimeMs:       creative.LoadTimeMs,
			EstimatedRevenue: revenue,
			Attempted:        attempted,
			Metrics:          &metrics,
		}
	}

	s.logger.Warn("all ad networks failed, serving house ad", "attempted", len(attempted))
	return s.fallback.AdDecision(req, attempted)
}

// rankedNetwork asocia una red con su score en el momento del ranking.
type rankedNetwork struct {
	network ports.AdNetwork
	score   float64
}

// rank puntúa todas las redes y las ordena por score descendente.
// Ordenación estable: los empates conservan el orden de prioridad
// configurado de la lista de entrada.
func (s *AdSelector) rank() []rankedNetwork {
	ranked := make([]rankedNetwork, len(s.networks))
	for i, n := range s.networks {
		ranked[i] = rankedNetwork{
			network: n,
			score:   NetworkScore(s.store.Snapshot(n.Name()), n.LoadTimeMs(), n.FillRate()),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// Close cierra todas las redes del selector.
func (s *AdSelector) Close() error {
	var firstErr error
	for _, n := range s.networks {
		if err := n.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
