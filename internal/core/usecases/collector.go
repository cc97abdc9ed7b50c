// internal/core/usecases/collector.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
)

// Collector ejecuta el fan-out sobre las fuentes configuradas.
// Disciplina join-all: lanza todas las fuentes en paralelo y espera a
// que TODAS terminen (éxito o fallo), sin cancelar hermanas ni en el
// primer fallo ni en el primer éxito. Una fuente lenta o rota degrada
// la completitud del resultado, nunca la disponibilidad.
type Collector struct {
	logger logx.Logger
}

// CollectedSource es el desenlace de una fuente dentro del fan-out.
type CollectedSource struct {
	// Outcome desenlace registrado para sourceOutcomes
	Outcome domain.SourceOutcome

	// Articles artículos aportados (nil si la fuente falló)
	Articles []*domain.Article
}

// NewCollector crea un collector.
func NewCollector(logger logx.Logger) *Collector {
	return &Collector{
		logger: logger.With("component", "collector"),
	}
}

// Collect invoca todas las fuentes concurrentemente y retorna los
// desenlaces en el MISMO orden que la lista de entrada (orden de
// configuración, no orden de finalización). La longitud del resultado
// siempre es igual al número de fuentes.
func (c *Collector) Collect(ctx context.Context, sources []ports.NewsSource, query domain.NewsQuery) []CollectedSource {
	results := make([]CollectedSource, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(idx int, s ports.NewsSource) {
			defer wg.Done()
			results[idx] = c.collectOne(ctx, s, query)
		}(i, source)
	}
	wg.Wait()

	return results
}

// collectOne ejecuta una fuente aislando cualquier fallo, incluidos
// panics: un adapter roto se registra como fallido y el batch continúa.
func (c *Collector) collectOne(ctx context.Context, source ports.NewsSource, query domain.NewsQuery) (out CollectedSource) {
	name := source.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("source panicked", "source", name, "panic", fmt.Sprint(r))
			out = CollectedSource{
				Outcome: domain.SourceOutcome{
					Source:   name,
					OK:       false,
					Err:      fmt.Sprintf("panic: %v", r),
					Duration: time.Since(start),
				},
			}
		}
	}()

	c.logger.Debug("fetching source", "source", name, "category", query.Category)

	articles, err := source.Fetch(ctx, query)
	duration := time.Since(start)

	if err != nil {
		c.logger.Warn("source failed",
			"source", name,
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
		return CollectedSource{
			Outcome: domain.SourceOutcome{
				Source:   name,
				OK:       false,
				Err:      err.Error(),
				Duration: duration,
			},
		}
	}

	// Filtrar artículos inválidos que el adapter dejó pasar
	valid := articles[:0]
	for _, a := range articles {
		if a.IsValid() {
			valid = append(valid, a)
		}
	}

	c.logger.Debug("source completed",
		"source", name,
		"articles", len(valid),
		"duration_ms", duration.Milliseconds(),
	)

	return CollectedSource{
		Outcome: domain.SourceOutcome{
			Source:   name,
			OK:       true,
			Items:    len(valid),
			Duration: duration,
		},
		Articles: valid,
	}
}
