// internal/core/usecases/news_pipeline.go
package usecases

import (
	"context"
	"fmt"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
)

// NewsPipeline coordina la pasada completa de agregación de noticias:
// fan-out -> merge/dedupe -> cap -> score -> rank -> summary.
// Cualquier fallo no manejado en la cadena se recupera sustituyendo el
// resultado por el del FallbackProvider; el caller siempre recibe un
// payload estructuralmente válido.
type NewsPipeline struct {
	sources   []ports.NewsSource
	collector *Collector
	dedupe    *DedupeService
	scorer    *ScoreService
	fallback  *FallbackProvider
	logger    logx.Logger
}

// NewsPipelineOptions configura el pipeline.
type NewsPipelineOptions struct {
	// Sources fuentes en orden de configuración; fija el orden de los
	// outcomes y la precedencia del dedupe
	Sources []ports.NewsSource
	Scorer  *ScoreService
	Logger  logx.Logger
}

// NewNewsPipeline crea una nueva instancia del pipeline.
func NewNewsPipeline(opts NewsPipelineOptions) *NewsPipeline {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Scorer == nil {
		opts.Scorer = NewScoreService(DefaultScoreConfig())
	}

	return &NewsPipeline{
		sources:   opts.Sources,
		collector: NewCollector(opts.Logger),
		dedupe:    NewDedupeService(),
		scorer:    opts.Scorer,
		fallback:  NewFallbackProvider(opts.Scorer),
		logger:    opts.Logger.With("component", "news-pipeline"),
	}
}

// Run ejecuta la agregación para la consulta dada. Nunca retorna error:
// la degradación se expresa dentro del resultado.
func (p *NewsPipeline) Run(ctx context.Context, query domain.NewsQuery) (result *domain.NewsResult) {
	query.Normalize()

	// Un fallo inesperado de merge/score no debe tumbar el endpoint
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("aggregation panicked, serving fallback", "panic", fmt.Sprint(r))
			result = p.fallback.NewsResult(query, domain.ErrAggregationFailed.Error(), nil)
		}
	}()

	sources := p.selectSources(query)
	if len(sources) == 0 {
		p.logger.Warn("no sources match query", "requested", query.Sources)
		return p.fallback.NewsResult(query, domain.ErrNoSourcesConfigured.Error(), nil)
	}

	start := time.Now()
	collected := p.collector.Collect(ctx, sources, query)

	outcomes := make([]domain.SourceOutcome, len(collected))
	for i, cs := range collected {
		outcomes[i] = cs.Outcome
	}

	merged := p.dedupe.Merge(collected)
	if len(merged) == 0 {
		// Todas las fuentes agotadas: ruta natural al fallback, nunca
		// un body de éxito vacío
		p.logger.Warn("all sources exhausted, serving fallback",
			"sources", len(sources),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return p.fallback.NewsResult(query, domain.ErrAllSourcesFailed.Error(), outcomes)
	}

	page := p.dedupe.Cap(merged, query.PageSize)

	now := time.Now().UTC()
	p.scorer.ScoreAll(page, now)
	p.scorer.Rank(page)

	result = domain.NewNewsResult(query)
	result.Articles = page
	result.Outcomes = outcomes
	result.Summary = p.scorer.Summarize(page)
	result.GeneratedAt = now

	p.logger.Info("news aggregation completed",
		"category", query.Category,
		"sources_ok", result.SucceededSources(),
		"sources_total", len(sources),
		"merged", len(merged),
		"returned", len(page),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}

// Close cierra todas las fuentes del pipeline.
func (p *NewsPipeline) Close() error {
	var firstErr error
	for _, s := range p.sources {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// selectSources filtra las fuentes según el subconjunto pedido en la
// consulta, conservando el orden de configuración.
func (p *NewsPipeline) selectSources(query domain.NewsQuery) []ports.NewsSource {
	if len(query.Sources) == 0 {
		return p.sources
	}
	selected := make([]ports.NewsSource, 0, len(p.sources))
	for _, s := range p.sources {
		if query.WantsSource(s.Name()) {
			selected = append(selected, s)
		}
	}
	return selected
}
