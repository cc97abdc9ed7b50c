// internal/core/usecases/fallback.go
package usecases

import (
	"time"

	"finsight/internal/core/domain"
)

// FallbackProvider entrega contenido estático siempre disponible para
// cuando la agregación no produce nada usable o falla de forma
// inesperada. El payload de fallback pasa por el MISMO scorer que el
// contenido vivo, de forma que el caller no pueda distinguir ambas
// formas estructuralmente: solo el flag de degradación las separa.
type FallbackProvider struct {
	scorer *ScoreService
}

// NewFallbackProvider crea el proveedor con el scorer compartido.
func NewFallbackProvider(scorer *ScoreService) *FallbackProvider {
	return &FallbackProvider{scorer: scorer}
}

// staticArticle es la semilla de un artículo de fallback.
type staticArticle struct {
	url         string
	title       string
	description string
	ageHours    float64
}

// Semillas fijas del payload degradado de noticias.
var staticNews = []staticArticle{
	{
		url:         "https://finsight.internal/fallback/markets-overview",
		title:       "Markets trade mixed as investors weigh economic data",
		description: "Major indices held near recent levels while traders awaited fresh catalysts from upcoming earnings and fed commentary.",
		ageHours:    2,
	},
	{
		url:         "https://finsight.internal/fallback/crypto-session",
		title:       "Bitcoin steadies after volatile session",
		description: "BTC consolidated in a narrow range as crypto markets digested regulation headlines from the prior week.",
		ageHours:    4,
	},
	{
		url:         "https://finsight.internal/fallback/forex-watch",
		title:       "Dollar holds firm against major currencies",
		description: "The USD was little changed versus the EUR and JPY ahead of central bank minutes.",
		ageHours:    6,
	},
}

// NewsResult construye el resultado de noticias degradado: artículos
// estáticos completamente puntuados, flag de fallback y la explicación
// del fallo. Los outcomes originales se conservan si existen.
func (f *FallbackProvider) NewsResult(query domain.NewsQuery, reason string, outcomes []domain.SourceOutcome) *domain.NewsResult {
	now := time.Now().UTC()

	result := domain.NewNewsResult(query)
	result.Fallback = true
	result.Err = reason
	if outcomes != nil {
		result.Outcomes = outcomes
	}

	for _, seed := range staticNews {
		a := domain.NewArticle(seed.url, seed.title, "fallback", now.Add(-time.Duration(seed.ageHours*float64(time.Hour))))
		a.Description = seed.description
		result.Articles = append(result.Articles, a)
	}

	f.scorer.ScoreAll(result.Articles, now)
	f.scorer.Rank(result.Articles)
	result.Summary = f.scorer.Summarize(result.Articles)

	return result
}

// houseAdHTML creatividad propia servida cuando todas las redes fallan.
const houseAdHTML = `<div class="finsight-house-ad" style="padding:12px;border:1px solid #ddd;text-align:center">` +
	`<a href="https://finsight.internal/pro" rel="sponsored">` +
	`<strong>finsight Pro</strong><br>Real-time market intelligence for serious traders.</a></div>`

// AdDecision retorna el house ad. Los intentos de fallback no puntúan
// ni se registran en los contadores de revenue.
func (f *FallbackProvider) AdDecision(req domain.AdRequest, attempted []string) domain.AdDecision {
	return domain.AdDecision{
		Success:          true,
		Network:          "house",
		HTML:             houseAdHTML,
		RevenueScore:     0,
		LoadTimeMs:       0,
		EstimatedRevenue: 0,
		Fallback:         true,
		Attempted:        attempted,
	}
}
