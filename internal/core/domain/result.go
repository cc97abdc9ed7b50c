// internal/core/domain/result.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceOutcome registra el desenlace de un adapter dentro del fan-out.
// La lista de outcomes siempre tiene la misma longitud y orden que la
// lista de adapters configurados, independientemente de cuáles fallaron.
type SourceOutcome struct {
	// Source nombre de la fuente
	Source string `json:"source"`

	// OK true si el adapter terminó con éxito
	OK bool `json:"ok"`

	// Err motivo del fallo (vacío en éxito)
	Err string `json:"error,omitempty"`

	// Items número de artículos aportados antes de dedupe
	Items int `json:"items"`

	// Duration duración de la llamada
	Duration time.Duration `json:"-"`
}

// MarketSummary es el resumen agregado derivado del set puntuado.
type MarketSummary struct {
	// OverallSentiment voto mayoritario positive vs negative (empate = neutral)
	OverallSentiment Sentiment `json:"overallSentiment"`

	// ImpactLevel high si >3 artículos high, medium si >1, low en otro caso
	ImpactLevel ImpactLevel `json:"impactLevel"`

	// HighImpactCount artículos clasificados como high
	HighImpactCount int `json:"highImpactCount"`

	// TopAssets símbolos más mencionados en el set
	TopAssets []string `json:"topAssets,omitempty"`
}

// NewsResult es el resultado completo de una pasada del pipeline de noticias.
type NewsResult struct {
	// ID identificador único de la pasada
	ID string `json:"id"`

	// Query consulta que originó el resultado
	Query NewsQuery `json:"query"`

	// Articles artículos deduplicados, puntuados y ordenados
	Articles []*Article `json:"articles"`

	// Outcomes desenlace por adapter en orden de configuración
	Outcomes []SourceOutcome `json:"sourceOutcomes"`

	// Summary resumen agregado de mercado
	Summary MarketSummary `json:"marketSummary"`

	// GeneratedAt momento de generación
	GeneratedAt time.Time `json:"analyzedAt"`

	// Fallback true si el payload proviene del proveedor estático
	Fallback bool `json:"fallback,omitempty"`

	// Err explicación de la degradación cuando Fallback es true
	Err string `json:"error,omitempty"`
}

// NewNewsResult crea un resultado vacío para la consulta dada.
func NewNewsResult(query NewsQuery) *NewsResult {
	return &NewsResult{
		ID:          uuid.NewString(),
		Query:       query,
		Articles:    []*Article{},
		Outcomes:    []SourceOutcome{},
		GeneratedAt: time.Now().UTC(),
	}
}

// SucceededSources retorna cuántos adapters terminaron con éxito.
func (r *NewsResult) SucceededSources() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK {
			n++
		}
	}
	return n
}

// SourcesUsed retorna el vector de éxito por fuente en orden de configuración.
func (r *NewsResult) SourcesUsed() []bool {
	used := make([]bool, len(r.Outcomes))
	for i, o := range r.Outcomes {
		used[i] = o.OK
	}
	return used
}
