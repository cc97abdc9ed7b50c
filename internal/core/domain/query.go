// internal/core/domain/query.go
package domain

import "strings"

// Límites de la consulta de noticias.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NewsQuery describe una consulta de agregación de noticias.
type NewsQuery struct {
	// Category categoría temática (business, crypto, forex, ...)
	Category string `json:"category"`

	// PageSize máximo de artículos tras dedupe, antes de scoring
	PageSize int `json:"pageSize"`

	// Sources subconjunto opcional de fuentes a consultar; vacío = todas
	Sources []string `json:"sources,omitempty"`
}

// Normalize sanea la consulta aplicando defaults y límites.
func (q *NewsQuery) Normalize() {
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = "business"
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	for i, s := range q.Sources {
		q.Sources[i] = strings.ToLower(strings.TrimSpace(s))
	}
}

// WantsSource indica si la consulta incluye la fuente dada.
// Una lista vacía acepta cualquier fuente.
func (q *NewsQuery) WantsSource(name string) bool {
	if len(q.Sources) == 0 {
		return true
	}
	for _, s := range q.Sources {
		if s == name {
			return true
		}
	}
	return false
}
