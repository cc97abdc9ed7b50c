// internal/core/domain/article.go
package domain

import (
	"strings"
	"time"
)

// Article representa una noticia normalizada proveniente de cualquier fuente.
// Es la unidad que fluye por el pipeline de agregación de noticias.
type Article struct {
	// URL identidad estable del artículo, clave de deduplicación
	URL string `json:"url"`

	// Title titular de la noticia
	Title string `json:"title"`

	// Description resumen o primer párrafo (puede estar vacío)
	Description string `json:"description,omitempty"`

	// Source nombre de la fuente que lo descubrió (newsapi, marketaux, ...)
	Source string `json:"source"`

	// PublishedAt momento de publicación según el upstream
	PublishedAt time.Time `json:"publishedAt"`

	// ImageURL imagen asociada (opcional)
	ImageURL string `json:"imageUrl,omitempty"`

	// Scores puntuaciones derivadas; nil hasta pasar por el scorer
	Scores *ArticleScores `json:"analysis,omitempty"`
}

// ArticleScores agrupa las puntuaciones derivadas de un artículo.
// Solo el ScoreService debe poblarlas; un artículo con Scores parciales
// nunca debe salir del pipeline.
type ArticleScores struct {
	// MarketImpact nivel de impacto estimado por keywords
	MarketImpact ImpactLevel `json:"marketImpact"`

	// Sentiment sentimiento por conteo de palabras positivas/negativas
	Sentiment Sentiment `json:"sentiment"`

	// RelatedAssets hasta 5 activos detectados en el texto
	RelatedAssets []RelatedAsset `json:"relatedAssets"`

	// Urgency urgencia temporal en [0,1]
	Urgency float64 `json:"urgency"`

	// TradingImplications avisos heurísticos según keywords temáticas
	TradingImplications []string `json:"tradingImplications"`
}

// RelatedAsset es un activo financiero detectado en el contenido.
type RelatedAsset struct {
	Symbol     string    `json:"symbol"`
	AssetType  AssetType `json:"assetType"`
	Confidence float64   `json:"confidence"`
}

// NewArticle crea un artículo normalizado sin puntuar.
func NewArticle(url, title, source string, publishedAt time.Time) *Article {
	a := &Article{
		URL:         url,
		Title:       title,
		Source:      source,
		PublishedAt: publishedAt,
	}
	a.Normalize()
	return a
}

// Identity retorna la clave de deduplicación del artículo.
func (a *Article) Identity() string {
	return a.URL
}

// IsValid verifica que el artículo tenga los campos mínimos.
func (a *Article) IsValid() bool {
	return a != nil && a.URL != "" && a.Title != ""
}

// IsScored indica si el artículo ya pasó por el scorer con todas
// las puntuaciones pobladas.
func (a *Article) IsScored() bool {
	if a.Scores == nil {
		return false
	}
	s := a.Scores
	return s.MarketImpact.IsValid() &&
		s.Sentiment.IsValid() &&
		s.RelatedAssets != nil &&
		s.TradingImplications != nil &&
		s.Urgency >= 0 && s.Urgency <= 1
}

// Normalize limpia espacios y normaliza la URL para dedupe estable.
func (a *Article) Normalize() {
	a.URL = strings.TrimSpace(a.URL)
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)

	// Sin el fragment la misma noticia compartida por dos fuentes colapsa
	if i := strings.IndexByte(a.URL, '#'); i >= 0 {
		a.URL = a.URL[:i]
	}
	a.URL = strings.TrimSuffix(a.URL, "/")
}

// Content retorna el texto analizable del artículo (titular + descripción).
func (a *Article) Content() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}

// RankKey retorna la clave compuesta de ordenación descendente:
// peso de impacto + urgencia. Requiere artículo puntuado.
func (a *Article) RankKey() float64 {
	if a.Scores == nil {
		return 0
	}
	return a.Scores.MarketImpact.Weight() + a.Scores.Urgency
}
