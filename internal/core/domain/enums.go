// internal/core/domain/enums.go
package domain

// ImpactLevel clasifica el impacto de mercado estimado de una noticia.
type ImpactLevel string

const (
	// ImpactHigh indica impacto alto (>=2 keywords de alto impacto)
	ImpactHigh ImpactLevel = "high"

	// ImpactMedium indica impacto medio (>=1 keyword alta o >=2 medias)
	ImpactMedium ImpactLevel = "medium"

	// ImpactLow indica impacto bajo (sin matches relevantes)
	ImpactLow ImpactLevel = "low"
)

// IsValid verifica si el nivel de impacto es válido.
func (l ImpactLevel) IsValid() bool {
	switch l {
	case ImpactHigh, ImpactMedium, ImpactLow:
		return true
	default:
		return false
	}
}

// Weight retorna la contribución numérica del nivel al ranking.
// Se usa únicamente como clave de ordenación, no como métrica real.
func (l ImpactLevel) Weight() float64 {
	switch l {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// String retorna la representación string del nivel.
func (l ImpactLevel) String() string {
	return string(l)
}

// Sentiment clasifica el sentimiento agregado del texto de una noticia.
type Sentiment string

const (
	// SentimentPositive score de palabras positivas - negativas >= 2
	SentimentPositive Sentiment = "positive"

	// SentimentNegative score de palabras positivas - negativas <= -2
	SentimentNegative Sentiment = "negative"

	// SentimentNeutral cualquier otro caso
	SentimentNeutral Sentiment = "neutral"
)

// IsValid verifica si el sentimiento es válido.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// String retorna la representación string del sentimiento.
func (s Sentiment) String() string {
	return string(s)
}

// AssetType define la clase de activo de un asset relacionado.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeForex  AssetType = "forex"
)

// IsValid verifica si el tipo de activo es válido.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeForex:
		return true
	default:
		return false
	}
}

// Confidence retorna la confianza fija asociada a cada clase de activo.
// Valores fijos, no calibrados empíricamente.
func (t AssetType) Confidence() float64 {
	switch t {
	case AssetTypeStock:
		return 0.9
	case AssetTypeCrypto:
		return 0.8
	case AssetTypeForex:
		return 0.7
	default:
		return 0
	}
}

// String retorna la representación string del tipo.
func (t AssetType) String() string {
	return string(t)
}
