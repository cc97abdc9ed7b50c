// internal/core/usecases/score_service.go
package usecases

import (
	"sort"
	"strings"
	"time"

	"finsight/internal/core/domain"
)

// ImplicationRule asocia un set temático de keywords con un aviso.
type ImplicationRule struct {
	Keywords []string
	Advice   string
}

// ScoreConfig contiene los rosters de keywords y umbrales del scorer.
// Los valores por defecto son constantes fijas; no existe baseline
// empírico que justifique otros, así que se exponen como configuración
// en lugar de ajustarse en runtime.
type ScoreConfig struct {
	HighImpactKeywords   []string
	MediumImpactKeywords []string

	PositiveWords []string
	NegativeWords []string

	BreakingKeywords []string

	// StockTickers roster de tickers conocidos, en mayúsculas
	StockTickers []string

	// CryptoAssets símbolo -> variantes de nombre, en mayúsculas
	CryptoAssets map[string][]string

	// ForexCurrencies códigos ISO de divisas, en mayúsculas
	ForexCurrencies []string

	ImplicationRules   []ImplicationRule
	GenericImplication string

	// MaxRelatedAssets tope de activos extraídos por artículo
	MaxRelatedAssets int

	// BreakingBoost urgencia extra cuando el titular es breaking news
	BreakingBoost float64
}

// DefaultScoreConfig retorna los rosters y umbrales por defecto.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		HighImpactKeywords: []string{
			"fed", "earnings", "merger", "acquisition", "bankruptcy",
			"rate hike", "rate cut", "inflation", "recession", "crash",
		},
		MediumImpactKeywords: []string{
			"ipo", "dividend", "guidance", "forecast", "upgrade",
			"downgrade", "buyback", "layoffs", "lawsuit", "regulation",
		},
		PositiveWords: []string{
			"surge", "rally", "gain", "growth", "beat", "record",
			"strong", "profit", "bullish", "soar", "upbeat", "recovery",
		},
		NegativeWords: []string{
			"plunge", "drop", "loss", "miss", "weak", "decline",
			"bearish", "crash", "slump", "fear", "selloff", "default",
		},
		BreakingKeywords: []string{
			"breaking", "just in", "urgent", "alert",
		},
		StockTickers: []string{
			"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA",
			"JPM", "GS", "BAC", "WMT", "XOM", "NFLX", "AMD", "INTC",
		},
		CryptoAssets: map[string][]string{
			"BTC":  {"BTC", "BITCOIN"},
			"ETH":  {"ETH", "ETHEREUM"},
			"SOL":  {"SOL", "SOLANA"},
			"XRP":  {"XRP", "RIPPLE"},
			"DOGE": {"DOGE", "DOGECOIN"},
		},
		ForexCurrencies: []string{
			"USD", "EUR", "GBP", "JPY", "CHF", "AUD", "CAD", "CNY",
		},
		ImplicationRules: []ImplicationRule{
			{
				Keywords: []string{"fed", "interest rate", "rate hike", "rate cut", "inflation"},
				Advice:   "Monitor rate-sensitive sectors; fixed income and financials may reprice.",
			},
			{
				Keywords: []string{"earnings", "revenue", "guidance", "forecast"},
				Advice:   "Expect elevated single-name volatility around the reporting window.",
			},
			{
				Keywords: []string{"merger", "acquisition", "buyout", "takeover"},
				Advice:   "Watch deal-spread opportunities and sector consolidation plays.",
			},
			{
				Keywords: []string{"bitcoin", "crypto", "ethereum", "stablecoin"},
				Advice:   "Crypto correlation spikes can spill into risk assets; size positions accordingly.",
			},
			{
				Keywords: []string{"oil", "opec", "energy", "crude"},
				Advice:   "Energy price moves may pressure transport and industrial margins.",
			},
		},
		GenericImplication: "No specific trading signal detected; treat as general market context.",
		MaxRelatedAssets:   5,
		BreakingBoost:      0.3,
	}
}

// ScoreService calcula las puntuaciones derivadas de los artículos.
// Todas las funciones son puras y deterministas respecto al contenido
// y al instante de referencia: puntuar dos veces el mismo artículo
// produce exactamente los mismos scores.
type ScoreService struct {
	cfg ScoreConfig
}

// NewScoreService crea un scorer con la configuración dada.
func NewScoreService(cfg ScoreConfig) *ScoreService {
	if cfg.MaxRelatedAssets <= 0 {
		cfg.MaxRelatedAssets = 5
	}
	if cfg.GenericImplication == "" {
		cfg.GenericImplication = DefaultScoreConfig().GenericImplication
	}
	return &ScoreService{cfg: cfg}
}

// ScoreAll puntúa la lista completa in-place tomando now como instante
// de referencia común, de forma que toda la página comparte la misma
// base temporal de urgencia.
func (s *ScoreService) ScoreAll(articles []*domain.Article, now time.Time) {
	for _, a := range articles {
		s.Score(a, now)
	}
}

// Score puebla las puntuaciones derivadas del artículo.
func (s *ScoreService) Score(a *domain.Article, now time.Time) {
	content := strings.ToLower(a.Content())

	a.Scores = &domain.ArticleScores{
		MarketImpact:        s.classifyImpact(content),
		Sentiment:           s.classifySentiment(content),
		RelatedAssets:       s.extractAssets(strings.ToUpper(a.Content())),
		Urgency:             s.urgency(a, now),
		TradingImplications: s.implications(content),
	}
}

// classifyImpact cuenta keywords distintas presentes en cada roster.
// Regla: >=2 matches de alto impacto -> high; >=1 alto O >=2 medio ->
// medium; resto -> low.
func (s *ScoreService) classifyImpact(content string) domain.ImpactLevel {
	high := countMatches(content, s.cfg.HighImpactKeywords)
	medium := countMatches(content, s.cfg.MediumImpactKeywords)

	switch {
	case high >= 2:
		return domain.ImpactHigh
	case high >= 1 || medium >= 2:
		return domain.ImpactMedium
	default:
		return domain.ImpactLow
	}
}

// classifySentiment suma ocurrencias de palabras positivas menos
// negativas. score >= 2 -> positive; <= -2 -> negative; resto neutral.
func (s *ScoreService) classifySentiment(content string) domain.Sentiment {
	score := countOccurrences(content, s.cfg.PositiveWords) -
		countOccurrences(content, s.cfg.NegativeWords)

	switch {
	case score >= 2:
		return domain.SentimentPositive
	case score <= -2:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// extractAssets busca el roster de activos conocidos en el contenido en
// mayúsculas. La confianza es la constante por categoría, no una medida
// real. Nunca retorna nil para que el invariante de scores completos
// se cumpla incluso sin matches.
func (s *ScoreService) extractAssets(upper string) []domain.RelatedAsset {
	assets := make([]domain.RelatedAsset, 0, s.cfg.MaxRelatedAssets)
	seen := make(map[string]struct{})

	add := func(symbol string, t domain.AssetType) bool {
		if len(assets) >= s.cfg.MaxRelatedAssets {
			return false
		}
		if _, dup := seen[symbol]; dup {
			return true
		}
		seen[symbol] = struct{}{}
		assets = append(assets, domain.RelatedAsset{
			Symbol:     symbol,
			AssetType:  t,
			Confidence: t.Confidence(),
		})
		return true
	}

	for _, ticker := range s.cfg.StockTickers {
		if strings.Contains(upper, ticker) {
			if !add(ticker, domain.AssetTypeStock) {
				return assets
			}
		}
	}

	// Orden determinista de símbolos crypto
	symbols := make([]string, 0, len(s.cfg.CryptoAssets))
	for sym := range s.cfg.CryptoAssets {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		for _, variant := range s.cfg.CryptoAssets[sym] {
			if strings.Contains(upper, variant) {
				if !add(sym, domain.AssetTypeCrypto) {
					return assets
				}
				break
			}
		}
	}

	for _, code := range s.cfg.ForexCurrencies {
		if strings.Contains(upper, code) {
			if !add(code, domain.AssetTypeForex) {
				return assets
			}
		}
	}

	return assets
}

// urgency calcula max(0, 24 - horas desde publicación)/24, más el boost
// de breaking news sobre el titular, con clamp a [0,1].
func (s *ScoreService) urgency(a *domain.Article, now time.Time) float64 {
	hours := now.Sub(a.PublishedAt).Hours()
	if hours < 0 {
		hours = 0
	}

	urgency := (24 - hours) / 24
	if urgency < 0 {
		urgency = 0
	}

	title := strings.ToLower(a.Title)
	for _, kw := range s.cfg.BreakingKeywords {
		if strings.Contains(title, kw) {
			urgency += s.cfg.BreakingBoost
			break
		}
	}

	if urgency > 1 {
		urgency = 1
	}
	return urgency
}

// implications selecciona avisos según qué sets temáticos aparecen.
// Sin matches retorna el aviso genérico, nunca una lista vacía.
func (s *ScoreService) implications(content string) []string {
	out := make([]string, 0, 2)
	for _, rule := range s.cfg.ImplicationRules {
		if countMatches(content, rule.Keywords) > 0 {
			out = append(out, rule.Advice)
		}
	}
	if len(out) == 0 {
		out = append(out, s.cfg.GenericImplication)
	}
	return out
}

// Rank ordena descendente por peso de impacto + urgencia. Orden estable:
// los empates conservan el orden de primera aparición del merge.
func (s *ScoreService) Rank(articles []*domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].RankKey() > articles[j].RankKey()
	})
}

// Summarize deriva el resumen agregado del set puntuado: sentimiento por
// voto mayoritario (empate = neutral) y nivel de impacto por conteo de
// artículos high (>3 -> high, >1 -> medium, resto low).
func (s *ScoreService) Summarize(articles []*domain.Article) domain.MarketSummary {
	var positive, negative, high int
	assetCount := make(map[string]int)

	for _, a := range articles {
		if a.Scores == nil {
			continue
		}
		switch a.Scores.Sentiment {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		}
		if a.Scores.MarketImpact == domain.ImpactHigh {
			high++
		}
		for _, asset := range a.Scores.RelatedAssets {
			assetCount[asset.Symbol]++
		}
	}

	summary := domain.MarketSummary{
		OverallSentiment: domain.SentimentNeutral,
		ImpactLevel:      domain.ImpactLow,
		HighImpactCount:  high,
	}

	if positive > negative {
		summary.OverallSentiment = domain.SentimentPositive
	} else if negative > positive {
		summary.OverallSentiment = domain.SentimentNegative
	}

	if high > 3 {
		summary.ImpactLevel = domain.ImpactHigh
	} else if high > 1 {
		summary.ImpactLevel = domain.ImpactMedium
	}

	summary.TopAssets = topAssets(assetCount, 3)
	return summary
}

// topAssets retorna los n símbolos más mencionados, orden determinista.
func topAssets(counts map[string]int, n int) []string {
	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if counts[symbols[i]] == counts[symbols[j]] {
			return symbols[i] < symbols[j]
		}
		return counts[symbols[i]] > counts[symbols[j]]
	})
	if len(symbols) > n {
		symbols = symbols[:n]
	}
	return symbols
}

// countMatches cuenta cuántas keywords DISTINTAS aparecen en el texto.
func countMatches(content string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			n++
		}
	}
	return n
}

// countOccurrences suma TODAS las ocurrencias de cada palabra.
func countOccurrences(content string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(content, w)
	}
	return n
}
