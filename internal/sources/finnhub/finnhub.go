// internal/sources/finnhub/finnhub.go
package finnhub

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/httpclient"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
)

const (
	sourceName = "finnhub"
	baseURL    = "https://finnhub.io/api/v1"
)

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.NewsSource, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:         sourceName,
			Description:  "Finnhub market news, quotes and analyst data",
			RequiresAuth: true,
			Priority:     6,
		},
	); err != nil {
		logx.New().Warn("failed to register finnhub source", "error", err.Error())
	}
}

// Client habla con Finnhub. Además de ser fuente del fan-out de
// noticias, expone los métodos de quote y recomendaciones de analistas
// usados por los endpoints pass-through.
type Client struct {
	client *httpclient.Client
	apiKey string
	logger logx.Logger
}

// New crea un nuevo cliente de Finnhub.
func New(cfg ports.SourceConfig, logger logx.Logger) *Client {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &Client{
		client: httpclient.New(httpCfg, logger),
		apiKey: cfg.APIKey,
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (c *Client) Name() string {
	return sourceName
}

// Fetch trae las noticias generales de mercado de Finnhub.
func (c *Client) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	if c.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	params := url.Values{}
	params.Set("category", mapCategory(query.Category))
	params.Set("token", c.apiKey)

	body, err := c.client.FetchJSON(ctx, baseURL+"/news?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "finnhub news request failed")
	}

	var items []newsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	articles := make([]*domain.Article, 0, len(items))
	for _, item := range items {
		if item.URL == "" || item.Headline == "" {
			continue
		}
		a := domain.NewArticle(item.URL, item.Headline, sourceName, time.Unix(item.Datetime, 0).UTC())
		a.Description = item.Summary
		a.ImageURL = item.Image
		articles = append(articles, a)

		if len(articles) >= query.PageSize {
			break
		}
	}

	c.logger.Debug("finnhub fetch completed", "articles", len(articles))
	return articles, nil
}

// Close implementa ports.NewsSource.
func (c *Client) Close() error {
	return nil
}

// Quote es la cotización simplificada de un símbolo.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prevClose"`
}

// GetQuote trae la cotización actual de un símbolo (pass-through, sin
// fallback: el handler devuelve 5xx si esto falla).
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if c.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	body, err := c.client.FetchJSON(ctx, baseURL+"/quote?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "finnhub quote request failed")
	}

	var raw struct {
		C  float64 `json:"c"`
		D  float64 `json:"d"`
		DP float64 `json:"dp"`
		H  float64 `json:"h"`
		L  float64 `json:"l"`
		O  float64 `json:"o"`
		PC float64 `json:"pc"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	if raw.C == 0 && raw.PC == 0 {
		// Finnhub devuelve ceros para símbolos desconocidos
		return nil, errors.ErrNotFound
	}

	return &Quote{
		Symbol:        symbol,
		Current:       raw.C,
		Change:        raw.D,
		PercentChange: raw.DP,
		High:          raw.H,
		Low:           raw.L,
		Open:          raw.O,
		PrevClose:     raw.PC,
	}, nil
}

// Recommendation es un período de consenso de analistas.
type Recommendation struct {
	Symbol     string `json:"symbol"`
	Period     string `json:"period"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
}

// GetRecommendations trae los consensos de analistas de un símbolo.
func (c *Client) GetRecommendations(ctx context.Context, symbol string) ([]Recommendation, error) {
	if c.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	body, err := c.client.FetchJSON(ctx, baseURL+"/stock/recommendation?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "finnhub recommendation request failed")
	}

	var recs []Recommendation
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	return recs, nil
}

// mapCategory traduce la categoría interna al vocabulario de Finnhub.
func mapCategory(category string) string {
	switch category {
	case "crypto":
		return "crypto"
	case "forex":
		return "forex"
	default:
		return "general"
	}
}

// newsItem es el shape upstream de una noticia de Finnhub.
type newsItem struct {
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
