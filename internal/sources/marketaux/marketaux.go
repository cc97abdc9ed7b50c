// internal/sources/marketaux/marketaux.go
package marketaux

import (
	"context"
	"encoding/json"
	"fmt"
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
	sourceName = "marketaux"
	baseURL    = "https://api.marketaux.com/v1/news/all"
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
			Description:  "Marketaux market & finance news API",
			RequiresAuth: true,
			Priority:     8,
		},
	); err != nil {
		logx.New().Warn("failed to register marketaux source", "error", err.Error())
	}
}

// Source consulta la API de noticias de mercado de Marketaux.
type Source struct {
	client *httpclient.Client
	apiKey string
	logger logx.Logger
}

// New crea una nueva instancia de la fuente marketaux.
func New(cfg ports.SourceConfig, logger logx.Logger) ports.NewsSource {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}

	return &Source{
		client: httpclient.New(httpCfg, logger),
		apiKey: cfg.APIKey,
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (s *Source) Name() string {
	return sourceName
}

// Fetch ejecuta la consulta contra Marketaux.
func (s *Source) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	if s.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	params := url.Values{}
	params.Set("api_token", s.apiKey)
	params.Set("language", "en")
	params.Set("limit", fmt.Sprint(query.PageSize))
	if topics := mapTopics(query.Category); topics != "" {
		params.Set("topics", topics)
	}

	body, err := s.client.FetchJSON(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "marketaux request failed")
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	articles := make([]*domain.Article, 0, len(resp.Data))
	for _, item := range resp.Data {
		if item.URL == "" || item.Title == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.PublishedAt)

		a := domain.NewArticle(item.URL, item.Title, sourceName, publishedAt)
		a.Description = item.Description
		a.ImageURL = item.ImageURL
		articles = append(articles, a)
	}

	s.logger.Debug("marketaux fetch completed", "articles", len(articles))
	return articles, nil
}

// Close implementa ports.NewsSource.
func (s *Source) Close() error {
	return nil
}

// mapTopics traduce la categoría interna al vocabulario de Marketaux.
func mapTopics(category string) string {
	switch category {
	case "crypto":
		return "crypto"
	case "forex":
		return "forex"
	case "business", "stocks":
		return "markets"
	default:
		return ""
	}
}

// response es el shape upstream de Marketaux.
type response struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		ImageURL    string `json:"image_url"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}
