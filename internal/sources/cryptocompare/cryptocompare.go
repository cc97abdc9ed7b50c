// internal/sources/cryptocompare/cryptocompare.go
package cryptocompare

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
	sourceName = "cryptocompare"
	baseURL    = "https://min-api.cryptocompare.com/data/v2/news/"
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
			Description:  "CryptoCompare crypto market news",
			RequiresAuth: true,
			Priority:     4,
			Categories:   []string{"crypto", "business"},
		},
	); err != nil {
		logx.New().Warn("failed to register cryptocompare source", "error", err.Error())
	}
}

// Source consulta el feed de noticias de CryptoCompare.
type Source struct {
	client *httpclient.Client
	apiKey string
	logger logx.Logger
}

// New crea una nueva instancia de la fuente cryptocompare.
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

// Fetch trae las últimas noticias crypto.
func (s *Source) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	if s.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	params := url.Values{}
	params.Set("lang", "EN")
	params.Set("api_key", s.apiKey)

	body, err := s.client.FetchJSON(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "cryptocompare request failed")
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
		a := domain.NewArticle(item.URL, item.Title, sourceName, time.Unix(item.PublishedOn, 0).UTC())
		a.Description = item.Body
		a.ImageURL = item.ImageURL
		articles = append(articles, a)

		if len(articles) >= query.PageSize {
			break
		}
	}

	s.logger.Debug("cryptocompare fetch completed", "articles", len(articles))
	return articles, nil
}

// Close implementa ports.NewsSource.
func (s *Source) Close() error {
	return nil
}

// response es el shape upstream de CryptoCompare.
type response struct {
	Data []struct {
		Title       string `json:"title"`
		Body        string `json:"body"`
		URL         string `json:"url"`
		ImageURL    string `json:"imageurl"`
		PublishedOn int64  `json:"published_on"`
	} `json:"Data"`
}
