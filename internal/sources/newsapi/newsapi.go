// internal/sources/newsapi/newsapi.go
package newsapi

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
	sourceName = "newsapi"
	baseURL    = "https://newsapi.org/v2/top-headlines"
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
			Description:  "NewsAPI.org top business headlines",
			RequiresAuth: true,
			Priority:     10, // Fuente primaria del fan-out
			Categories:   []string{"business", "technology", "general"},
		},
	); err != nil {
		logx.New().Warn("failed to register newsapi source", "error", err.Error())
	}
}

// Source consulta NewsAPI.org. Es la fuente primaria: pide la mitad del
// pageSize como hint por-adapter, dejando hueco en el merge para el
// resto de fuentes (no es un cap post-merge).
type Source struct {
	client *httpclient.Client
	apiKey string
	logger logx.Logger
}

// New crea una nueva instancia de la fuente newsapi.
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

// Fetch ejecuta la consulta contra NewsAPI.
func (s *Source) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	if s.apiKey == "" {
		return nil, errors.ErrMissingConfig
	}

	// Hint por-adapter: la fuente primaria pide pageSize/2
	limit := query.PageSize / 2
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("category", mapCategory(query.Category))
	params.Set("pageSize", fmt.Sprint(limit))
	params.Set("language", "en")
	params.Set("apiKey", s.apiKey)

	body, err := s.client.FetchJSON(ctx, baseURL+"?"+params.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "newsapi request failed")
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}
	if resp.Status != "ok" {
		return nil, errors.Errorf("newsapi status %q: %s", resp.Status, resp.Message)
	}

	articles := make([]*domain.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		if item.URL == "" || item.Title == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.PublishedAt)

		a := domain.NewArticle(item.URL, item.Title, sourceName, publishedAt)
		a.Description = item.Description
		a.ImageURL = item.URLToImage
		articles = append(articles, a)
	}

	s.logger.Debug("newsapi fetch completed", "articles", len(articles))
	return articles, nil
}

// Close implementa ports.NewsSource.
func (s *Source) Close() error {
	return nil
}

// mapCategory traduce categorías internas a las que NewsAPI entiende.
func mapCategory(category string) string {
	switch category {
	case "crypto", "forex", "stocks":
		return "business"
	default:
		return category
	}
}

// response es el shape upstream de NewsAPI.
type response struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}
