// internal/sources/rssfeed/rssfeed.go
package rssfeed

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
)

const sourceName = "rssfeed"

// Feeds financieros por defecto; se pueden sustituir vía configuración.
var defaultFeeds = []string{
	"https://www.cnbc.com/id/10000664/device/rss/rss.html",
	"https://feeds.content.dowjones.io/public/rss/mw_topstories",
}

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.NewsSource, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:        sourceName,
			Description: "RSS/Atom financial feeds via gofeed",
			Priority:    5,
		},
	); err != nil {
		logx.New().Warn("failed to register rssfeed source", "error", err.Error())
	}
}

// Source agrega feeds RSS/Atom financieros. No requiere credencial;
// las URLs de feed vienen de la configuración o de los defaults.
type Source struct {
	parser  *gofeed.Parser
	feeds   []string
	timeout time.Duration
	logger  logx.Logger
}

// New crea una nueva instancia de la fuente rssfeed.
func New(cfg ports.SourceConfig, logger logx.Logger) ports.NewsSource {
	feeds := feedsFromConfig(cfg)
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &Source{
		parser:  parser,
		feeds:   feeds,
		timeout: timeout,
		logger:  logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (s *Source) Name() string {
	return sourceName
}

// Fetch parsea todos los feeds configurados. Un feed roto solo degrada
// este adapter si TODOS fallan; los demás siguen aportando items.
func (s *Source) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	articles := make([]*domain.Article, 0, query.PageSize)
	var lastErr error

	for _, feedURL := range s.feeds {
		feedCtx, cancel := context.WithTimeout(ctx, s.timeout)
		feed, err := s.parser.ParseURLWithContext(feedURL, feedCtx)
		cancel()
		if err != nil {
			s.logger.Warn("feed parse failed", "feed", feedURL, "error", err.Error())
			lastErr = err
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" || item.Title == "" {
				continue
			}

			publishedAt := time.Now().UTC()
			if item.PublishedParsed != nil {
				publishedAt = item.PublishedParsed.UTC()
			}

			a := domain.NewArticle(item.Link, item.Title, sourceName, publishedAt)
			a.Description = item.Description
			if item.Image != nil {
				a.ImageURL = item.Image.URL
			}
			articles = append(articles, a)

			if len(articles) >= query.PageSize {
				return articles, nil
			}
		}
	}

	if len(articles) == 0 {
		if lastErr != nil {
			return nil, errors.Wrap(lastErr, "all feeds failed")
		}
		return articles, nil
	}
	return articles, nil
}

// Close implementa ports.NewsSource.
func (s *Source) Close() error {
	return nil
}

// feedsFromConfig extrae las URLs de feed del bloque Custom.
func feedsFromConfig(cfg ports.SourceConfig) []string {
	raw, ok := cfg.Custom["feeds"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		feeds := make([]string, 0, len(v))
		for _, f := range v {
			if s, ok := f.(string); ok {
				feeds = append(feeds, s)
			}
		}
		return feeds
	default:
		return nil
	}
}
