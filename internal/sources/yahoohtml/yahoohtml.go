// internal/sources/yahoohtml/yahoohtml.go
package yahoohtml

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/httpclient"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
)

const (
	sourceName = "yahoohtml"
	newsURL    = "https://finance.yahoo.com/topic/latest-news/"
	siteRoot   = "https://finance.yahoo.com"
)

// Auto-registro de la fuente al importar el package
func init() {
	if err := registry.Global().Register(
		sourceName,
		func(cfg ports.SourceConfig, logger logx.Logger) (ports.NewsSource, error) {
			return New(cfg, logger), nil
		},
		ports.SourceMetadata{
			Name:        sourceName,
			Description: "Yahoo Finance latest-news HTML scraper",
			Priority:    2, // Última en precedencia: solo aporta lo que nadie más trajo
		},
	); err != nil {
		logx.New().Warn("failed to register yahoohtml source", "error", err.Error())
	}
}

// Source extrae titulares del markup de Yahoo Finance con goquery.
// Es la fuente de menor prioridad del fan-out y no requiere credencial.
type Source struct {
	client *httpclient.Client
	logger logx.Logger
}

// New crea una nueva instancia de la fuente yahoohtml.
func New(cfg ports.SourceConfig, logger logx.Logger) ports.NewsSource {
	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	// Scraping compartido: una petición por pasada como mucho
	httpCfg.RateLimit = 1.0

	return &Source{
		client: httpclient.New(httpCfg, logger),
		logger: logger.With("source", sourceName),
	}
}

// Name retorna el nombre de la fuente.
func (s *Source) Name() string {
	return sourceName
}

// Fetch descarga la página de últimas noticias y extrae los titulares.
func (s *Source) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	resp, err := s.client.FetchHTML(ctx, newsURL)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo finance request failed")
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidResponse, err.Error())
	}

	// El listado no publica timestamps por titular; al ser la página
	// de "latest" se aproxima con el instante de la pasada
	now := time.Now().UTC()

	articles := make([]*domain.Article, 0, query.PageSize)
	doc.Find("h3 a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())
		if !ok || title == "" {
			return true
		}

		link := absoluteURL(href)
		if link == "" {
			return true
		}

		articles = append(articles, domain.NewArticle(link, title, sourceName, now))
		return len(articles) < query.PageSize
	})

	if len(articles) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "no headlines found in markup")
	}

	s.logger.Debug("yahoo scrape completed", "articles", len(articles))
	return articles, nil
}

// Close implementa ports.NewsSource.
func (s *Source) Close() error {
	return nil
}

// absoluteURL resuelve hrefs relativos contra la raíz del sitio.
func absoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return siteRoot + href
	default:
		return ""
	}
}
