// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"finsight/internal/core/domain"
)

// mockSource implementa ports.NewsSource con comportamiento programable.
type mockSource struct {
	name     string
	articles []*domain.Article
	err      error
	delay    time.Duration

	fetchFunc func(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error)

	calls  atomic.Int64
	closed atomic.Bool
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, query)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.articles, nil
}

func (m *mockSource) Close() error {
	m.closed.Store(true)
	return nil
}

// mockNetwork implementa ports.AdNetwork con comportamiento programable.
type mockNetwork struct {
	name     string
	loadTime int
	fill     float64
	creative *domain.AdCreative
	err      error

	requestFunc func(ctx context.Context, req domain.AdRequest) (*domain.AdCreative, error)

	calls atomic.Int64
}

func (m *mockNetwork) Name() string      { return m.name }
func (m *mockNetwork) LoadTimeMs() int   { return m.loadTime }
func (m *mockNetwork) FillRate() float64 { return m.fill }

func (m *mockNetwork) Request(ctx context.Context, req domain.AdRequest) (*domain.AdCreative, error) {
	m.calls.Add(1)
	if m.requestFunc != nil {
		return m.requestFunc(ctx, req)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.creative, nil
}

func (m *mockNetwork) Close() error { return nil }

// newArticles crea n artículos distintos de la misma fuente.
func newArticles(source string, n int) []*domain.Article {
	articles := make([]*domain.Article, 0, n)
	for i := 0; i < n; i++ {
		a := domain.NewArticle(
			fmt.Sprintf("https://example.com/%s/%d", source, i),
			fmt.Sprintf("%s headline %d", source, i),
			source,
			time.Now().UTC().Add(-time.Duration(i)*time.Hour),
		)
		articles = append(articles, a)
	}
	return articles
}

// validCreative crea una creatividad de prueba válida.
func validCreative(network string, revenue float64) *domain.AdCreative {
	return &domain.AdCreative{
		Network:          network,
		HTML:             fmt.Sprintf(`<div data-network=%q>ad</div>`, network),
		EstimatedRevenue: revenue,
		LoadTimeMs:       500,
	}
}
