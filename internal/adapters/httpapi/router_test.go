// internal/adapters/httpapi/router_test.go
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/core/usecases"
	"finsight/internal/platform/cache"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/metrics"
	"finsight/internal/sources/exchangerate"
	"finsight/internal/sources/finnhub"
	"finsight/internal/testutil"
)

// stubSource fuente determinista para ejercitar el endpoint de noticias.
type stubSource struct {
	name     string
	articles []*domain.Article
	err      error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error) {
	return s.articles, s.err
}
func (s *stubSource) Close() error { return nil }

// stubNetwork red que siempre rellena.
type stubNetwork struct {
	name string
	err  error
}

func (n *stubNetwork) Name() string      { return n.name }
func (n *stubNetwork) LoadTimeMs() int   { return 300 }
func (n *stubNetwork) FillRate() float64 { return 1.0 }
func (n *stubNetwork) Request(ctx context.Context, req domain.AdRequest) (*domain.AdCreative, error) {
	if n.err != nil {
		return nil, n.err
	}
	return &domain.AdCreative{
		Network:          n.name,
		HTML:             "<div>ad</div>",
		EstimatedRevenue: 1.5,
		LoadTimeMs:       300,
	}, nil
}
func (n *stubNetwork) Close() error { return nil }

func stubArticles(source string, n int) []*domain.Article {
	out := make([]*domain.Article, n)
	for i := 0; i < n; i++ {
		out[i] = &domain.Article{
			URL:         fmt.Sprintf("https://example.com/%s/%d", source, i),
			Title:       fmt.Sprintf("Fed signals rate cut %d", i),
			Source:      source,
			PublishedAt: time.Now().UTC(),
		}
	}
	return out
}

type routerFixture struct {
	sources  []ports.NewsSource
	networks []ports.AdNetwork
	cache    cache.Cache
	ttl      time.Duration
}

func newTestRouter(f routerFixture) http.Handler {
	logger := logx.NewSilent()

	pipeline := usecases.NewNewsPipeline(usecases.NewsPipelineOptions{
		Sources: f.sources,
		Logger:  logger,
	})
	selector := usecases.NewAdSelector(usecases.AdSelectorOptions{
		Networks: f.networks,
		Store:    metrics.NewRevenueStore(),
		Logger:   logger,
	})

	// Clientes sin credencial: los pass-through degradan a missing_config
	// sin tocar red.
	market := finnhub.New(ports.SourceConfig{Timeout: time.Second}, logger)
	forex := exchangerate.New(ports.SourceConfig{Timeout: time.Second}, logger)

	r := NewRouter(RouterOptions{
		Pipeline: pipeline,
		Selector: selector,
		Market:   market,
		Forex:    forex,
		Cache:    f.cache,
		CacheTTL: f.ttl,
		Version:  "test",
		Logger:   logger,
	})
	return r.Handler()
}

func doGet(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, body := doGet(t, h, "/health")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "health status")
	testutil.AssertEqual(t, body["status"], "ok", "health body")
	testutil.AssertEqual(t, body["version"], "test", "version surfaced")
}

func TestNews_Success(t *testing.T) {
	h := newTestRouter(routerFixture{
		sources: []ports.NewsSource{
			&stubSource{name: "alpha", articles: stubArticles("alpha", 3)},
		},
	})

	rec, body := doGet(t, h, "/api/news?category=business&pageSize=10")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "news status")
	testutil.AssertEqual(t, body["totalResults"], float64(3), "article count")

	_, hasFallback := body["fallback"]
	testutil.AssertFalse(t, hasFallback, "no fallback marker on success")

	used, ok := body["sourcesUsed"].([]interface{})
	testutil.AssertTrue(t, ok, "sourcesUsed is a list")
	testutil.AssertEqual(t, len(used), 1, "one source used")
	testutil.AssertEqual(t, used[0], true, "success flag per source")

	outcomes, ok := body["sourceOutcomes"].([]interface{})
	testutil.AssertTrue(t, ok, "sourceOutcomes is a list")
	outcome, ok := outcomes[0].(map[string]interface{})
	testutil.AssertTrue(t, ok, "outcome is an object")
	testutil.AssertEqual(t, outcome["source"], "alpha", "source name in outcome")
	testutil.AssertEqual(t, outcome["ok"], true, "outcome marked ok")

	articles, ok := body["articles"].([]interface{})
	testutil.AssertTrue(t, ok, "articles is a list")
	first, ok := articles[0].(map[string]interface{})
	testutil.AssertTrue(t, ok, "article is an object")
	testutil.AssertNotNil(t, first["analysis"], "articles come back scored")
}

func TestNews_AllSourcesFailedStill200(t *testing.T) {
	h := newTestRouter(routerFixture{
		sources: []ports.NewsSource{
			&stubSource{name: "broken", err: errors.ErrMissingConfig},
		},
	})

	rec, body := doGet(t, h, "/api/news")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "degraded but still 200")
	testutil.AssertEqual(t, body["fallback"], true, "fallback marker present")

	articles, ok := body["articles"].([]interface{})
	testutil.AssertTrue(t, ok, "articles is a list")
	testutil.AssertTrue(t, len(articles) > 0, "static payload served")

	outcomes, ok := body["sourceOutcomes"].([]interface{})
	testutil.AssertTrue(t, ok, "outcomes present")
	first, ok := outcomes[0].(map[string]interface{})
	testutil.AssertTrue(t, ok, "outcome is an object")
	testutil.AssertContains(t, fmt.Sprint(first["error"]), "missing_config", "failure reason surfaced")
}

func TestAd_Success(t *testing.T) {
	h := newTestRouter(routerFixture{
		networks: []ports.AdNetwork{&stubNetwork{name: "stubnet"}},
	})

	rec, body := doGet(t, h, "/api/ad?type=banner&placement=sidebar")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "ad status")
	testutil.AssertEqual(t, body["success"], true, "selection succeeded")
	testutil.AssertEqual(t, body["network"], "stubnet", "winning network")
	testutil.AssertContains(t, fmt.Sprint(body["html"]), "<div>ad</div>", "markup returned")
}

func TestAd_AllNetworksFailedStill200(t *testing.T) {
	h := newTestRouter(routerFixture{
		networks: []ports.AdNetwork{&stubNetwork{name: "down", err: errors.ErrServiceUnavailable}},
	})

	rec, body := doGet(t, h, "/api/ad")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "house ad still 200")
	testutil.AssertEqual(t, body["fallback"], true, "fallback marker")
}

func TestQuote_MissingSymbol(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, _ := doGet(t, h, "/api/quote")
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "symbol required")
}

func TestQuote_MissingCredential(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, body := doGet(t, h, "/api/quote?symbol=aapl")
	testutil.AssertEqual(t, rec.Code, http.StatusServiceUnavailable, "missing key is 503")
	testutil.AssertContains(t, fmt.Sprint(body["error"]), "missing_config", "reason surfaced")
}

func TestForex_InvalidPair(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, _ := doGet(t, h, "/api/forex?from=EURO&to=USD")
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "bad currency code rejected")
}

func TestRecommendations_MissingSymbol(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, _ := doGet(t, h, "/api/recommendations")
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "symbol required")
}

func TestRecommendations_MissingCredential(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, _ := doGet(t, h, "/api/recommendations?symbol=MSFT")
	testutil.AssertEqual(t, rec.Code, http.StatusServiceUnavailable, "missing key is 503")
}

func TestHeadlines_MissingCredential(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, _ := doGet(t, h, "/api/headlines")
	testutil.AssertEqual(t, rec.Code, http.StatusServiceUnavailable, "missing key is 503")
}

func TestSignals_Shape(t *testing.T) {
	h := newTestRouter(routerFixture{})

	rec, body := doGet(t, h, "/api/signals?symbol=tsla")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "signals status")
	testutil.AssertEqual(t, body["symbol"], "TSLA", "symbol uppercased")

	signal, ok := body["signal"].(string)
	testutil.AssertTrue(t, ok, "signal is a string")
	testutil.AssertTrue(t, signal == "buy" || signal == "sell" || signal == "hold", "signal in range")

	confidence, ok := body["confidence"].(float64)
	testutil.AssertTrue(t, ok, "confidence is a number")
	testutil.AssertTrue(t, confidence >= 0.5 && confidence <= 1.0, "confidence in range")

	indicators, ok := body["indicators"].(map[string]interface{})
	testutil.AssertTrue(t, ok, "indicators is an object")
	rsi, ok := indicators["rsi"].(float64)
	testutil.AssertTrue(t, ok, "rsi is a number")
	testutil.AssertTrue(t, rsi >= 20 && rsi <= 80, "rsi in range")
}

func TestQuote_MissingSymbolWithCache(t *testing.T) {
	// La cache no cambia la validación de entrada.
	h := newTestRouter(routerFixture{cache: cache.NewMemoryCache(8), ttl: time.Minute})

	rec, _ := doGet(t, h, "/api/quote?symbol=")
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "blank symbol rejected")
}

func TestUnknownRouteIs404(t *testing.T) {
	h := newTestRouter(routerFixture{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	testutil.AssertEqual(t, rec.Code, http.StatusNotFound, "unknown route")
}
