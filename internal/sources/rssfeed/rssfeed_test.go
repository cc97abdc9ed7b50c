// internal/sources/rssfeed/rssfeed_test.go
package rssfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
	"finsight/internal/testutil"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Market Wire</title>
    <item>
      <title>Stocks climb on earnings beat</title>
      <link>https://example.com/stocks-climb</link>
      <description>Broad rally across sectors.</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Oil slides after inventory build</title>
      <link>https://example.com/oil-slides</link>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
  </channel>
</rss>`

func TestFeedsFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ports.SourceConfig
		want int
	}{
		{"no custom block", ports.SourceConfig{}, 0},
		{"string slice", ports.SourceConfig{Custom: map[string]interface{}{
			"feeds": []string{"https://a.example/rss", "https://b.example/rss"},
		}}, 2},
		{"interface slice from yaml", ports.SourceConfig{Custom: map[string]interface{}{
			"feeds": []interface{}{"https://a.example/rss", 42, "https://b.example/rss"},
		}}, 2},
		{"wrong type ignored", ports.SourceConfig{Custom: map[string]interface{}{
			"feeds": "https://a.example/rss",
		}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, len(feedsFromConfig(tt.cfg)), tt.want, "feed count")
		})
	}
}

func TestNew_DefaultFeeds(t *testing.T) {
	source := New(ports.SourceConfig{}, logx.NewSilent())
	testutil.AssertEqual(t, source.Name(), "rssfeed", "name")
	testutil.AssertNoError(t, source.Close(), "close is a no-op")
}

func TestFetch_ParsesConfiguredFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	source := New(ports.SourceConfig{
		Custom: map[string]interface{}{"feeds": []string{server.URL}},
	}, logx.NewSilent())

	articles, err := source.Fetch(context.Background(), domain.NewsQuery{PageSize: 10})
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, len(articles), 2, "untitled item dropped")
	testutil.AssertEqual(t, articles[0].Title, "Stocks climb on earnings beat", "first item title")
	testutil.AssertEqual(t, articles[0].URL, "https://example.com/stocks-climb", "first item url")
	testutil.AssertEqual(t, articles[0].Source, "rssfeed", "source name stamped")
	testutil.AssertFalse(t, articles[1].PublishedAt.IsZero(), "missing pubDate defaults to now")
}

func TestFetch_PageSizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	source := New(ports.SourceConfig{
		Custom: map[string]interface{}{"feeds": []string{server.URL}},
	}, logx.NewSilent())

	articles, err := source.Fetch(context.Background(), domain.NewsQuery{PageSize: 1})
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, len(articles), 1, "capped to page size")
}

func TestFetch_AllFeedsBroken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := New(ports.SourceConfig{
		Custom: map[string]interface{}{"feeds": []string{server.URL}},
	}, logx.NewSilent())

	_, err := source.Fetch(context.Background(), domain.NewsQuery{PageSize: 5})
	testutil.AssertError(t, err, "all feeds down degrades the adapter")
	testutil.AssertContains(t, err.Error(), "all feeds failed", "reason surfaced")
}

func TestFetch_OneBrokenFeedStillServes(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	source := New(ports.SourceConfig{
		Custom: map[string]interface{}{"feeds": []string{bad.URL, good.URL}},
	}, logx.NewSilent())

	articles, err := source.Fetch(context.Background(), domain.NewsQuery{PageSize: 10})
	testutil.AssertNoError(t, err, "partial failure is not fatal")
	testutil.AssertEqual(t, len(articles), 2, "items from the healthy feed")
}

func TestFetch_HungFeedRespectsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	source := New(ports.SourceConfig{
		Timeout: 100 * time.Millisecond,
		Custom:  map[string]interface{}{"feeds": []string{server.URL}},
	}, logx.NewSilent())

	start := time.Now()
	_, err := source.Fetch(context.Background(), domain.NewsQuery{PageSize: 5})
	elapsed := time.Since(start)

	testutil.AssertError(t, err, "hung feed fails instead of blocking")
	testutil.AssertTrue(t, elapsed < time.Second, "fetch returns within the configured bound")
}

func TestSelfRegistration(t *testing.T) {
	testutil.AssertTrue(t, registry.Global().IsRegistered("rssfeed"), "init registers the source")

	meta, ok := registry.Global().GetMetadata("rssfeed")
	testutil.AssertTrue(t, ok, "metadata present")
	testutil.AssertFalse(t, meta.RequiresAuth, "feeds need no credential")
}
