// internal/core/usecases/dedupe_service_test.go
package usecases

import (
	"testing"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/testutil"
)

func collectedFrom(source string, ok bool, articles ...*domain.Article) CollectedSource {
	return CollectedSource{
		Outcome:  domain.SourceOutcome{Source: source, OK: ok, Items: len(articles)},
		Articles: articles,
	}
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	shared := "https://example.com/shared-story"

	primary := domain.NewArticle(shared, "primary version", "newsapi", time.Now())
	secondary := domain.NewArticle(shared, "secondary version", "marketaux", time.Now())
	unique := domain.NewArticle("https://example.com/unique", "unique story", "marketaux", time.Now())

	d := NewDedupeService()
	merged := d.Merge([]CollectedSource{
		collectedFrom("newsapi", true, primary),
		collectedFrom("marketaux", true, secondary, unique),
	})

	testutil.AssertEqual(t, len(merged), 2, "duplicate collapsed")
	testutil.AssertEqual(t, merged[0].Title, "primary version", "first occurrence kept")
	testutil.AssertEqual(t, merged[0].Source, "newsapi", "higher priority source wins")
	testutil.AssertEqual(t, merged[1].URL, "https://example.com/unique", "first-seen order preserved")
}

func TestDedupe_NormalizedIdentityCollapses(t *testing.T) {
	a := domain.NewArticle("https://example.com/story", "from api", "newsapi", time.Now())
	// Misma noticia con fragment y trailing slash
	b := &domain.Article{URL: "https://example.com/story/#comments", Title: "from rss", Source: "rssfeed", PublishedAt: time.Now()}

	d := NewDedupeService()
	merged := d.Merge([]CollectedSource{
		collectedFrom("newsapi", true, a),
		collectedFrom("rssfeed", true, b),
	})

	testutil.AssertEqual(t, len(merged), 1, "fragment and slash variants collapse")
	testutil.AssertEqual(t, merged[0].Source, "newsapi", "first occurrence kept")
}

func TestDedupe_SkipsFailedSources(t *testing.T) {
	// Una fuente fallida no aporta artículos aunque el slice venga poblado
	ghost := domain.NewArticle("https://example.com/ghost", "ghost", "broken", time.Now())

	d := NewDedupeService()
	merged := d.Merge([]CollectedSource{
		collectedFrom("broken", false, ghost),
		collectedFrom("healthy", true, newArticles("healthy", 2)...),
	})

	testutil.AssertEqual(t, len(merged), 2, "only succeeded sources contribute")
	for _, a := range merged {
		testutil.AssertNotEqual(t, a.Source, "broken", "no articles from failed source")
	}
}

func TestDedupe_AllFailedYieldsEmpty(t *testing.T) {
	d := NewDedupeService()
	merged := d.Merge([]CollectedSource{
		collectedFrom("a", false),
		collectedFrom("b", false),
	})

	testutil.AssertEqual(t, len(merged), 0, "all sources exhausted")
	testutil.AssertNotNil(t, merged, "empty, not nil")
}

func TestDedupe_Cap(t *testing.T) {
	d := NewDedupeService()
	articles := newArticles("src", 10)

	testutil.AssertEqual(t, len(d.Cap(articles, 4)), 4, "cap trims")
	testutil.AssertEqual(t, len(d.Cap(articles, 20)), 10, "cap larger than list is a no-op")
	testutil.AssertEqual(t, len(d.Cap(articles, 0)), 10, "zero cap disables trimming")
}
