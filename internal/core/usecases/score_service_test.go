// internal/core/usecases/score_service_test.go
package usecases

import (
	"reflect"
	"testing"
	"time"

	"finsight/internal/core/domain"
	"finsight/internal/testutil"
)

func scoredArticle(t *testing.T, title, description string, age time.Duration) *domain.Article {
	t.Helper()
	now := time.Now().UTC()
	a := domain.NewArticle("https://example.com/t", title, "test", now.Add(-age))
	a.Description = description
	NewScoreService(DefaultScoreConfig()).Score(a, now)
	return a
}

func TestScore_MarketImpact(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		desc    string
		want    domain.ImpactLevel
	}{
		{
			name:  "two distinct high keywords is high",
			title: "Fed signals response to inflation surprise",
			want:  domain.ImpactHigh,
		},
		{
			name:  "repeated single high keyword stays medium",
			title: "Earnings, earnings, earnings: the only story this week",
			want:  domain.ImpactMedium,
		},
		{
			name:  "one high keyword is medium",
			title: "Quarterly earnings preview for big tech",
			want:  domain.ImpactMedium,
		},
		{
			name:  "two medium keywords is medium",
			title: "Dividend raised alongside new buyback program",
			want:  domain.ImpactMedium,
		},
		{
			name:  "one medium keyword is low",
			title: "Company announces special dividend",
			want:  domain.ImpactLow,
		},
		{
			name:  "no keywords is low",
			title: "Local startup opens new office downtown",
			want:  domain.ImpactLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoredArticle(t, tt.title, tt.desc, time.Hour)
			testutil.AssertEqual(t, a.Scores.MarketImpact, tt.want, "impact level")
		})
	}
}

func TestScore_Sentiment(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  domain.Sentiment
	}{
		{
			name:  "two positive occurrences is positive",
			title: "Stocks surge as tech leads broad rally",
			want:  domain.SentimentPositive,
		},
		{
			name:  "repeated occurrences of one word count",
			title: "Surge upon surge: an unstoppable market",
			want:  domain.SentimentPositive,
		},
		{
			name:  "two negative occurrences is negative",
			title: "Shares plunge after earnings miss",
			want:  domain.SentimentNegative,
		},
		{
			name:  "single positive word is neutral",
			title: "Index posts modest gain",
			want:  domain.SentimentNeutral,
		},
		{
			name:  "balanced words cancel out",
			title: "Energy stocks gain while tech shares drop",
			want:  domain.SentimentNeutral,
		},
		{
			name:  "no sentiment words",
			title: "Central bank publishes meeting schedule",
			want:  domain.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoredArticle(t, tt.title, "", time.Hour)
			testutil.AssertEqual(t, a.Scores.Sentiment, tt.want, "sentiment")
		})
	}
}

func TestScore_RelatedAssets(t *testing.T) {
	a := scoredArticle(t, "AAPL climbs as Bitcoin and EUR stabilize", "", time.Hour)

	testutil.AssertEqual(t, len(a.Scores.RelatedAssets), 3, "three assets detected")

	byType := map[domain.AssetType]domain.RelatedAsset{}
	for _, asset := range a.Scores.RelatedAssets {
		byType[asset.AssetType] = asset
	}

	testutil.AssertEqual(t, byType[domain.AssetTypeStock].Symbol, "AAPL", "stock symbol")
	testutil.AssertEqual(t, byType[domain.AssetTypeStock].Confidence, 0.9, "stock confidence")
	testutil.AssertEqual(t, byType[domain.AssetTypeCrypto].Symbol, "BTC", "crypto name variant maps to symbol")
	testutil.AssertEqual(t, byType[domain.AssetTypeCrypto].Confidence, 0.8, "crypto confidence")
	testutil.AssertEqual(t, byType[domain.AssetTypeForex].Symbol, "EUR", "forex code")
	testutil.AssertEqual(t, byType[domain.AssetTypeForex].Confidence, 0.7, "forex confidence")
}

func TestScore_RelatedAssetsCap(t *testing.T) {
	a := scoredArticle(t, "AAPL MSFT GOOGL AMZN NVDA META TSLA all move together", "", time.Hour)
	testutil.AssertEqual(t, len(a.Scores.RelatedAssets), 5, "asset list capped at five")
}

func TestScore_RelatedAssetsNeverNil(t *testing.T) {
	a := scoredArticle(t, "Nothing financial here at all", "", time.Hour)
	testutil.AssertNotNil(t, a.Scores.RelatedAssets, "empty slice, not nil")
	testutil.AssertEqual(t, len(a.Scores.RelatedAssets), 0, "no matches")
}

func TestScore_Urgency(t *testing.T) {
	tests := []struct {
		name  string
		title string
		age   time.Duration
		want  float64
	}{
		{"published now", "calm headline", 0, 1.0},
		{"half a day old", "calm headline", 12 * time.Hour, 0.5},
		{"a day old", "calm headline", 24 * time.Hour, 0.0},
		{"two days old floors at zero", "calm headline", 48 * time.Hour, 0.0},
		{"breaking boost", "BREAKING: calm headline", 12 * time.Hour, 0.8},
		{"breaking boost clamped", "Breaking: fresh story", 0, 1.0},
		{"old breaking news keeps the boost", "Urgent update on markets", 24 * time.Hour, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scoredArticle(t, tt.title, "", tt.age)
			testutil.AssertInDelta(t, a.Scores.Urgency, tt.want, 0.01, "urgency")
		})
	}
}

func TestScore_TradingImplications(t *testing.T) {
	a := scoredArticle(t, "Fed weighs rate hike amid merger wave", "", time.Hour)
	testutil.AssertEqual(t, len(a.Scores.TradingImplications), 2, "one advisory per matched rule set")

	generic := scoredArticle(t, "Nothing matching any rule set", "", time.Hour)
	testutil.AssertEqual(t, len(generic.Scores.TradingImplications), 1, "generic advisory on no match")
	testutil.AssertEqual(t, generic.Scores.TradingImplications[0],
		DefaultScoreConfig().GenericImplication, "generic advisory text")
}

func TestScore_Idempotent(t *testing.T) {
	now := time.Now().UTC()
	a := domain.NewArticle("https://example.com/t", "Fed signals inflation response as stocks surge and rally", "test", now.Add(-3*time.Hour))

	s := NewScoreService(DefaultScoreConfig())
	s.Score(a, now)
	first := *a.Scores
	firstAssets := append([]domain.RelatedAsset{}, a.Scores.RelatedAssets...)

	s.Score(a, now)

	testutil.AssertEqual(t, a.Scores.MarketImpact, first.MarketImpact, "impact stable")
	testutil.AssertEqual(t, a.Scores.Sentiment, first.Sentiment, "sentiment stable")
	testutil.AssertEqual(t, a.Scores.Urgency, first.Urgency, "urgency stable")
	testutil.AssertTrue(t, reflect.DeepEqual(a.Scores.RelatedAssets, firstAssets), "assets stable")
}

func TestRank_OrdersByImpactThenUrgency(t *testing.T) {
	now := time.Now().UTC()
	s := NewScoreService(DefaultScoreConfig())

	low := domain.NewArticle("https://example.com/low", "quiet local story", "test", now)
	high := domain.NewArticle("https://example.com/high", "Fed reacts to inflation and recession risk", "test", now.Add(-20*time.Hour))
	medium := domain.NewArticle("https://example.com/med", "Earnings preview", "test", now)

	articles := []*domain.Article{low, high, medium}
	s.ScoreAll(articles, now)
	s.Rank(articles)

	testutil.AssertEqual(t, articles[0].URL, "https://example.com/high", "high impact first despite low urgency")
	testutil.AssertEqual(t, articles[1].URL, "https://example.com/med", "medium impact second")
	testutil.AssertEqual(t, articles[2].URL, "https://example.com/low", "low impact last")
}

func TestRank_StableOnTies(t *testing.T) {
	now := time.Now().UTC()
	s := NewScoreService(DefaultScoreConfig())

	first := domain.NewArticle("https://example.com/1", "plain story one", "test", now)
	second := domain.NewArticle("https://example.com/2", "plain story two", "test", now)

	articles := []*domain.Article{first, second}
	s.ScoreAll(articles, now)
	s.Rank(articles)

	testutil.AssertEqual(t, articles[0].URL, "https://example.com/1", "tie keeps merge order")
}

func TestSummarize(t *testing.T) {
	now := time.Now().UTC()
	s := NewScoreService(DefaultScoreConfig())

	mk := func(url, title string) *domain.Article {
		return domain.NewArticle(url, title, "test", now)
	}

	t.Run("majority vote sentiment", func(t *testing.T) {
		articles := []*domain.Article{
			mk("https://x.com/1", "markets surge in broad rally"),
			mk("https://x.com/2", "shares soar on record profit"),
			mk("https://x.com/3", "index plunges on earnings miss"),
		}
		s.ScoreAll(articles, now)

		summary := s.Summarize(articles)
		testutil.AssertEqual(t, summary.OverallSentiment, domain.SentimentPositive, "positive majority")
	})

	t.Run("tie is neutral", func(t *testing.T) {
		articles := []*domain.Article{
			mk("https://x.com/1", "markets surge in broad rally"),
			mk("https://x.com/2", "index plunges on earnings miss"),
		}
		s.ScoreAll(articles, now)

		summary := s.Summarize(articles)
		testutil.AssertEqual(t, summary.OverallSentiment, domain.SentimentNeutral, "tie resolves neutral")
	})

	t.Run("impact counts", func(t *testing.T) {
		highTitle := "Fed inflation shock triggers recession fears"
		articles := []*domain.Article{
			mk("https://x.com/1", highTitle),
			mk("https://x.com/2", highTitle),
		}
		s.ScoreAll(articles, now)

		summary := s.Summarize(articles)
		testutil.AssertEqual(t, summary.HighImpactCount, 2, "high articles counted")
		testutil.AssertEqual(t, summary.ImpactLevel, domain.ImpactMedium, "two high items is medium overall")

		articles = append(articles,
			mk("https://x.com/3", highTitle),
			mk("https://x.com/4", highTitle),
		)
		s.ScoreAll(articles, now)

		summary = s.Summarize(articles)
		testutil.AssertEqual(t, summary.ImpactLevel, domain.ImpactHigh, "more than three high items is high overall")
	})

	t.Run("top assets deterministic", func(t *testing.T) {
		articles := []*domain.Article{
			mk("https://x.com/1", "AAPL and MSFT lead today"),
			mk("https://x.com/2", "AAPL extends its run"),
		}
		s.ScoreAll(articles, now)

		summary := s.Summarize(articles)
		testutil.AssertEqual(t, summary.TopAssets[0], "AAPL", "most mentioned asset first")
	})
}
