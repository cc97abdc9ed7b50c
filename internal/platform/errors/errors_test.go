// internal/platform/errors/errors_test.go
package errors

import (
	"testing"

	"finsight/internal/testutil"
)

func TestWrap(t *testing.T) {
	base := New("upstream exploded")

	wrapped := Wrap(base, "newsapi fetch")
	testutil.AssertError(t, wrapped, "wrap returns error")
	testutil.AssertEqual(t, wrapped.Error(), "newsapi fetch: upstream exploded", "message format")
	testutil.AssertTrue(t, Is(wrapped, base), "chain preserved through Wrap")

	testutil.AssertNil(t, Wrap(nil, "ignored"), "nil passes through")
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrNotFound, "symbol %s", "AAPL")
	testutil.AssertEqual(t, wrapped.Error(), "symbol AAPL: resource not found", "formatted message")
	testutil.AssertTrue(t, Is(wrapped, ErrNotFound), "chain preserved through Wrapf")

	testutil.AssertNil(t, Wrapf(nil, "ignored %d", 1), "nil passes through")
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		ok   func(error) bool
	}{
		{"timeout", Wrap(ErrTimeout, "finnhub quote"), IsTimeout},
		{"missing config", Wrap(ErrMissingConfig, "newsapi"), IsMissingConfig},
		{"invalid response", Wrap(ErrInvalidResponse, "exchangerate"), IsInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertTrue(t, tt.ok(tt.err), "helper matches wrapped sentinel")
			testutil.AssertFalse(t, tt.ok(New("unrelated")), "helper rejects foreign error")
			testutil.AssertFalse(t, tt.ok(nil), "helper rejects nil")
		})
	}
}

func TestMissingConfigMessage(t *testing.T) {
	// Los handlers exponen este texto en los source outcomes, no cambiarlo.
	testutil.AssertEqual(t, ErrMissingConfig.Error(), "missing_config", "wire-visible message")
}

func TestJoin(t *testing.T) {
	a := New("first")
	b := New("second")

	joined := Join(a, nil, b)
	testutil.AssertTrue(t, Is(joined, a), "first member in chain")
	testutil.AssertTrue(t, Is(joined, b), "second member in chain")

	testutil.AssertNil(t, Join(nil, nil), "all-nil joins to nil")
}

func TestDeepChain(t *testing.T) {
	err := Wrap(Wrapf(ErrRateLimit, "attempt %d", 3), "collector")
	testutil.AssertTrue(t, Is(err, ErrRateLimit), "sentinel found through two wraps")
	testutil.AssertContains(t, err.Error(), "collector", "outer context present")
	testutil.AssertContains(t, err.Error(), "attempt 3", "inner context present")
}
