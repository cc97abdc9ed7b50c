// internal/sources/marketaux/marketaux_test.go
package marketaux

import (
	"context"
	"testing"

	"finsight/internal/core/domain"
	"finsight/internal/core/ports"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/platform/registry"
	"finsight/internal/testutil"
)

func TestNew(t *testing.T) {
	source := New(ports.SourceConfig{}, logx.NewSilent())
	testutil.AssertEqual(t, source.Name(), "marketaux", "name")
	testutil.AssertNoError(t, source.Close(), "close is a no-op")
}

func TestFetch_MissingCredential(t *testing.T) {
	source := New(ports.SourceConfig{}, logx.NewSilent())

	_, err := source.Fetch(context.Background(), domain.NewsQuery{Category: "business"})
	testutil.AssertTrue(t, errors.IsMissingConfig(err), "no key short-circuits")
}

func TestMapTopics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"crypto", "crypto"},
		{"forex", "forex"},
		{"business", "markets"},
		{"stocks", "markets"},
		{"technology", ""},
		{"", ""},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, mapTopics(tt.in), tt.want, "category "+tt.in)
	}
}

func TestSelfRegistration(t *testing.T) {
	testutil.AssertTrue(t, registry.Global().IsRegistered("marketaux"), "init registers the source")
}
