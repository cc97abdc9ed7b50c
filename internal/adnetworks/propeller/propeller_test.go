// internal/adnetworks/propeller/propeller_test.go
package propeller

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

func newNetwork(cfg ports.NetworkConfig, roll float64) *Network {
	n := New(cfg, logx.NewSilent()).(*Network)
	n.roll = func() float64 { return roll }
	return n
}

func TestAccessors(t *testing.T) {
	n := newNetwork(ports.NetworkConfig{PublisherID: "zone-9", LoadTimeMs: 300, FillRate: 0.70}, 0)

	testutil.AssertEqual(t, n.Name(), "propeller", "name")
	testutil.AssertEqual(t, n.LoadTimeMs(), 300, "load time")
	testutil.AssertInDelta(t, n.FillRate(), 0.70, 0.0001, "fill rate")
}

func TestRequest_MissingCredential(t *testing.T) {
	n := newNetwork(ports.NetworkConfig{FillRate: 1.0}, 0)

	_, err := n.Request(context.Background(), domain.AdRequest{})
	testutil.AssertTrue(t, errors.IsMissingConfig(err), "no zone id short-circuits")
}

func TestRequest_Fill(t *testing.T) {
	n := newNetwork(ports.NetworkConfig{PublisherID: "zone-9", LoadTimeMs: 300, FillRate: 1.0}, 0)

	creative, err := n.Request(context.Background(), domain.AdRequest{Type: "popunder", Placement: "footer"})
	testutil.AssertNoError(t, err, "fill")
	testutil.AssertContains(t, creative.HTML, `data-zone="zone-9"`, "zone in markup")
	testutil.AssertContains(t, creative.HTML, `data-format="popunder"`, "format in markup")
	testutil.AssertEqual(t, creative.LoadTimeMs, 300, "load time carried")
	testutil.AssertInDelta(t, creative.EstimatedRevenue, 1.20*0.8, 0.0001, "revenue at low draw")
}

func TestRequest_NoFill(t *testing.T) {
	n := newNetwork(ports.NetworkConfig{PublisherID: "zone-9", FillRate: 0.70}, 0.75)

	_, err := n.Request(context.Background(), domain.AdRequest{})
	testutil.AssertTrue(t, errors.Is(err, errors.ErrServiceUnavailable), "no-fill sentinel")
}

func TestSelfRegistration(t *testing.T) {
	testutil.AssertTrue(t, registry.Networks().IsRegistered("propeller"), "init registers the network")
}
