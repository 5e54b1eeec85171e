package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsIsolatedRegistries(t *testing.T) {
	first := New()
	second := New()

	first.OperationsApplied.WithLabelValues("create_invoice").Inc()

	if got := testutil.ToFloat64(first.OperationsApplied.WithLabelValues("create_invoice")); got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(second.OperationsApplied.WithLabelValues("create_invoice")); got != 0 {
		t.Errorf("fresh registry must start at zero, got %v", got)
	}
}

func TestMetricsHandlerServesScrape(t *testing.T) {
	m := New()
	m.APIRetries.Inc()

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "ledgersync_api_retries_total 1") {
		t.Errorf("scrape output missing counter:\n%s", body)
	}
}
