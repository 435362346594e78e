// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	assert.IsType(t, &noopMetrics{}, metrics)

	// pre-init meters are safe no-ops
	Counter("noop_counter").Add(1)
	Gauge("noop_gauge").Set(5)
	CounterVec("noop_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "x"})
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	assert.IsType(t, &prometheusMetrics{}, metrics)

	Counter("ops_total").Add(3)
	CounterVec("ops_by_kind_total", []string{"kind"}).AddWithLabel(2, map[string]string{"kind": "stake"})
	Gauge("custody_size").Set(7)
	Histogram("op_duration_ms", Bucket10s).Observe(250)

	// same name resolves to the same meter
	assert.Equal(t, Counter("ops_total"), Counter("ops_total"))

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	res, err := http.Get(server.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	assert.Equal(t, http.StatusOK, res.StatusCode)

	scraped := string(body)
	assert.True(t, strings.Contains(scraped, "dzap_metrics_ops_total 3"))
	assert.True(t, strings.Contains(scraped, `dzap_metrics_ops_by_kind_total{kind="stake"} 2`))
	assert.True(t, strings.Contains(scraped, "dzap_metrics_custody_size 7"))

	// initialization is one-way
	InitializePrometheusMetrics()
	assert.IsType(t, &prometheusMetrics{}, metrics)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	load := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Equal(t, 42, load())
	assert.Equal(t, 42, load())
	assert.Equal(t, 1, calls)
}
