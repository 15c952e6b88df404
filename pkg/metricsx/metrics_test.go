package metricsx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/shelf/pkg/metricsx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentAndExpose(t *testing.T) {
	m := metricsx.New()

	h := m.Instrument("GET /api/books/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/books/42", nil))
	}

	m.RecordAuth("login", "success")
	m.RecordAuth("login", "unauthorized")
	m.RecordAuth("login", "unauthorized")

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	require.Contains(t, text, `shelf_http_requests_total{code="404",method="get",route="GET /api/books/{id}"} 3`)
	require.Contains(t, text, `shelf_auth_events_total{event="login",outcome="unauthorized"} 2`)
	require.True(t, strings.Contains(text, "go_goroutines"), "go collector registered")
}

func TestRecordAuthCounts(t *testing.T) {
	m := metricsx.New()
	m.RecordAuth("refresh", "expired")

	n, err := testutil.GatherAndCount(m.Registry, "shelf_auth_events_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
