package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecords(t *testing.T) {
	c := New()

	c.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))
	c.RequestFinished("GET", "/api/users/{id}", 200, 20*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/users/{id}", "200")))

	c.Retry()
	c.Retry()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.retries))

	c.Failure("NETWORK_ERROR")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("NETWORK_ERROR")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RequestStarted()
	c.RequestFinished("GET", "/", 0, time.Second)
	c.Retry()
	c.Failure("X")
	assert.Nil(t, c.Registry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.RequestStarted()
	c.RequestFinished("POST", "/api/auth/login", 401, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `sihui_client_requests_total{endpoint="/api/auth/login",method="POST",status="401"} 1`))
}
