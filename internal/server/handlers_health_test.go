package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/mpeyrovian/TubeLytics/internal/config"
	"github.com/mpeyrovian/TubeLytics/internal/hub"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func healthTestServer(t *testing.T, redis pinger) *httptest.Server {
	t.Helper()

	h := hub.New(nil, nil, clockwork.NewRealClock(), time.Hour, 100)
	t.Cleanup(func() { h.Stop() })

	srv := NewServer(&config.Config{Port: "0"}, h, &stubSearchGateway{}, &stubChannelGateway{}, redis)
	ts := httptest.NewServer(srv.echo)
	t.Cleanup(ts.Close)
	return ts
}

func TestLiveness(t *testing.T) {
	ts := healthTestServer(t, nil)

	status, body := getJSON(t, ts.URL+"/health/live")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestReadiness_NoRedis(t *testing.T) {
	ts := healthTestServer(t, nil)

	status, body := getJSON(t, ts.URL+"/health/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadiness_RedisHealthy(t *testing.T) {
	ts := healthTestServer(t, &stubPinger{})

	status, body := getJSON(t, ts.URL+"/health/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestReadiness_RedisDown(t *testing.T) {
	ts := healthTestServer(t, &stubPinger{err: errors.New("connection refused")})

	status, body := getJSON(t, ts.URL+"/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "redis", body["failed_check"])
}

func TestVersionEndpoint(t *testing.T) {
	ts := healthTestServer(t, nil)

	status, body := getJSON(t, ts.URL+"/version")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["version"])
}
