package service

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zettaboard/app/apiclient/fake"
	"zettaboard/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, upstream string) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Env = "test"
	cfg.API.BaseURL = upstream
	cfg.Storage.InMemory = true
	cfg.RateLimit.RPS = 0
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func serve(t *testing.T, app *App) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()
	return "http://" + ln.Addr().String(), cancel, done
}

func TestServerGracefulShutdown(t *testing.T) {
	api := fake.New()
	upstream := api.Start(t)
	app := newTestApp(t, testConfig(t, upstream.URL))
	base, cancel, done := serve(t, app)
	defer cancel()

	resp, err := http.Get(base + "/api/posts")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Hold one request upstream while the server shuts down.
	api.Hold()
	result := make(chan int, 1)
	go func() {
		resp, err := http.Get(base + "/api/users/1")
		if err != nil {
			result <- 0
			return
		}
		resp.Body.Close()
		result <- resp.StatusCode
	}()
	require.Eventually(t, func() bool { return api.Hits("/users/{id}") == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	api.Release()

	select {
	case status := <-result:
		assert.Equal(t, http.StatusOK, status)
	case <-time.After(3 * time.Second):
		t.Fatal("in-flight request did not finish")
	}
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunRejectsBadAddress(t *testing.T) {
	api := fake.New()
	cfg := testConfig(t, api.Start(t).URL)
	cfg.Server.Port = -1
	app := newTestApp(t, cfg)

	err := app.Run(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}

func TestCacheDrivers(t *testing.T) {
	tests := []struct {
		driver string
		hits   int
	}{
		{driver: "badger", hits: 1},
		{driver: "none", hits: 3},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			api := fake.New()
			cfg := testConfig(t, api.Start(t).URL)
			cfg.Cache.Driver = tt.driver
			app := newTestApp(t, cfg)

			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/users/2", nil))
				require.Equal(t, http.StatusOK, w.Code)
			}
			assert.Equal(t, tt.hits, api.Hits("/users/{id}"))
		})
	}
}

func TestRedisUnavailable(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Cache.Driver = "redis"
	cfg.Redis.Address = "127.0.0.1"
	cfg.Redis.Port = 1

	_, err := NewApp(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestOptionalAuth(t *testing.T) {
	api := fake.New()
	upstream := api.Start(t).URL

	t.Run("disabled", func(t *testing.T) {
		app := newTestApp(t, testConfig(t, upstream))

		w := httptest.NewRecorder()
		app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/auth/session", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.NotContains(t, w.Body.String(), "/api/auth/signin/google")
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := testConfig(t, upstream)
		cfg.Auth.GoogleClientID = "client"
		cfg.Auth.GoogleClientSecret = "secret"
		cfg.Auth.SessionSecret = "session secret"
		app := newTestApp(t, cfg)

		w := httptest.NewRecorder()
		app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/auth/session", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Empty(t, body)

		w = httptest.NewRecorder()
		app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Contains(t, w.Body.String(), "/api/auth/signin/google")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	api := fake.New()
	cfg := testConfig(t, api.Start(t).URL)

	cfg.Metrics.Enabled = false
	app := newTestApp(t, cfg)
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	cfg.Metrics.Enabled = true
	app = newTestApp(t, cfg)
	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/users/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "zettaboard_")
}
