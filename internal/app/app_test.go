package app

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/interfaces/mocks"
	"github.com/haguru/signup/internal/routes"
	"github.com/haguru/signup/internal/server"
	"github.com/haguru/signup/pkg/zerolog"

	structValidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app := &App{
		Config: &config.ServiceConfig{
			ServiceName:    "signup",
			PrivateKeyPath: filepath.Join(t.TempDir(), "key.pem"),
			RateLimit:      config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1},
		},
		Logger: zerolog.NewNopLogger(),
	}
	app.Server = server.NewServer("localhost", "0", app.Logger)
	app.Metrics = app.initializeMetrics()
	return app
}

func TestApp_InitializePrivateKey(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.initializePrivateKey())
	first := app.privateKey
	require.NotNil(t, first)

	require.NoError(t, app.initializePrivateKey())
	assert.True(t, first.Equal(app.privateKey), "second start must reuse the stored key")

	app.Config.PrivateKeyPath = ""
	assert.Error(t, app.initializePrivateKey())
}

func TestApp_AddRoutes(t *testing.T) {
	app := newTestApp(t)
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	svc := mocks.NewMockUserService(t)
	svc.On("IsUsernameAvailable", mock.Anything, "abc").Return(true, nil).Once()
	route := routes.NewRoute(app.Metrics, svc, key, structValidator.New(), app.Logger, config.SessionConfig{}, nil)
	require.NoError(t, app.addRoutes(route))

	mux := app.Server.(*server.Server)
	check := func() int {
		req := httptest.NewRequest(http.MethodPost, routes.CheckIDRouteAPI, strings.NewReader(url.Values{"id": {"abc"}}.Encode()))
		req.Header.Set(routes.ContentType, routes.ContentTypeForm)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, check())
	assert.Equal(t, http.StatusTooManyRequests, check())

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routes.MetricsRouteAPI, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "signup_check_id_requests_total 1")
	assert.Contains(t, rr.Body.String(), `signup_rate_limited_total{route="/check_id"} 1`)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routes.HealthRouteAPI, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

type blockingServer struct {
	stopped chan struct{}
}

func (s *blockingServer) AddRoute(string, func(http.ResponseWriter, *http.Request)) error { return nil }

func (s *blockingServer) ListenAndServe() error {
	<-s.stopped
	return nil
}

func (s *blockingServer) Shutdown(context.Context) error {
	close(s.stopped)
	return nil
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	app.Server = &blockingServer{stopped: make(chan struct{})}
	repo := mocks.NewMockUserRepository(t)
	repo.On("Close", mock.Anything).Return(nil).Once()
	app.UserRepo = repo

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingServer struct{}

func (failingServer) AddRoute(string, func(http.ResponseWriter, *http.Request)) error { return nil }
func (failingServer) ListenAndServe() error                                            { return errors.New("address in use") }
func (failingServer) Shutdown(context.Context) error                                   { return nil }

func TestApp_RunReportsServeError(t *testing.T) {
	app := newTestApp(t)
	app.Server = failingServer{}
	repo := mocks.NewMockUserRepository(t)
	repo.On("Close", mock.Anything).Return(nil).Once()
	app.UserRepo = repo

	assert.EqualError(t, app.Run(context.Background()), "address in use")
}
