package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haguru/signup/pkg/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_AddRoute(t *testing.T) {
	s := NewServer("localhost", "0", zerolog.NewNopLogger()).(*Server)

	require.NoError(t, s.AddRoute("/check_id", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	assert.Error(t, s.AddRoute("", func(http.ResponseWriter, *http.Request) {}))
	assert.Error(t, s.AddRoute("/nil", nil))

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/check_id", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_ShutdownStopsListenAndServe(t *testing.T) {
	s := NewServer("127.0.0.1", "0", zerolog.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()

	// Give the listener a moment to start before asking it to stop.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe did not return after Shutdown")
	}
}
