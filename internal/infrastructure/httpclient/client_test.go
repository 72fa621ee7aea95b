package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/infrastructure/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() httpclient.Options {
	return httpclient.Options{
		MaxRetries:       3,
		RetryDelay:       time.Millisecond,
		FailureThreshold: 5,
		ResetWindow:      time.Minute,
		Timeout:          5 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts httpclient.Options) *httpclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return httpclient.New(srv.URL, httpclient.BasicAuth{Username: "client-id", Password: "secret"}, opts, testLogger())
}

func TestClient_Success(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ORDER123","status":"CREATED"}`))
	}, testOptions())

	resp, err := client.Do(context.Background(), http.MethodPost, "/v2/checkout/orders", map[string]string{"intent": "CAPTURE"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "ORDER123")
	assert.Contains(t, gotAuth, "Basic ")
}

func TestClient_RetriesOn500ThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"name":"INTERNAL_SERVER_ERROR"}`))
			return
		}
		w.Write([]byte(`{"id":"ORDER123"}`))
	}, testOptions())

	resp, err := client.Do(context.Background(), http.MethodPost, "/orders", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ExhaustsRetriesOnPersistent500(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, testOptions())

	_, err := client.Do(context.Background(), http.MethodPost, "/orders", nil)

	require.Error(t, err)
	// Initial attempt plus maxRetries retries.
	assert.Equal(t, int32(4), calls.Load())

	pe, ok := gateway.AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindServerError, pe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
}

func TestClient_NoRetryOn4xx(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantKind   gateway.ErrorKind
	}{
		{"bad request", http.StatusBadRequest, gateway.KindClientError},
		{"unauthorized", http.StatusUnauthorized, gateway.KindAuthenticationError},
		{"forbidden", http.StatusForbidden, gateway.KindAuthenticationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.statusCode)
			}, testOptions())

			_, err := client.Do(context.Background(), http.MethodPost, "/orders", nil)

			require.Error(t, err)
			assert.Equal(t, int32(1), calls.Load())

			pe, ok := gateway.AsPaymentError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, pe.Kind)
		})
	}
}

func TestClient_NetworkErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	opts := testOptions()
	opts.MaxRetries = 1
	client := httpclient.New(srv.URL, nil, opts, testLogger())

	_, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)

	require.Error(t, err)
	pe, ok := gateway.AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindNetworkError, pe.Kind)
}

func TestClient_BreakerRejectsAfterThreshold(t *testing.T) {
	var calls atomic.Int32
	opts := testOptions()
	opts.MaxRetries = 0
	opts.FailureThreshold = 3

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, opts)

	for i := 0; i < 3; i++ {
		_, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
		require.Error(t, err)
	}
	require.Equal(t, int32(3), calls.Load())

	// Breaker is open: rejected without a network call.
	_, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	pe, ok := gateway.AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindCircuitOpen, pe.Kind)
}

func TestClient_ContextCancellationAbortsBackoff(t *testing.T) {
	opts := testOptions()
	opts.RetryDelay = 10 * time.Second

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.Do(ctx, http.MethodGet, "/orders", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_4xxProbeSettlesBreaker(t *testing.T) {
	var calls atomic.Int32
	opts := testOptions()
	opts.MaxRetries = 0
	opts.FailureThreshold = 1
	opts.ResetWindow = 20 * time.Millisecond

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.Write([]byte(`{"id":"ORDER123"}`))
		}
	}, opts)

	// First failure trips the breaker.
	_, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.Error(t, err)

	// The half-open probe draws a 4xx. The dependency answered, so the
	// breaker must close rather than wedge in the probing state.
	time.Sleep(30 * time.Millisecond)
	_, err = client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.Error(t, err)
	pe, ok := gateway.AsPaymentError(err)
	require.True(t, ok)
	assert.Equal(t, gateway.KindClientError, pe.Kind)

	// Traffic flows again immediately, no further window needed.
	resp, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_CancelledProbeDoesNotWedgeBreaker(t *testing.T) {
	var calls atomic.Int32
	opts := testOptions()
	opts.MaxRetries = 0
	opts.FailureThreshold = 1
	opts.ResetWindow = 20 * time.Millisecond

	block := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			<-block
		default:
			w.Write([]byte(`{"id":"ORDER123"}`))
		}
	}, opts)
	t.Cleanup(func() { close(block) })

	_, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.Error(t, err)

	// Cancel the half-open probe mid-flight.
	time.Sleep(30 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err = client.Do(ctx, http.MethodGet, "/orders", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The breaker stays open but the probe slot is free; the next request
	// after the window is admitted and closes it.
	time.Sleep(30 * time.Millisecond)
	resp, err := client.Do(context.Background(), http.MethodGet, "/orders", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_BusinessRejectionDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	opts := testOptions()
	opts.MaxRetries = 0
	opts.FailureThreshold = 2

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}, opts)

	for i := 0; i < 5; i++ {
		_, err := client.Do(context.Background(), http.MethodPost, "/orders", nil)
		require.Error(t, err)
	}

	// Every request reached the server; 4xx responses mean the
	// dependency is healthy.
	assert.Equal(t, int32(5), calls.Load())
}
