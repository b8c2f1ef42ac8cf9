package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

func postWithKey(path, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_StoreErrorStopsRequest(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(context.Context, string, []byte, time.Duration) (bool, []byte, error) {
		return false, nil, context.DeadlineExceeded
	}

	called := false
	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(rr, postWithKey("/api/v1/transactions", "key-err"))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestIdempotencyMiddleware_FailedRequestReleasesKey(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	var updated, released bool
	store.UpdateFunc = func(context.Context, string, []byte, time.Duration) error {
		updated = true
		return nil
	}
	store.ReleaseFunc = func(context.Context, string) error {
		released = true
		return nil
	}

	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, postWithKey("/api/v1/transactions", "key-fail"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, updated, "error responses must not be stored")
	assert.True(t, released)
}

func TestIdempotencyMiddleware_PassThrough(t *testing.T) {
	tests := []struct {
		name   string
		method string
		key    string
	}{
		{name: "read request", method: http.MethodGet, key: "key-get"},
		{name: "no key", method: http.MethodPost, key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockIdempotencyStore()
			store.CheckAndSetFunc = func(context.Context, string, []byte, time.Duration) (bool, []byte, error) {
				t.Fatal("store must not be consulted")
				return false, nil, nil
			}

			req := httptest.NewRequest(tt.method, "/api/v1/accounts", nil)
			if tt.key != "" {
				req.Header.Set(IdempotencyKeyHeader, tt.key)
			}

			called := false
			NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			})).ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, called)
		})
	}
}

func TestIdempotencyMiddleware_ReplaysStoredEnvelope(t *testing.T) {
	stored, err := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: []byte(`{"cached":true}`)})
	require.NoError(t, err)

	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(context.Context, string, []byte, time.Duration) (bool, []byte, error) {
		return true, stored, nil
	}

	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run on replay")
	})).ServeHTTP(rr, postWithKey("/api/v1/transactions", "key-123"))

	assert.Equal(t, "true", rr.Header().Get(IdempotencyReplayHeader))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, `{"cached":true}`, rr.Body.String())
}

func TestIdempotencyMiddleware_PendingKeyConflicts(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(context.Context, string, []byte, time.Duration) (bool, []byte, error) {
		return true, []byte(pendingMarker), nil
	}

	rr := httptest.NewRecorder()
	NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run while the key is pending")
	})).ServeHTTP(rr, postWithKey("/api/v1/transactions", "key-busy"))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestIdempotencyMiddleware_HandlerRunsOnce(t *testing.T) {
	mw := NewIdempotencyMiddleware(mocks.NewMockIdempotencyStore(), 0)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"txn-1"}`))
	}))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, postWithKey("/api/v1/transactions", "same-key"))

		require.Equal(t, http.StatusCreated, rr.Code, "attempt %d", i)
		assert.Contains(t, rr.Body.String(), "txn-1")
	}
	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_KeyIsScopedToRoute(t *testing.T) {
	var keys []string
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(_ context.Context, key string, _ []byte, _ time.Duration) (bool, []byte, error) {
		keys = append(keys, key)
		return false, nil, nil
	}
	handler := NewIdempotencyMiddleware(store, time.Hour).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, path := range []string{"/api/v1/accounts", "/api/v1/categories"} {
		handler.ServeHTTP(httptest.NewRecorder(), postWithKey(path, "k"))
	}

	assert.Equal(t, []string{"POST:/api/v1/accounts:k", "POST:/api/v1/categories:k"}, keys)
}
