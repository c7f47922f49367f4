package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinderfl/geodirectory/internal/domain/providers"
	apperrors "github.com/carefinderfl/geodirectory/pkg/errors"
)

func TestIPProvider_ResolvesPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":27.9944,"lon":-81.7603}`))
	}))
	defer server.Close()

	provider := NewIPProvider(server.URL, nil)
	pos, err := provider.RequestCurrentPosition(context.Background(), providers.DefaultPositionOptions())

	require.NoError(t, err)
	assert.Equal(t, 27.9944, pos.Latitude)
	assert.Equal(t, -81.7603, pos.Longitude)
}

func TestIPProvider_LookupFailureIsDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	provider := NewIPProvider(server.URL, nil)
	_, err := provider.RequestCurrentPosition(context.Background(), providers.DefaultPositionOptions())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeolocationDenied))
}

func TestIPProvider_ServerErrorIsDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewIPProvider(server.URL, nil)
	_, err := provider.RequestCurrentPosition(context.Background(), providers.DefaultPositionOptions())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeolocationDenied))
}

func TestIPProvider_ServesCachedPositionWithinWindow(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"status":"success","lat":28.0,"lon":-81.0}`))
	}))
	defer server.Close()

	provider := NewIPProvider(server.URL, nil)
	opts := providers.PositionOptions{Timeout: 5 * time.Second, MaxCacheAge: 5 * time.Minute}

	_, err := provider.RequestCurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	_, err = provider.RequestCurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestIPProvider_ZeroCacheAgeAlwaysFetches(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"status":"success","lat":28.0,"lon":-81.0}`))
	}))
	defer server.Close()

	provider := NewIPProvider(server.URL, nil)
	opts := providers.PositionOptions{Timeout: 5 * time.Second}

	_, err := provider.RequestCurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	_, err = provider.RequestCurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
