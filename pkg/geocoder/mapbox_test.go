package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func testClient(baseURL string, timeout time.Duration) *MapboxClient {
	return &MapboxClient{
		token:      testToken,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

func TestMapboxClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "123 Main St")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response{
			Features: []feature{{
				Center:    []float64{-122.4194, 37.7749},
				PlaceName: "123 Main St, San Francisco, California",
			}},
		}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "123 Main St")
	require.NoError(t, err)
	assert.Equal(t, 37.7749, result.Lat)
	assert.Equal(t, -122.4194, result.Lon)
	assert.Equal(t, "123 Main St, San Francisco, California", result.FormattedAddress)
}

func TestMapboxClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	result, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, result.FormattedAddress)
}

func TestMapboxClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).ForwardGeocode(context.Background(), "123 Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestMapboxClient_ForwardGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).ForwardGeocode(context.Background(), "123 Main St")
	require.Error(t, err)
}
