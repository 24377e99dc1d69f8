package geocoder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	result Result
	err    error
	calls  int
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, _ string) (Result, error) {
	s.calls++
	return s.result, s.err
}

func TestPlaceholder_IgnoresAddress(t *testing.T) {
	for _, address := range []string{"123 Main St", "1600 Pennsylvania Ave", ""} {
		result, err := Placeholder{}.ForwardGeocode(context.Background(), address)
		require.NoError(t, err)
		assert.Equal(t, PlaceholderLatitude, result.Lat)
		assert.Equal(t, PlaceholderLongitude, result.Lon)
	}
}

func TestFallback_UsesInnerResult(t *testing.T) {
	m := metrics.NewForTesting()
	inner := &stubGeocoder{result: Result{Lat: 1.5, Lon: 2.5, FormattedAddress: "Somewhere"}}

	result, err := NewFallback(inner, m).ForwardGeocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1.5, result.Lat)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("success")))
}

func TestFallback_PlaceholderOnErrorOrEmpty(t *testing.T) {
	m := metrics.NewForTesting()

	result, err := NewFallback(&stubGeocoder{err: errors.New("boom")}, m).ForwardGeocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderLatitude, result.Lat)

	result, err = NewFallback(&stubGeocoder{}, m).ForwardGeocode(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderLongitude, result.Lon)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GeocodeRequests.WithLabelValues("empty")))
}

func TestNew_DefaultsToPlaceholder(t *testing.T) {
	g := New(&config.Config{Geocoder: config.GeocoderPlaceholder}, nil)
	assert.IsType(t, Placeholder{}, g)

	g = New(&config.Config{
		Geocoder:        config.GeocoderMapbox,
		MapboxToken:     "tok",
		MapboxTimeout:   time.Second,
		MapboxCacheSize: 10,
	}, metrics.NewForTesting())
	assert.IsType(t, &Fallback{}, g)
}
