package geocoder

import (
	"context"

	"github.com/shadowbane/home-flood-report/pkg/config"
	"github.com/shadowbane/home-flood-report/pkg/metrics"
	"go.uber.org/zap"
)

// Placeholder coordinates substituted for real geolocation.
const (
	PlaceholderLatitude  = 37.7749
	PlaceholderLongitude = -122.4194
)

// Result is a resolved address location.
type Result struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
}

// Geocoder resolves a free-text street address to coordinates.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, address string) (Result, error)
}

// Placeholder ignores the address and always returns the placeholder pair.
type Placeholder struct{}

func (Placeholder) ForwardGeocode(_ context.Context, address string) (Result, error) {
	return Result{
		Lat:              PlaceholderLatitude,
		Lon:              PlaceholderLongitude,
		FormattedAddress: address,
	}, nil
}

// Fallback answers with the placeholder pair whenever inner fails or
// finds nothing, so a submission never fails on geocoding.
type Fallback struct {
	inner   Geocoder
	metrics *metrics.Metrics
}

func NewFallback(inner Geocoder, m *metrics.Metrics) *Fallback {
	return &Fallback{inner: inner, metrics: m}
}

func (f *Fallback) ForwardGeocode(ctx context.Context, address string) (Result, error) {
	result, err := f.inner.ForwardGeocode(ctx, address)
	switch {
	case err != nil:
		zap.S().Warnf("Geocoding %q failed, using placeholder: %v", address, err)
		f.observe("error")
	case result.FormattedAddress == "":
		zap.S().Debugf("No geocoding result for %q, using placeholder", address)
		f.observe("empty")
	default:
		f.observe("success")
		return result, nil
	}
	return Placeholder{}.ForwardGeocode(ctx, address)
}

func (f *Fallback) observe(outcome string) {
	if f.metrics != nil {
		f.metrics.GeocodeRequests.WithLabelValues(outcome).Inc()
	}
}

// New returns the geocoder selected by cfg.
func New(cfg *config.Config, m *metrics.Metrics) Geocoder {
	if cfg.Geocoder != config.GeocoderMapbox {
		return Placeholder{}
	}
	zap.S().Infof("Geocoding addresses with Mapbox (cache size %d)", cfg.MapboxCacheSize)
	client := NewMapboxClient(cfg.MapboxToken, cfg.MapboxTimeout)
	return NewFallback(NewCached(client, cfg.MapboxCacheSize), m)
}
