package render

import (
	"github.com/shadowbane/home-flood-report/pkg/geocoder"
	"github.com/shadowbane/home-flood-report/pkg/models"
	controllertraits "github.com/shadowbane/home-flood-report/pkg/traits/controller-traits"
)

const (
	DefaultZoom           = 12
	MarkerRadiusMeters    = 1000
	MarkerRadiusMinPixels = 5
)

// MarkerFillColor is the RGB fill of every report marker.
var MarkerFillColor = [3]int{255, 0, 0}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Marker struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Address  string  `json:"address"`
	Type     string  `json:"type"`
	Severity int     `json:"severity"`
	ImageURL string  `json:"image_url,omitempty"`
}

// MapView is everything the client needs to draw the report map.
type MapView struct {
	Center          Point    `json:"center"`
	HasCenter       bool     `json:"has_center"`
	Zoom            int      `json:"zoom"`
	RadiusMeters    int      `json:"radius_m"`
	RadiusMinPixels int      `json:"radius_min_pixels"`
	FillColor       [3]int   `json:"fill_color"`
	Markers         []Marker `json:"markers"`
}

// BuildMapView coerces stored coordinates to numbers and derives the map.
// Invalid coordinates count as missing: the center latitude is the mean of
// every valid latitude and the center longitude the mean of every valid
// longitude, and only reports with both values get a marker. With no valid
// coordinate at all the map centers on the placeholder location.
func BuildMapView(reports []models.FloodReport) MapView {
	view := MapView{
		Center:          Point{Lat: geocoder.PlaceholderLatitude, Lon: geocoder.PlaceholderLongitude},
		Zoom:            DefaultZoom,
		RadiusMeters:    MarkerRadiusMeters,
		RadiusMinPixels: MarkerRadiusMinPixels,
		FillColor:       MarkerFillColor,
		Markers:         make([]Marker, 0, len(reports)),
	}

	var latSum, lonSum float64
	var latCount, lonCount int

	for _, r := range reports {
		lat, latOK := r.LatValue()
		lon, lonOK := r.LonValue()
		if latOK {
			latSum += lat
			latCount++
		}
		if lonOK {
			lonSum += lon
			lonCount++
		}
		if latOK && lonOK {
			view.Markers = append(view.Markers, Marker{
				Lat:      lat,
				Lon:      lon,
				Address:  r.Address,
				Type:     r.Type,
				Severity: r.Severity,
				ImageURL: controllertraits.ImageURL(r.ImagePath),
			})
		}
	}

	if latCount > 0 {
		view.Center.Lat = latSum / float64(latCount)
	}
	if lonCount > 0 {
		view.Center.Lon = lonSum / float64(lonCount)
	}
	view.HasCenter = latCount > 0 && lonCount > 0

	return view
}
