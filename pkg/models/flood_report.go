package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shadowbane/weather-alert/pkg/helpers"

	"gorm.io/gorm"
)

// FloodReport is a single user-submitted flood report.
// Coordinates are kept as the raw stored text so that rows with
// unparsable values survive a load/save cycle untouched.
type FloodReport struct {
	ID        string    `json:"id,omitempty" gorm:"type:char(26);primaryKey;autoIncrement:false"`
	Position  int       `json:"-" gorm:"index"`
	Latitude  string    `json:"lat" gorm:"column:lat;type:varchar(64)"`
	Longitude string    `json:"lon" gorm:"column:lon;type:varchar(64)"`
	Address   string    `json:"address" gorm:"type:text"`
	Type      string    `json:"type" gorm:"type:varchar(255)"`
	Severity  int       `json:"severity"`
	ImagePath string    `json:"image_path" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"-" gorm:"type:timestamp"`
	UpdatedAt time.Time `json:"-" gorm:"type:timestamp"`
}

func (f *FloodReport) TableName() string {
	return "flood_reports"
}

// BeforeCreate will set a ULID rather than numeric ID.
func (f *FloodReport) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = helpers.NewULID()
	}
	return nil
}

// SetCoordinates stores lat/lon in their shortest decimal form.
func (f *FloodReport) SetCoordinates(lat, lon float64) {
	f.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
	f.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
}

// LatValue returns the numeric latitude, or false when it is missing or invalid.
func (f FloodReport) LatValue() (float64, bool) {
	return ParseCoordinate(f.Latitude)
}

// LonValue returns the numeric longitude, or false when it is missing or invalid.
func (f FloodReport) LonValue() (float64, bool) {
	return ParseCoordinate(f.Longitude)
}

// ParseCoordinate coerces a stored coordinate to a number. Anything that is
// not a finite float is treated as missing.
func ParseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
