package services

import (
	"fmt"
	"math"

	"github.com/yunlin/oldtown/models"
)

const (
	EarthRadiusMeters   = 6371000.0
	DefaultRadiusMeters = 100.0
)

// Geolocation failure codes as reported by browsers.
const (
	GeoPermissionDenied    = 1
	GeoPositionUnavailable = 2
	GeoTimeout             = 3
)

// Distance returns the great-circle distance in metres between a and b.
func Distance(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Fix is what the device reported when asked for its position.
type Fix struct {
	Position    *models.Coordinates `json:"position,omitempty"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Unsupported bool                `json:"unsupported,omitempty"`
}

// GeoError carries a user facing message for a rejected check-in.
type GeoError struct {
	kind    error
	Message string

	// Distance and Excess are set for out of range rejections, in metres.
	Distance float64
	Excess   float64
}

func (e *GeoError) Error() string { return e.Message }
func (e *GeoError) Unwrap() error { return e.kind }

// ProximityGate rejects check-ins made farther than Radius from the location.
type ProximityGate struct {
	Radius float64
}

func NewProximityGate(radius float64) ProximityGate {
	if radius <= 0 {
		radius = DefaultRadiusMeters
	}
	return ProximityGate{Radius: radius}
}

// Verify checks fix against target. A nil target means the location has no known
// coordinates and the gate does not apply.
func (g ProximityGate) Verify(target *models.Coordinates, fix Fix) error {
	if target == nil {
		return nil
	}
	if fix.Unsupported {
		return &GeoError{kind: ErrGeolocation, Message: "Your device does not support GPS positioning"}
	}
	switch fix.ErrorCode {
	case 0:
	case GeoPermissionDenied:
		return &GeoError{kind: ErrGeolocation, Message: "Please allow access to your location"}
	case GeoPositionUnavailable:
		return &GeoError{kind: ErrGeolocation, Message: "Unable to get your location, please make sure GPS is turned on"}
	case GeoTimeout:
		return &GeoError{kind: ErrGeolocation, Message: "Locating timed out, please try again later"}
	default:
		return &GeoError{kind: ErrGeolocation, Message: "Unable to verify your location"}
	}
	if fix.Position == nil {
		return &GeoError{kind: ErrGeolocation, Message: "Unable to get your location, please make sure GPS is turned on"}
	}

	d := Distance(*fix.Position, *target)
	if d <= g.Radius {
		return nil
	}
	excess := d - g.Radius
	msg := fmt.Sprintf("You are %d m from this location, %d m outside the %d m check-in radius. Move closer and try again",
		int(math.Round(d)), int(math.Round(excess)), int(math.Round(g.Radius)))
	return &GeoError{kind: ErrOutOfRange, Message: msg, Distance: d, Excess: excess}
}
