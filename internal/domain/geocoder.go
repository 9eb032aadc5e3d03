package domain

import (
	"context"
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// GeocodingResult is the place nearest an epicentre.
type GeocodingResult struct {
	Lat              float64 // place centre
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Region           string  // department, when the provider reports one
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves coordinates to a human-readable place.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}

// Relative describes the epicentre at lat, lon from the place, the way
// seismic bulletins do: "a 50 km al S de Lima, Lima". Without a place name
// it falls back to the formatted address.
func (g GeocodingResult) Relative(lat, lon float64) string {
	if g.PlaceName == "" {
		return g.FormattedAddress
	}
	place := g.PlaceName
	if g.Region != "" && g.Region != g.PlaceName {
		place += ", " + g.Region
	}
	km := DistanceKm(g.Lat, g.Lon, lat, lon)
	if km < 1 {
		return place
	}
	return fmt.Sprintf("a %.0f km al %s de %s", km, Compass(Bearing(g.Lat, g.Lon, lat, lon)), place)
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi, dLambda := radians(lat2-lat1), radians(lon2-lon1)
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Bearing is the initial bearing in degrees [0, 360) from the first point to
// the second.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dLambda := radians(lon2 - lon1)
	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SO", "O", "NO"}

// Compass names a bearing on the eight-point Spanish compass rose.
func Compass(deg float64) string {
	return compassPoints[int(math.Round(deg/45))%8]
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
