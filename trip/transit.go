package trip

import "math"

// Transit describes the leg from one destination to the next.
type Transit struct {
	ToDestinationID string  `json:"toDestinationId"`
	ToName          string  `json:"toName"`
	Mode            string  `json:"mode"`
	DurationMinutes int     `json:"durationMinutes"`
	DistanceKm      float64 `json:"distanceKm"`
}

// TransitEstimator produces the transit descriptor attached to every city
// block except the last. Pluggable so a real routing provider can replace
// the distance heuristic.
type TransitEstimator interface {
	Estimate(from, to Destination) Transit
}

// HaversineEstimator picks a mode and duration from great-circle distance.
type HaversineEstimator struct {
	DriveMaxKm  float64 // drive below this
	TrainMaxKm  float64 // train below this, fly above
	DriveKmh    float64
	TrainKmh    float64
	FlightKmh   float64
	FlightFixed int // boarding/taxi overhead in minutes
}

// DefaultEstimator returns the estimator used when none is configured.
func DefaultEstimator() *HaversineEstimator {
	return &HaversineEstimator{
		DriveMaxKm:  150,
		TrainMaxKm:  700,
		DriveKmh:    70,
		TrainKmh:    160,
		FlightKmh:   750,
		FlightFixed: 120,
	}
}

func (e *HaversineEstimator) Estimate(from, to Destination) Transit {
	km := HaversineKm(from.Place.Lat, from.Place.Lng, to.Place.Lat, to.Place.Lng)

	var mode string
	var minutes float64
	switch {
	case km < e.DriveMaxKm:
		mode = "drive"
		minutes = km / e.DriveKmh * 60
	case km < e.TrainMaxKm:
		mode = "train"
		minutes = km / e.TrainKmh * 60
	default:
		mode = "flight"
		minutes = km/e.FlightKmh*60 + float64(e.FlightFixed)
	}

	return Transit{
		ToDestinationID: to.ID,
		ToName:          to.Place.Name,
		Mode:            mode,
		DurationMinutes: int(math.Round(minutes)),
		DistanceKm:      math.Round(km*10) / 10,
	}
}

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
