package award

import "math"

// MilesFromPoints converts a card point balance to partner miles.
func MilesFromPoints(points int64, multiplier float64) int64 {
	return int64(math.Floor(float64(points) * multiplier))
}

// PointsFromMiles converts partner miles back to card points. A zero or
// negative multiplier returns miles unchanged.
func PointsFromMiles(miles float64, multiplier float64) int64 {
	if multiplier > 0 {
		return int64(math.Ceil(miles / multiplier))
	}
	return int64(miles)
}
