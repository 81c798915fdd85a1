package models

// Coord is a WGS84 coordinate pair. All distance math in the codebase works
// in meters; kilometre values only appear at API boundaries.
type Coord struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Valid reports whether the coordinate is usable for distance filtering.
// The zero pair is treated as "no coordinate recorded", matching the mobile
// client which omits coords entirely when the GPS fix is missing.
func (c Coord) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
