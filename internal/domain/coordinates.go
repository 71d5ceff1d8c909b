package domain

// Immutable geographic coordinate in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Return the coordinate as [lat, lon], the order used on the wire.
func (c Coordinate) LatLng() []float64 { return []float64{c.Lat, c.Lon} }

// Return the coordinate as [lon, lat] for GeoJSON-style external APIs.
func (c Coordinate) LngLat() []float64 { return []float64{c.Lon, c.Lat} }
