package domain

// Point — географическая точка (WGS84).
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid проверяет, что координаты лежат в допустимых пределах.
// Точка (0, 0) считается отсутствующей: в выгрузках так помечают
// записи без геопривязки.
func (p Point) Valid() bool {
	if p.Latitude == 0 && p.Longitude == 0 {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
