package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"обычная точка", Point{Latitude: 39.7392, Longitude: -104.9903}, true},
		{"нулевая точка считается отсутствующей", Point{}, false},
		{"широта за пределами", Point{Latitude: 91, Longitude: 10}, false},
		{"долгота за пределами", Point{Latitude: 10, Longitude: -181}, false},
		{"граница диапазона", Point{Latitude: -90, Longitude: 180}, true},
		{"нулевая широта при ненулевой долготе", Point{Latitude: 0, Longitude: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.point.Valid())
		})
	}
}
