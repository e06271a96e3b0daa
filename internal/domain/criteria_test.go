package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCriteria_FullExample(t *testing.T) {
	params := SearchParams{
		Latitude:  "37.77",
		Longitude: "-122.42",
		MinRating: "4.0",
		MinPrice:  "500",
		MaxPrice:  "2000",
		Distance:  "10000",
		RoomType:  "entire",
		Places:    []string{"gym", "supermarket"},
		Page:      "1",
		PageSize:  "20",
	}

	c, err := NormalizeCriteria(params)
	require.NoError(t, err)

	assert.Equal(t, SearchModePoint, c.Mode)
	assert.Equal(t, Point{Latitude: 37.77, Longitude: -122.42}, c.Point)
	assert.Equal(t, 4.0, c.MinRating)
	assert.Equal(t, 500.0, c.MinPrice)
	assert.Equal(t, 2000.0, c.MaxPrice)
	assert.Equal(t, 10000.0, c.RadiusM)
	assert.Equal(t, RoomTypeEntire, c.RoomType)
	assert.Equal(t, []string{"gym", "supermarket"}, c.Places)
	assert.Equal(t, int32(1), c.Pager.Page())
	assert.Equal(t, int32(20), c.Pager.PageSize())
}

func TestNormalizeCriteria_Defaults(t *testing.T) {
	c, err := NormalizeCriteria(SearchParams{Region: "Denver"})
	require.NoError(t, err)

	assert.Equal(t, SearchModeRegion, c.Mode)
	assert.Equal(t, "Denver", c.Region)
	assert.Equal(t, float64(DefaultSearchRadiusM), c.RadiusM)
	assert.Equal(t, 0.0, c.MinPrice)
	assert.Equal(t, float64(MaxPriceSentinel), c.MaxPrice)
	assert.Equal(t, 0.0, c.MinRating)
	assert.Equal(t, RoomTypeAny, c.RoomType)
	assert.Equal(t, int32(1), c.Pager.Page())
	assert.Equal(t, int32(DefaultPageSize), c.Pager.PageSize())
	assert.False(t, c.IncludeFitScore)
}

func TestNormalizeCriteria_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		field  string
		kind   CriteriaErrorKind
	}{
		{"рейтинг выше шкалы", SearchParams{Region: "Denver", MinRating: "5.5"}, "min_rating", InvalidRange},
		{"рейтинг не число", SearchParams{Region: "Denver", MinRating: "high"}, "min_rating", InvalidRange},
		{"отрицательная минимальная цена", SearchParams{Region: "Denver", MinPrice: "-1"}, "min_price", InvalidRange},
		{"максимум меньше минимума", SearchParams{Region: "Denver", MinPrice: "2000", MaxPrice: "500"}, "max_price", InvalidRange},
		{"нулевая дистанция", SearchParams{Region: "Denver", Distance: "0"}, "distance", InvalidRange},
		{"неизвестный тип размещения", SearchParams{Region: "Denver", RoomType: "castle"}, "room_type", InvalidEnum},
		{"неизвестная категория мест", SearchParams{Region: "Denver", Places: []string{"volcano"}}, "places", UnknownCategory},
		{"неизвестное удобство", SearchParams{Region: "Denver", Amenities: []string{"pool"}}, "amenities", UnknownAmenity},
		{"нет геопривязки", SearchParams{}, "location", MissingLocation},
		{"широта без долготы", SearchParams{Latitude: "39.7"}, "latitude", MissingLocation},
		{"координаты вне диапазона", SearchParams{Latitude: "95", Longitude: "10"}, "latitude", MissingLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeCriteria(tt.params)
			require.Error(t, err)

			var ce *CriteriaError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
			assert.Equal(t, tt.kind, ce.Kind)
		})
	}
}

func TestNormalizeCriteria_PointWinsOverRegion(t *testing.T) {
	c, err := NormalizeCriteria(SearchParams{
		Region:    "Denver",
		Latitude:  "39.7392",
		Longitude: "-104.9903",
	})
	require.NoError(t, err)

	assert.Equal(t, SearchModePoint, c.Mode)
	assert.Empty(t, c.Region)
}

func TestNormalizeCriteria_DeduplicatesAndCanonicalizes(t *testing.T) {
	c, err := NormalizeCriteria(SearchParams{
		Region:    "Denver",
		Places:    []string{"Gym", " gym ", "PARK", ""},
		Amenities: []string{"WiFi", "wifi", " kitchen"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"gym", "park"}, c.Places)
	assert.Equal(t, []string{"wifi", "kitchen"}, c.Amenities)
}

func TestNormalizeCriteria_PagerOutOfBounds(t *testing.T) {
	c, err := NormalizeCriteria(SearchParams{
		Region:   "Denver",
		Page:     "-5",
		PageSize: "1000",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), c.Pager.Page())
	assert.Equal(t, int32(MaxPageSize), c.Pager.PageSize())
}

func TestNormalizeCriteria_IncludeFitScore(t *testing.T) {
	for _, raw := range []string{"true", "1"} {
		c, err := NormalizeCriteria(SearchParams{Region: "Denver", IncludeFitScore: raw})
		require.NoError(t, err)
		assert.True(t, c.IncludeFitScore)
	}

	c, err := NormalizeCriteria(SearchParams{Region: "Denver", IncludeFitScore: "yes"})
	require.NoError(t, err)
	assert.False(t, c.IncludeFitScore)
}
