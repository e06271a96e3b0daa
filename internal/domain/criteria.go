package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultSearchRadiusM — радиус поиска по умолчанию, метры.
	DefaultSearchRadiusM = 10000
	// PlaceMicroRadiusM — фиксированный микро-радиус проверки "место рядом".
	PlaceMicroRadiusM = 200
	// MaxPriceSentinel — верхняя граница цены "без ограничения".
	MaxPriceSentinel = 999999
)

// CriteriaErrorKind — вид ошибки валидации критериев поиска.
type CriteriaErrorKind string

const (
	InvalidRange    CriteriaErrorKind = "invalid_range"
	InvalidEnum     CriteriaErrorKind = "invalid_enum"
	UnknownCategory CriteriaErrorKind = "unknown_category"
	UnknownAmenity  CriteriaErrorKind = "unknown_amenity"
	MissingLocation CriteriaErrorKind = "missing_location"
)

// CriteriaError — отказ нормализатора с указанием поля.
// Возвращается до выполнения каких-либо запросов к хранилищу.
type CriteriaError struct {
	Field  string
	Kind   CriteriaErrorKind
	Detail string
}

func (e *CriteriaError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("criteria %s: %s: %s", e.Field, e.Kind, e.Detail)
	}
	return fmt.Sprintf("criteria %s: %s", e.Field, e.Kind)
}

// SearchParams — сырые параметры поиска из запроса клиента.
// Пустая строка означает отсутствие параметра.
type SearchParams struct {
	Region    string
	Latitude  string
	Longitude string
	MinRating string
	MinPrice  string
	MaxPrice  string
	Distance  string
	RoomType  string
	Places    []string
	Amenities []string
	Page      string
	PageSize  string
	// IncludeFitScore — посчитать fit score по точке поиска
	IncludeFitScore string
}

// SearchMode — режим геопривязки поиска.
type SearchMode string

const (
	// SearchModePoint — точка + радиус; fallback не применяется.
	SearchModePoint SearchMode = "point"
	// SearchModeRegion — поиск по региону; допускает region-only fallback.
	SearchModeRegion SearchMode = "region"
)

// SearchCriteria — нормализованный дескриптор поискового запроса.
// Создаётся NormalizeCriteria, потребляется движком фильтрации и отбрасывается.
type SearchCriteria struct {
	Mode      SearchMode
	Region    string
	Point     Point
	RadiusM   float64
	MinRating float64
	MinPrice  float64
	MaxPrice  float64
	RoomType  RoomType
	// Places — категории мест, каждая обязана найтись в 200 м от объявления
	Places []string
	// Amenities — обязательные флаги удобств
	Amenities       []string
	Pager           *Pager
	IncludeFitScore bool
}

// NormalizeCriteria валидирует и канонизирует сырые параметры поиска.
// Чистая функция: либо типизированные критерии, либо CriteriaError.
func NormalizeCriteria(p SearchParams) (SearchCriteria, error) {
	c := SearchCriteria{
		RadiusM:  DefaultSearchRadiusM,
		MaxPrice: MaxPriceSentinel,
		RoomType: RoomTypeAny,
	}

	if p.MinRating != "" {
		v, err := strconv.ParseFloat(p.MinRating, 64)
		if err != nil || v < 0 || v > 5 {
			return SearchCriteria{}, &CriteriaError{Field: "min_rating", Kind: InvalidRange, Detail: "must be between 0 and 5"}
		}
		c.MinRating = v
	}

	if p.MinPrice != "" {
		v, err := strconv.ParseFloat(p.MinPrice, 64)
		if err != nil || v < 0 {
			return SearchCriteria{}, &CriteriaError{Field: "min_price", Kind: InvalidRange, Detail: "must be non-negative"}
		}
		c.MinPrice = v
	}
	if p.MaxPrice != "" {
		v, err := strconv.ParseFloat(p.MaxPrice, 64)
		if err != nil || v <= 0 {
			return SearchCriteria{}, &CriteriaError{Field: "max_price", Kind: InvalidRange, Detail: "must be positive"}
		}
		c.MaxPrice = v
	}
	if c.MaxPrice < c.MinPrice {
		return SearchCriteria{}, &CriteriaError{Field: "max_price", Kind: InvalidRange, Detail: "must be >= min_price"}
	}

	if p.Distance != "" {
		v, err := strconv.ParseFloat(p.Distance, 64)
		if err != nil || v <= 0 {
			return SearchCriteria{}, &CriteriaError{Field: "distance", Kind: InvalidRange, Detail: "must be positive"}
		}
		c.RadiusM = v
	}

	if p.RoomType != "" {
		rt, ok := ParseRoomType(p.RoomType)
		if !ok {
			return SearchCriteria{}, &CriteriaError{Field: "room_type", Kind: InvalidEnum, Detail: p.RoomType}
		}
		c.RoomType = rt
	}

	for _, place := range p.Places {
		name := strings.ToLower(strings.TrimSpace(place))
		if name == "" {
			continue
		}
		if _, ok := ResolvePlaceCategory(name); !ok {
			return SearchCriteria{}, &CriteriaError{Field: "places", Kind: UnknownCategory, Detail: place}
		}
		if !containsString(c.Places, name) {
			c.Places = append(c.Places, name)
		}
	}

	for _, amenity := range p.Amenities {
		name := strings.ToLower(strings.TrimSpace(amenity))
		if name == "" {
			continue
		}
		if _, ok := AmenityColumn(name); !ok {
			return SearchCriteria{}, &CriteriaError{Field: "amenities", Kind: UnknownAmenity, Detail: amenity}
		}
		if !containsString(c.Amenities, name) {
			c.Amenities = append(c.Amenities, name)
		}
	}

	// Геопривязка: точка имеет приоритет над регионом.
	switch {
	case p.Latitude != "" || p.Longitude != "":
		lat, latErr := strconv.ParseFloat(p.Latitude, 64)
		lng, lngErr := strconv.ParseFloat(p.Longitude, 64)
		if latErr != nil || lngErr != nil {
			return SearchCriteria{}, &CriteriaError{Field: "latitude", Kind: MissingLocation, Detail: "latitude and longitude must be numeric"}
		}
		pt := Point{Latitude: lat, Longitude: lng}
		if !pt.Valid() {
			return SearchCriteria{}, &CriteriaError{Field: "latitude", Kind: MissingLocation, Detail: "coordinates out of range"}
		}
		c.Mode = SearchModePoint
		c.Point = pt
	case strings.TrimSpace(p.Region) != "":
		c.Mode = SearchModeRegion
		c.Region = strings.TrimSpace(p.Region)
	default:
		return SearchCriteria{}, &CriteriaError{Field: "location", Kind: MissingLocation, Detail: "either latitude/longitude or region is required"}
	}

	page := parsePositiveInt(p.Page, 1)
	pageSize := parsePositiveInt(p.PageSize, DefaultPageSize)
	c.Pager = NewPager(int32(page), int32(pageSize))

	c.IncludeFitScore = p.IncludeFitScore == "true" || p.IncludeFitScore == "1"

	return c, nil
}

// parsePositiveInt приводит строку к положительному int, иначе default.
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
