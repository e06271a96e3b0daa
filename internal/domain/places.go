package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PlaceTarget описывает, в какой таблице и по какому значению искать
// точки интереса заданной категории.
type PlaceTarget struct {
	Table  string
	Column string
	Value  string
}

// PlaceCategories — маппинг категорий мест на таблицы POI.
// Таблицы leisure/shop/amenity загружаются из OSM-выгрузки.
var PlaceCategories = map[string]PlaceTarget{
	"gym":         {Table: "leisure", Column: "leisure_type", Value: "fitness_centre"},
	"park":        {Table: "leisure", Column: "leisure_type", Value: "park"},
	"supermarket": {Table: "shop", Column: "shop_type", Value: "supermarket"},
	"grocery":     {Table: "shop", Column: "shop_type", Value: "grocery"},
	"library":     {Table: "amenity", Column: "amenity_type", Value: "library"},
	"cafe":        {Table: "amenity", Column: "amenity_type", Value: "cafe"},
}

// ResolvePlaceCategory возвращает цель поиска для категории (без учёта регистра).
func ResolvePlaceCategory(name string) (PlaceTarget, bool) {
	t, ok := PlaceCategories[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

var sqlIdentRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// MustValidatePlaceCategories проверяет маппинг категорий при старте процесса.
// Имена таблиц и колонок подставляются в SQL как идентификаторы, поэтому
// некорректная запись — ошибка программирования, а не рантайма.
func MustValidatePlaceCategories() {
	for name, t := range PlaceCategories {
		if !sqlIdentRe.MatchString(t.Table) || !sqlIdentRe.MatchString(t.Column) {
			panic(fmt.Sprintf("domain: malformed place category mapping %q: %+v", name, t))
		}
		if t.Value == "" {
			panic(fmt.Sprintf("domain: place category %q has empty value", name))
		}
	}
}

// NearbyPlace — точка интереса рядом с объявлением.
type NearbyPlace struct {
	Category string
	Name     *string
	Point    Point
	// DistanceM — расстояние до объявления в метрах
	DistanceM float64
}

// CrimeStats — агрегат по преступлениям вокруг точки за окно времени.
// Отдельные события наружу не отдаются.
type CrimeStats struct {
	Total int64
	// TopCategory — самая частая категория, nil если событий нет
	TopCategory *string
	RadiusM     float64
	Since       time.Time
}
