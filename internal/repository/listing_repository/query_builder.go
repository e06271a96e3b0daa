package listing_repository

import (
	"fmt"
	"strings"

	"roomscout/internal/domain"
)

// listingColumns — колонки, отдаваемые в выдачу поиска.
const listingColumns = `
		l.id, l.name, l.description, l.price_per_month, l.room_type,
		l.bedrooms, l.beds, l.latitude, l.longitude, l.picture_url,
		rs.review_scores_rating AS rating`

// searchOrderBy — детерминированный порядок выдачи: рейтинг по убыванию,
// объявления без рейтинга в конце, тай-брейк по id для воспроизводимой
// пагинации.
const searchOrderBy = "\nORDER BY rating DESC NULLS LAST, id ASC"

// searchQuery — пара запросов для одного поиска: счётчик полного
// eligible-набора и окно страницы. countArgs — префикс pageArgs.
type searchQuery struct {
	countSQL  string
	pageSQL   string
	countArgs []any
	pageArgs  []any
}

// buildSearchQuery — единственная точка трансляции критериев в SQL.
// Все пользовательские значения уходят позиционными параметрами,
// в текст запроса подставляются только проверенные при старте
// идентификаторы из маппинга категорий.
func buildSearchQuery(c domain.SearchCriteria) searchQuery {
	var (
		preds  []string
		args   []any
		argNum = 1
	)

	next := func(v any) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argNum)
		argNum++
		return p
	}

	// Геопривязка: точка+радиус либо регион.
	if c.Mode == domain.SearchModePoint {
		preds = append(preds, fmt.Sprintf(
			"ST_DWithin(%s, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
			listingGeog, next(c.Point.Longitude), next(c.Point.Latitude), next(c.RadiusM)))
	} else {
		preds = append(preds, "l.region ILIKE "+next(c.Region))
	}

	// Нулевой порог рейтинга не порождает предикат: объявления без отзывов
	// проходят. Любой порог > 0 отсекает NULL-рейтинг.
	if c.MinRating > 0 {
		preds = append(preds, "rs.review_scores_rating >= "+next(c.MinRating))
	}

	preds = append(preds, "l.price_per_month >= "+next(c.MinPrice))
	preds = append(preds, "l.price_per_month <= "+next(c.MaxPrice))

	if c.RoomType != domain.RoomTypeAny {
		preds = append(preds, "l.room_type = "+next(c.RoomType.DBValue()))
	}

	joinAmenities := len(c.Amenities) > 0
	for _, amenity := range c.Amenities {
		col, ok := domain.AmenityColumn(amenity)
		if !ok {
			// Нормализатор такого не пропускает.
			panic(fmt.Sprintf("listing_repository: unknown amenity %q", amenity))
		}
		preds = append(preds, "a."+col)
	}

	var b strings.Builder
	b.WriteString("WITH ")

	// CTE на каждую запрошенную категорию мест + объединение.
	for i, place := range c.Places {
		target, ok := domain.ResolvePlaceCategory(place)
		if !ok {
			panic(fmt.Sprintf("listing_repository: unknown place category %q", place))
		}
		fmt.Fprintf(&b, "place_%d AS (\n", i)
		fmt.Fprintf(&b, "\tSELECT latitude, longitude, %s AS category\n", next(place))
		fmt.Fprintf(&b, "\tFROM %s WHERE %s = %s\n),\n", target.Table, target.Column, next(target.Value))
	}

	b.WriteString("eligible AS (\n\tSELECT")
	b.WriteString(listingColumns)
	b.WriteString("\n\tFROM airbnb_listings l\n")
	if joinAmenities {
		b.WriteString("\tJOIN airbnb_amenities a ON a.listing_id = l.id\n")
	}
	b.WriteString("\tLEFT JOIN airbnb_review_summary rs ON rs.listing_id = l.id\n")
	b.WriteString("\tWHERE " + strings.Join(preds, "\n\t\tAND ") + "\n)")

	if len(c.Places) > 0 {
		unions := make([]string, 0, len(c.Places))
		for i := range c.Places {
			unions = append(unions, fmt.Sprintf("SELECT latitude, longitude, category FROM place_%d", i))
		}
		b.WriteString(",\nmatched AS (\n\tSELECT e.id\n\tFROM eligible e\n\tJOIN (")
		b.WriteString(strings.Join(unions, " UNION ALL "))
		fmt.Fprintf(&b,
			") p\n\t\tON ST_DWithin(ST_SetSRID(ST_MakePoint(e.longitude, e.latitude), 4326)::geography, "+
				"ST_SetSRID(ST_MakePoint(p.longitude, p.latitude), 4326)::geography, %s)\n",
			next(float64(domain.PlaceMicroRadiusM)))
		// Каждая запрошенная категория обязана найтись: частичное покрытие
		// дисквалифицирует объявление.
		fmt.Fprintf(&b, "\tGROUP BY e.id\n\tHAVING COUNT(DISTINCT p.category) = %s\n)", next(len(c.Places)))
	}

	from := "\nFROM eligible e"
	if len(c.Places) > 0 {
		from += "\nJOIN matched m ON m.id = e.id"
	}

	countSQL := b.String() + "\nSELECT COUNT(*)" + from
	countArgs := append([]any{}, args...)

	pageSQL := b.String() + "\nSELECT e.*" + from + searchOrderBy +
		fmt.Sprintf("\nLIMIT %s OFFSET %s", next(c.Pager.Limit()), next(c.Pager.Offset()))

	return searchQuery{
		countSQL:  countSQL,
		pageSQL:   pageSQL,
		countArgs: countArgs,
		pageArgs:  args,
	}
}

// listingGeog — географическая точка объявления для метровых предикатов.
const listingGeog = "ST_SetSRID(ST_MakePoint(l.longitude, l.latitude), 4326)::geography"

// buildRecommendQuery — запрос рекомендаций: фиксированный набор удобств,
// супермаркет в 1000 м, ограничение по типу размещения из профиля и
// обязательное наличие отзывов.
func buildRecommendQuery(anchor domain.Point, radiusM float64, roomTypes []domain.RoomType, pager *domain.Pager) searchQuery {
	var (
		args   []any
		argNum = 1
	)
	next := func(v any) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argNum)
		argNum++
		return p
	}

	preds := []string{
		fmt.Sprintf("ST_DWithin(%s, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
			listingGeog, next(anchor.Longitude), next(anchor.Latitude), next(radiusM)),
		"a.has_wifi", "a.has_kitchen", "a.has_washer",
		"a.has_air_conditioning", "a.has_parking",
		"rs.number_of_reviews > 0",
	}

	if len(roomTypes) > 0 {
		ph := make([]string, 0, len(roomTypes))
		for _, rt := range roomTypes {
			ph = append(ph, next(rt.DBValue()))
		}
		preds = append(preds, "l.room_type IN ("+strings.Join(ph, ", ")+")")
	}

	// Существование супермаркета в 1000 м — обязательное условие.
	target, ok := domain.ResolvePlaceCategory("supermarket")
	if !ok {
		panic("listing_repository: supermarket category missing from place mapping")
	}
	preds = append(preds, fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s s WHERE s.%s = %s AND ST_DWithin(%s, "+
			"ST_SetSRID(ST_MakePoint(s.longitude, s.latitude), 4326)::geography, %s))",
		target.Table, target.Column, next(target.Value), listingGeog, next(1000.0)))

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(listingColumns)
	b.WriteString("\nFROM airbnb_listings l\n")
	b.WriteString("JOIN airbnb_amenities a ON a.listing_id = l.id\n")
	b.WriteString("JOIN airbnb_review_summary rs ON rs.listing_id = l.id\n")
	b.WriteString("WHERE " + strings.Join(preds, "\n\tAND "))

	countSQL := "SELECT COUNT(*)\nFROM airbnb_listings l\n" +
		"JOIN airbnb_amenities a ON a.listing_id = l.id\n" +
		"JOIN airbnb_review_summary rs ON rs.listing_id = l.id\n" +
		"WHERE " + strings.Join(preds, "\n\tAND ")
	countArgs := append([]any{}, args...)

	pageSQL := b.String() + searchOrderBy +
		fmt.Sprintf("\nLIMIT %s OFFSET %s", next(pager.Limit()), next(pager.Offset()))

	return searchQuery{
		countSQL:  countSQL,
		pageSQL:   pageSQL,
		countArgs: countArgs,
		pageArgs:  args,
	}
}
