package domain

// Listing — доменная сущность объявления. Источник данных внешний,
// в рамках сервиса объявления только читаются.
type Listing struct {
	ID            int64
	Name          string
	Description   string
	PricePerMonth float64
	RoomType      RoomType
	Bedrooms      *int32
	Beds          *int32
	Point         Point
	Region        string
	PictureURL    string
	// Rating — агрегированный рейтинг отзывов (0-5), nil если отзывов нет
	Rating *float64
}

// ListingSummary — краткое представление объявления для выдачи поиска.
type ListingSummary struct {
	ID            int64
	Name          string
	Description   string
	PricePerMonth float64
	RoomType      RoomType
	Bedrooms      *int32
	Beds          *int32
	Point         Point
	PictureURL    string
	Rating        *float64
}

// RoomType — тип размещения.
type RoomType string

const (
	RoomTypeAny     RoomType = ""
	RoomTypePrivate RoomType = "private"
	RoomTypeShared  RoomType = "shared"
	RoomTypeEntire  RoomType = "entire"
)

func (t RoomType) String() string {
	return string(t)
}

// DBValue возвращает значение, под которым тип хранится в таблице объявлений.
func (t RoomType) DBValue() string {
	switch t {
	case RoomTypePrivate:
		return "Private room"
	case RoomTypeShared:
		return "Shared room"
	case RoomTypeEntire:
		return "Entire home/apt"
	default:
		return ""
	}
}

// RoomTypeFromDB восстанавливает RoomType из значения в БД.
func RoomTypeFromDB(v string) RoomType {
	switch v {
	case "Private room":
		return RoomTypePrivate
	case "Shared room":
		return RoomTypeShared
	case "Entire home/apt":
		return RoomTypeEntire
	default:
		return RoomTypeAny
	}
}

// ParseRoomType разбирает тип размещения из параметра запроса.
func ParseRoomType(v string) (RoomType, bool) {
	switch RoomType(v) {
	case RoomTypeAny, RoomTypePrivate, RoomTypeShared, RoomTypeEntire:
		return RoomType(v), true
	default:
		return RoomTypeAny, false
	}
}

// AmenityFlags — набор булевых удобств объявления (1:1 с объявлением).
type AmenityFlags struct {
	ListingID          int64
	HasWifi            bool
	HasKitchen         bool
	HasAirConditioning bool
	HasParking         bool
	HasWasher          bool
	HasDryer           bool
	HasHeating         bool
	HasTV              bool
}

// KnownAmenities — перечень распознаваемых флагов удобств в порядке,
// в котором они замапплены на колонки таблицы airbnb_amenities.
var KnownAmenities = []string{
	"wifi", "kitchen", "air_conditioning", "parking",
	"washer", "dryer", "heating", "tv",
}

// AmenityColumn возвращает колонку таблицы удобств для флага.
func AmenityColumn(amenity string) (string, bool) {
	switch amenity {
	case "wifi":
		return "has_wifi", true
	case "kitchen":
		return "has_kitchen", true
	case "air_conditioning":
		return "has_air_conditioning", true
	case "parking":
		return "has_parking", true
	case "washer":
		return "has_washer", true
	case "dryer":
		return "has_dryer", true
	case "heating":
		return "has_heating", true
	case "tv":
		return "has_tv", true
	default:
		return "", false
	}
}

// ReviewSummary — агрегат отзывов по объявлению.
type ReviewSummary struct {
	ListingID       int64
	NumberOfReviews int32
	Rating          *float64
}

// ReviewComponents — разбивка рейтинга по составляющим.
type ReviewComponents struct {
	Cleanliness *float64
	Location    *float64
	Value       *float64
}

// RatedListing — минимальная проекция объявления для расчёта fit score:
// цена и рейтинг, без остальных атрибутов.
type RatedListing struct {
	ID            int64
	PricePerMonth float64
	Rating        float64
}
