package httpapi

import (
	"time"

	"github.com/samber/lo"

	"roomscout/internal/domain"
	"roomscout/internal/services/insights"
)

type listingSummaryDTO struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	PricePerMonth float64  `json:"price_per_month"`
	RoomType      string   `json:"room_type"`
	Bedrooms      *int32   `json:"bedrooms"`
	Beds          *int32   `json:"beds"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	PictureURL    string   `json:"picture_url"`
	Rating        *float64 `json:"rating"`
}

func toListingSummaryDTO(l domain.ListingSummary) listingSummaryDTO {
	return listingSummaryDTO{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		PricePerMonth: l.PricePerMonth,
		RoomType:      l.RoomType.String(),
		Bedrooms:      l.Bedrooms,
		Beds:          l.Beds,
		Latitude:      l.Point.Latitude,
		Longitude:     l.Point.Longitude,
		PictureURL:    l.PictureURL,
		Rating:        l.Rating,
	}
}

type paginatedListingsDTO struct {
	Listings   []listingSummaryDTO `json:"listings"`
	Page       int32               `json:"page"`
	PageSize   int32               `json:"page_size"`
	TotalCount int32               `json:"total_count"`
}

func toPaginatedListingsDTO(p *domain.PaginatedResult[domain.ListingSummary]) paginatedListingsDTO {
	return paginatedListingsDTO{
		Listings:   lo.Map(p.Items, func(l domain.ListingSummary, _ int) listingSummaryDTO { return toListingSummaryDTO(l) }),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
	}
}

type fitScoreDTO struct {
	Score           float64 `json:"score"`
	Label           string  `json:"label"`
	PriceScore      float64 `json:"price_score"`
	ReviewScore     float64 `json:"review_score"`
	CrimeScore      float64 `json:"crime_score"`
	SampledListings int     `json:"sampled_listings"`
	CrimeCount      int64   `json:"crime_count"`
}

func toFitScoreDTO(f domain.FitScore) fitScoreDTO {
	return fitScoreDTO{
		Score:           f.Score,
		Label:           f.Label,
		PriceScore:      f.PriceScore,
		ReviewScore:     f.ReviewScore,
		CrimeScore:      f.CrimeScore,
		SampledListings: f.SampledListings,
		CrimeCount:      f.CrimeCount,
	}
}

type searchResponseDTO struct {
	paginatedListingsDTO
	FellBack bool         `json:"fell_back,omitempty"`
	FitScore *fitScoreDTO `json:"fit_score,omitempty"`
}

type amenitiesDTO struct {
	Wifi            bool `json:"wifi"`
	Kitchen         bool `json:"kitchen"`
	AirConditioning bool `json:"air_conditioning"`
	Parking         bool `json:"parking"`
	Washer          bool `json:"washer"`
	Dryer           bool `json:"dryer"`
	Heating         bool `json:"heating"`
	TV              bool `json:"tv"`
}

type reviewComponentsDTO struct {
	Cleanliness *float64 `json:"cleanliness"`
	Location    *float64 `json:"location"`
	Value       *float64 `json:"value"`
}

type reviewsDTO struct {
	NumberOfReviews int32               `json:"number_of_reviews"`
	Rating          *float64            `json:"rating"`
	Components      reviewComponentsDTO `json:"components"`
}

type crimeStatsDTO struct {
	Total       int64     `json:"total"`
	TopCategory *string   `json:"top_category"`
	RadiusM     float64   `json:"radius_m"`
	Since       time.Time `json:"since"`
}

type nearbyPlaceDTO struct {
	Category  string  `json:"category"`
	Name      *string `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DistanceM float64 `json:"distance_m"`
}

type listingDTO struct {
	listingSummaryDTO
	Region string `json:"region"`
}

type insightsDTO struct {
	Listing      listingDTO       `json:"listing"`
	Amenities    amenitiesDTO     `json:"amenities"`
	Reviews      *reviewsDTO      `json:"reviews"`
	CrimeStats   crimeStatsDTO    `json:"crime_stats"`
	NearbyPlaces []nearbyPlaceDTO `json:"nearby_places"`
}

func toInsightsDTO(in *insights.ListingInsights) insightsDTO {
	l := in.Listing
	out := insightsDTO{
		Listing: listingDTO{
			listingSummaryDTO: listingSummaryDTO{
				ID:            l.ID,
				Name:          l.Name,
				Description:   l.Description,
				PricePerMonth: l.PricePerMonth,
				RoomType:      l.RoomType.String(),
				Bedrooms:      l.Bedrooms,
				Beds:          l.Beds,
				Latitude:      l.Point.Latitude,
				Longitude:     l.Point.Longitude,
				PictureURL:    l.PictureURL,
				Rating:        l.Rating,
			},
			Region: l.Region,
		},
		Amenities: amenitiesDTO{
			Wifi:            in.Amenities.HasWifi,
			Kitchen:         in.Amenities.HasKitchen,
			AirConditioning: in.Amenities.HasAirConditioning,
			Parking:         in.Amenities.HasParking,
			Washer:          in.Amenities.HasWasher,
			Dryer:           in.Amenities.HasDryer,
			Heating:         in.Amenities.HasHeating,
			TV:              in.Amenities.HasTV,
		},
		CrimeStats: crimeStatsDTO{
			Total:       in.CrimeStats.Total,
			TopCategory: in.CrimeStats.TopCategory,
			RadiusM:     in.CrimeStats.RadiusM,
			Since:       in.CrimeStats.Since,
		},
		NearbyPlaces: lo.Map(in.NearbyPlaces, func(p domain.NearbyPlace, _ int) nearbyPlaceDTO {
			return nearbyPlaceDTO{
				Category:  p.Category,
				Name:      p.Name,
				Latitude:  p.Point.Latitude,
				Longitude: p.Point.Longitude,
				DistanceM: p.DistanceM,
			}
		}),
	}
	if in.Reviews != nil {
		out.Reviews = &reviewsDTO{
			NumberOfReviews: in.Reviews.NumberOfReviews,
			Rating:          in.Reviews.Rating,
			Components: reviewComponentsDTO{
				Cleanliness: in.Reviews.Components.Cleanliness,
				Location:    in.Reviews.Components.Location,
				Value:       in.Reviews.Components.Value,
			},
		}
	}
	return out
}

type roommateDTO struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type preferencesDTO struct {
	UserID        string   `json:"user_id"`
	MinBudget     *float64 `json:"min_budget"`
	MaxBudget     *float64 `json:"max_budget"`
	WorkZipCode   *string  `json:"work_zip_code"`
	WorkLatitude  *float64 `json:"work_latitude"`
	WorkLongitude *float64 `json:"work_longitude"`

	RoommateStatus     *string `json:"roommate_status"`
	SleepTime          *string `json:"sleep_time"`
	WakeTime           *string `json:"wake_time"`
	Cleanliness        *string `json:"cleanliness"`
	NoiseTolerance     *string `json:"noise_tolerance"`
	GuestFrequency     *string `json:"guest_frequency"`
	SmokingPreference  *string `json:"smoking_preference"`
	DrinkingPreference *string `json:"drinking_preference"`
	PetPreference      *string `json:"pet_preference"`
}

func toPreferencesDTO(p domain.UserPreferences) preferencesDTO {
	dto := preferencesDTO{
		UserID:             p.UserID,
		MinBudget:          p.MinBudget,
		MaxBudget:          p.MaxBudget,
		WorkZipCode:        p.WorkZipCode,
		RoommateStatus:     p.RoommateStatus,
		SleepTime:          p.SleepTime,
		WakeTime:           p.WakeTime,
		Cleanliness:        p.Cleanliness,
		NoiseTolerance:     p.NoiseTolerance,
		GuestFrequency:     p.GuestFrequency,
		SmokingPreference:  p.SmokingPreference,
		DrinkingPreference: p.DrinkingPreference,
		PetPreference:      p.PetPreference,
	}
	if p.WorkPoint != nil {
		dto.WorkLatitude = &p.WorkPoint.Latitude
		dto.WorkLongitude = &p.WorkPoint.Longitude
	}
	return dto
}
