package domain

import "math"

const (
	// FitListingsRadiusM — радиус сбора объявлений вокруг якорной точки.
	FitListingsRadiusM = 1000
	// FitCrimeRadiusM — радиус подсчёта преступлений вокруг якорной точки.
	FitCrimeRadiusM = 2000
	// FitCrimeCap — кол-во событий, при котором crime-подскор обнуляется.
	FitCrimeCap = 500

	// DefaultMinBudget / DefaultMaxBudget — вилка по умолчанию для
	// пользователей без сохранённого профиля.
	DefaultMinBudget = 500.0
	DefaultMaxBudget = 3000.0
)

// FitWeights — веса составляющих fit score (сумма должна быть ~1.0).
type FitWeights struct {
	Price  float64
	Crime  float64
	Review float64
}

// DefaultFitWeights возвращает веса по умолчанию.
func DefaultFitWeights() FitWeights {
	return FitWeights{
		Price:  0.45,
		Crime:  0.35,
		Review: 0.20,
	}
}

// FitScore — итоговая оценка пригодности района, 0-1.
type FitScore struct {
	Score       float64
	Label       string
	PriceScore  float64
	ReviewScore float64
	CrimeScore  float64
	// SampledListings — сколько объявлений с отзывами попало в выборку.
	// 0 означает пустой район: price/review подскоры тогда равны 0.
	SampledListings int
	CrimeCount      int64
}

// PriceFitScore — подскор соответствия цены бюджетной вилке.
func PriceFitScore(price, minBudget, maxBudget float64) float64 {
	switch {
	case price >= minBudget && price <= maxBudget:
		return 1.0
	case price < minBudget:
		return 0.8
	default:
		return 0.4
	}
}

// CrimeScore — линейно затухающий подскор по плотности преступлений.
// Никогда не уходит в минус.
func CrimeScore(count int64) float64 {
	s := 1.0 - float64(count)/FitCrimeCap
	if s < 0 {
		return 0
	}
	return s
}

// CompositeFitScore — взвешенная сумма подскоров, округлённая до 2 знаков.
func CompositeFitScore(w FitWeights, priceScore, crimeScore, reviewScore float64) float64 {
	return Round2(w.Price*priceScore + w.Crime*crimeScore + w.Review*reviewScore)
}

// FitLabel — качественная метка; границы включаются снизу.
func FitLabel(score float64) string {
	switch {
	case score >= 0.80:
		return "Great"
	case score >= 0.60:
		return "Good"
	case score >= 0.40:
		return "Average"
	default:
		return "Not ideal"
	}
}

// Round2 округляет до двух десятичных знаков.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
