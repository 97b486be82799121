package mood

import "moodjournal/backend/internal/model"

// Average returns the mean score of the window rounded half-up to one decimal.
// empty is true when the window holds no entries, in which case avg is 0.
func Average(window []model.MoodEntry) (avg float64, empty bool) {
	if len(window) == 0 {
		return 0, true
	}
	sum := 0
	for _, entry := range window {
		sum += entry.Score
	}
	return RoundHalfUpTenths(sum, len(window)), false
}

// RoundHalfUpTenths computes sum/count rounded half-up to one decimal place.
// Integer arithmetic keeps ties such as 1.15 from drifting the way float rounding does.
func RoundHalfUpTenths(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	num := int64(sum) * 20
	den := int64(count) * 2
	negative := num < 0
	if negative {
		num = -num
	}
	tenths := (num + int64(count)) / den
	if negative {
		tenths = -tenths
	}
	return float64(tenths) / 10
}
