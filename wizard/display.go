package wizard

import (
	"fmt"
	"math"
)

// neutralRating is shown for doctors with no reviews yet, so the star
// widget renders something sensible instead of an empty row.
const neutralRating = 2.5

// FeeLabel formats a consultation fee for display. A nil or zero fee is a
// volunteer consultation and renders as "free" in the given language,
// never as a malformed "null" amount.
func FeeLabel(fee *float64, lang string) string {
	if fee == nil || *fee == 0 {
		if lang == "ar" {
			return "مجاني"
		}
		return "Free"
	}
	if lang == "ar" {
		return fmt.Sprintf("%.2f ج.س", *fee)
	}
	return fmt.Sprintf("%.2f SDG", *fee)
}

// StarRating maps a raw aggregate rating onto the half-star scale used by
// the star widget: clamped to [0, 5], rounded to the nearest 0.5, with
// unrated doctors shown at the neutral midpoint.
func StarRating(rating float64) float64 {
	if rating <= 0 {
		return neutralRating
	}
	if rating > 5 {
		rating = 5
	}
	return math.Round(rating*2) / 2
}

// Stars breaks a rating into full, half and empty star counts.
func Stars(rating float64) (full int, half bool, empty int) {
	r := StarRating(rating)
	full = int(r)
	half = r-float64(full) >= 0.5
	empty = 5 - full
	if half {
		empty--
	}
	return full, half, empty
}
