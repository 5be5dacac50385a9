package settlement

import "math"

// ToTotalKgs collapses a tons+kgs paired input into a single
// kilogram-denominated value for persistence.
func ToTotalKgs(tons, kgs float64) float64 {
	return sanitize(tons)*1000 + sanitize(kgs)
}

// FromTotalKgs splits a persisted kilogram value back into tons and kgs for
// display. ok is false for negative or non-finite input, in which case the
// caller should render empty fields.
func FromTotalKgs(totalKgs float64) (tons, kgs float64, ok bool) {
	if math.IsNaN(totalKgs) || math.IsInf(totalKgs, 0) || totalKgs < 0 {
		return 0, 0, false
	}
	tons = math.Floor(totalKgs / 1000)
	kgs = math.Round(math.Mod(totalKgs, 1000))
	// Rounding the remainder can carry into the next ton.
	if kgs >= 1000 {
		tons++
		kgs -= 1000
	}
	return tons, kgs, true
}
