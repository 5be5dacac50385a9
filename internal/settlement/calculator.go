// Package settlement computes the monetary reconciliation of a Goods
// Quality Report: the contractual expectation over a fixed baseline cargo
// versus the measured outcome of weighbridge and segregation, and the
// signed payment differentials between the two.
package settlement

import "math"

// BaselineCargoKgs is the contractual reference tonnage (20 MT) that every
// estimate is computed against, independent of the PO's committed quantity.
const BaselineCargoKgs = 20000.0

// Defaults applied when the PO leaves the field empty.
const (
	DefaultAssuredCargoPercent = 80.0
	DefaultWastageKgsPerTon    = 100.0
)

// Inputs carries every figure the calculator needs. All fields are treated
// as non-negative; negative, NaN or infinite values are coerced to 0 before
// any arithmetic so malformed data can never propagate.
type Inputs struct {
	// Contractual side.
	AssuredCargoPercent float64 // expected export-quality share of baseline, percent
	RatePerKg           float64 // primary cargo rate
	PodiRatePerKg       float64 // byproduct rate; gap items are priced at this rate too
	WastageKgsPerTon    float64 // tolerated spoilage, kg per metric ton

	// Measured side.
	NetWeightKgs     float64 // from the Pre-GR weighbridge record
	ExportQualityKgs float64
	PodiKgs          float64
	GapItemsKgs      float64
	SpoilageKgs      float64 // rot + doubles + sand + weight shortage
}

// Estimated is the contractual expectation over the baseline cargo.
type Estimated struct {
	PodiKgs                  float64 `json:"podi_kgs"`
	PodiValue                float64 `json:"podi_value"`
	TotalCargoValue          float64 `json:"total_cargo_value"`
	TotalCargoAfterPodiKgs   float64 `json:"total_cargo_after_podi_kgs"`
	TotalCargoAfterPodiValue float64 `json:"total_cargo_after_podi_value"`
	TotalCargoAfterPodiRate  float64 `json:"total_cargo_after_podi_rate"`
	WastageKgs               float64 `json:"wastage_kgs"`
	WastageValue             float64 `json:"wastage_value"`
	TotalValue               float64 `json:"total_value"`
}

// Actual is the measured outcome for the delivered cargo.
type Actual struct {
	CargoValue                     float64 `json:"cargo_value"`
	PodiValue                      float64 `json:"podi_value"`
	GapValue                       float64 `json:"gap_value"`
	TotalCargoAfterPodiAndGapKgs   float64 `json:"total_cargo_after_podi_and_gap_kgs"`
	TotalCargoAfterPodiAndGapValue float64 `json:"total_cargo_after_podi_and_gap_value"`
	TotalCargoAfterPodiAndGapRate  float64 `json:"total_cargo_after_podi_and_gap_rate"`
	WastageKgs                     float64 `json:"wastage_kgs"`
	WastagePercent                 float64 `json:"wastage_percent"`
}

// Comparison holds the signed differentials between estimate and actual.
// Positive amounts are owed to the buyer: the actual cargo underperformed
// the contractual expectation.
type Comparison struct {
	RateDiffPerKg  float64 `json:"rate_diff_per_kg"`
	RateDiffPerTon float64 `json:"rate_diff_per_ton"`
	AccountedTons  float64 `json:"accounted_tons"`
	PodiGapPayment float64 `json:"podi_gap_payment"`
	WastageDiffKgs float64 `json:"wastage_diff_kgs"`
	WastagePayment float64 `json:"wastage_payment"`
	TotalPayment   float64 `json:"total_payment"`
}

// Result bundles the three views produced for a GQR.
type Result struct {
	Estimated  Estimated  `json:"estimated"`
	Actual     Actual     `json:"actual"`
	Comparison Comparison `json:"comparison"`
}

// sanitize coerces malformed numeric input to 0.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// safeDiv returns n/d, or 0 when the denominator is zero or negative.
func safeDiv(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return n / d
}

// Round2 rounds to 2 decimals; used for every monetary figure.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimals; used for persisted weight intermediates.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// normalize applies coercion and defaults once so Estimate/Actual/Compare
// all see the same figures.
func (in Inputs) normalize() Inputs {
	in.AssuredCargoPercent = sanitize(in.AssuredCargoPercent)
	if in.AssuredCargoPercent == 0 {
		in.AssuredCargoPercent = DefaultAssuredCargoPercent
	}
	in.RatePerKg = sanitize(in.RatePerKg)
	in.PodiRatePerKg = sanitize(in.PodiRatePerKg)
	in.WastageKgsPerTon = sanitize(in.WastageKgsPerTon)
	if in.WastageKgsPerTon == 0 {
		in.WastageKgsPerTon = DefaultWastageKgsPerTon
	}
	in.NetWeightKgs = sanitize(in.NetWeightKgs)
	in.ExportQualityKgs = sanitize(in.ExportQualityKgs)
	in.PodiKgs = sanitize(in.PodiKgs)
	in.GapItemsKgs = sanitize(in.GapItemsKgs)
	in.SpoilageKgs = sanitize(in.SpoilageKgs)
	return in
}

// Estimate derives the contractual expectation over the 20,000 kg baseline.
func Estimate(in Inputs) Estimated {
	in = in.normalize()

	podiKgs := BaselineCargoKgs * (1 - in.AssuredCargoPercent/100)
	podiValue := podiKgs * in.PodiRatePerKg
	totalCargoValue := BaselineCargoKgs * in.RatePerKg
	afterPodiValue := totalCargoValue - podiValue
	afterPodiKgs := BaselineCargoKgs - podiKgs
	wastageKgs := in.WastageKgsPerTon * BaselineCargoKgs / 1000
	wastageValue := wastageKgs * in.RatePerKg

	return Estimated{
		PodiKgs:                  Round3(podiKgs),
		PodiValue:                Round2(podiValue),
		TotalCargoValue:          Round2(totalCargoValue),
		TotalCargoAfterPodiKgs:   Round3(afterPodiKgs),
		TotalCargoAfterPodiValue: Round2(afterPodiValue),
		TotalCargoAfterPodiRate:  Round2(safeDiv(afterPodiValue, afterPodiKgs)),
		WastageKgs:               Round3(wastageKgs),
		WastageValue:             Round2(wastageValue),
		TotalValue:               Round2(afterPodiValue + wastageValue),
	}
}

// Compute derives the measured outcome for the delivered cargo.
func Compute(in Inputs) Actual {
	in = in.normalize()

	cargoValue := in.NetWeightKgs * in.RatePerKg
	podiValue := in.PodiKgs * in.PodiRatePerKg
	// Gap items are priced at the podi rate by domain convention.
	gapValue := in.GapItemsKgs * in.PodiRatePerKg
	afterKgs := in.NetWeightKgs - in.PodiKgs - in.GapItemsKgs
	afterValue := cargoValue - podiValue - gapValue
	wastageKgs := in.WastageKgsPerTon * in.NetWeightKgs / 1000

	return Actual{
		CargoValue:                     Round2(cargoValue),
		PodiValue:                      Round2(podiValue),
		GapValue:                       Round2(gapValue),
		TotalCargoAfterPodiAndGapKgs:   Round3(afterKgs),
		TotalCargoAfterPodiAndGapValue: Round2(afterValue),
		TotalCargoAfterPodiAndGapRate:  Round2(safeDiv(afterValue, afterKgs)),
		WastageKgs:                     Round3(wastageKgs),
		WastagePercent:                 Round2(safeDiv(wastageKgs, in.NetWeightKgs) * 100),
	}
}

// Calculate produces the full estimated/actual/comparison result.
func Calculate(in Inputs) Result {
	est := Estimate(in)
	act := Compute(in)

	rateDiff := est.TotalCargoAfterPodiRate - act.TotalCargoAfterPodiAndGapRate
	accountedTons := act.TotalCargoAfterPodiAndGapKgs / 1000
	podiGapPayment := Round2(rateDiff * 1000 * accountedTons)

	wastageDiffKgs := est.WastageKgs - act.WastageKgs
	wastagePayment := Round2(wastageDiffKgs * in.normalize().RatePerKg)

	return Result{
		Estimated: est,
		Actual:    act,
		Comparison: Comparison{
			RateDiffPerKg:  Round2(rateDiff),
			RateDiffPerTon: Round2(rateDiff * 1000),
			AccountedTons:  Round3(accountedTons),
			PodiGapPayment: podiGapPayment,
			WastageDiffKgs: Round3(wastageDiffKgs),
			WastagePayment: wastagePayment,
			TotalPayment:   Round2(podiGapPayment + wastagePayment),
		},
	}
}
