package sim

import "fmt"

// DemandCurve maps a simulated hour-of-day to an arrival rate in
// arrivals/hour. Base is always exactly 24 entries, one per hour;
// Multiplier holds sparse hour -> multiplicative-override pairs applied on
// top of Base.
type DemandCurve struct {
	Base       [24]float64
	Multiplier map[int]float64
}

// NewFlatDemandCurve returns a DemandCurve with every hour at ratePerHour
// and no overrides.
func NewFlatDemandCurve(ratePerHour float64) DemandCurve {
	dc := DemandCurve{Multiplier: map[int]float64{}}
	for h := range dc.Base {
		dc.Base[h] = ratePerHour
	}
	return dc
}

// Rate returns rate(h) = base[h mod 24] * multiplier.get(h, 1.0).
// h may be any simulated hour (not limited to 0-23); it is reduced mod 24.
func (d DemandCurve) Rate(h int) float64 {
	idx := ((h % 24) + 24) % 24
	rate := d.Base[idx]
	if mul, ok := d.Multiplier[h]; ok {
		rate *= mul
	}
	return rate
}

// Validate checks that no base rate is negative. DemandCurve itself never
// rejects a negative multiplier: a multiplier is scenario-controlled, and
// Rate() applies it as-is without judging it.
func (d DemandCurve) Validate() error {
	for h, r := range d.Base {
		if r < 0 {
			return invalidConfig("demand_curve.base", fmt.Sprintf("rate at hour %d is negative: %g", h, r))
		}
	}
	return nil
}
