package sim

import "math"

// chargeBreakpointSoC is the fast/slow segment boundary.
const chargeBreakpointSoC = 80.0

// slowSegmentPowerFactor is the slow-segment power derating.
const slowSegmentPowerFactor = 0.5

// ChargeTimeSeconds computes the two-segment piecewise-linear charge time
// for a battery at s0 percent SoC with the given capacity and charger
// power. The breakpoint is fixed at 80%: the fast segment runs from s0 up
// to min(80,100), the slow segment from max(s0,80) to 100, at half the
// charger's rated power.
func ChargeTimeSeconds(s0, capacityKWh, chargePowerKW float64) float64 {
	fastTarget := math.Min(chargeBreakpointSoC, 100)
	var eFast float64
	if s0 < fastTarget {
		eFast = (fastTarget - s0) / 100 * capacityKWh
	}
	slowStart := math.Max(s0, chargeBreakpointSoC)
	var eSlow float64
	if slowStart < 100 {
		eSlow = (100 - slowStart) / 100 * capacityKWh
	}
	tFast := eFast / chargePowerKW * 3600
	tSlow := eSlow / (chargePowerKW * slowSegmentPowerFactor) * 3600
	return tFast + tSlow
}

// EnergyUsedKWh computes the energy-consumed KPI for a completed charge
// session. It is deliberately decoupled from ChargeTimeSeconds's SoC→100%
// jump — efficiencyFactor (typically 0.75) averages in the tapered tail
// rather than modeling it directly.
func EnergyUsedKWh(chargePowerKW, durationSeconds, efficiencyFactor float64) float64 {
	return chargePowerKW * efficiencyFactor * (durationSeconds / 3600)
}
