package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeTimeSeconds_FullRangeSplitsAtBreakpoint(t *testing.T) {
	// GIVEN a depleted 5kWh battery on a 3kW charger
	// WHEN charging from 20% to 100%
	got := ChargeTimeSeconds(20, 5, 3)

	// THEN the fast segment (20->80, 60% of 5kWh at 3kW) plus the slow
	// segment (80->100, 20% of 5kWh at 1.5kW) sum to the total time
	fastHours := (0.60 * 5) / 3
	slowHours := (0.20 * 5) / 1.5
	want := (fastHours + slowHours) * 3600
	assert.InDelta(t, want, got, 1e-6)
}

func TestChargeTimeSeconds_AboveBreakpoint_OnlySlowSegment(t *testing.T) {
	got := ChargeTimeSeconds(90, 5, 3)
	want := ((100 - 90) / 100 * 5) / (3 * 0.5) * 3600
	assert.InDelta(t, want, got, 1e-6)
}

func TestChargeTimeSeconds_AlreadyFull_ReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, ChargeTimeSeconds(100, 5, 3))
}

func TestEnergyUsedKWh_DecoupledFromChargeTime(t *testing.T) {
	// Energy accounting is a flat rate-times-duration formula, independent
	// of where the fast/slow breakpoint falls.
	got := EnergyUsedKWh(3, 3600, 0.75)
	assert.InDelta(t, 2.25, got, 1e-9)
}
