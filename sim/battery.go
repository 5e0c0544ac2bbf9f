package sim

import "fmt"

// BatteryStatus is the lifecycle state of a Battery.
type BatteryStatus string

const (
	BatteryAvailable BatteryStatus = "AVAILABLE"
	BatteryCharging  BatteryStatus = "CHARGING"
	BatteryCooling   BatteryStatus = "COOLING"
	BatteryDepleted  BatteryStatus = "DEPLETED"
	BatteryInSwap    BatteryStatus = "IN_SWAP"
)

// BatteryConfig holds the immutable per-battery defaults for a station.
type BatteryConfig struct {
	CapacityKWh float64 // > 0
	MinSwapSoC  float64 // typically 95
}

// DefaultBatteryConfig returns typical battery parameters for a two-wheeler
// swap station.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{CapacityKWh: 5.0, MinSwapSoC: 95}
}

// Validate checks BatteryConfig's invariants.
func (c BatteryConfig) Validate() error {
	if c.CapacityKWh <= 0 {
		return invalidConfig("battery_config.capacity_kwh", "must be > 0")
	}
	return nil
}

// Battery is a single battery unit owned exclusively by one Station. It is
// mutated only by its owning station's swap handler and charging loop
// continuations.
type Battery struct {
	ID          string
	SoC         float64 // 0-100
	CapacityKWh float64
	MinSwapSoC  float64
	CycleCount  int
	Health      float64 // 0-1
	Status      BatteryStatus
}

// NewBattery creates a Battery with the given id, config and initial state.
func NewBattery(id string, cfg BatteryConfig, soc float64, status BatteryStatus) *Battery {
	return &Battery{
		ID:          id,
		SoC:         soc,
		CapacityKWh: cfg.CapacityKWh,
		MinSwapSoC:  cfg.MinSwapSoC,
		Health:      1.0,
		Status:      status,
	}
}

// IsSwappable reports whether the battery can be handed to an arriving
// vehicle: AVAILABLE and charged to at least MinSwapSoC.
func (b *Battery) IsSwappable() bool {
	return b.Status == BatteryAvailable && b.SoC >= b.MinSwapSoC
}

// CheckInvariants validates SoC range and a non-negative cycle count. It
// does not check container exclusivity, which is a property of the Station
// that holds the battery, not of the Battery value itself.
func (b *Battery) CheckInvariants() error {
	if b.SoC < 0 || b.SoC > 100 {
		return invariantViolation("battery %s soc %.2f out of [0,100]", b.ID, b.SoC)
	}
	if b.CycleCount < 0 {
		return invariantViolation("battery %s cycle_count %d is negative", b.ID, b.CycleCount)
	}
	return nil
}

// checkInvariantsOrPanic calls CheckInvariants and panics with an
// InternalInvariantError if it fails. Every state-transition method below
// calls this as its last step, so a broken invariant surfaces at the
// transition that caused it rather than silently propagating.
func (b *Battery) checkInvariantsOrPanic() {
	if err := b.CheckInvariants(); err != nil {
		panic(err)
	}
}

// Claim transitions an AVAILABLE battery to IN_SWAP when a vehicle takes it.
func (b *Battery) Claim() {
	b.Status = BatteryInSwap
	b.checkInvariantsOrPanic()
}

// Deplete transitions an IN_SWAP battery to DEPLETED at swap completion:
// SoC drops to 20 and the cycle count increments.
func (b *Battery) Deplete() {
	b.SoC = 20
	b.CycleCount++
	b.Status = BatteryDepleted
	b.checkInvariantsOrPanic()
}

// EnterCharger transitions a DEPLETED battery into the charging pipeline:
// COOLING if the station has a nonzero cooldown, else straight to CHARGING.
func (b *Battery) EnterCharger(cooldownSeconds int64) {
	if cooldownSeconds > 0 {
		b.Status = BatteryCooling
	} else {
		b.Status = BatteryCharging
	}
	b.checkInvariantsOrPanic()
}

// EndCooldown transitions a COOLING battery to CHARGING.
func (b *Battery) EndCooldown() {
	b.Status = BatteryCharging
	b.checkInvariantsOrPanic()
}

// CompleteCharge transitions a CHARGING battery back to AVAILABLE at 100%
// SoC.
func (b *Battery) CompleteCharge() {
	b.SoC = 100
	b.Status = BatteryAvailable
	b.checkInvariantsOrPanic()
}

// String implements fmt.Stringer for debug logging.
func (b *Battery) String() string {
	return fmt.Sprintf("Battery{%s soc=%.1f status=%s cycles=%d}", b.ID, b.SoC, b.Status, b.CycleCount)
}
