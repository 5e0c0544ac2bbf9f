package sim

import "fmt"

// Location is a station's geographic position. Not validated or consumed by
// the engine beyond being carried through to StationConfig — routing
// between stations is out of scope.
type Location struct {
	Lat float64
	Lon float64
}

// Calibration groups tunable model constants that are not station-specific.
// ParkingDelayRangeSeconds is carried on every run but not consumed by any
// operation here: parking delay is not currently enforced anywhere in the
// swap path.
type Calibration struct {
	ParkingDelayRangeSeconds [2]float64
	ChargeEfficiencyFactor   float64 // multiplies charge_power_kw in the energy formula; 0.75 is the reference value
	ArrivalJitterStd         float64 // stddev of the Normal(1, ·) jitter multiplier; 0 disables jitter
}

// DefaultCalibration returns the reference constants used throughout this
// package's examples and tests.
func DefaultCalibration() Calibration {
	return Calibration{
		ParkingDelayRangeSeconds: [2]float64{0, 0},
		ChargeEfficiencyFactor:   0.75,
		ArrivalJitterStd:         0,
	}
}

// Validate checks Calibration's invariants.
func (c Calibration) Validate() error {
	if c.ChargeEfficiencyFactor <= 0 {
		return invalidConfig("calibration.charge_efficiency_factor", "must be > 0")
	}
	if c.ArrivalJitterStd < 0 {
		return invalidConfig("calibration.arrival_jitter_std", "must be >= 0")
	}
	if c.ParkingDelayRangeSeconds[0] > c.ParkingDelayRangeSeconds[1] {
		return invalidConfig("calibration.parking_delay_range_seconds", "min must be <= max")
	}
	return nil
}

// StationConfig is the immutable per-station input.
type StationConfig struct {
	ID               string
	Location         Location
	TotalBatteries   int
	ChargerCount     int
	ChargePowerKW    float64
	SwapTimeSeconds  int64
	CooldownSeconds  int64
	GridPowerLimitKW *float64 // optional
	BatteryConfig    BatteryConfig
}

// Validate checks a single station's invariants.
func (c StationConfig) Validate() error {
	if c.ID == "" {
		return invalidConfig("station.id", "must not be empty")
	}
	if c.TotalBatteries < 1 {
		return invalidConfig("station."+c.ID+".total_batteries", "must be >= 1")
	}
	if c.ChargerCount < 1 {
		return invalidConfig("station."+c.ID+".charger_count", "must be >= 1")
	}
	if c.ChargePowerKW <= 0 {
		return invalidConfig("station."+c.ID+".charge_power_kw", "must be > 0")
	}
	if c.SwapTimeSeconds < 30 {
		return invalidConfig("station."+c.ID+".swap_time_seconds", "must be >= 30")
	}
	if c.CooldownSeconds < 0 {
		return invalidConfig("station."+c.ID+".cooldown_seconds", "must be >= 0")
	}
	if c.GridPowerLimitKW != nil && *c.GridPowerLimitKW <= 0 {
		return invalidConfig("station."+c.ID+".grid_power_limit_kw", "must be > 0 when set")
	}
	return c.BatteryConfig.Validate()
}

// ScenarioConfig describes a scenario run: a name, an ordered list of
// interventions applied to the base station set, and sparse hourly
// demand-rate overrides applied multiplicatively in the arrival generator.
type ScenarioConfig struct {
	Name              string
	Interventions     []ScenarioIntervention
	DemandAdjustments map[int]float64
}

// Validate checks every intervention in order, short-circuiting on the
// first failure.
func (s ScenarioConfig) Validate() error {
	for i, iv := range s.Interventions {
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("scenario %q intervention %d: %w", s.Name, i, err)
		}
	}
	for h := range s.DemandAdjustments {
		if h < 0 || h > 23 {
			return invalidConfig("scenario.demand_adjustments", fmt.Sprintf("hour %d out of [0,23]", h))
		}
	}
	return nil
}

// SimulationConfig is the full, typed run request the engine consumes.
type SimulationConfig struct {
	DurationDays     int
	RandomSeed       int64
	DemandMultiplier float64
	Stations         []StationConfig
	DemandCurve      DemandCurve
	Calibration      Calibration
	Scenario         *ScenarioConfig // optional
}

// HorizonSeconds returns the scheduler horizon: duration_days · 86400
// seconds.
func (c SimulationConfig) HorizonSeconds() int64 {
	return int64(c.DurationDays) * 86400
}

// Validate checks every top-level invariant: duration bounds, seed
// non-negativity, multiplier range, unique station IDs, the demand curve,
// calibration, each station, and (if present) the scenario.
func (c SimulationConfig) Validate() error {
	if c.DurationDays < 1 || c.DurationDays > 30 {
		return invalidConfig("duration_days", "must be in [1,30]")
	}
	if c.RandomSeed < 0 {
		return invalidConfig("random_seed", "must be >= 0")
	}
	if c.DemandMultiplier <= 0 || c.DemandMultiplier > 10 {
		return invalidConfig("demand_multiplier", "must be in (0,10]")
	}
	if len(c.Stations) < 1 {
		return invalidConfig("stations", "must have at least one station")
	}
	seen := make(map[string]bool, len(c.Stations))
	for _, st := range c.Stations {
		if err := st.Validate(); err != nil {
			return err
		}
		if seen[st.ID] {
			return invalidConfig("stations", fmt.Sprintf("duplicate station id %q", st.ID))
		}
		seen[st.ID] = true
	}
	if err := c.DemandCurve.Validate(); err != nil {
		return err
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	if c.Scenario != nil {
		if err := c.Scenario.Validate(); err != nil {
			return err
		}
	}
	return nil
}
