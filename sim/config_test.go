package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStation(id string) StationConfig {
	return StationConfig{
		ID:              id,
		TotalBatteries:  10,
		ChargerCount:    2,
		ChargePowerKW:   3,
		SwapTimeSeconds: 90,
		BatteryConfig:   DefaultBatteryConfig(),
	}
}

func validConfig() SimulationConfig {
	return SimulationConfig{
		DurationDays:     1,
		RandomSeed:       1,
		DemandMultiplier: 1,
		Stations:         []StationConfig{validStation("s1")},
		DemandCurve:      NewFlatDemandCurve(5),
		Calibration:      DefaultCalibration(),
	}
}

func TestSimulationConfig_Validate_AcceptsWellFormedConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestSimulationConfig_Validate_RejectsOutOfRangeDuration(t *testing.T) {
	cfg := validConfig()
	cfg.DurationDays = 0
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidConfigError
	assert.ErrorAs(t, err, &invalid)
}

func TestSimulationConfig_Validate_RejectsDuplicateStationIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = []StationConfig{validStation("s1"), validStation("s1")}
	assert.Error(t, cfg.Validate())
}

func TestSimulationConfig_Validate_RejectsEmptyStationList(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = nil
	assert.Error(t, cfg.Validate())
}

func TestStationConfig_Validate_RejectsSwapTimeBelowFloor(t *testing.T) {
	st := validStation("s1")
	st.SwapTimeSeconds = 10
	assert.Error(t, st.Validate())
}

func TestStationConfig_Validate_RejectsZeroChargers(t *testing.T) {
	st := validStation("s1")
	st.ChargerCount = 0
	assert.Error(t, st.Validate())
}

func TestStationConfig_Validate_AcceptsNilGridLimit(t *testing.T) {
	st := validStation("s1")
	st.GridPowerLimitKW = nil
	assert.NoError(t, st.Validate())
}

func TestStationConfig_Validate_RejectsNonPositiveGridLimitWhenSet(t *testing.T) {
	st := validStation("s1")
	limit := 0.0
	st.GridPowerLimitKW = &limit
	assert.Error(t, st.Validate())
}

func TestCalibration_Validate_RejectsNonPositiveEfficiency(t *testing.T) {
	c := DefaultCalibration()
	c.ChargeEfficiencyFactor = 0
	assert.Error(t, c.Validate())
}

func TestSimulationConfig_HorizonSeconds_IsDurationTimesDay(t *testing.T) {
	cfg := validConfig()
	cfg.DurationDays = 3
	assert.Equal(t, int64(3*86400), cfg.HorizonSeconds())
}
