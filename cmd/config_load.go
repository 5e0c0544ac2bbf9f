package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/batteryswap/swapsim/sim"
)

// fileConfig is the YAML-facing shape of a run config. It carries the
// fields of sim.SimulationConfig in YAML-friendly form (a plain slice for
// the 24 hourly demand rates, flat lat/lon per station) and is translated
// by toSimulationConfig before being handed to the engine. The demand
// curve's per-hour multiplier overrides have no YAML field.
type fileConfig struct {
	DurationDays     int                  `yaml:"duration_days"`
	RandomSeed       int64                `yaml:"random_seed"`
	DemandMultiplier float64              `yaml:"demand_multiplier"`
	DemandCurve      []float64            `yaml:"demand_curve"` // 24 hourly base rates
	Calibration      fileCalibration      `yaml:"calibration"`
	Stations         []fileStationConfig  `yaml:"stations"`
	Scenario         *fileScenarioConfig  `yaml:"scenario"`
}

type fileCalibration struct {
	ParkingDelayRangeSeconds [2]float64 `yaml:"parking_delay_range_seconds"`
	ChargeEfficiencyFactor   float64    `yaml:"charge_efficiency_factor"`
	ArrivalJitterStd         float64    `yaml:"arrival_jitter_std"`
}

type fileStationConfig struct {
	ID               string   `yaml:"id"`
	Lat              float64  `yaml:"lat"`
	Lon              float64  `yaml:"lon"`
	TotalBatteries   int      `yaml:"total_batteries"`
	ChargerCount     int      `yaml:"charger_count"`
	ChargePowerKW    float64  `yaml:"charge_power_kw"`
	SwapTimeSeconds  int64    `yaml:"swap_time_seconds"`
	CooldownSeconds  int64    `yaml:"cooldown_seconds"`
	GridPowerLimitKW *float64 `yaml:"grid_power_limit_kw"`
	BatteryCapacity  float64  `yaml:"battery_capacity_kwh"`
	BatteryMinSwapSoC float64 `yaml:"battery_min_swap_soc"`
}

type fileScenarioConfig struct {
	Name              string                   `yaml:"name"`
	Interventions     []fileIntervention       `yaml:"interventions"`
	DemandAdjustments map[int]float64          `yaml:"demand_adjustments"`
}

type fileIntervention struct {
	Type            string             `yaml:"type"`
	NewStation      *fileStationConfig `yaml:"new_station"`
	TargetStationID string             `yaml:"target_station_id"`
	NewChargerCount int                `yaml:"new_charger_count"`
	InventoryDelta  int                `yaml:"inventory_delta"`
	Multiplier      float64            `yaml:"multiplier"`
}

// loadConfig reads and parses a YAML run config from path, then converts
// it into the engine's typed sim.SimulationConfig.
func loadConfig(path string) (sim.SimulationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return sim.SimulationConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return sim.SimulationConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc.toSimulationConfig()
}

func (fc fileConfig) toSimulationConfig() (sim.SimulationConfig, error) {
	calib := sim.Calibration{
		ParkingDelayRangeSeconds: fc.Calibration.ParkingDelayRangeSeconds,
		ChargeEfficiencyFactor:   fc.Calibration.ChargeEfficiencyFactor,
		ArrivalJitterStd:         fc.Calibration.ArrivalJitterStd,
	}
	if calib.ChargeEfficiencyFactor == 0 {
		calib = sim.DefaultCalibration()
	}

	stations := make([]sim.StationConfig, 0, len(fc.Stations))
	for _, s := range fc.Stations {
		stations = append(stations, s.toStationConfig())
	}

	curve := sim.DemandCurve{Multiplier: map[int]float64{}}
	if len(fc.DemandCurve) == 24 {
		var arr [24]float64
		copy(arr[:], fc.DemandCurve)
		curve.Base = arr
	} else if len(fc.DemandCurve) != 0 {
		return sim.SimulationConfig{}, fmt.Errorf("demand_curve must have exactly 24 entries, got %d", len(fc.DemandCurve))
	}

	var scenario *sim.ScenarioConfig
	if fc.Scenario != nil {
		sc, err := fc.Scenario.toScenarioConfig()
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		scenario = sc
	}

	return sim.SimulationConfig{
		DurationDays:     fc.DurationDays,
		RandomSeed:       fc.RandomSeed,
		DemandMultiplier: fc.DemandMultiplier,
		Stations:         stations,
		DemandCurve:      curve,
		Calibration:      calib,
		Scenario:         scenario,
	}, nil
}

func (s fileStationConfig) toStationConfig() sim.StationConfig {
	battCfg := sim.DefaultBatteryConfig()
	if s.BatteryCapacity != 0 {
		battCfg.CapacityKWh = s.BatteryCapacity
	}
	if s.BatteryMinSwapSoC != 0 {
		battCfg.MinSwapSoC = s.BatteryMinSwapSoC
	}
	return sim.StationConfig{
		ID:               s.ID,
		Location:         sim.Location{Lat: s.Lat, Lon: s.Lon},
		TotalBatteries:   s.TotalBatteries,
		ChargerCount:     s.ChargerCount,
		ChargePowerKW:    s.ChargePowerKW,
		SwapTimeSeconds:  s.SwapTimeSeconds,
		CooldownSeconds:  s.CooldownSeconds,
		GridPowerLimitKW: s.GridPowerLimitKW,
		BatteryConfig:    battCfg,
	}
}

func (sc fileScenarioConfig) toScenarioConfig() (*sim.ScenarioConfig, error) {
	interventions := make([]sim.ScenarioIntervention, 0, len(sc.Interventions))
	for i, iv := range sc.Interventions {
		converted, err := iv.toIntervention()
		if err != nil {
			return nil, fmt.Errorf("scenario %q intervention %d: %w", sc.Name, i, err)
		}
		interventions = append(interventions, converted)
	}
	return &sim.ScenarioConfig{
		Name:              sc.Name,
		Interventions:     interventions,
		DemandAdjustments: sc.DemandAdjustments,
	}, nil
}

func (iv fileIntervention) toIntervention() (sim.ScenarioIntervention, error) {
	out := sim.ScenarioIntervention{
		Type:            sim.InterventionType(iv.Type),
		TargetStationID: iv.TargetStationID,
		NewChargerCount: iv.NewChargerCount,
		InventoryDelta:  iv.InventoryDelta,
		Multiplier:      iv.Multiplier,
	}
	if iv.NewStation != nil {
		out.NewStation = iv.NewStation.toStationConfig()
	}
	return out, nil
}
