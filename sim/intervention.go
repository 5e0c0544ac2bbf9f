package sim

import "fmt"

// InterventionType tags a ScenarioIntervention variant.
type InterventionType string

const (
	AddStation       InterventionType = "ADD_STATION"
	RemoveStation    InterventionType = "REMOVE_STATION"
	ModifyChargers   InterventionType = "MODIFY_CHARGERS"
	ModifyInventory  InterventionType = "MODIFY_INVENTORY"
	DemandMultiplier InterventionType = "DEMAND_MULTIPLIER"
	PolicyChange     InterventionType = "POLICY_CHANGE"
	InjectFault      InterventionType = "INJECT_FAULT"
)

// ScenarioIntervention is a tagged union: one struct with a Type
// discriminant and per-variant fields, rather than an inheritance
// hierarchy. Only the fields relevant to Type are read by Validate/Apply;
// the rest are the variant's zero value.
type ScenarioIntervention struct {
	Type InterventionType

	// ADD_STATION
	NewStation StationConfig // ID, TotalBatteries, ChargerCount required; Location is carried as given and not checked; ChargePowerKW, SwapTimeSeconds, BatteryConfig defaulted if zero

	// REMOVE_STATION, MODIFY_CHARGERS, MODIFY_INVENTORY
	TargetStationID string

	// MODIFY_CHARGERS
	NewChargerCount int

	// MODIFY_INVENTORY
	InventoryDelta int

	// DEMAND_MULTIPLIER
	Multiplier float64
}

// defaultAddStationChargePowerKW and defaultAddStationSwapTimeSeconds are
// the defaults applied when ADD_STATION omits those optional fields.
const (
	defaultAddStationChargePowerKW   = 60.0
	defaultAddStationSwapTimeSeconds = int64(90)
)

// Validate checks the required parameters for this intervention's variant.
func (iv ScenarioIntervention) Validate() error {
	switch iv.Type {
	case AddStation:
		if iv.NewStation.ID == "" {
			return invalidConfig("intervention.add_station.id", "required")
		}
		if iv.NewStation.TotalBatteries < 1 {
			return invalidConfig("intervention.add_station.total_batteries", "required, must be >= 1")
		}
		if iv.NewStation.ChargerCount < 1 {
			return invalidConfig("intervention.add_station.charger_count", "required, must be >= 1")
		}
		return nil
	case RemoveStation:
		if iv.TargetStationID == "" {
			return invalidConfig("intervention.remove_station.target_station_id", "required")
		}
		return nil
	case ModifyChargers:
		if iv.TargetStationID == "" {
			return invalidConfig("intervention.modify_chargers.target_station_id", "required")
		}
		if iv.NewChargerCount < 1 {
			return invalidConfig("intervention.modify_chargers.new_count", "must be >= 1")
		}
		return nil
	case ModifyInventory:
		if iv.TargetStationID == "" {
			return invalidConfig("intervention.modify_inventory.target_station_id", "required")
		}
		return nil
	case DemandMultiplier:
		if iv.Multiplier <= 0 {
			return invalidConfig("intervention.demand_multiplier.multiplier", "must be > 0")
		}
		return nil
	case PolicyChange, InjectFault:
		// Recognized but inert: neither variant affects the run.
		return nil
	default:
		return invalidConfig("intervention.type", fmt.Sprintf("unrecognized variant %q", iv.Type))
	}
}

// ApplyInterventions applies an ordered list of interventions to a base
// station set, returning the effective station list and the effective
// demand multiplier. It is a pure function: the input slice is never
// mutated in place.
//
// DEMAND_MULTIPLIER does not touch the station list at all — it only
// scales the multiplier the arrival generator reads at arrival time.
func ApplyInterventions(base []StationConfig, scenario *ScenarioConfig, baseDemandMultiplier float64) ([]StationConfig, float64, error) {
	effective := make([]StationConfig, len(base))
	copy(effective, base)
	multiplier := baseDemandMultiplier

	if scenario == nil {
		return effective, multiplier, nil
	}

	for i, iv := range scenario.Interventions {
		if err := iv.Validate(); err != nil {
			return nil, 0, fmt.Errorf("scenario %q intervention %d: %w", scenario.Name, i, err)
		}
		switch iv.Type {
		case AddStation:
			cfg := iv.NewStation
			if cfg.ChargePowerKW == 0 {
				cfg.ChargePowerKW = defaultAddStationChargePowerKW
			}
			if cfg.SwapTimeSeconds == 0 {
				cfg.SwapTimeSeconds = defaultAddStationSwapTimeSeconds
			}
			if cfg.BatteryConfig.CapacityKWh == 0 {
				cfg.BatteryConfig = DefaultBatteryConfig()
			}
			effective = append(effective, cfg)
		case RemoveStation:
			effective = removeStation(effective, iv.TargetStationID)
		case ModifyChargers:
			effective = modifyStation(effective, iv.TargetStationID, func(s *StationConfig) {
				s.ChargerCount = iv.NewChargerCount
			})
		case ModifyInventory:
			effective = modifyStation(effective, iv.TargetStationID, func(s *StationConfig) {
				s.TotalBatteries += iv.InventoryDelta
				if s.TotalBatteries < 1 {
					s.TotalBatteries = 1
				}
			})
		case DemandMultiplier:
			multiplier *= iv.Multiplier
		case PolicyChange, InjectFault:
			// Stub: recognized but never affects the run.
		}
	}

	return effective, multiplier, nil
}

// removeStation deletes the station with the given id, if present (silent
// no-op otherwise).
func removeStation(stations []StationConfig, id string) []StationConfig {
	out := make([]StationConfig, 0, len(stations))
	for _, s := range stations {
		if s.ID == id {
			continue
		}
		out = append(out, s)
	}
	return out
}

// modifyStation applies mutate to the station with the given id, if
// present (silent no-op otherwise).
func modifyStation(stations []StationConfig, id string, mutate func(*StationConfig)) []StationConfig {
	for i := range stations {
		if stations[i].ID == id {
			mutate(&stations[i])
			break
		}
	}
	return stations
}
