package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/batteryswap/swapsim/sim/trace"
)

// Orchestrator wires the scheduler, stations and arrival generators
// together, drives the run to its horizon, and aggregates per-station
// stats into city-level KPIs. It is the sole owner of its stations and
// the scheduler.
type Orchestrator struct {
	config                    SimulationConfig
	effectiveDemandMultiplier float64
	realNetwork               RealNetworkSource

	scheduler *Scheduler
	rng       *RandomSource
	sink      *trace.Sink

	stations     map[string]*Station
	stationOrder []string

	vehicleSeq int
}

// NewOrchestrator validates config, applies scenario interventions to
// produce the effective station set, and constructs the scheduler, random
// source, telemetry sink, stations and arrival generators. All validation
// happens here, before any event is scheduled, so an invalid config fails
// fast with no partial run.
func NewOrchestrator(config SimulationConfig, realNetwork RealNetworkSource) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	effectiveStations, effectiveMultiplier, err := ApplyInterventions(config.Stations, config.Scenario, config.DemandMultiplier)
	if err != nil {
		return nil, err
	}
	for _, st := range effectiveStations {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("effective station set: %w", err)
		}
	}

	o := &Orchestrator{
		config:                    config,
		effectiveDemandMultiplier: effectiveMultiplier,
		realNetwork:               realNetwork,
		scheduler:                 NewScheduler(config.HorizonSeconds()),
		rng:                       NewRandomSource(NewSimulationKey(config.RandomSeed)),
		sink:                      trace.NewSink(),
		stations:                  make(map[string]*Station, len(effectiveStations)),
		stationOrder:              make([]string, 0, len(effectiveStations)),
	}

	for _, cfg := range effectiveStations {
		station := NewStation(o.scheduler, cfg, config.Calibration, o.sink)
		o.stations[cfg.ID] = station
		o.stationOrder = append(o.stationOrder, cfg.ID)
	}
	for _, id := range o.stationOrder {
		o.startArrivalGenerator(o.stations[id])
	}

	return o, nil
}

// stationVehicleID builds a deterministic, per-station vehicle identifier.
func stationVehicleID(stationID string, seq int) string {
	return fmt.Sprintf("%s-veh-%d", stationID, seq)
}

// Run drives the scheduler to the configured horizon and aggregates the
// result. An InternalInvariantError raised mid-run is recovered here and
// converted into a returned error rather than propagating as a panic past
// this boundary: a broken internal invariant fails the run with a
// diagnostic, not a process crash.
func (o *Orchestrator) Run() (result *SimulationResult, err error) {
	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*InternalInvariantError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()

	o.scheduler.Run()

	completedAt := time.Now()
	result = o.aggregate(startedAt, completedAt)
	return result, nil
}

// aggregate walks every station's stats to produce per-station KPIs, city
// aggregates and the opex breakdown.
func (o *Orchestrator) aggregate(startedAt, completedAt time.Time) *SimulationResult {
	durationHours := float64(o.config.DurationDays) * 24

	stationKPIs := make([]StationKPI, 0, len(o.stationOrder))
	var totalSwaps, totalLost int
	var totalWait, totalEnergy, totalChargerTime float64
	var totalChargerCapacity float64

	for _, id := range o.stationOrder {
		station := o.stations[id]
		stats := station.Stats

		maxChargerTime := durationHours * 3600 * float64(station.Config.ChargerCount)
		utilization := 0.0
		if maxChargerTime > 0 {
			utilization = stats.ChargerBusyTime / maxChargerTime
		}
		if utilization > 1 {
			utilization = 1
		}

		idlePct := 0.0
		if station.Config.TotalBatteries > 0 {
			idlePct = float64(station.Pool.Len()) / float64(station.Config.TotalBatteries) * 100
		}

		stationKPIs = append(stationKPIs, StationKPI{
			StationID:          id,
			TotalSwaps:         stats.TotalSwaps,
			LostSwaps:          stats.LostSwaps,
			AvgWaitTimeSeconds: stats.AvgWaitTime(),
			MaxWaitTimeSeconds: stats.MaxWaitTime,
			ChargerUtilization: utilization,
			IdleInventoryPct:   idlePct,
			TotalEnergyKWh:     stats.TotalEnergyKWh,
			PeakQueueLength:    stats.PeakQueueLength,
		})

		totalSwaps += stats.TotalSwaps
		totalLost += stats.LostSwaps
		totalWait += stats.TotalWaitTime
		totalEnergy += stats.TotalEnergyKWh
		totalChargerTime += stats.ChargerBusyTime
		totalChargerCapacity += float64(station.Config.ChargerCount) * durationHours * 3600
	}

	cityAvgWait := 0.0
	if totalSwaps > 0 {
		cityAvgWait = totalWait / float64(totalSwaps)
	}
	cityThroughput := 0.0
	if durationHours > 0 {
		cityThroughput = float64(totalSwaps) / durationHours
	}
	avgUtilization := 0.0
	if totalChargerCapacity > 0 {
		avgUtilization = totalChargerTime / totalChargerCapacity
	}
	if avgUtilization > 1 {
		avgUtilization = 1
	}
	avgIdle := 0.0
	if len(stationKPIs) > 0 {
		sum := 0.0
		for _, k := range stationKPIs {
			sum += k.IdleInventoryPct
		}
		avgIdle = sum / float64(len(stationKPIs))
	}

	energyCost := totalEnergy * energyCostPerKWh
	depreciationCost := float64(totalSwaps) * batteryCostINR * depreciationPerCycle
	logisticsCost := float64(len(o.stationOrder)) * float64(o.config.DurationDays) * logisticsCostPerStation
	opex := OpexBreakdown{
		EnergyCost:       energyCost,
		DepreciationCost: depreciationCost,
		LogisticsCost:    logisticsCost,
		Total:            energyCost + depreciationCost + logisticsCost,
	}

	scenarioName := "baseline"
	if o.config.Scenario != nil {
		scenarioName = o.config.Scenario.Name
	}

	counts := o.sink.CountByType()
	eventCounts := make(map[string]int, len(counts))
	for t, n := range counts {
		eventCounts[string(t)] = n
	}

	return &SimulationResult{
		RunID:                 uuid.New().String(),
		ScenarioName:          scenarioName,
		Status:                "completed",
		DurationDays:          o.config.DurationDays,
		StartedAt:             startedAt,
		CompletedAt:           completedAt,
		ComputeTimeMs:         completedAt.Sub(startedAt).Milliseconds(),
		CityTotalSwaps:        totalSwaps,
		CityLostSwaps:         totalLost,
		CityAvgWaitTime:       cityAvgWait,
		CityThroughputPerHour: cityThroughput,
		AvgChargerUtilization: avgUtilization,
		AvgIdleInventoryPct:   avgIdle,
		TotalEnergyKWh:        totalEnergy,
		StationKPIs:           stationKPIs,
		OpexBreakdown:         opex,
		EventCountByType:      eventCounts,
	}
}

// Sink exposes the telemetry event log for callers that want the raw
// event trace alongside the aggregated result.
func (o *Orchestrator) Sink() *trace.Sink { return o.sink }
