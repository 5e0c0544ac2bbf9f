package sim

import "math"

// RealNetworkSource is an optional collaborator: a real station topology
// plus an empirically observed mean inter-arrival time. The loader that
// produces one (spreadsheet ingestion) is out of scope for this
// repository; only the coupling logic it feeds is implemented here.
type RealNetworkSource interface {
	Stations() []StationConfig
	MeanArrivalMinutes() float64
}

// hourlyStationRate computes the per-station Poisson rate for the given
// sim-time.
//
// When a RealNetworkSource is present and reports a positive mean arrival
// time, its derived base rate (60/mean) replaces the demand-curve rate and
// the per-station rate is NOT divided by the station count. demand
// multiplier and any scenario hourly adjustment still apply on top of that
// base rate in either branch.
func (o *Orchestrator) hourlyStationRate(now int64) float64 {
	hour := int(now/3600) % 24

	var baseRate float64
	realData := o.realNetwork != nil && o.realNetwork.MeanArrivalMinutes() > 0
	if realData {
		baseRate = 60.0 / o.realNetwork.MeanArrivalMinutes()
	} else {
		baseRate = o.config.DemandCurve.Rate(hour)
	}

	rate := baseRate * o.effectiveDemandMultiplier
	if o.config.Scenario != nil {
		if adj, ok := o.config.Scenario.DemandAdjustments[hour]; ok {
			rate *= adj
		}
	}

	if realData {
		return rate
	}
	n := len(o.stationOrder)
	if n == 0 {
		return 0
	}
	return rate / float64(n)
}

// startArrivalGenerator starts the non-homogeneous Poisson arrival process
// for one station. The loop never suspends on anything but timeout(Δ):
// each step draws the next inter-arrival interval, times out, spawns a
// swap handler for the arriving vehicle without awaiting it, and
// immediately schedules its own next step.
func (o *Orchestrator) startArrivalGenerator(station *Station) {
	var step Continuation
	step = func(now int64) {
		rStation := o.hourlyStationRate(now)
		if rStation <= 0 {
			o.scheduler.ScheduleAfter(3600, step)
			return
		}
		mean := 3600.0 / rStation
		delta := o.rng.ExpDuration(SubsystemArrival, mean)
		if o.config.Calibration.ArrivalJitterStd > 0 {
			jitter := o.rng.NormalSample(SubsystemJitter, 1.0, o.config.Calibration.ArrivalJitterStd)
			if jitter < 0.5 {
				jitter = 0.5
			}
			delta *= jitter
		}
		o.scheduler.ScheduleAfter(roundSeconds(math.Max(delta, 0)), func(arrivalTime int64) {
			// Vehicle urgency is drawn but, like patience, is not consulted
			// by any operation in this model.
			_ = o.rng.UniformSample(SubsystemUrgency, 0.8, 1.2)
			o.vehicleSeq++
			vehicleID := stationVehicleID(station.Config.ID, o.vehicleSeq)
			station.HandleVehicleArrival(o.scheduler, arrivalTime, vehicleID)
			step(arrivalTime)
		})
	}
	o.scheduler.ScheduleAfter(0, step)
}
