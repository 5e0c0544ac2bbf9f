package sim

import (
	"fmt"

	"github.com/batteryswap/swapsim/sim/trace"
)

// StationStats accumulates the per-station counters the engine reports.
// AvgWaitTime is derived, not stored.
type StationStats struct {
	TotalSwaps      int
	LostSwaps       int
	TotalWaitTime   float64
	MaxWaitTime     float64
	TotalChargeTime float64
	TotalEnergyKWh  float64
	PeakQueueLength int
	ChargerBusyTime float64
}

// AvgWaitTime returns total_wait_time / max(total_swaps, 1).
func (s StationStats) AvgWaitTime() float64 {
	denom := s.TotalSwaps
	if denom < 1 {
		denom = 1
	}
	return s.TotalWaitTime / float64(denom)
}

// Station is a queuing node: a charger-bay Resource, a battery pool
// (FilterStore), a charge queue (Store), and the per-vehicle swap handler
// plus long-lived charging loop that operate on them. A Station is
// exclusively owned by the Orchestrator and exclusively owns its Batteries.
type Station struct {
	Config StationConfig
	Calibration Calibration

	Chargers *Resource
	Pool     *FilterStore
	Queue    *Store

	ActiveChargers     int
	CurrentQueueLength int
	Stats              StationStats

	sink *trace.Sink
}

// NewStation constructs a Station, deterministically populates its initial
// battery inventory, and starts its background charging loop. sched must be
// the same Scheduler the orchestrator later calls Run on — the initial Put
// calls below only append to empty bags (no waiters exist yet), so they
// are safe to make before Run starts.
func NewStation(sched *Scheduler, cfg StationConfig, calib Calibration, sink *trace.Sink) *Station {
	st := &Station{
		Config:      cfg,
		Calibration: calib,
		Chargers:    NewResource(cfg.ChargerCount),
		Pool:        NewFilterStore(),
		Queue:       NewStore(),
		sink:        sink,
	}
	st.seedBatteries(sched)
	st.startChargingLoop(sched)
	return st
}

// seedBatteries implements the initial-population rule: the first
// floor(0.8*total) batteries start AVAILABLE at soc=100; the remainder
// cycle through soc = 50 + (i mod 5)*10 for a deterministic warm-start mix,
// landing in the charge queue (soc < 95) or the pool (soc >= 95, which the
// formula never actually produces — kept for completeness).
func (st *Station) seedBatteries(sched *Scheduler) {
	n := st.Config.TotalBatteries
	nAvailable := int(0.8 * float64(n))
	for i := 0; i < nAvailable; i++ {
		b := NewBattery(fmt.Sprintf("%s-batt-%d", st.Config.ID, i), st.Config.BatteryConfig, 100, BatteryAvailable)
		st.Pool.Put(sched, b)
	}
	for i := 0; i < n-nAvailable; i++ {
		soc := 50 + float64(i%5)*10
		id := fmt.Sprintf("%s-batt-%d", st.Config.ID, nAvailable+i)
		if soc < 95 {
			b := NewBattery(id, st.Config.BatteryConfig, soc, BatteryDepleted)
			st.Queue.Put(sched, b)
		} else {
			b := NewBattery(id, st.Config.BatteryConfig, soc, BatteryAvailable)
			st.Pool.Put(sched, b)
		}
	}
}

// HandleVehicleArrival is the swap handler, one invocation per arriving
// vehicle. It never blocks the caller: the pool.Get
// continuation below resumes independently whenever a battery becomes
// available, matching the arrival generator's "spawn, do not await" model.
func (st *Station) HandleVehicleArrival(s *Scheduler, t0 int64, vehicleID string) {
	st.CurrentQueueLength++
	if st.CurrentQueueLength > st.Stats.PeakQueueLength {
		st.Stats.PeakQueueLength = st.CurrentQueueLength
	}
	st.sink.Emit(t0, st.Config.ID, trace.VehicleArrivalMeta{QueueLength: st.CurrentQueueLength})

	swappable := func(b *Battery) bool { return b.IsSwappable() }

	// Stockout check: definitive the instant it's observed, even if a
	// battery finishes charging one tick later.
	if st.Pool.CountMatching(swappable) == 0 {
		st.sink.Emit(t0, st.Config.ID, trace.StationStockoutMeta{QueueLength: st.CurrentQueueLength})
		st.sink.Emit(t0, st.Config.ID, trace.LostSwapMeta{Reason: "stockout", QueueLength: st.CurrentQueueLength})
		st.Stats.LostSwaps++
		st.CurrentQueueLength--
		st.sink.Emit(t0, st.Config.ID, trace.QueueUpdateMeta{QueueLength: st.CurrentQueueLength})
		return
	}

	st.Pool.Get(s, swappable, func(battery *Battery) {
		now := s.Now()
		wait := float64(now - t0)
		st.Stats.TotalWaitTime += wait
		if wait > st.Stats.MaxWaitTime {
			st.Stats.MaxWaitTime = wait
		}
		battery.Claim()
		st.sink.Emit(now, st.Config.ID, trace.SwapStartMeta{
			BatteryID:  battery.ID,
			BatterySoC: battery.SoC,
			WaitTime:   wait,
		})
		s.ScheduleAfter(st.Config.SwapTimeSeconds, func(completeTime int64) {
			st.sink.Emit(completeTime, st.Config.ID, trace.SwapCompleteMeta{BatteryID: battery.ID})
			battery.Deplete()
			st.Queue.Put(s, battery)
			st.Stats.TotalSwaps++
			st.CurrentQueueLength--
			st.sink.Emit(completeTime, st.Config.ID, trace.QueueUpdateMeta{QueueLength: st.CurrentQueueLength})
		})
	})
}

// startChargingLoop kicks off the station's long-lived charging process.
// dequeueNext both re-issues itself for the next battery and spawns an
// independent charge-cycle continuation for the one just dequeued —
// without that split, a single sequential get-acquire-charge-put loop
// could never keep more than one charger busy at a time, defeating
// charger_count > 1. This mirrors the arrival generator's "spawn an
// independent process, don't await it" pattern.
func (st *Station) startChargingLoop(s *Scheduler) {
	st.dequeueNext(s)
}

func (st *Station) dequeueNext(s *Scheduler) {
	st.Queue.Get(s, func(battery *Battery) {
		st.dequeueNext(s)
		st.runChargeCycle(s, battery)
	})
}

func (st *Station) runChargeCycle(s *Scheduler, battery *Battery) {
	st.Chargers.Acquire(s, func(now int64) {
		chargeStart := now
		st.ActiveChargers++

		if st.Config.GridPowerLimitKW != nil {
			draw := float64(st.ActiveChargers) * st.Config.ChargePowerKW
			if draw > *st.Config.GridPowerLimitKW {
				st.sink.Emit(now, st.Config.ID, trace.GridLimitHitMeta{
					ActiveChargers: st.ActiveChargers,
					DrawKW:         draw,
					LimitKW:        *st.Config.GridPowerLimitKW,
				})
			}
		}

		if st.Config.CooldownSeconds > 0 {
			battery.EnterCharger(st.Config.CooldownSeconds)
			s.ScheduleAfter(st.Config.CooldownSeconds, func(cooldownEnd int64) {
				battery.EndCooldown()
				st.beginCharging(s, cooldownEnd, chargeStart, battery)
			})
			return
		}
		battery.EnterCharger(0)
		st.beginCharging(s, now, chargeStart, battery)
	})
}

func (st *Station) beginCharging(s *Scheduler, now, chargeStart int64, battery *Battery) {
	st.sink.Emit(now, st.Config.ID, trace.ChargeStartMeta{InitialSoC: battery.SoC})
	chargeTime := ChargeTimeSeconds(battery.SoC, battery.CapacityKWh, st.Config.ChargePowerKW)
	s.ScheduleAfter(roundSeconds(chargeTime), func(completeTime int64) {
		st.completeCharge(s, completeTime, chargeStart, battery)
	})
}

func (st *Station) completeCharge(s *Scheduler, now, chargeStart int64, battery *Battery) {
	battery.CompleteCharge()
	duration := float64(now - chargeStart)
	energy := EnergyUsedKWh(st.Config.ChargePowerKW, duration, st.Calibration.ChargeEfficiencyFactor)

	st.Stats.TotalChargeTime += duration
	st.Stats.TotalEnergyKWh += energy
	st.Stats.ChargerBusyTime += duration

	st.sink.Emit(now, st.Config.ID, trace.ChargeCompleteMeta{
		FinalSoC:  battery.SoC,
		Duration:  duration,
		EnergyKWh: energy,
	})

	st.ActiveChargers--
	st.Chargers.Release(s)
	st.Pool.Put(s, battery)
}

// roundSeconds rounds a fractional-second duration to the nearest whole
// second: the scheduler's clock only advances in integer seconds.
func roundSeconds(seconds float64) int64 {
	if seconds < 0 {
		return 0
	}
	return int64(seconds + 0.5)
}
