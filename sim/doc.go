// Package sim provides the core discrete-event simulation engine for the
// battery-swap network simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: the event loop, the min-heap event queue, and the
//     Resource/FilterStore/Store primitives that model suspension points
//   - battery.go, station.go: the queuing model (swap handling + background
//     charging) that runs on top of the scheduler
//   - orchestrator.go: wires the random source, demand curve, stations and
//     telemetry sink together and aggregates the run into a SimulationResult
//
// # Architecture
//
// Station processes (the swap handler and the charging loop) are modeled as
// chains of scheduler continuations rather than OS threads or goroutines: a
// continuation runs to its next suspension point (timeout, resource acquire,
// store get) and schedules the remainder of its work as a new continuation.
// The scheduler alone advances simulated time, so no two continuations ever
// run concurrently — this is what makes a run reproducible from (config,
// seed) alone. See the Scheduler, Resource, FilterStore and Store types in
// scheduler.go for the suspension-point taxonomy.
//
// Sub-packages:
//   - sim/trace/: the telemetry sink (event log) and its event-type taxonomy
package sim
