// Package trace provides the append-only telemetry sink for the
// battery-swap simulation: a typed event log with one fully-enumerated
// payload struct per event type, rather than a duck-typed metadata mapping.
package trace

// EventType enumerates the telemetry event kinds a station can emit.
type EventType string

const (
	VehicleArrival  EventType = "VEHICLE_ARRIVAL"
	SwapStart       EventType = "SWAP_START"
	SwapComplete    EventType = "SWAP_COMPLETE"
	LostSwap        EventType = "LOST_SWAP"
	ChargeStart     EventType = "CHARGE_START"
	ChargeComplete  EventType = "CHARGE_COMPLETE"
	GridLimitHit    EventType = "GRID_LIMIT_HIT"
	StationStockout EventType = "STATION_STOCKOUT"
	QueueUpdate     EventType = "QUEUE_UPDATE"
)

// Meta is the marker interface implemented by every event's typed payload.
// Each EventType has exactly one corresponding Meta implementation below.
type Meta interface {
	eventType() EventType
}

// VehicleArrivalMeta is VEHICLE_ARRIVAL's payload.
type VehicleArrivalMeta struct {
	QueueLength int
}

func (VehicleArrivalMeta) eventType() EventType { return VehicleArrival }

// SwapStartMeta is SWAP_START's payload.
type SwapStartMeta struct {
	BatteryID  string
	BatterySoC float64
	WaitTime   float64
}

func (SwapStartMeta) eventType() EventType { return SwapStart }

// SwapCompleteMeta is SWAP_COMPLETE's payload.
type SwapCompleteMeta struct {
	BatteryID string
}

func (SwapCompleteMeta) eventType() EventType { return SwapComplete }

// LostSwapMeta is LOST_SWAP's payload.
type LostSwapMeta struct {
	Reason      string
	QueueLength int
}

func (LostSwapMeta) eventType() EventType { return LostSwap }

// ChargeStartMeta is CHARGE_START's payload.
type ChargeStartMeta struct {
	InitialSoC float64
}

func (ChargeStartMeta) eventType() EventType { return ChargeStart }

// ChargeCompleteMeta is CHARGE_COMPLETE's payload.
type ChargeCompleteMeta struct {
	FinalSoC  float64
	Duration  float64
	EnergyKWh float64
}

func (ChargeCompleteMeta) eventType() EventType { return ChargeComplete }

// GridLimitHitMeta is GRID_LIMIT_HIT's payload.
type GridLimitHitMeta struct {
	ActiveChargers int
	DrawKW         float64
	LimitKW        float64
}

func (GridLimitHitMeta) eventType() EventType { return GridLimitHit }

// StationStockoutMeta is STATION_STOCKOUT's payload; recorded alongside a
// LOST_SWAP event so station-level stockout episodes can be queried
// independently of individual lost vehicles.
type StationStockoutMeta struct {
	QueueLength int
}

func (StationStockoutMeta) eventType() EventType { return StationStockout }

// QueueUpdateMeta is QUEUE_UPDATE's payload: a snapshot of the current
// queue length, emitted whenever a vehicle leaves the queue (after a
// completed swap or a stockout). Increases on arrival are reported through
// VEHICLE_ARRIVAL's QueueLength instead.
type QueueUpdateMeta struct {
	QueueLength int
}

func (QueueUpdateMeta) eventType() EventType { return QueueUpdate }

// Event is one telemetry record: simulated time, the entity that produced
// it, its type, and its typed metadata payload.
type Event struct {
	SimTime  int64
	EntityID string
	Type     EventType
	Meta     Meta
}
