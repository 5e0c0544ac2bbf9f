package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Run_OrdersEventsByTimeThenSequence(t *testing.T) {
	s := NewScheduler(1000)
	var order []string

	s.ScheduleAfter(5, func(int64) { order = append(order, "b@5-first") })
	s.ScheduleAfter(5, func(int64) { order = append(order, "b@5-second") })
	s.ScheduleAfter(1, func(int64) { order = append(order, "a@1") })

	s.Run()

	assert.Equal(t, []string{"a@1", "b@5-first", "b@5-second"}, order)
}

func TestScheduler_Run_StopsAtHorizon(t *testing.T) {
	s := NewScheduler(10)
	ran := false
	s.ScheduleAfter(11, func(int64) { ran = true })
	s.Run()
	assert.False(t, ran)
}

func TestScheduler_ScheduleAfter_NegativeDeltaPanics(t *testing.T) {
	s := NewScheduler(10)
	assert.Panics(t, func() { s.ScheduleAfter(-1, func(int64) {}) })
}

func TestScheduler_Now_AdvancesAsEventsRun(t *testing.T) {
	s := NewScheduler(100)
	var seenAt int64
	s.ScheduleAfter(42, func(now int64) { seenAt = s.Now() })
	s.Run()
	assert.Equal(t, int64(42), seenAt)
}

func TestResource_Acquire_GrantsImmediatelyUpToCapacity(t *testing.T) {
	s := NewScheduler(100)
	r := NewResource(2)
	var held []int

	r.Acquire(s, func(int64) { held = append(held, 1) })
	r.Acquire(s, func(int64) { held = append(held, 2) })
	s.Run()

	assert.Len(t, held, 2)
	assert.Equal(t, 2, r.Held())
}

func TestResource_Acquire_ParksBeyondCapacityAndReleaseWakesFIFO(t *testing.T) {
	s := NewScheduler(100)
	r := NewResource(1)
	var order []string

	r.Acquire(s, func(int64) { order = append(order, "first") })
	r.Acquire(s, func(int64) { order = append(order, "second") })
	s.Run()
	require.Equal(t, []string{"first"}, order)

	r.Release(s)
	s.Run()
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, r.Held())
}

func TestFilterStore_Get_MatchesEarliestSatisfyingItem(t *testing.T) {
	s := NewScheduler(100)
	fs := NewFilterStore()
	low := NewBattery("low", BatteryConfig{CapacityKWh: 5, MinSwapSoC: 95}, 50, BatteryAvailable)
	high := NewBattery("high", BatteryConfig{CapacityKWh: 5, MinSwapSoC: 95}, 100, BatteryAvailable)
	fs.Put(s, low)
	fs.Put(s, high)

	var got *Battery
	fs.Get(s, func(b *Battery) bool { return b.SoC >= 95 }, func(b *Battery) { got = b })
	s.Run()

	require.NotNil(t, got)
	assert.Equal(t, "high", got.ID)
	assert.Equal(t, 1, fs.Len())
}

func TestFilterStore_Get_ParksWhenNoMatchThenResolvesOnPut(t *testing.T) {
	s := NewScheduler(100)
	fs := NewFilterStore()
	var got *Battery
	fs.Get(s, func(b *Battery) bool { return b.SoC >= 95 }, func(b *Battery) { got = b })
	s.Run()
	assert.Nil(t, got)

	b := NewBattery("b1", BatteryConfig{CapacityKWh: 5, MinSwapSoC: 95}, 100, BatteryAvailable)
	fs.Put(s, b)
	s.Run()
	require.NotNil(t, got)
	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, 0, fs.Len())
}

func TestFilterStore_CountMatching_DoesNotRemoveItems(t *testing.T) {
	s := NewScheduler(100)
	fs := NewFilterStore()
	fs.Put(s, NewBattery("b1", BatteryConfig{CapacityKWh: 5, MinSwapSoC: 95}, 100, BatteryAvailable))
	assert.Equal(t, 1, fs.CountMatching(func(b *Battery) bool { return b.SoC >= 95 }))
	assert.Equal(t, 1, fs.Len())
}

func TestStore_Get_ReturnsOldestItemFIFO(t *testing.T) {
	s := NewScheduler(100)
	q := NewStore()
	q.Put(s, NewBattery("first", BatteryConfig{CapacityKWh: 5}, 20, BatteryDepleted))
	q.Put(s, NewBattery("second", BatteryConfig{CapacityKWh: 5}, 20, BatteryDepleted))

	var got *Battery
	q.Get(s, func(b *Battery) { got = b })
	s.Run()

	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
	assert.Equal(t, 1, q.Len())
}

func TestStore_Put_HandsOffDirectlyToWaitingGet(t *testing.T) {
	s := NewScheduler(100)
	q := NewStore()
	var got *Battery
	q.Get(s, func(b *Battery) { got = b })
	s.Run()
	assert.Nil(t, got)

	q.Put(s, NewBattery("b1", BatteryConfig{CapacityKWh: 5}, 20, BatteryDepleted))
	s.Run()
	require.NotNil(t, got)
	assert.Equal(t, "b1", got.ID)
}
