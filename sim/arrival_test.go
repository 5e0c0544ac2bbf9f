package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRealNetwork struct {
	stations []StationConfig
	meanMin  float64
}

func (f fakeRealNetwork) Stations() []StationConfig { return f.stations }
func (f fakeRealNetwork) MeanArrivalMinutes() float64 { return f.meanMin }

func newTestOrchestrator(t *testing.T, cfg SimulationConfig, realNetwork RealNetworkSource) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(cfg, realNetwork)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func TestHourlyStationRate_DividesAmongStationsWithoutRealNetwork(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = []StationConfig{validStation("s1"), validStation("s2")}
	cfg.DemandCurve = NewFlatDemandCurve(10)
	cfg.DemandMultiplier = 1

	o := newTestOrchestrator(t, cfg, nil)
	assert.InDelta(t, 5.0, o.hourlyStationRate(0), 1e-9)
}

func TestHourlyStationRate_RealNetworkReplacesBaseRateAndSkipsDivision(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = []StationConfig{validStation("s1"), validStation("s2")}
	cfg.DemandMultiplier = 2

	real := fakeRealNetwork{meanMin: 6} // 60/6 = 10 arrivals/hour base rate
	o := newTestOrchestrator(t, cfg, real)

	// multiplier still applies; divide-by-station-count does not.
	assert.InDelta(t, 20.0, o.hourlyStationRate(0), 1e-9)
}

func TestHourlyStationRate_ScenarioHourlyAdjustmentAppliesInBothBranches(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = []StationConfig{validStation("s1")}
	cfg.DemandCurve = NewFlatDemandCurve(10)
	cfg.DemandMultiplier = 1
	cfg.Scenario = &ScenarioConfig{
		Name:              "surge",
		DemandAdjustments: map[int]float64{0: 3},
	}

	o := newTestOrchestrator(t, cfg, nil)
	assert.InDelta(t, 30.0, o.hourlyStationRate(0), 1e-9)

	real := fakeRealNetwork{meanMin: 6} // 60/6 = 10 arrivals/hour base rate
	oReal := newTestOrchestrator(t, cfg, real)
	assert.InDelta(t, 30.0, oReal.hourlyStationRate(0), 1e-9)
}
