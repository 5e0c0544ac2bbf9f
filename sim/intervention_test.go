package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInterventions_NilScenario_ReturnsBaseUnchanged(t *testing.T) {
	base := []StationConfig{validStation("s1")}
	effective, multiplier, err := ApplyInterventions(base, nil, 1.5)
	require.NoError(t, err)
	assert.Equal(t, base, effective)
	assert.Equal(t, 1.5, multiplier)
}

func TestApplyInterventions_AddStation_RejectsMissingTotalBatteries(t *testing.T) {
	scenario := &ScenarioConfig{
		Name: "expansion",
		Interventions: []ScenarioIntervention{
			{Type: AddStation, NewStation: StationConfig{ID: "s2", ChargerCount: 1}},
		},
	}
	_, _, err := ApplyInterventions(nil, scenario, 1)
	require.Error(t, err)
	var invalid *InvalidConfigError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplyInterventions_AddStation_AppliesDefaultsForOmittedFields(t *testing.T) {
	scenario := &ScenarioConfig{
		Name: "expansion",
		Interventions: []ScenarioIntervention{
			{Type: AddStation, NewStation: StationConfig{ID: "s2", TotalBatteries: 8, ChargerCount: 1}},
		},
	}
	effective, _, err := ApplyInterventions(nil, scenario, 1)
	require.NoError(t, err)
	require.Len(t, effective, 1)
	assert.Equal(t, defaultAddStationChargePowerKW, effective[0].ChargePowerKW)
	assert.Equal(t, defaultAddStationSwapTimeSeconds, effective[0].SwapTimeSeconds)
	assert.NotZero(t, effective[0].BatteryConfig.CapacityKWh)
}

func TestApplyInterventions_RemoveStation_DropsTargetSilently(t *testing.T) {
	base := []StationConfig{validStation("s1"), validStation("s2")}
	scenario := &ScenarioConfig{Interventions: []ScenarioIntervention{
		{Type: RemoveStation, TargetStationID: "s1"},
		{Type: RemoveStation, TargetStationID: "does-not-exist"},
	}}
	effective, _, err := ApplyInterventions(base, scenario, 1)
	require.NoError(t, err)
	require.Len(t, effective, 1)
	assert.Equal(t, "s2", effective[0].ID)
}

func TestApplyInterventions_ModifyChargers_UpdatesOnlyTarget(t *testing.T) {
	base := []StationConfig{validStation("s1"), validStation("s2")}
	scenario := &ScenarioConfig{Interventions: []ScenarioIntervention{
		{Type: ModifyChargers, TargetStationID: "s2", NewChargerCount: 7},
	}}
	effective, _, err := ApplyInterventions(base, scenario, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, effective[0].ChargerCount)
	assert.Equal(t, 7, effective[1].ChargerCount)
}

func TestApplyInterventions_ModifyInventory_FloorsAtOne(t *testing.T) {
	base := []StationConfig{validStation("s1")}
	scenario := &ScenarioConfig{Interventions: []ScenarioIntervention{
		{Type: ModifyInventory, TargetStationID: "s1", InventoryDelta: -9999},
	}}
	effective, _, err := ApplyInterventions(base, scenario, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, effective[0].TotalBatteries)
}

func TestApplyInterventions_DemandMultiplier_NeverTouchesStationList(t *testing.T) {
	base := []StationConfig{validStation("s1")}
	scenario := &ScenarioConfig{Interventions: []ScenarioIntervention{
		{Type: DemandMultiplier, Multiplier: 2},
		{Type: DemandMultiplier, Multiplier: 1.5},
	}}
	effective, multiplier, err := ApplyInterventions(base, scenario, 1)
	require.NoError(t, err)
	assert.Equal(t, base, effective)
	assert.InDelta(t, 3.0, multiplier, 1e-9)
}

func TestApplyInterventions_InvalidIntervention_FailsBeforeMutating(t *testing.T) {
	base := []StationConfig{validStation("s1")}
	scenario := &ScenarioConfig{Interventions: []ScenarioIntervention{
		{Type: ModifyChargers, TargetStationID: "s1", NewChargerCount: 0},
	}}
	_, _, err := ApplyInterventions(base, scenario, 1)
	assert.Error(t, err)
	assert.Equal(t, 2, base[0].ChargerCount)
}

func TestScenarioIntervention_Validate_PolicyChangeAndInjectFaultAreInert(t *testing.T) {
	assert.NoError(t, ScenarioIntervention{Type: PolicyChange}.Validate())
	assert.NoError(t, ScenarioIntervention{Type: InjectFault}.Validate())
}
