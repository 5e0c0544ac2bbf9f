package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryswap/swapsim/sim"
)

var (
	compareBaselinePath string
	compareScenarioPath string
	compareOutputPath   string
)

// compareCmd runs a baseline config and a scenario config back to back
// (same engine, independent orchestrators) and reports the deltas between
// them (percentage deltas for wait time, throughput and utilization;
// absolute deltas for lost swaps and opex).
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a baseline and a scenario config and report the KPI deltas",
	RunE: func(cmd *cobra.Command, args []string) error {
		baselineResult, err := runToCompletion(compareBaselinePath)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		scenarioResult, err := runToCompletion(compareScenarioPath)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}

		delta := sim.CompareResults(baselineResult, scenarioResult)
		scenarioResult.BaselineComparison = &delta

		logrus.WithFields(logrus.Fields{
			"wait_time_delta_pct":   delta.WaitTimeDeltaPct,
			"lost_swaps_delta":      delta.LostSwapsDelta,
			"throughput_delta_pct":  delta.ThroughputDeltaPct,
			"opex_delta":            delta.OpexDelta,
			"utilization_delta_pct": delta.UtilizationDeltaPct,
		}).Info("comparison complete")

		return writeResult(scenarioResult, compareOutputPath)
	},
}

func runToCompletion(configPath string) (*sim.SimulationResult, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	orch, err := sim.NewOrchestrator(config, nil)
	if err != nil {
		return nil, fmt.Errorf("constructing orchestrator: %w", err)
	}
	return orch.Run()
}

func init() {
	compareCmd.Flags().StringVar(&compareBaselinePath, "baseline", "", "path to the baseline YAML config (required)")
	compareCmd.Flags().StringVar(&compareScenarioPath, "scenario", "", "path to the scenario YAML config (required)")
	compareCmd.Flags().StringVar(&compareOutputPath, "out", "", "path to write the JSON result with comparison (defaults to stdout)")
	compareCmd.MarkFlagRequired("baseline")
	compareCmd.MarkFlagRequired("scenario")
}
