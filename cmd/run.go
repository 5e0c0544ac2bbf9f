package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryswap/swapsim/sim"
)

var (
	runConfigPath string
	runOutputPath string
	runTracePath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation from a YAML config and print the resulting KPIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(runConfigPath)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"duration_days": config.DurationDays,
			"stations":      len(config.Stations),
			"seed":          config.RandomSeed,
		}).Info("starting simulation run")

		orch, err := sim.NewOrchestrator(config, nil)
		if err != nil {
			return fmt.Errorf("constructing orchestrator: %w", err)
		}

		result, err := orch.Run()
		if err != nil {
			return fmt.Errorf("run failed: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"total_swaps": result.CityTotalSwaps,
			"lost_swaps":  result.CityLostSwaps,
			"compute_ms":  result.ComputeTimeMs,
		}).Info("simulation complete")

		if err := writeResult(result, runOutputPath); err != nil {
			return err
		}
		if runTracePath != "" {
			if err := writeTrace(orch, runTracePath); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeResult(result *sim.SimulationResult, path string) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if path == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing result to %s: %w", path, err)
	}
	logrus.Infof("wrote result to %s", path)
	return nil
}

func writeTrace(orch *sim.Orchestrator, path string) error {
	events := orch.Sink().Events()
	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling trace: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing trace to %s: %w", path, err)
	}
	logrus.Infof("wrote %d events to %s", len(events), path)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a YAML simulation config (required)")
	runCmd.Flags().StringVar(&runOutputPath, "out", "", "path to write the JSON result (defaults to stdout)")
	runCmd.Flags().StringVar(&runTracePath, "trace", "", "optional path to write the full JSON event trace")
	runCmd.MarkFlagRequired("config")
}
