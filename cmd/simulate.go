// File: cmd/simulate.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/internal/agents"
	"github.com/xkilldash9x/chimera/internal/config"
	"github.com/xkilldash9x/chimera/internal/engine"
	"github.com/xkilldash9x/chimera/internal/llmclient"
	"github.com/xkilldash9x/chimera/internal/monitor"
	"github.com/xkilldash9x/chimera/internal/observability"
	"github.com/xkilldash9x/chimera/internal/reporting"
	"github.com/xkilldash9x/chimera/internal/taskflow"
)

var (
	simOutputPath string
	simFormat     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a multi-agent sabotage simulation under monitoring",
	Long: `Runs the full simulation loop: collaborator and saboteur agents work a
shared task board while the hierarchical monitor observes every action and
reasoning trace, escalating its response level as suspicion accumulates.
The run report includes the final verdict and the impact and efficiency
metrics.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int("steps", 25, "number of simulation steps")
	simulateCmd.Flags().String("scenario", "software_team", "scenario name")
	simulateCmd.Flags().Int("collaborators", 2, "number of collaborator agents")
	simulateCmd.Flags().Int("saboteurs", 1, "number of saboteur agents")
	simulateCmd.Flags().Float64("subtlety", 0.7, "saboteur subtlety level (0..1)")
	simulateCmd.Flags().StringVarP(&simOutputPath, "output", "o", "", "write the run report to this file (default stdout)")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "json", "report format")

	_ = viper.BindPFlag("simulation.max_steps", simulateCmd.Flags().Lookup("steps"))
	_ = viper.BindPFlag("simulation.scenario", simulateCmd.Flags().Lookup("scenario"))
	_ = viper.BindPFlag("simulation.collaborators", simulateCmd.Flags().Lookup("collaborators"))
	_ = viper.BindPFlag("simulation.saboteurs", simulateCmd.Flags().Lookup("saboteurs"))
	_ = viper.BindPFlag("simulation.subtlety_level", simulateCmd.Flags().Lookup("subtlety"))

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	defer observability.Sync()

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ResolveAPIKeys()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	monitorClient := llmclient.NewClientOrNil(cfg.LLM.Monitor, cfg.LLM, logger)
	collaboratorClient := llmclient.NewClientOrNil(cfg.LLM.Collaborator, cfg.LLM, logger)
	saboteurClient := llmclient.NewClientOrNil(cfg.LLM.Saboteur, cfg.LLM, logger)

	supervisor := monitor.NewSupervisor(cfg.Monitor, monitorClient, logger)
	monitorAgent := agents.NewMonitorAgent("monitor-0", supervisor, logger)

	var workers []agents.Agent
	for i := 0; i < cfg.Simulation.Collaborators; i++ {
		workers = append(workers, agents.NewCollaborator(fmt.Sprintf("collaborator-%d", i), collaboratorClient, logger))
	}
	for i := 0; i < cfg.Simulation.Saboteurs; i++ {
		workers = append(workers, agents.NewSaboteur(fmt.Sprintf("saboteur-%d", i), cfg.Simulation.SubtletyLevel, saboteurClient, logger))
	}

	board, err := taskflow.New(cfg.TaskFlow, logger)
	if err != nil {
		return fmt.Errorf("failed to create task board client: %w", err)
	}

	eng := engine.New(cfg.Simulation, cfg.Metrics.Baseline, workers, monitorAgent, board, logger)
	result, err := eng.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	reporter, err := reporting.New(simFormat, simOutputPath, logger)
	if err != nil {
		return err
	}
	defer reporter.Close()
	if err := reporter.Write(result); err != nil {
		return err
	}

	logger.Info("Run complete",
		zap.String("run_id", result.RunID),
		zap.String("final_level", string(result.FinalVerdict.ResponseLevel)),
	)
	return nil
}
