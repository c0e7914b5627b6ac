package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/darianrosebrook/arbiter/internal/debate"
	"github.com/darianrosebrook/arbiter/internal/debate/turns"
	"github.com/darianrosebrook/arbiter/internal/orchestrator"
	"github.com/darianrosebrook/arbiter/internal/output"
	"github.com/darianrosebrook/arbiter/internal/roster"
	"github.com/darianrosebrook/arbiter/internal/script"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a full scripted debate end to end",
		RunE:  runSimulate,
	}
	cmd.Flags().String("topic", "", "Debate topic (required unless --scenario is given)")
	cmd.Flags().String("scenario", "", "Path to a scenario JSON file")
	cmd.Flags().String("name", "", "Override output folder name (default: auto-slug from topic)")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	scenarioPath, _ := cmd.Flags().GetString("scenario")
	name, _ := cmd.Flags().GetString("name")

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	var scenario *script.Scenario
	switch {
	case scenarioPath != "":
		scenario, err = script.Load(scenarioPath)
		if err != nil {
			return err
		}
	case topic != "":
		scenario = script.DefaultScenario(topic, roster.Build(cfg.AgentCount))
	default:
		return fmt.Errorf("either --topic or --scenario is required")
	}

	// Setup context with Ctrl+C cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slug := name
	if slug == "" {
		slug = output.GenerateSlug(scenario.Topic)
	}
	outDir, err := output.CreateOutputDir(cfg.OutputDir, slug)
	if err != nil {
		return err
	}
	writer := output.NewWriter(outDir)

	participants := scenario.Participants()
	fmt.Printf("Debate: %s\n", scenario.Topic)
	fmt.Printf("Agents: %d | Strategy: %s | Algorithm: %s | Output: %s\n\n",
		len(participants), cfg.Strategy, cfg.Algorithm, outDir)

	manager := turns.NewManager(cfg.TurnsConfig())
	engine := orchestrator.New(scenario.Topic, participants, manager, script.NewSpeaker(scenario),
		cfg.ConsensusConfig(), cfg.MaxTotalTurns, log)
	engine.OnTurn = func(record debate.TurnRecord, content string) {
		output.PrintTurn(record, content)
		writer.Log(fmt.Sprintf("[Turn %d] %s: %s", record.TurnNumber, record.AgentID, content))
	}
	engine.OnVote = func(vote debate.Vote) {
		writer.Log(fmt.Sprintf("[Vote] %s: %s (confidence %.2f)", vote.AgentID, vote.Position, vote.Confidence))
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if err := writer.WriteJSON(result); err != nil {
		return err
	}
	if err := writer.WriteMarkdown(result); err != nil {
		return err
	}

	output.PrintFairness(result.Metrics, result.Fairness)
	output.PrintConsensus(result.Consensus)
	fmt.Printf("\nDebate complete. Output saved to: %s\n", outDir)
	return nil
}
