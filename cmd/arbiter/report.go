package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darianrosebrook/arbiter/internal/debate/consensus"
	"github.com/darianrosebrook/arbiter/internal/debate/turns"
	"github.com/darianrosebrook/arbiter/internal/orchestrator"
	"github.com/darianrosebrook/arbiter/internal/output"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <result.json>",
		Short: "Re-audit a saved debate result",
		Long:  "Loads a saved result.json, recomputes fairness metrics from its turn history, verifies the stored consensus breakdown against the stored votes, and prints the audit.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading result: %w", err)
	}
	var result orchestrator.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("parsing result: %w", err)
	}

	// Replay the recorded turns into a fresh manager so the metrics are
	// recomputed from the history rather than trusted from the file.
	manager := turns.NewManager(cfg.TurnsConfig())
	if err := manager.InitializeDebate(result.DebateID); err != nil {
		return err
	}
	for _, turn := range result.Turns {
		if err := manager.RecordTurn(result.DebateID, turn.AgentID, turn.Action, turn.Duration, turn.WasTimeout); err != nil {
			return err
		}
	}
	metrics, err := manager.FairnessMetrics(result.DebateID)
	if err != nil {
		return err
	}
	report, err := manager.ValidateFairness(result.DebateID)
	if err != nil {
		return err
	}

	fmt.Printf("Debate: %s (%s)\n", result.Topic, result.DebateID)
	output.PrintFairness(metrics, report)
	output.PrintConsensus(result.Consensus)

	if result.Consensus != nil {
		if consensus.ValidateResult(result.Consensus, result.Votes) {
			fmt.Println("\nStored consensus breakdown matches the stored votes.")
		} else {
			fmt.Println("\nWARNING: stored consensus breakdown does not match the stored votes; the result may have been altered.")
		}
	}
	return nil
}
