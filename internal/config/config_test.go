package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darianrosebrook/arbiter/internal/debate/consensus"
	"github.com/darianrosebrook/arbiter/internal/debate/turns"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ARBITER_STRATEGY", "ARBITER_ALGORITHM", "ARBITER_TURN_TIMEOUT_MS",
		"ARBITER_MAX_TURNS_PER_AGENT", "ARBITER_FAIRNESS_THRESHOLD",
		"ARBITER_SUPERMAJORITY_THRESHOLD", "ARBITER_MIN_PARTICIPATION",
		"ARBITER_CONFIDENCE_THRESHOLD", "ARBITER_AGENTS",
		"ARBITER_MAX_TOTAL_TURNS", "ARBITER_OUTPUT_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, turns.WeightedFair, cfg.Strategy)
	assert.Equal(t, consensus.SimpleMajority, cfg.Algorithm)
	assert.Equal(t, 60*time.Second, cfg.TurnTimeout)
	assert.Equal(t, 10, cfg.MaxTurnsPerAgent)
	assert.Equal(t, 0.7, cfg.FairnessThreshold)
	assert.Equal(t, 0.67, cfg.SupermajorityThreshold)
	assert.Equal(t, 5, cfg.AgentCount)
	assert.Equal(t, 20, cfg.MaxTotalTurns)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARBITER_STRATEGY", "priority_based")
	t.Setenv("ARBITER_ALGORITHM", "supermajority")
	t.Setenv("ARBITER_TURN_TIMEOUT_MS", "1500")
	t.Setenv("ARBITER_MAX_TURNS_PER_AGENT", "4")
	t.Setenv("ARBITER_FAIRNESS_THRESHOLD", "0.9")
	t.Setenv("ARBITER_AGENTS", "3")
	t.Setenv("ARBITER_OUTPUT_DIR", "runs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, turns.PriorityBased, cfg.Strategy)
	assert.Equal(t, consensus.Supermajority, cfg.Algorithm)
	assert.Equal(t, 1500*time.Millisecond, cfg.TurnTimeout)
	assert.Equal(t, 4, cfg.MaxTurnsPerAgent)
	assert.Equal(t, 0.9, cfg.FairnessThreshold)
	assert.Equal(t, 3, cfg.AgentCount)
	assert.Equal(t, "runs", cfg.OutputDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ARBITER_STRATEGY", "lottery"},
		{"ARBITER_ALGORITHM", "coin_flip"},
		{"ARBITER_TURN_TIMEOUT_MS", "soon"},
		{"ARBITER_TURN_TIMEOUT_MS", "0"},
		{"ARBITER_FAIRNESS_THRESHOLD", "1.5"},
		{"ARBITER_MIN_PARTICIPATION", "-0.1"},
		{"ARBITER_AGENTS", "0"},
		{"ARBITER_MAX_TOTAL_TURNS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestTurnsConfigMapping(t *testing.T) {
	cfg := &Config{
		Strategy:          turns.RoundRobin,
		TurnTimeout:       5 * time.Second,
		MaxTurnsPerAgent:  3,
		FairnessThreshold: 0.8,
	}
	tc := cfg.TurnsConfig()
	assert.Equal(t, turns.RoundRobin, tc.Strategy)
	assert.Equal(t, 5*time.Second, tc.DefaultTurnTimeout)
	assert.Equal(t, 3, tc.MaxTurnsPerAgent)
	assert.Equal(t, 0.8, tc.FairnessThreshold)
	assert.True(t, tc.EnableTimeoutPenalty, "defaults carry over for unmapped fields")
}

func TestConsensusConfigMapping(t *testing.T) {
	cfg := &Config{
		Algorithm:              consensus.WeightedMajority,
		SupermajorityThreshold: 0.75,
		MinimumParticipation:   0.5,
		ConfidenceThreshold:    0.6,
	}
	cc := cfg.ConsensusConfig()
	assert.Equal(t, consensus.WeightedMajority, cc.Algorithm)
	assert.Equal(t, 0.75, cc.SupermajorityThreshold)
	assert.Equal(t, 0.5, cc.MinimumParticipation)
	assert.Equal(t, 0.6, cc.ConfidenceThreshold)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	// Missing files are not an error.
	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ARBITER_AGENTS=7\n"), 0o644))
	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("ARBITER_AGENTS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.AgentCount)
}
