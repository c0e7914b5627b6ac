package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/darianrosebrook/arbiter/internal/debate/consensus"
	"github.com/darianrosebrook/arbiter/internal/debate/turns"
)

// Config holds everything the CLI needs to run a debate.
type Config struct {
	Strategy               turns.Strategy
	TurnTimeout            time.Duration
	MaxTurnsPerAgent       int
	FairnessThreshold      float64
	Algorithm              consensus.Algorithm
	SupermajorityThreshold float64
	MinimumParticipation   float64
	ConfidenceThreshold    float64
	AgentCount             int
	MaxTotalTurns          int
	OutputDir              string
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	strategy, err := envStrategy("ARBITER_STRATEGY", turns.WeightedFair)
	if err != nil {
		return nil, err
	}
	algorithm, err := envAlgorithm("ARBITER_ALGORITHM", consensus.SimpleMajority)
	if err != nil {
		return nil, err
	}
	timeoutMS, err := envInt("ARBITER_TURN_TIMEOUT_MS", 60000)
	if err != nil {
		return nil, err
	}
	maxTurnsPerAgent, err := envInt("ARBITER_MAX_TURNS_PER_AGENT", 10)
	if err != nil {
		return nil, err
	}
	fairness, err := envFloat("ARBITER_FAIRNESS_THRESHOLD", 0.7)
	if err != nil {
		return nil, err
	}
	supermajority, err := envFloat("ARBITER_SUPERMAJORITY_THRESHOLD", 0.67)
	if err != nil {
		return nil, err
	}
	minParticipation, err := envFloat("ARBITER_MIN_PARTICIPATION", 0)
	if err != nil {
		return nil, err
	}
	confidence, err := envFloat("ARBITER_CONFIDENCE_THRESHOLD", 0)
	if err != nil {
		return nil, err
	}
	agentCount, err := envInt("ARBITER_AGENTS", 5)
	if err != nil {
		return nil, err
	}
	maxTotalTurns, err := envInt("ARBITER_MAX_TOTAL_TURNS", 20)
	if err != nil {
		return nil, err
	}

	outputDir := os.Getenv("ARBITER_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "output"
	}

	cfg := &Config{
		Strategy:               strategy,
		TurnTimeout:            time.Duration(timeoutMS) * time.Millisecond,
		MaxTurnsPerAgent:       maxTurnsPerAgent,
		FairnessThreshold:      fairness,
		Algorithm:              algorithm,
		SupermajorityThreshold: supermajority,
		MinimumParticipation:   minParticipation,
		ConfidenceThreshold:    confidence,
		AgentCount:             agentCount,
		MaxTotalTurns:          maxTotalTurns,
		OutputDir:              outputDir,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AgentCount < 1 {
		return fmt.Errorf("config: AgentCount must be >= 1, got %d", c.AgentCount)
	}
	if c.MaxTotalTurns < 1 {
		return fmt.Errorf("config: MaxTotalTurns must be >= 1, got %d", c.MaxTotalTurns)
	}
	if c.TurnTimeout <= 0 {
		return fmt.Errorf("config: TurnTimeout must be positive, got %s", c.TurnTimeout)
	}
	for name, v := range map[string]float64{
		"FairnessThreshold":      c.FairnessThreshold,
		"SupermajorityThreshold": c.SupermajorityThreshold,
		"MinimumParticipation":   c.MinimumParticipation,
		"ConfidenceThreshold":    c.ConfidenceThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("config: %s must be in [0,1], got %g", name, v)
		}
	}
	return nil
}

// TurnsConfig maps the loaded settings onto the turn manager.
func (c *Config) TurnsConfig() turns.Config {
	cfg := turns.DefaultConfig()
	cfg.Strategy = c.Strategy
	cfg.DefaultTurnTimeout = c.TurnTimeout
	cfg.MaxTurnsPerAgent = c.MaxTurnsPerAgent
	cfg.FairnessThreshold = c.FairnessThreshold
	return cfg
}

// ConsensusConfig maps the loaded settings onto the consensus engine.
func (c *Config) ConsensusConfig() consensus.Config {
	return consensus.Config{
		Algorithm:              c.Algorithm,
		SupermajorityThreshold: c.SupermajorityThreshold,
		MinimumParticipation:   c.MinimumParticipation,
		ConfidenceThreshold:    c.ConfidenceThreshold,
	}
}

// LoadDotEnv loads a .env file into the environment if one exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envStrategy(key string, defaultVal turns.Strategy) (turns.Strategy, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	switch v := turns.Strategy(s); v {
	case turns.RoundRobin, turns.WeightedFair, turns.PriorityBased, turns.DynamicAdaptive:
		return v, nil
	}
	return "", fmt.Errorf("config: invalid %s value %q", key, s)
}

func envAlgorithm(key string, defaultVal consensus.Algorithm) (consensus.Algorithm, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	switch v := consensus.Algorithm(s); v {
	case consensus.SimpleMajority, consensus.WeightedMajority, consensus.Unanimous, consensus.Supermajority:
		return v, nil
	}
	return "", fmt.Errorf("config: invalid %s value %q", key, s)
}
