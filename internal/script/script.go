// Package script provides deterministic, scripted debate participants loaded
// from a scenario file. It stands in for live agents so debates can be run
// and replayed without any external service.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/darianrosebrook/arbiter/internal/debate"
	"github.com/darianrosebrook/arbiter/internal/orchestrator"
)

// AgentScript describes one scripted participant.
type AgentScript struct {
	AgentID    string      `json:"agent_id"`
	Role       debate.Role `json:"role"`
	Weight     float64     `json:"weight"`
	Statements []string    `json:"statements"`              // cycled across the agent's turns
	DurationMS int64       `json:"turn_duration_ms"`        // per-turn duration, default 1500
	TimeoutOn  []int       `json:"timeout_on,omitempty"`    // the agent's own turn indexes (1-based) that time out
	Vote       *VoteScript `json:"vote,omitempty"`          // nil means the agent declines to vote
}

// VoteScript is an agent's scripted vote.
type VoteScript struct {
	Position   debate.Position `json:"position"`
	Confidence float64         `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

// Scenario is a complete scripted debate.
type Scenario struct {
	Topic  string        `json:"topic"`
	Agents []AgentScript `json:"agents"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: reading scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parsing scenario: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Topic == "" {
		return fmt.Errorf("script: scenario topic is required")
	}
	if len(s.Agents) == 0 {
		return fmt.Errorf("script: scenario needs at least one agent")
	}
	seen := make(map[string]bool, len(s.Agents))
	for i, a := range s.Agents {
		if a.AgentID == "" {
			return fmt.Errorf("script: agent %d has no agent_id", i)
		}
		if seen[a.AgentID] {
			return fmt.Errorf("script: duplicate agent_id %q", a.AgentID)
		}
		seen[a.AgentID] = true
		if a.Weight < 0 {
			return fmt.Errorf("script: agent %q has negative weight", a.AgentID)
		}
		if a.Vote != nil && (a.Vote.Confidence < 0 || a.Vote.Confidence > 1) {
			return fmt.Errorf("script: agent %q vote confidence must be in [0,1]", a.AgentID)
		}
	}
	return nil
}

// Participants returns the scenario's agents as scheduler participants.
func (s *Scenario) Participants() []debate.Participant {
	out := make([]debate.Participant, len(s.Agents))
	for i, a := range s.Agents {
		out[i] = debate.Participant{AgentID: a.AgentID, Role: a.Role, Weight: a.Weight}
	}
	return out
}

// Speaker plays a scenario back, cycling each agent through its statements.
// Safe for concurrent use.
type Speaker struct {
	mu     sync.Mutex
	agents map[string]*AgentScript
	calls  map[string]int // per-agent contribution count
}

// NewSpeaker creates a Speaker for the scenario.
func NewSpeaker(s *Scenario) *Speaker {
	agents := make(map[string]*AgentScript, len(s.Agents))
	for i := range s.Agents {
		agents[s.Agents[i].AgentID] = &s.Agents[i]
	}
	return &Speaker{agents: agents, calls: make(map[string]int)}
}

// Contribute returns the agent's next scripted statement.
func (sp *Speaker) Contribute(_ context.Context, agentID string, turnNumber int) (orchestrator.Contribution, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	agent, ok := sp.agents[agentID]
	if !ok {
		return orchestrator.Contribution{}, fmt.Errorf("script: unknown agent %q", agentID)
	}
	sp.calls[agentID]++
	nth := sp.calls[agentID]

	content := "I rest my case."
	if len(agent.Statements) > 0 {
		content = agent.Statements[(nth-1)%len(agent.Statements)]
	}
	duration := time.Duration(agent.DurationMS) * time.Millisecond
	if duration <= 0 {
		duration = 1500 * time.Millisecond
	}
	timedOut := false
	for _, n := range agent.TimeoutOn {
		if n == nth {
			timedOut = true
			break
		}
	}
	return orchestrator.Contribution{
		Action:   "argument",
		Content:  content,
		Duration: duration,
		TimedOut: timedOut,
	}, nil
}

// Vote returns the agent's scripted vote, or nil if it has none.
func (sp *Speaker) Vote(_ context.Context, agentID string) (*debate.Vote, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	agent, ok := sp.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("script: unknown agent %q", agentID)
	}
	if agent.Vote == nil {
		return nil, nil
	}
	return &debate.Vote{
		AgentID:    agentID,
		Position:   agent.Vote.Position,
		Confidence: agent.Vote.Confidence,
		Reasoning:  agent.Vote.Reasoning,
		Timestamp:  time.Now(),
	}, nil
}
