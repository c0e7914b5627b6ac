// Package turns owns per-debate turn history and the current open turn,
// allocating turns under four scheduling strategies and auditing the
// resulting distribution for fairness.
package turns

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

// Precondition errors. All are wrapped in a ConfigurationError so callers can
// match either the kind (errors.As) or the specific fault (errors.Is).
var (
	ErrEmptyDebateID   = errors.New("turns: debate id must not be empty")
	ErrNotInitialized  = errors.New("turns: debate not initialized")
	ErrNoParticipants  = errors.New("turns: at least one participant required")
	ErrMaxTurnsReached = errors.New("turns: all agents have reached maximum turns")
)

// ConfigurationError is a non-retryable precondition fault: the caller must
// fix its input (initialize the debate, supply participants, raise the turn
// cap) before calling again.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return e.Err.Error() }
func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErr(err error) error { return &ConfigurationError{Err: err} }

// Strategy selects how the next speaker is chosen among eligible participants.
type Strategy string

const (
	RoundRobin      Strategy = "round_robin"
	WeightedFair    Strategy = "weighted_fair"
	PriorityBased   Strategy = "priority_based"
	DynamicAdaptive Strategy = "dynamic_adaptive"
)

// Config tunes the manager. Use DefaultConfig as a starting point; NewManager
// fills zero-valued numeric fields with defaults but leaves booleans alone.
type Config struct {
	Strategy                 Strategy
	DefaultTurnTimeout       time.Duration
	MaxTurnsPerAgent         int
	FairnessThreshold        float64 // 0-1
	EnableTimeoutPenalty     bool
	TimeoutPenaltyMultiplier float64 // 0-1, applied once per prior timeout
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:                 WeightedFair,
		DefaultTurnTimeout:       60 * time.Second,
		MaxTurnsPerAgent:         10,
		FairnessThreshold:        0.7,
		EnableTimeoutPenalty:     true,
		TimeoutPenaltyMultiplier: 0.5,
	}
}

// debateState is everything the manager keeps per debate: the append-only
// record history, derived counters, and the single open turn.
type debateState struct {
	history          []debate.TurnRecord
	turnsPerAgent    map[string]int
	timeoutsPerAgent map[string]int
	pending          *debate.PendingTurn
}

func newDebateState() *debateState {
	return &debateState{
		turnsPerAgent:    make(map[string]int),
		timeoutsPerAgent: make(map[string]int),
	}
}

// Manager allocates and records turns across independent debates. All state
// lives in an explicit keyed store guarded by a single mutex; allocation is a
// read-then-write on turn counters and is atomic only under that lock.
type Manager struct {
	cfg Config

	mu      sync.Mutex
	debates map[string]*debateState

	now func() time.Time
}

// NewManager creates a Manager. Zero-valued numeric config fields fall back
// to their defaults.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	if cfg.DefaultTurnTimeout <= 0 {
		cfg.DefaultTurnTimeout = def.DefaultTurnTimeout
	}
	if cfg.MaxTurnsPerAgent <= 0 {
		cfg.MaxTurnsPerAgent = def.MaxTurnsPerAgent
	}
	if cfg.FairnessThreshold <= 0 {
		cfg.FairnessThreshold = def.FairnessThreshold
	}
	return &Manager{
		cfg:     cfg,
		debates: make(map[string]*debateState),
		now:     time.Now,
	}
}

// InitializeDebate registers a debate, resetting its history and pending turn
// if it already exists.
func (m *Manager) InitializeDebate(debateID string) error {
	if debateID == "" {
		return configErr(ErrEmptyDebateID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debates[debateID] = newDebateState()
	return nil
}

// AllocateNextTurn picks the next speaker among the given participants under
// the configured strategy and opens a pending turn for them. Agents already
// at the per-agent turn cap are excluded. A pending turn left open by a
// previous allocation is replaced.
func (m *Manager) AllocateNextTurn(debateID string, participants []debate.Participant) (*debate.PendingTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok {
		return nil, configErr(fmt.Errorf("%w: %q", ErrNotInitialized, debateID))
	}
	if len(participants) == 0 {
		return nil, configErr(ErrNoParticipants)
	}

	eligible := make([]debate.Participant, 0, len(participants))
	for _, p := range participants {
		if st.turnsPerAgent[p.AgentID] < m.cfg.MaxTurnsPerAgent {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil, configErr(ErrMaxTurnsReached)
	}

	pick, reason := selectParticipant(m.cfg, eligible, st)

	now := m.now()
	pending := debate.PendingTurn{
		AgentID:     pick.AgentID,
		TurnNumber:  len(st.history) + 1,
		MaxDuration: m.cfg.DefaultTurnTimeout,
		Deadline:    now.Add(m.cfg.DefaultTurnTimeout),
		Reason:      reason,
	}
	st.pending = &pending

	out := pending
	return &out, nil
}

// RecordTurn appends a turn record with the next sequential number, updates
// the per-agent counters and clears the pending turn.
func (m *Manager) RecordTurn(debateID, agentID, action string, duration time.Duration, wasTimeout bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok {
		return configErr(fmt.Errorf("%w: %q", ErrNotInitialized, debateID))
	}

	st.history = append(st.history, debate.TurnRecord{
		TurnNumber: len(st.history) + 1,
		AgentID:    agentID,
		Action:     action,
		Duration:   duration,
		WasTimeout: wasTimeout,
		Timestamp:  m.now(),
	})
	st.turnsPerAgent[agentID]++
	if wasTimeout {
		st.timeoutsPerAgent[agentID]++
	}
	st.pending = nil
	return nil
}

// IsCurrentTurnTimedOut reports whether the debate's open turn has passed its
// deadline. It is false when no turn is open or the debate is unknown.
func (m *Manager) IsCurrentTurnTimedOut(debateID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok || st.pending == nil {
		return false
	}
	return m.now().After(st.pending.Deadline)
}

// CurrentTurn returns a copy of the debate's open turn, or nil if none.
func (m *Manager) CurrentTurn(debateID string) *debate.PendingTurn {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok || st.pending == nil {
		return nil
	}
	out := *st.pending
	return &out
}

// TurnHistory returns a copy of the debate's recorded turns in order.
func (m *Manager) TurnHistory(debateID string) []debate.TurnRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok {
		return nil
	}
	out := make([]debate.TurnRecord, len(st.history))
	copy(out, st.history)
	return out
}

// ClearDebate wipes a debate's history and pending turn while keeping it
// registered. Clearing an unknown debate is a no-op.
func (m *Manager) ClearDebate(debateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.debates[debateID]; ok {
		m.debates[debateID] = newDebateState()
	}
}
