package debate

import "time"

// Role identifies a participant's function within a debate.
type Role string

const (
	RoleProponent Role = "proponent"
	RoleOpponent  Role = "opponent"
	RoleMediator  Role = "mediator"
	RoleJudge     Role = "judge"
)

// Participant is one deliberating agent. Participants are supplied fresh on
// every scheduling call; nothing here is stored across calls, only counters
// keyed by AgentID. Role and Weight may change between calls.
type Participant struct {
	AgentID string  `json:"agent_id"`
	Role    Role    `json:"role"`
	Weight  float64 `json:"weight"` // non-negative; zero is honored as given
}

// NewParticipant creates a participant with the default weight of 1.0.
func NewParticipant(agentID string, role Role) Participant {
	return Participant{AgentID: agentID, Role: role, Weight: 1.0}
}

// TurnRecord is one recorded contribution. Records are append-only: nothing
// mutates or deletes them short of clearing the whole debate.
type TurnRecord struct {
	TurnNumber int           `json:"turn_number"` // sequential, debate-global, starts at 1
	AgentID    string        `json:"agent_id"`
	Action     string        `json:"action"`
	Duration   time.Duration `json:"duration"`
	WasTimeout bool          `json:"was_timeout"`
	Timestamp  time.Time     `json:"timestamp"`
}

// PendingTurn is the single open turn of a debate, created by allocation and
// cleared by the next recorded turn.
type PendingTurn struct {
	AgentID     string        `json:"agent_id"`
	TurnNumber  int           `json:"turn_number"`
	MaxDuration time.Duration `json:"max_duration"`
	Deadline    time.Time     `json:"deadline"`
	Reason      string        `json:"reason"`
}

// FairnessMetrics is derived on demand from a debate's full turn history.
type FairnessMetrics struct {
	TotalTurns           int                `json:"total_turns"`
	TurnsPerAgent        map[string]int     `json:"turns_per_agent"`
	AverageTurnsPerAgent float64            `json:"average_turns_per_agent"`
	FairnessScore        float64            `json:"fairness_score"` // Jain index, 1.0 = perfectly even
	ParticipationRate    map[string]float64 `json:"participation_rate"`
	TimeoutsPerAgent     map[string]int     `json:"timeouts_per_agent"`
}

// FairnessReport is the result of auditing a debate for unfairness. Issues
// accumulate independently; Valid is true only when there are none.
type FairnessReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

// Position is a vote's stance on the proposition.
type Position string

const (
	PositionFor     Position = "for"
	PositionAgainst Position = "against"
	PositionAbstain Position = "abstain"
)

// Vote is one participant's stance, supplied externally and never stored.
type Vote struct {
	AgentID    string    `json:"agent_id"`
	Position   Position  `json:"position"`
	Confidence float64   `json:"confidence"` // 0-1
	Reasoning  string    `json:"reasoning"`
	Timestamp  time.Time `json:"timestamp"`
}

// Outcome is the decision attached to a consensus result.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	// OutcomeModified means the majority condition held but aggregate
	// confidence was too low to call it a clean accept.
	OutcomeModified Outcome = "modified"
)

// VoteBreakdown counts votes by position, unweighted.
type VoteBreakdown struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

// ConsensusResult is the outcome of evaluating a vote set.
type ConsensusResult struct {
	Reached   bool          `json:"reached"`
	Outcome   Outcome       `json:"outcome"`
	Breakdown VoteBreakdown `json:"voting_breakdown"`
	Reasoning string        `json:"reasoning"` // audit trail: algorithm, percentage, verdict
}
