// Package consensus aggregates votes into a decision. Everything here is a
// pure function over an immutable snapshot of votes and participants; the
// package holds no state and is safe for concurrent use.
package consensus

import (
	"errors"
	"fmt"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

// Algorithm selects the majority condition used to evaluate a vote set.
type Algorithm string

const (
	SimpleMajority   Algorithm = "simple_majority"
	WeightedMajority Algorithm = "weighted_majority"
	Unanimous        Algorithm = "unanimous"
	Supermajority    Algorithm = "supermajority"
)

// Config tunes consensus formation.
type Config struct {
	Algorithm              Algorithm
	SupermajorityThreshold float64 // fraction of all participants, default 0.67
	MinimumParticipation   float64 // 0-1 quorum floor, default 0 (no floor)
	ConfidenceThreshold    float64 // 0-1, below which an accept downgrades to modified
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm:              SimpleMajority,
		SupermajorityThreshold: 0.67,
	}
}

// ErrNoParticipants is returned when consensus is requested over an empty
// participant set.
var ErrNoParticipants = errors.New("consensus: at least one participant required")

// ImpossibleError means consensus cannot be formed from the votes cast so
// far. The correct recovery is to solicit more votes and retry, not to treat
// the debate as failed.
type ImpossibleError struct {
	Reason string
}

func (e *ImpossibleError) Error() string {
	return "consensus: consensus impossible: " + e.Reason
}

// FormConsensus evaluates the vote set under the configured algorithm. The
// participation floor is checked before any algorithm runs; a reached
// majority with aggregate confidence below the confidence threshold is
// downgraded to a modified outcome rather than a clean accept.
func FormConsensus(votes []debate.Vote, participants []debate.Participant, cfg Config) (*debate.ConsensusResult, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = SimpleMajority
	}
	if cfg.SupermajorityThreshold <= 0 {
		cfg.SupermajorityThreshold = 0.67
	}

	participation := float64(len(votes)) / float64(len(participants))
	if participation < cfg.MinimumParticipation {
		return nil, &ImpossibleError{Reason: fmt.Sprintf(
			"insufficient participation: %.0f%% of participants voted, %.0f%% required",
			participation*100, cfg.MinimumParticipation*100)}
	}

	breakdown := tally(votes)
	reached, support := evaluate(cfg, breakdown, votes, participants)

	outcome := debate.OutcomeRejected
	if reached {
		outcome = debate.OutcomeAccepted
		if aggregateConfidence(votes) < cfg.ConfidenceThreshold {
			outcome = debate.OutcomeModified
		}
	}

	verdict := "consensus not reached"
	if reached {
		verdict = "consensus reached"
	}
	reasoning := fmt.Sprintf("%s: %d for, %d against, %d abstain (%.1f%% support); %s",
		cfg.Algorithm, breakdown.For, breakdown.Against, breakdown.Abstain, support*100, verdict)

	return &debate.ConsensusResult{
		Reached:   reached,
		Outcome:   outcome,
		Breakdown: breakdown,
		Reasoning: reasoning,
	}, nil
}

// evaluate applies the algorithm's majority condition and returns the support
// fraction quoted in the reasoning string.
func evaluate(cfg Config, breakdown debate.VoteBreakdown, votes []debate.Vote, participants []debate.Participant) (bool, float64) {
	switch cfg.Algorithm {
	case WeightedMajority:
		forWeight, againstWeight := weightedTally(votes, participants)
		support := 0.0
		if total := forWeight + againstWeight; total > 0 {
			support = forWeight / total
		}
		// A weighted tie is not a majority.
		return forWeight > againstWeight, support

	case Unanimous:
		support := 0.0
		if len(votes) > 0 {
			support = float64(breakdown.For) / float64(len(votes))
		}
		// Any against vote breaks unanimity regardless of abstentions;
		// no for votes is no evidence of agreement.
		return breakdown.Against == 0 && breakdown.For > 0, support

	case Supermajority:
		support := float64(breakdown.For) / float64(len(participants))
		return support >= cfg.SupermajorityThreshold, support

	default: // SimpleMajority; abstentions are excluded from the comparison
		support := 0.0
		if decided := breakdown.For + breakdown.Against; decided > 0 {
			support = float64(breakdown.For) / float64(decided)
		}
		return breakdown.For > breakdown.Against, support
	}
}

func tally(votes []debate.Vote) debate.VoteBreakdown {
	var b debate.VoteBreakdown
	for _, v := range votes {
		switch v.Position {
		case debate.PositionFor:
			b.For++
		case debate.PositionAgainst:
			b.Against++
		case debate.PositionAbstain:
			b.Abstain++
		}
	}
	return b
}

// weightedTally sums each side's votes weighted by the matching participant's
// weight. A vote with no matching participant counts at weight 1.0.
func weightedTally(votes []debate.Vote, participants []debate.Participant) (forWeight, againstWeight float64) {
	weights := make(map[string]float64, len(participants))
	for _, p := range participants {
		weights[p.AgentID] = p.Weight
	}
	for _, v := range votes {
		w, ok := weights[v.AgentID]
		if !ok {
			w = 1.0
		}
		switch v.Position {
		case debate.PositionFor:
			forWeight += w
		case debate.PositionAgainst:
			againstWeight += w
		}
	}
	return forWeight, againstWeight
}

// aggregateConfidence is the mean confidence of the winning (for) side, or of
// all votes when no vote went for.
func aggregateConfidence(votes []debate.Vote) float64 {
	var sum float64
	var n int
	for _, v := range votes {
		if v.Position == debate.PositionFor {
			sum += v.Confidence
			n++
		}
	}
	if n == 0 {
		for _, v := range votes {
			sum += v.Confidence
		}
		n = len(votes)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ValidateResult recomputes the vote breakdown and compares it field by field
// against the result, catching a result tampered with or mis-marshalled after
// computation.
func ValidateResult(result *debate.ConsensusResult, votes []debate.Vote) bool {
	if result == nil {
		return false
	}
	return result.Breakdown == tally(votes)
}
