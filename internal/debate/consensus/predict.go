package consensus

import "github.com/darianrosebrook/arbiter/internal/debate"

// Prediction is a heuristic forecast of a debate's outcome before all votes
// are in.
type Prediction string

const (
	LikelyAccepted Prediction = "likely_accepted"
	LikelyRejected Prediction = "likely_rejected"
	Uncertain      Prediction = "uncertain"
)

// Below 30% participation there is too little data to predict, and a net
// swing under 30% of the electorate is too close to call.
const (
	minPredictionParticipation = 0.3
	netScoreMargin             = 0.3
)

// CanReachConsensus is a best-case reachability test: could consensus still
// be reached if every not-yet-cast vote resolved in the most favorable
// direction? Under the majority family that means all remaining votes go
// for; under unanimity a single against vote already cast is fatal.
func CanReachConsensus(votes []debate.Vote, totalParticipants int, algorithm Algorithm) bool {
	breakdown := tally(votes)
	if algorithm == Unanimous {
		return breakdown.Against == 0
	}
	remaining := totalParticipants - len(votes)
	if remaining < 0 {
		remaining = 0
	}
	return breakdown.For+remaining > breakdown.Against
}

// PredictOutcome forecasts the likely outcome from partial votes. With under
// 30% participation it abstains; otherwise it reads the net for-against swing
// relative to the whole electorate. The algorithm tag is accepted for
// symmetry with CanReachConsensus but the heuristic itself is
// algorithm-agnostic.
func PredictOutcome(votes []debate.Vote, totalParticipants int, algorithm Algorithm) Prediction {
	if totalParticipants <= 0 {
		return Uncertain
	}
	participation := float64(len(votes)) / float64(totalParticipants)
	if participation < minPredictionParticipation {
		return Uncertain
	}

	breakdown := tally(votes)
	netScore := float64(breakdown.For-breakdown.Against) / float64(totalParticipants)
	switch {
	case netScore > netScoreMargin:
		return LikelyAccepted
	case netScore < -netScoreMargin:
		return LikelyRejected
	default:
		return Uncertain
	}
}
