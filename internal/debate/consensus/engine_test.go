package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

func vote(agentID string, pos debate.Position, confidence float64) debate.Vote {
	return debate.Vote{AgentID: agentID, Position: pos, Confidence: confidence, Reasoning: "because"}
}

func participants(n int) []debate.Participant {
	out := make([]debate.Participant, n)
	for i := 0; i < n; i++ {
		out[i] = debate.NewParticipant(string(rune('a'+i)), debate.RoleProponent)
	}
	return out
}

func TestSimpleMajorityAccepted(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionFor, 0.8),
		vote("c", debate.PositionAgainst, 0.7),
	}

	result, err := FormConsensus(votes, participants(3), Config{Algorithm: SimpleMajority})
	require.NoError(t, err)
	assert.True(t, result.Reached)
	assert.Equal(t, debate.OutcomeAccepted, result.Outcome)
	assert.Equal(t, debate.VoteBreakdown{For: 2, Against: 1, Abstain: 0}, result.Breakdown)
}

func TestSimpleMajorityExcludesAbstentions(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAbstain, 0.5),
		vote("c", debate.PositionAbstain, 0.5),
		vote("d", debate.PositionAgainst, 0.6),
	}

	result, err := FormConsensus(votes, participants(4), Config{Algorithm: SimpleMajority})
	require.NoError(t, err)
	// 1 for vs 1 against: abstentions do not tip the comparison either way.
	assert.False(t, result.Reached)
	assert.Equal(t, debate.OutcomeRejected, result.Outcome)
	assert.Equal(t, 2, result.Breakdown.Abstain)
}

func TestWeightedMajorityTieNotReached(t *testing.T) {
	ps := []debate.Participant{
		{AgentID: "a", Role: debate.RoleProponent, Weight: 2.0},
		{AgentID: "b", Role: debate.RoleOpponent, Weight: 1.0},
		{AgentID: "c", Role: debate.RoleOpponent, Weight: 1.0},
	}
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAgainst, 0.8),
		vote("c", debate.PositionAgainst, 0.8),
	}

	// 2.0 for vs 2.0 against: a weighted tie is not a majority.
	result, err := FormConsensus(votes, ps, Config{Algorithm: WeightedMajority})
	require.NoError(t, err)
	assert.False(t, result.Reached)
	assert.Equal(t, debate.OutcomeRejected, result.Outcome)
}

func TestWeightedMajorityWeightOutvotesCount(t *testing.T) {
	ps := []debate.Participant{
		{AgentID: "a", Role: debate.RoleJudge, Weight: 5.0},
		{AgentID: "b", Role: debate.RoleOpponent, Weight: 1.0},
		{AgentID: "c", Role: debate.RoleOpponent, Weight: 1.0},
	}
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAgainst, 0.8),
		vote("c", debate.PositionAgainst, 0.8),
	}

	result, err := FormConsensus(votes, ps, Config{Algorithm: WeightedMajority})
	require.NoError(t, err)
	assert.True(t, result.Reached)
	assert.Equal(t, debate.VoteBreakdown{For: 1, Against: 2}, result.Breakdown)
}

func TestUnanimous(t *testing.T) {
	ps := participants(3)
	allFor := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionFor, 0.8),
		vote("c", debate.PositionFor, 0.7),
	}

	result, err := FormConsensus(allFor, ps, Config{Algorithm: Unanimous})
	require.NoError(t, err)
	assert.True(t, result.Reached)

	// One against vote breaks consensus regardless of everything else.
	withAgainst := append(allFor[:2:2], vote("c", debate.PositionAgainst, 0.1))
	result, err = FormConsensus(withAgainst, ps, Config{Algorithm: Unanimous})
	require.NoError(t, err)
	assert.False(t, result.Reached)
}

func TestUnanimousAbstentionsOnlyNotReached(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionAbstain, 0.5),
		vote("b", debate.PositionAbstain, 0.5),
	}

	// No against votes, but also no evidence of agreement.
	result, err := FormConsensus(votes, participants(2), Config{Algorithm: Unanimous})
	require.NoError(t, err)
	assert.False(t, result.Reached)
}

func TestUnanimousToleratesAbstentions(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAbstain, 0.5),
	}

	result, err := FormConsensus(votes, participants(2), Config{Algorithm: Unanimous})
	require.NoError(t, err)
	assert.True(t, result.Reached)
}

func TestSupermajorityThreshold(t *testing.T) {
	ps := participants(10)
	cfg := Config{Algorithm: Supermajority, SupermajorityThreshold: 0.67}

	sevenFor := make([]debate.Vote, 0, 7)
	for i := 0; i < 7; i++ {
		sevenFor = append(sevenFor, vote(ps[i].AgentID, debate.PositionFor, 0.8))
	}
	result, err := FormConsensus(sevenFor, ps, cfg)
	require.NoError(t, err)
	assert.True(t, result.Reached, "7 of 10 meets a 0.67 supermajority")

	result, err = FormConsensus(sevenFor[:6], ps, cfg)
	require.NoError(t, err)
	assert.False(t, result.Reached, "6 of 10 misses a 0.67 supermajority")
}

func TestInsufficientParticipation(t *testing.T) {
	votes := []debate.Vote{vote("a", debate.PositionFor, 0.9)}
	cfg := Config{Algorithm: SimpleMajority, MinimumParticipation: 0.67}

	_, err := FormConsensus(votes, participants(3), cfg)
	require.Error(t, err)

	var impossible *ImpossibleError
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "insufficient participation")
}

func TestEmptyParticipants(t *testing.T) {
	_, err := FormConsensus(nil, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestConfidenceDowngradeToModified(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.4),
		vote("b", debate.PositionFor, 0.5),
		vote("c", debate.PositionAgainst, 0.9),
	}
	cfg := Config{Algorithm: SimpleMajority, ConfidenceThreshold: 0.6}

	result, err := FormConsensus(votes, participants(3), cfg)
	require.NoError(t, err)
	assert.True(t, result.Reached)
	// Mean winning-side confidence 0.45 is under the 0.6 floor.
	assert.Equal(t, debate.OutcomeModified, result.Outcome)
}

func TestReasoningNamesAlgorithmAndPercentage(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAgainst, 0.8),
		vote("c", debate.PositionFor, 0.7),
	}

	result, err := FormConsensus(votes, participants(3), Config{Algorithm: SimpleMajority})
	require.NoError(t, err)
	assert.Contains(t, result.Reasoning, "simple_majority")
	assert.Contains(t, result.Reasoning, "%")
	assert.Contains(t, result.Reasoning, "consensus reached")

	result, err = FormConsensus(votes[:2], participants(3), Config{Algorithm: Unanimous})
	require.NoError(t, err)
	assert.Contains(t, result.Reasoning, "unanimous")
	assert.Contains(t, result.Reasoning, "consensus not reached")
}

func TestValidateResultDetectsTampering(t *testing.T) {
	votes := []debate.Vote{
		vote("a", debate.PositionFor, 0.9),
		vote("b", debate.PositionAgainst, 0.8),
	}
	result, err := FormConsensus(votes, participants(2), DefaultConfig())
	require.NoError(t, err)
	assert.True(t, ValidateResult(result, votes))

	result.Breakdown.For++
	assert.False(t, ValidateResult(result, votes))

	assert.False(t, ValidateResult(nil, votes))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, SimpleMajority, cfg.Algorithm)
	assert.InDelta(t, 0.67, cfg.SupermajorityThreshold, 1e-9)
	assert.Zero(t, cfg.MinimumParticipation)
	assert.Zero(t, cfg.ConfidenceThreshold)
}
