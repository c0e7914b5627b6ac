package turns

import (
	"fmt"
	"math"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

// recencyWindow is how many of the most recent turns count against an agent
// under the dynamic adaptive strategy.
const recencyWindow = 3

// selectParticipant dispatches to the configured strategy. Every strategy is
// a pure function of the eligible participants and the debate's counters;
// ties always resolve to the earlier participant in list order.
func selectParticipant(cfg Config, eligible []debate.Participant, st *debateState) (debate.Participant, string) {
	switch cfg.Strategy {
	case RoundRobin:
		return selectRoundRobin(eligible, st.turnsPerAgent)
	case PriorityBased:
		return selectPriorityBased(eligible, st.turnsPerAgent)
	case DynamicAdaptive:
		return selectDynamicAdaptive(cfg, eligible, st)
	default:
		return selectWeightedFair(cfg, eligible, st)
	}
}

// selectRoundRobin picks the eligible agent with the fewest turns so far,
// which converges to exactly equal counts over many allocations.
func selectRoundRobin(eligible []debate.Participant, turns map[string]int) (debate.Participant, string) {
	best := eligible[0]
	for _, p := range eligible[1:] {
		if turns[p.AgentID] < turns[best.AgentID] {
			best = p
		}
	}
	return best, fmt.Sprintf("Round robin: %s has the fewest turns (%d)", best.AgentID, turns[best.AgentID])
}

// selectWeightedFair scores each agent as weight/(1+turnsTaken), discounted
// by the timeout penalty multiplier once per prior timeout when enabled, and
// picks the highest score. Higher-weight agents accumulate proportionally
// more turns; repeat timeouters are passed over for timeout-free peers.
func selectWeightedFair(cfg Config, eligible []debate.Participant, st *debateState) (debate.Participant, string) {
	best := eligible[0]
	bestScore := weightedFairScore(cfg, best, st)
	for _, p := range eligible[1:] {
		if s := weightedFairScore(cfg, p, st); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, fmt.Sprintf("Weighted fair: %s scored %.3f (weight %.2f, %d turns, %d timeouts)",
		best.AgentID, bestScore, best.Weight, st.turnsPerAgent[best.AgentID], st.timeoutsPerAgent[best.AgentID])
}

func weightedFairScore(cfg Config, p debate.Participant, st *debateState) float64 {
	score := p.Weight / float64(1+st.turnsPerAgent[p.AgentID])
	if cfg.EnableTimeoutPenalty {
		score *= math.Pow(cfg.TimeoutPenaltyMultiplier, float64(st.timeoutsPerAgent[p.AgentID]))
	}
	return score
}

// rolePriority ranks roles for the priority-based and dynamic adaptive
// strategies: mediators lead, the two adversarial roles tie below them.
func rolePriority(role debate.Role) float64 {
	switch role {
	case debate.RoleMediator:
		return 3.0
	case debate.RoleProponent, debate.RoleOpponent:
		return 2.0
	default:
		return 1.0
	}
}

// selectPriorityBased prefers high-priority roles while they are under-used;
// each turn already taken costs half a priority point, so a mediator that has
// spoken disproportionately often yields to the adversarial roles.
func selectPriorityBased(eligible []debate.Participant, turns map[string]int) (debate.Participant, string) {
	score := func(p debate.Participant) float64 {
		return rolePriority(p.Role) - 0.5*float64(turns[p.AgentID])
	}
	best := eligible[0]
	bestScore := score(best)
	for _, p := range eligible[1:] {
		if s := score(p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, fmt.Sprintf("Priority based: %s (%s) has priority %.1f after %d turns",
		best.AgentID, best.Role, bestScore, turns[best.AgentID])
}

// selectDynamicAdaptive combines weight, inverse turn count, a recency
// penalty for agents who spoke in the most recent turns, and role priority.
func selectDynamicAdaptive(cfg Config, eligible []debate.Participant, st *debateState) (debate.Participant, string) {
	score := func(p debate.Participant) float64 {
		turnShare := 1.0 / float64(1+st.turnsPerAgent[p.AgentID])
		return 0.3*p.Weight + 0.3*turnShare + 0.2*recencyScore(p.AgentID, st.history) + 0.2*rolePriority(p.Role)/3.0
	}
	best := eligible[0]
	bestScore := score(best)
	for _, p := range eligible[1:] {
		if s := score(p); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best, fmt.Sprintf("Dynamic adaptive: %s scored %.3f (weight %.2f, %d turns, role %s)",
		best.AgentID, bestScore, best.Weight, st.turnsPerAgent[best.AgentID], best.Role)
}

// recencyScore is 1.0 for agents silent over the recency window and drops
// toward 0.0 the more recently the agent spoke.
func recencyScore(agentID string, history []debate.TurnRecord) float64 {
	for i := 0; i < recencyWindow && i < len(history); i++ {
		if history[len(history)-1-i].AgentID == agentID {
			return float64(i) / float64(recencyWindow)
		}
	}
	return 1.0
}
