package turns

import (
	"fmt"
	"sort"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

// monopolyShare is the participation rate above which a single agent is
// considered to have monopolized the debate.
const monopolyShare = 0.5

// timeoutRatioLimit is the timeouts-to-turns ratio above which an agent is
// flagged for excessive timeouts.
const timeoutRatioLimit = 0.5

// FairnessMetrics derives turn-distribution metrics from the debate's full
// history. An empty history scores 1.0: no turns is no evidence of
// unfairness.
func (m *Manager) FairnessMetrics(debateID string) (debate.FairnessMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok {
		return debate.FairnessMetrics{}, configErr(fmt.Errorf("%w: %q", ErrNotInitialized, debateID))
	}
	return computeMetrics(st), nil
}

func computeMetrics(st *debateState) debate.FairnessMetrics {
	metrics := debate.FairnessMetrics{
		TotalTurns:        len(st.history),
		TurnsPerAgent:     make(map[string]int, len(st.turnsPerAgent)),
		ParticipationRate: make(map[string]float64, len(st.turnsPerAgent)),
		TimeoutsPerAgent:  make(map[string]int, len(st.timeoutsPerAgent)),
		FairnessScore:     jainIndex(st.turnsPerAgent),
	}
	for id, n := range st.turnsPerAgent {
		metrics.TurnsPerAgent[id] = n
		if metrics.TotalTurns > 0 {
			metrics.ParticipationRate[id] = float64(n) / float64(metrics.TotalTurns)
		}
	}
	for id, n := range st.timeoutsPerAgent {
		metrics.TimeoutsPerAgent[id] = n
	}
	if len(st.turnsPerAgent) > 0 {
		metrics.AverageTurnsPerAgent = float64(metrics.TotalTurns) / float64(len(st.turnsPerAgent))
	}
	return metrics
}

// jainIndex is the Jain fairness index (Σx)² / (n·Σx²) over per-agent turn
// counts: 1.0 for perfectly equal counts, decreasing as they diverge. Empty
// or all-zero counts score 1.0 by convention.
func jainIndex(counts map[string]int) float64 {
	if len(counts) == 0 {
		return 1.0
	}
	var sum, sumSq float64
	for _, c := range counts {
		x := float64(c)
		sum += x
		sumSq += x * x
	}
	if sumSq == 0 {
		return 1.0
	}
	return (sum * sum) / (float64(len(counts)) * sumSq)
}

// ValidateFairness audits the debate and accumulates every issue that
// applies: fairness score under the configured threshold, any agent holding
// more than half of all turns, and any agent whose recorded turns are mostly
// timeouts.
func (m *Manager) ValidateFairness(debateID string) (debate.FairnessReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.debates[debateID]
	if !ok {
		return debate.FairnessReport{}, configErr(fmt.Errorf("%w: %q", ErrNotInitialized, debateID))
	}

	metrics := computeMetrics(st)
	var issues []string

	if metrics.FairnessScore < m.cfg.FairnessThreshold {
		issues = append(issues, fmt.Sprintf(
			"fairness score %.2f is below threshold %.2f", metrics.FairnessScore, m.cfg.FairnessThreshold))
	}
	for _, id := range sortedAgents(metrics.TurnsPerAgent) {
		if metrics.ParticipationRate[id] > monopolyShare {
			issues = append(issues, fmt.Sprintf(
				"agent %s has monopolized the debate (%.0f%% of %d turns)",
				id, metrics.ParticipationRate[id]*100, metrics.TotalTurns))
		}
	}
	for _, id := range sortedAgents(metrics.TimeoutsPerAgent) {
		turns := metrics.TurnsPerAgent[id]
		if turns == 0 {
			continue
		}
		if ratio := float64(metrics.TimeoutsPerAgent[id]) / float64(turns); ratio > timeoutRatioLimit {
			issues = append(issues, fmt.Sprintf(
				"agent %s has excessive timeouts (%d of %d turns)",
				id, metrics.TimeoutsPerAgent[id], turns))
		}
	}

	return debate.FairnessReport{Valid: len(issues) == 0, Issues: issues}, nil
}

// sortedAgents returns map keys in lexical order so issue lists are stable.
func sortedAgents[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
