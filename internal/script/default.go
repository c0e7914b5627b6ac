package script

import (
	"fmt"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

// DefaultScenario builds a runnable scenario for the given participants when
// no scenario file is supplied: proponents argue and vote for, opponents
// argue and vote against, mediators weigh both sides and abstain.
func DefaultScenario(topic string, participants []debate.Participant) *Scenario {
	agents := make([]AgentScript, len(participants))
	for i, p := range participants {
		agents[i] = AgentScript{
			AgentID:    p.AgentID,
			Role:       p.Role,
			Weight:     p.Weight,
			Statements: defaultStatements(p, topic),
			DurationMS: 1500,
			Vote:       defaultVote(p.Role),
		}
	}
	return &Scenario{Topic: topic, Agents: agents}
}

func defaultStatements(p debate.Participant, topic string) []string {
	switch p.Role {
	case debate.RoleOpponent:
		return []string{
			fmt.Sprintf("%s: the risks outweigh the benefits.", topic),
			"The supporting evidence does not hold up under scrutiny.",
		}
	case debate.RoleMediator:
		return []string{
			"Both sides raise valid points; let us focus on the evidence.",
			"Can the proponents address the strongest objection directly?",
		}
	default:
		return []string{
			fmt.Sprintf("%s: the evidence clearly supports this.", topic),
			"The objections raised so far miss the central point.",
		}
	}
}

func defaultVote(role debate.Role) *VoteScript {
	switch role {
	case debate.RoleOpponent:
		return &VoteScript{Position: debate.PositionAgainst, Confidence: 0.7, Reasoning: "unconvinced by the case presented"}
	case debate.RoleMediator:
		return &VoteScript{Position: debate.PositionAbstain, Confidence: 0.5, Reasoning: "facilitating, not deciding"}
	default:
		return &VoteScript{Position: debate.PositionFor, Confidence: 0.8, Reasoning: "the case held up throughout"}
	}
}
