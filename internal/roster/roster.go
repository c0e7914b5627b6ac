// Package roster builds participant lists for simulated debates.
package roster

import (
	"fmt"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

var defaultNames = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank", "Grace", "Heidi", "Ivan"}

// Build returns n participants with human-readable ids: the first agent acts
// as mediator when the roster is large enough to spare one, the rest
// alternate between proponent and opponent. All weights default to 1.0.
func Build(n int) []debate.Participant {
	out := make([]debate.Participant, n)
	adversarial := []debate.Role{debate.RoleProponent, debate.RoleOpponent}
	next := 0
	for i := 0; i < n; i++ {
		var role debate.Role
		if i == 0 && n >= 3 {
			role = debate.RoleMediator
		} else {
			role = adversarial[next%len(adversarial)]
			next++
		}
		out[i] = debate.NewParticipant(agentName(i), role)
	}
	return out
}

func agentName(i int) string {
	if i < len(defaultNames) {
		return defaultNames[i]
	}
	return fmt.Sprintf("Agent-%d", i+1)
}
