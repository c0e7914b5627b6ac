package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darianrosebrook/arbiter/internal/debate"
)

func roles(participants []debate.Participant) []debate.Role {
	out := make([]debate.Role, len(participants))
	for i, p := range participants {
		out[i] = p.Role
	}
	return out
}

func TestBuildRoles(t *testing.T) {
	tests := []struct {
		n    int
		want []debate.Role
	}{
		{1, []debate.Role{debate.RoleProponent}},
		{2, []debate.Role{debate.RoleProponent, debate.RoleOpponent}},
		{3, []debate.Role{debate.RoleMediator, debate.RoleProponent, debate.RoleOpponent}},
		{4, []debate.Role{debate.RoleMediator, debate.RoleProponent, debate.RoleOpponent, debate.RoleProponent}},
		{5, []debate.Role{debate.RoleMediator, debate.RoleProponent, debate.RoleOpponent, debate.RoleProponent, debate.RoleOpponent}},
	}
	for _, tt := range tests {
		got := Build(tt.n)
		require.Len(t, got, tt.n)
		assert.Equal(t, tt.want, roles(got), "n=%d", tt.n)
	}
}

func TestBuildNamesAndWeights(t *testing.T) {
	got := Build(11)
	assert.Equal(t, "Alice", got[0].AgentID)
	assert.Equal(t, "Ivan", got[8].AgentID)
	assert.Equal(t, "Agent-10", got[9].AgentID)
	assert.Equal(t, "Agent-11", got[10].AgentID)
	for _, p := range got {
		assert.Equal(t, 1.0, p.Weight)
	}
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(0))
}
