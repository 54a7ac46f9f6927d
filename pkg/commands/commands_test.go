package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearMatch(t *testing.T) {
	assert.True(t, Clear.Match("/clear"))
	assert.True(t, Clear.Match("/clear  "))
	assert.True(t, Clear.Match("  /clear please"))

	assert.False(t, Clear.Match("/CLEAR"))
	assert.False(t, Clear.Match("/clearall"))
	assert.False(t, Clear.Match("say /clear"))
	assert.False(t, Clear.Match(""))
}

func TestComplete(t *testing.T) {
	reg := NewRegistry()

	matches := reg.Complete("/cl")
	require.Len(t, matches, 1)
	assert.Equal(t, "/clear", matches[0].Name)
	assert.Equal(t, "/clear", matches[0].Replacement())

	assert.Empty(t, reg.Complete("/x"))
	assert.Len(t, reg.Complete("/"), len(reg.All()))
	assert.Len(t, reg.Complete(""), len(reg.All()))
}
