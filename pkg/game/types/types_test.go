package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameType_MaxPlayers(t *testing.T) {
	assert.Equal(t, 2, GameTypeRanked.MaxPlayers())
	assert.Equal(t, 4, GameTypeTournament.MaxPlayers())
	assert.Equal(t, 0, GameType("CASUAL").MaxPlayers())
}

func TestParseGameType(t *testing.T) {
	got, err := ParseGameType("TOURNAMENT")
	assert.NoError(t, err)
	assert.Equal(t, GameTypeTournament, got)

	_, err = ParseGameType("ranked")
	assert.Error(t, err)
}

func TestSideForSlot(t *testing.T) {
	assert.Equal(t, SideLeft, SideForSlot(1))
	assert.Equal(t, SideRight, SideForSlot(2))
	assert.Equal(t, SideLeft, SideForSlot(3))
	assert.Equal(t, SideRight, SideForSlot(4))
	assert.Equal(t, SideRight, SideLeft.Opposite())
}
