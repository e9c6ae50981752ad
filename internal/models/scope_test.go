package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeConstruction(t *testing.T) {
	team := TeamScope(4)
	assert.Equal(t, ScopeTeam, team.Kind())
	assert.Equal(t, uint(4), team.ID())
	assert.Equal(t, "team_id", team.Column())
	assert.Equal(t, "team(4)", team.String())

	player := PlayerScope(9)
	assert.Equal(t, "player_id", player.Column())
	assert.False(t, player.IsZero())
	assert.True(t, Scope{}.IsZero())
}

func TestParseScope(t *testing.T) {
	sc, err := ParseScope("player", 3)
	require.NoError(t, err)
	assert.Equal(t, PlayerScope(3), sc)

	_, err = ParseScope("league", 3)
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = ParseScope("team", 0)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestScopedSetsExactlyOneKey(t *testing.T) {
	var s Scoped
	s.SetScope(TeamScope(2))
	require.NotNil(t, s.TeamID)
	assert.Nil(t, s.PlayerID)

	s.SetScope(PlayerScope(5))
	assert.Nil(t, s.TeamID)
	require.NotNil(t, s.PlayerID)
	assert.Equal(t, uint(5), *s.PlayerID)

	sc, err := s.Scope()
	require.NoError(t, err)
	assert.Equal(t, PlayerScope(5), sc)
}

func TestScopedRejectsBothAndNeither(t *testing.T) {
	one, two := uint(1), uint(2)

	both := Scoped{TeamID: &one, PlayerID: &two}
	assert.ErrorIs(t, both.BeforeCreate(nil), ErrInvalidScope)

	neither := Scoped{}
	assert.ErrorIs(t, neither.BeforeCreate(nil), ErrInvalidScope)

	ok := Scoped{TeamID: &one}
	assert.NoError(t, ok.BeforeCreate(nil))
	assert.NoError(t, ok.BeforeUpdate(nil))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", FormatDate(d))

	_, err = ParseDate("06/01/2024")
	assert.Error(t, err)

	empty := ""
	opt, err := ParseOptionalDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, opt)

	late := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", FormatDate(DateOf(late)))
}
