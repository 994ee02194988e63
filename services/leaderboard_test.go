package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/models"
)

func TestMockLeaderboard(t *testing.T) {
	g := NewGameService(nil)
	p := g.newProgress(wednesdayNoon)
	p.Level = 7
	p.Stats.TotalCheckIns = 12
	me := EntryFor("walker", p)
	assert.True(t, me.IsCurrent)
	assert.Equal(t, 12, me.CheckIns)

	ranking := NewMockRanking(42)
	entries, err := ranking.Leaderboard(context.Background(), me, "")
	require.NoError(t, err)
	require.Len(t, entries, 21)

	current := 0
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if e.IsCurrent {
			current++
			assert.Equal(t, "walker", e.Username)
		} else {
			assert.GreaterOrEqual(t, e.Level, 2)
			assert.LessOrEqual(t, e.Level, 11)
		}
		if i > 0 {
			prev := entries[i-1]
			assert.True(t, prev.Level > e.Level || (prev.Level == e.Level && prev.Exp >= e.Exp))
		}
	}
	assert.Equal(t, 1, current)
}

func TestMockLeaderboardSortKeys(t *testing.T) {
	me := models.LeaderboardEntry{Username: "walker", Level: 3, IsCurrent: true}
	ranking := NewMockRanking(7)
	ctx := context.Background()

	byBadges, err := ranking.Leaderboard(ctx, me, SortBadges)
	require.NoError(t, err)
	for i := 1; i < len(byBadges); i++ {
		assert.GreaterOrEqual(t, byBadges[i-1].Badges, byBadges[i].Badges)
	}

	byCheckIns, err := ranking.Leaderboard(ctx, me, SortCheckIns)
	require.NoError(t, err)
	for i := 1; i < len(byCheckIns); i++ {
		assert.GreaterOrEqual(t, byCheckIns[i-1].CheckIns, byCheckIns[i].CheckIns)
	}

	byExp, err := ranking.Leaderboard(ctx, me, SortExp)
	require.NoError(t, err)
	for i := 1; i < len(byExp); i++ {
		assert.GreaterOrEqual(t, byExp[i-1].Exp, byExp[i].Exp)
	}

	_, err = ranking.Leaderboard(ctx, me, "name")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEntryForDefaultsUsername(t *testing.T) {
	p := NewGameService(nil).newProgress(wednesdayNoon)
	assert.Equal(t, "Explorer1", EntryFor("", p).Username)
}
