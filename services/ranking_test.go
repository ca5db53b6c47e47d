package services

import (
	"testing"
	"time"

	"awaam-raaj-backend/models"

	"github.com/stretchr/testify/require"
)

func rankedMember(id string, score int64, createdAt time.Time) models.Member {
	m := models.Member{ID: id, Score: score}
	m.CreatedAt = createdAt
	return m
}

func TestAssignRanksDense(t *testing.T) {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	members := []models.Member{
		rankedMember("m-low", 10, base),
		rankedMember("m-high", 500, base),
		rankedMember("m-mid", 120, base),
		rankedMember("m-zero", 0, base),
	}

	got := assignRanks(members)
	require.Len(t, got, 4)

	byID := map[string]int{}
	seen := map[int]bool{}
	for _, a := range got {
		byID[a.MemberID] = a.Rank
		require.False(t, seen[a.Rank], "rank %d assigned twice", a.Rank)
		seen[a.Rank] = true
		require.GreaterOrEqual(t, a.Rank, 1)
		require.LessOrEqual(t, a.Rank, len(members))
	}

	require.Equal(t, 1, byID["m-high"])
	require.Equal(t, 2, byID["m-mid"])
	require.Equal(t, 3, byID["m-low"])
	require.Equal(t, 4, byID["m-zero"])
}

func TestAssignRanksTieBreaks(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	// Equal scores: earlier created_at wins; equal created_at: smaller id wins.
	members := []models.Member{
		rankedMember("b", 100, late),
		rankedMember("c", 100, early),
		rankedMember("a", 100, late),
	}

	got := assignRanks(members)
	byID := map[string]int{}
	for _, a := range got {
		byID[a.MemberID] = a.Rank
	}

	require.Equal(t, 1, byID["c"])
	require.Equal(t, 2, byID["a"])
	require.Equal(t, 3, byID["b"])
}

func TestAssignRanksIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	members := []models.Member{
		rankedMember("x", 40, base),
		rankedMember("y", 90, base.Add(time.Minute)),
		rankedMember("z", 90, base),
	}

	first := assignRanks(append([]models.Member(nil), members...))
	second := assignRanks(append([]models.Member(nil), members...))
	require.Equal(t, first, second)
}

func TestAssignRanksEmpty(t *testing.T) {
	require.Empty(t, assignRanks(nil))
	require.Empty(t, assignRanks([]models.Member{}))
}
