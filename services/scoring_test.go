package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreFromCounts(t *testing.T) {
	tests := []struct {
		name  string
		stats ScoreStats
		want  int64
	}{
		{
			name: "zero counts",
			want: 0,
		},
		{
			name:  "direct referrals only",
			stats: ScoreStats{DirectCount: 3},
			want:  30,
		},
		{
			name:  "all levels",
			stats: ScoreStats{DirectCount: 2, Level2Count: 3, Level3Count: 4},
			want:  2*10 + 3*5 + 4*2,
		},
		{
			name:  "active bonus stacks on level points",
			stats: ScoreStats{DirectCount: 1, ActiveCount: 1},
			want:  10 + 3,
		},
		{
			name:  "deep tree",
			stats: ScoreStats{DirectCount: 5, Level2Count: 10, Level3Count: 20, ActiveCount: 12},
			want:  5*10 + 10*5 + 20*2 + 12*3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreFromCounts(&tt.stats, DefaultScoreWeights)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReferralPointsForLevel(t *testing.T) {
	w := DefaultScoreWeights
	require.Equal(t, int64(10), w.ReferralPointsForLevel(1))
	require.Equal(t, int64(5), w.ReferralPointsForLevel(2))
	require.Equal(t, int64(2), w.ReferralPointsForLevel(3))
	require.Equal(t, int64(0), w.ReferralPointsForLevel(4))
	require.Equal(t, int64(0), w.ReferralPointsForLevel(0))
}
