package services

import (
	"awaam-raaj-backend/models"

	"gorm.io/gorm"
)

// ScoreWeights define per-level referral values (tunable via config/env later)
type ScoreWeights struct {
	DirectReferralPoints int64 // level 1
	Level2ReferralPoints int64
	Level3ReferralPoints int64
	ActiveMemberBonus    int64 // per ACTIVE member anywhere in the depth-3 tree
}

var DefaultScoreWeights = ScoreWeights{
	DirectReferralPoints: 10,
	Level2ReferralPoints: 5,
	Level3ReferralPoints: 2,
	ActiveMemberBonus:    3,
}

// maxReferralDepth caps the tree walk; deeper chains do not contribute.
const maxReferralDepth = 3

// ReferralPointsForLevel returns the one-time payout a referrer receives when
// a level-N referee is activated.
func (w ScoreWeights) ReferralPointsForLevel(level int) int64 {
	switch level {
	case 1:
		return w.DirectReferralPoints
	case 2:
		return w.Level2ReferralPoints
	case 3:
		return w.Level3ReferralPoints
	default:
		return 0
	}
}

// ScoreStats is the computed referral breakdown for one member.
type ScoreStats struct {
	DirectCount int64 `json:"direct_count"`
	Level2Count int64 `json:"level2_count"`
	Level3Count int64 `json:"level3_count"`
	ActiveCount int64 `json:"active_count"`
	TotalScore  int64 `json:"total_score"`
}

type ScoringService struct {
	DB      *gorm.DB
	Weights ScoreWeights
}

func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{DB: db, Weights: DefaultScoreWeights}
}

// CalculateMemberScore walks referred_by_id chains down from the subject to
// depth 3 and aggregates per-level counts plus the activity bonus. An unknown
// member yields zero stats, not an error — leaderboard reads must tolerate
// stale ids.
func (s *ScoringService) CalculateMemberScore(memberID string) (*ScoreStats, error) {
	var exists int64
	if err := s.DB.Model(&models.Member{}).Where("id = ?", memberID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return &ScoreStats{}, nil
	}

	var levelCounts [maxReferralDepth]int64
	var activeCount int64

	frontier := []string{memberID}
	for level := 1; level <= maxReferralDepth && len(frontier) > 0; level++ {
		var referees []models.Member
		if err := s.DB.Select("id", "status").
			Where("referred_by_id IN ?", frontier).
			Find(&referees).Error; err != nil {
			return nil, err
		}

		levelCounts[level-1] = int64(len(referees))
		frontier = make([]string, 0, len(referees))
		for _, m := range referees {
			if m.Status == models.MemberStatusActive {
				activeCount++
			}
			frontier = append(frontier, m.ID)
		}
	}

	stats := &ScoreStats{
		DirectCount: levelCounts[0],
		Level2Count: levelCounts[1],
		Level3Count: levelCounts[2],
		ActiveCount: activeCount,
	}
	stats.TotalScore = scoreFromCounts(stats, s.Weights)
	return stats, nil
}

func scoreFromCounts(stats *ScoreStats, w ScoreWeights) int64 {
	return stats.DirectCount*w.DirectReferralPoints +
		stats.Level2Count*w.Level2ReferralPoints +
		stats.Level3Count*w.Level3ReferralPoints +
		stats.ActiveCount*w.ActiveMemberBonus
}
