package services

import (
	"awaam-raaj-backend/models"

	"gorm.io/gorm"
)

const defaultLeaderboardLimit = 20
const maxLeaderboardLimit = 100

// LeaderboardEntry is one row of a district or national leaderboard.
// DistrictName/Province are only populated on the national view.
type LeaderboardEntry struct {
	MemberID     string      `json:"member_id"`
	FullName     string      `json:"full_name"`
	MembershipNo string      `json:"membership_no"`
	DistrictID   *string     `json:"district_id,omitempty"`
	DistrictName string      `json:"district_name,omitempty"`
	Province     string      `json:"province,omitempty"`
	Score        int64       `json:"score"`
	Rank         *int        `json:"rank,omitempty"`
	IsCandidate  bool        `json:"is_candidate"`
	Stats        *ScoreStats `json:"stats,omitempty"`
}

type LeaderboardService struct {
	DB      *gorm.DB
	Scoring *ScoringService
}

func NewLeaderboardService(db *gorm.DB, scoring *ScoringService) *LeaderboardService {
	return &LeaderboardService{DB: db, Scoring: scoring}
}

// DistrictLeaderboard returns the top-limit members by ascending persisted
// rank (nulls excluded). It reflects the last successful rank recompute, not
// live scores; each entry is enriched with on-demand referral stats.
func (s *LeaderboardService) DistrictLeaderboard(districtID string, limit int) ([]LeaderboardEntry, error) {
	limit = clampLimit(limit)

	var members []models.Member
	if err := s.DB.Where("district_id = ? AND rank IS NOT NULL", districtID).
		Order("rank ASC").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		stats, err := s.Scoring.CalculateMemberScore(m.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LeaderboardEntry{
			MemberID:     m.ID,
			FullName:     m.FullName,
			MembershipNo: m.MembershipNo,
			DistrictID:   m.DistrictID,
			Score:        m.Score,
			Rank:         m.Rank,
			IsCandidate:  m.IsCandidate,
			Stats:        stats,
		})
	}
	return entries, nil
}

// NationalLeaderboard is live-scored: top-limit ACTIVE members by raw score
// across all districts, joined with district and province display names.
// Intentionally not rank-snapshot based — ranks only order within a district.
func (s *LeaderboardService) NationalLeaderboard(limit int) ([]LeaderboardEntry, error) {
	limit = clampLimit(limit)

	type row struct {
		ID           string
		FullName     string
		MembershipNo string
		DistrictID   *string
		DistrictName *string
		Province     *string
		Score        int64
		Rank         *int
		IsCandidate  bool
	}

	var rows []row
	if err := s.DB.Raw(`
		SELECT m.id, m.full_name, m.membership_no, m.district_id, m.score, m.rank, m.is_candidate,
		       d.name AS district_name, d.province
		FROM members m
		LEFT JOIN districts d ON d.id = m.district_id
		WHERE m.status = ? AND m.deleted_at IS NULL
		ORDER BY m.score DESC, m.created_at ASC, m.id ASC
		LIMIT ?
	`, models.MemberStatusActive, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		e := LeaderboardEntry{
			MemberID:     r.ID,
			FullName:     r.FullName,
			MembershipNo: r.MembershipNo,
			DistrictID:   r.DistrictID,
			Score:        r.Score,
			Rank:         r.Rank,
			IsCandidate:  r.IsCandidate,
		}
		if r.DistrictName != nil {
			e.DistrictName = *r.DistrictName
		}
		if r.Province != nil {
			e.Province = *r.Province
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}
