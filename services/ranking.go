package services

import (
	"errors"
	"log"
	"sort"

	"awaam-raaj-backend/models"

	"gorm.io/gorm"
)

type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

type rankAssignment struct {
	MemberID string
	Rank     int
}

// ComputeDistrictRankings recomputes dense ranks 1..N for all ACTIVE members
// of the district and persists them. Full replace, idempotent: unchanged
// scores yield identical ranks. Writes only the rank column.
//
// Concurrent recomputes of the same district are serialized with a Postgres
// advisory lock keyed on the district id; different districts proceed
// independently.
func (s *RankingService) ComputeDistrictRankings(districtID string) error {
	var district models.District
	if err := s.DB.First(&district, "id = ?", districtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "district", ID: districtID}
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", districtID).Error; err != nil {
			return err
		}

		var members []models.Member
		if err := tx.Where("district_id = ? AND status = ?", districtID, models.MemberStatusActive).
			Find(&members).Error; err != nil {
			return err
		}

		for _, a := range assignRanks(members) {
			if err := tx.Model(&models.Member{}).
				Where("id = ?", a.MemberID).
				UpdateColumn("rank", a.Rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// assignRanks orders by score descending; ties go to the earlier created_at,
// then the lexicographically smaller id, so recomputation is deterministic.
func assignRanks(members []models.Member) []rankAssignment {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		if !members[i].CreatedAt.Equal(members[j].CreatedAt) {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		}
		return members[i].ID < members[j].ID
	})

	out := make([]rankAssignment, len(members))
	for i, m := range members {
		out[i] = rankAssignment{MemberID: m.ID, Rank: i + 1}
	}
	return out
}

// ComputeAllDistrictRankings rebuilds every district in turn. A failed
// district is logged and skipped so one bad district cannot stall the rest.
func (s *RankingService) ComputeAllDistrictRankings() error {
	var districts []models.District
	if err := s.DB.Find(&districts).Error; err != nil {
		return err
	}

	for _, d := range districts {
		if err := s.ComputeDistrictRankings(d.ID); err != nil {
			log.Printf("[RANKING] ❌ Failed to recompute district %s (%s): %v", d.Name, d.ID, err)
		}
	}
	return nil
}
