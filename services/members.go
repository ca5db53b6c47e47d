package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"awaam-raaj-backend/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type MemberService struct {
	DB      *gorm.DB
	Weights ScoreWeights
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{DB: db, Weights: DefaultScoreWeights}
}

type RegisterInput struct {
	FullName     string
	Phone        string
	Email        *string
	CNIC         *string
	DistrictID   *string
	Constituency string
	ReferralCode string // referrer's code, optional
}

// Register creates a PENDING member and materializes referral edges for
// levels 1–3 by walking referred_by_id up from the referrer. Edge payouts
// stay pending until the new member is activated.
func (s *MemberService) Register(in RegisterInput) (*models.Member, error) {
	in.FullName = normalizeName(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FullName == "" || in.Phone == "" {
		return nil, &ValidationError{Message: "full_name and phone are required"}
	}

	var referrer *models.Member
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		var ref models.Member
		if err := s.DB.First(&ref, "referral_code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "referral code", ID: code}
			}
			return nil, err
		}
		referrer = &ref
	}

	if in.DistrictID != nil {
		var count int64
		if err := s.DB.Model(&models.District{}).Where("id = ?", *in.DistrictID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, &NotFoundError{Resource: "district", ID: *in.DistrictID}
		}
	}

	var existing int64
	if err := s.DB.Model(&models.Member{}).Where("phone = ?", in.Phone).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &ConflictError{Message: "phone number already registered"}
	}

	member := &models.Member{
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		CNIC:         in.CNIC,
		DistrictID:   in.DistrictID,
		Constituency: in.Constituency,
		MembershipNo: generateMembershipNo(),
		ReferralCode: generateReferralCode(in.FullName),
		Status:       models.MemberStatusPending,
	}
	if referrer != nil {
		member.ReferredByID = &referrer.ID
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		if referrer == nil {
			return nil
		}

		// Walk up the chain: the direct referrer is level 1, their referrer
		// level 2, and so on to maxReferralDepth.
		ancestor := referrer
		for level := 1; level <= maxReferralDepth && ancestor != nil; level++ {
			edge := &models.Referral{
				ReferrerID: ancestor.ID,
				RefereeID:  member.ID,
				Level:      level,
				Points:     s.Weights.ReferralPointsForLevel(level),
				Status:     models.ReferralStatusPending,
			}
			if err := tx.Create(edge).Error; err != nil {
				return err
			}

			if ancestor.ReferredByID == nil {
				break
			}
			var next models.Member
			if err := tx.First(&next, "id = ?", *ancestor.ReferredByID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					break // dangling back-reference, stop the walk
				}
				return err
			}
			ancestor = &next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🪪 Member registered: %s (%s) district=%v referrer=%v",
		member.FullName, member.MembershipNo, member.DistrictID, member.ReferredByID)
	return member, nil
}

// Activate flips a member to ACTIVE and pays out the pending referral edges
// pointing at them. The referral row status guards the payout: each edge is
// verified (and its referrer credited) at most once, even if Activate is
// called again after a suspension.
func (s *MemberService) Activate(memberID string) (*models.Member, error) {
	var member *models.Member
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var m models.Member
		if err := tx.First(&m, "id = ?", memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "member", ID: memberID}
			}
			return err
		}
		if m.Status == models.MemberStatusActive {
			member = &m
			return nil
		}

		if err := tx.Model(&m).UpdateColumn("status", models.MemberStatusActive).Error; err != nil {
			return err
		}
		m.Status = models.MemberStatusActive

		var pending []models.Referral
		if err := tx.Where("referee_id = ? AND status = ?", memberID, models.ReferralStatusPending).
			Find(&pending).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, edge := range pending {
			if err := tx.Model(&models.Referral{}).
				Where("id = ?", edge.ID).
				Updates(map[string]interface{}{
					"status":      models.ReferralStatusVerified,
					"verified_at": now,
				}).Error; err != nil {
				return err
			}
			if edge.Points > 0 {
				if err := incrementMemberScore(tx, edge.ReferrerID, edge.Points); err != nil {
					return err
				}
			}
		}

		if len(pending) > 0 {
			log.Printf("🔗 Verified %d referral edge(s) for member %s", len(pending), memberID)
		}
		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Suspend marks a member SUSPENDED. Their score and referral edges are left
// untouched; suspended members simply drop out of ACTIVE-only views.
func (s *MemberService) Suspend(memberID string) (*models.Member, error) {
	var m models.Member
	if err := s.DB.First(&m, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "member", ID: memberID}
		}
		return nil, err
	}
	if err := s.DB.Model(&m).UpdateColumn("status", models.MemberStatusSuspended).Error; err != nil {
		return nil, err
	}
	m.Status = models.MemberStatusSuspended
	return &m, nil
}

func (s *MemberService) GetMember(memberID string) (*models.Member, error) {
	var m models.Member
	if err := s.DB.First(&m, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "member", ID: memberID}
		}
		return nil, err
	}
	return &m, nil
}

// SearchMembers matches name, phone or membership number.
func (s *MemberService) SearchMembers(query string, limit int) ([]models.Member, error) {
	limit = clampLimit(limit)

	db := s.DB.Model(&models.Member{}).Limit(limit).Order("created_at DESC")
	if q := strings.TrimSpace(query); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		db = db.Where(
			"LOWER(full_name) LIKE ? OR phone LIKE ? OR LOWER(membership_no) LIKE ?",
			term, term, term,
		)
	}

	var members []models.Member
	if err := db.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CreateDistrict registers a ranking scope; the slug is derived from the name.
func (s *MemberService) CreateDistrict(name, province string) (*models.District, error) {
	name = strings.TrimSpace(name)
	province = strings.TrimSpace(province)
	if name == "" || province == "" {
		return nil, &ValidationError{Message: "name and province are required"}
	}

	d := &models.District{
		Name:     name,
		Slug:     slug.Make(name),
		Province: province,
	}
	var count int64
	if err := s.DB.Model(&models.District{}).Where("slug = ?", d.Slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "district already exists"}
	}
	if err := s.DB.Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// ListDistricts returns all districts with member counts.
func (s *MemberService) ListDistricts() ([]models.District, error) {
	var districts []models.District
	if err := s.DB.Order("province ASC, name ASC").Find(&districts).Error; err != nil {
		return nil, err
	}
	for i := range districts {
		s.DB.Model(&models.Member{}).Where("district_id = ?", districts[i].ID).Count(&districts[i].MemberCount)
		s.DB.Model(&models.Member{}).
			Where("district_id = ? AND status = ?", districts[i].ID, models.MemberStatusActive).
			Count(&districts[i].ActiveMemberCount)
	}
	return districts, nil
}

var nameCaser = cases.Title(language.Und, cases.NoLower)

// normalizeName trims and title-cases latin-script names; names already in
// Urdu script pass through untouched (NoLower keeps existing casing).
func normalizeName(name string) string {
	return nameCaser.String(strings.TrimSpace(name))
}

func generateMembershipNo() string {
	return "AR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// generateReferralCode builds a shareable code like "bilal-ahmed-4F7A2C".
func generateReferralCode(fullName string) string {
	base := slug.Make(fullName)
	if base == "" {
		base = "member"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return base + "-" + suffix
}
