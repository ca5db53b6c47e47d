package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"awaam-raaj-backend/models"

	"gorm.io/gorm"
)

// Campaign scoring constants. MaxSessionPoints and MaxTrailPoints are exported
// where admin tooling reads them.
const (
	MaxSessionPoints        = 25
	pointsPerHalfHour       = 5
	minScoredDurationMin    = 30
	pointsPerPhoto          = 2
	distanceBonusPoints     = 3
	distanceBonusThresholdM = 500.0
	fraudMaxDistanceM       = 50.0
	fraudMinDurationMin     = 30
	photoMaxGeotagDriftM    = 50000.0
	photoMaxExifAge         = time.Hour

	// MaxTrailPoints bounds GPS accumulation per session; appends past the cap
	// are rejected.
	MaxTrailPoints = 5000
)

// PhotoExif is the metadata extracted from an uploaded campaign photo.
type PhotoExif struct {
	TakenAt *time.Time
	Lat     *float64
	Lng     *float64
}

type CampaignService struct {
	DB *gorm.DB
}

func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{DB: db}
}

// StartSession opens a campaign check-in at the given coordinates and records
// the first GPS point. One ACTIVE session per member: a second start fails
// with ConflictError and creates no row.
func (s *CampaignService) StartSession(memberID string, lat, lng float64) (*models.CampaignSession, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}

	var member models.Member
	if err := s.DB.First(&member, "id = ?", memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "member", ID: memberID}
		}
		return nil, err
	}

	var session *models.CampaignSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent starts for the same member.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "campaign:"+memberID).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.CampaignSession{}).
			Where("member_id = ? AND status = ?", memberID, models.SessionStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return &ConflictError{Message: "member already has an active campaign session"}
		}

		now := time.Now()
		session = &models.CampaignSession{
			MemberID:    memberID,
			StartedAt:   now,
			StartLat:    lat,
			StartLng:    lng,
			Status:      models.SessionStatusActive,
			AdminReview: models.AdminReviewPending,
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}

		first := &models.CampaignGpsPoint{
			SessionID:  session.ID,
			Lat:        lat,
			Lng:        lng,
			RecordedAt: now,
		}
		return tx.Create(first).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📍 Campaign session started: member=%s session=%s", memberID, session.ID)
	return session, nil
}

// AppendGpsPoint adds one trail sample to the caller's ACTIVE session.
func (s *CampaignService) AppendGpsPoint(sessionID, memberID string, lat, lng, accuracy float64) (*models.CampaignGpsPoint, error) {
	if err := validateCoords(lat, lng); err != nil {
		return nil, err
	}

	session, err := s.ownedActiveSession(s.DB, sessionID, memberID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.Model(&models.CampaignGpsPoint{}).
		Where("session_id = ?", session.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if trailFull(int(count)) {
		return nil, &ValidationError{Message: fmt.Sprintf("gps trail limit of %d points reached", MaxTrailPoints)}
	}

	point := &models.CampaignGpsPoint{
		SessionID:      session.ID,
		Lat:            lat,
		Lng:            lng,
		AccuracyMeters: accuracy,
		RecordedAt:     time.Now(),
	}
	if err := s.DB.Create(point).Error; err != nil {
		return nil, err
	}
	return point, nil
}

// AttachPhoto stores a campaign photo with its fraud verdict. Flagged photos
// are stored anyway — the flag only affects verification, never the upload.
func (s *CampaignService) AttachPhoto(sessionID, memberID, url string, exif PhotoExif) (*models.CampaignPhoto, error) {
	session, err := s.ownedActiveSession(s.DB, sessionID, memberID)
	if err != nil {
		return nil, err
	}

	reason := photoFlagReason(time.Now(), session.StartedAt, session.StartLat, session.StartLng, exif)

	photo := &models.CampaignPhoto{
		SessionID:   session.ID,
		MemberID:    memberID,
		URL:         url,
		ExifTakenAt: exif.TakenAt,
		ExifLat:     exif.Lat,
		ExifLng:     exif.Lng,
		Verified:    reason == "",
	}
	if reason != "" {
		photo.FlagReason = &reason
		log.Printf("🚩 Campaign photo flagged: session=%s reason=%q", session.ID, reason)
	}

	if err := s.DB.Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// photoFlagReason evaluates the fraud checks in order; a later match
// overwrites an earlier one, so the geotag check has the final say.
func photoFlagReason(now, sessionStart time.Time, startLat, startLng float64, exif PhotoExif) string {
	var reason string
	if exif.TakenAt != nil {
		if exif.TakenAt.Before(sessionStart) {
			reason = "photo EXIF timestamp predates session start"
		}
		if now.Sub(*exif.TakenAt) > photoMaxExifAge {
			reason = "photo EXIF timestamp older than 1 hour"
		}
	}
	if exif.Lat != nil && exif.Lng != nil {
		if d := haversineMeters(startLat, startLng, *exif.Lat, *exif.Lng); d > photoMaxGeotagDriftM {
			reason = fmt.Sprintf("photo geotag %.1f km from session start", d/1000)
		}
	}
	return reason
}

// EndSession finalizes the caller's ACTIVE session: computes duration, trail
// distance, capped points and the stationary-fraud flag. Points are credited
// to the member only when the session is not flagged; flagged sessions keep
// the computed points pending admin review.
func (s *CampaignService) EndSession(sessionID, memberID string, endLat, endLng *float64) (*models.CampaignSession, error) {
	if (endLat == nil) != (endLng == nil) {
		return nil, &ValidationError{Message: "end coordinates require both lat and lng"}
	}
	if endLat != nil {
		if err := validateCoords(*endLat, *endLng); err != nil {
			return nil, err
		}
	}

	var session *models.CampaignSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "campaign:"+memberID).Error; err != nil {
			return err
		}

		sess, err := s.ownedActiveSession(tx, sessionID, memberID)
		if err != nil {
			return err
		}

		var trail []models.CampaignGpsPoint
		if err := tx.Where("session_id = ?", sess.ID).
			Order("recorded_at ASC").
			Find(&trail).Error; err != nil {
			return err
		}

		var photoCount int64
		if err := tx.Model(&models.CampaignPhoto{}).
			Where("session_id = ?", sess.ID).
			Count(&photoCount).Error; err != nil {
			return err
		}

		now := time.Now()
		duration := durationMinutes(sess.StartedAt, now)
		distance := trailDistance(trail, endLat, endLng)
		points := computeSessionPoints(duration, int(photoCount), distance)
		flagged := isSuspiciousSession(duration, distance)

		sess.EndedAt = &now
		sess.EndLat = endLat
		sess.EndLng = endLng
		sess.DurationMinutes = duration
		sess.DistanceMeters = distance
		sess.PointsEarned = points
		if flagged {
			sess.Status = models.SessionStatusFlagged
			reason := fmt.Sprintf("moved %.0f m in %d min", distance, duration)
			sess.FlagReason = &reason
		} else {
			sess.Status = models.SessionStatusCompleted
		}

		if err := tx.Save(sess).Error; err != nil {
			return err
		}

		// The end coordinate still enters the distance calculation above even
		// when the trail is full; only the stored point is skipped.
		if endLat != nil && !trailFull(len(trail)) {
			final := &models.CampaignGpsPoint{
				SessionID:  sess.ID,
				Lat:        *endLat,
				Lng:        *endLng,
				RecordedAt: now,
			}
			if err := tx.Create(final).Error; err != nil {
				return err
			}
		}

		// Award in the same transaction as the status write — points must not
		// land if the session update fails, and vice versa.
		if !flagged && points > 0 {
			if err := incrementMemberScore(tx, memberID, int64(points)); err != nil {
				return err
			}
		}

		session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🏁 Campaign session ended: session=%s duration=%dmin distance=%.0fm points=%d status=%s",
		session.ID, session.DurationMinutes, session.DistanceMeters, session.PointsEarned, session.Status)
	return session, nil
}

// ReviewSession applies the admin decision. The session status is the single
// source of truth for whether points have been applied: a FLAGGED session has
// never been paid, a COMPLETED one has. APPROVED on FLAGGED transitions to
// COMPLETED and awards the stored points once; REJECTED on COMPLETED cancels
// and reverses the stored points once. Everything else is either a no-op
// (approving an already-completed session) or invalid.
func (s *CampaignService) ReviewSession(sessionID, reviewerID string, decision models.AdminReview) (*models.CampaignSession, error) {
	if decision != models.AdminReviewApproved && decision != models.AdminReviewRejected {
		return nil, &ValidationError{Message: "decision must be approved or rejected"}
	}

	var session *models.CampaignSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "review:"+sessionID).Error; err != nil {
			return err
		}

		var sess models.CampaignSession
		if err := tx.First(&sess, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "campaign session", ID: sessionID}
			}
			return err
		}

		now := time.Now()
		switch decision {
		case models.AdminReviewApproved:
			switch sess.Status {
			case models.SessionStatusFlagged:
				sess.Status = models.SessionStatusCompleted
				if sess.PointsEarned > 0 {
					if err := incrementMemberScore(tx, sess.MemberID, int64(sess.PointsEarned)); err != nil {
						return err
					}
				}
			case models.SessionStatusCompleted:
				// score untouched, points were applied at end time
			default:
				return &ValidationError{Message: "only flagged or completed sessions can be approved"}
			}
		case models.AdminReviewRejected:
			switch sess.Status {
			case models.SessionStatusCompleted:
				sess.Status = models.SessionStatusCancelled
				if sess.PointsEarned > 0 {
					if err := incrementMemberScore(tx, sess.MemberID, -int64(sess.PointsEarned)); err != nil {
						return err
					}
				}
			case models.SessionStatusFlagged:
				// points were never applied, nothing to reverse
				sess.Status = models.SessionStatusCancelled
			default:
				return &ValidationError{Message: "only flagged or completed sessions can be rejected"}
			}
		}

		sess.AdminReview = decision
		sess.ReviewedBy = &reviewerID
		sess.ReviewedAt = &now
		if err := tx.Save(&sess).Error; err != nil {
			return err
		}

		session = &sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("⚖️ Campaign session reviewed: session=%s decision=%s status=%s", session.ID, decision, session.Status)
	return session, nil
}

// GetSession returns a session with its trail and photos, owner or admin only.
func (s *CampaignService) GetSession(sessionID string) (*models.CampaignSession, error) {
	var sess models.CampaignSession
	if err := s.DB.Preload("GpsPoints", func(db *gorm.DB) *gorm.DB {
		return db.Order("recorded_at ASC")
	}).Preload("Photos").First(&sess, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "campaign session", ID: sessionID}
		}
		return nil, err
	}
	return &sess, nil
}

// ListSessionsForReview returns flagged sessions awaiting an admin decision.
func (s *CampaignService) ListSessionsForReview(limit int) ([]models.CampaignSession, error) {
	limit = clampLimit(limit)
	var sessions []models.CampaignSession
	err := s.DB.Where("status = ? AND admin_review = ?", models.SessionStatusFlagged, models.AdminReviewPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (s *CampaignService) ownedActiveSession(tx *gorm.DB, sessionID, memberID string) (*models.CampaignSession, error) {
	var sess models.CampaignSession
	if err := tx.First(&sess, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "campaign session", ID: sessionID}
		}
		return nil, err
	}
	if sess.MemberID != memberID {
		return nil, &ForbiddenError{Message: "session does not belong to the caller"}
	}
	if sess.Status != models.SessionStatusActive {
		return nil, &NotActiveError{Message: "session is not active"}
	}
	return &sess, nil
}

// --- pure cores ---

func durationMinutes(start, end time.Time) int {
	return int(math.Round(float64(end.Sub(start).Milliseconds()) / 60000))
}

// computeSessionPoints: 5 per full half hour (zero under 30 min), 2 per photo,
// 3 distance bonus past 500 m, capped at MaxSessionPoints.
func computeSessionPoints(durationMinutes, photoCount int, distanceMeters float64) int {
	points := 0
	if durationMinutes >= minScoredDurationMin {
		points += (durationMinutes / 30) * pointsPerHalfHour
	}
	points += photoCount * pointsPerPhoto
	if distanceMeters > distanceBonusThresholdM {
		points += distanceBonusPoints
	}
	if points > MaxSessionPoints {
		points = MaxSessionPoints
	}
	return points
}

// isSuspiciousSession: barely moved but clocked a long duration.
func isSuspiciousSession(durationMinutes int, distanceMeters float64) bool {
	return distanceMeters < fraudMaxDistanceM && durationMinutes > fraudMinDurationMin
}

// trailDistance integrates haversine legs over the recorded trail plus the
// final leg to the supplied end coordinate, if any.
func trailDistance(points []models.CampaignGpsPoint, endLat, endLng *float64) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += haversineMeters(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}
	if endLat != nil && endLng != nil && len(points) > 0 {
		last := points[len(points)-1]
		total += haversineMeters(last.Lat, last.Lng, *endLat, *endLng)
	}
	return total
}

// trailFull bounds stored GPS samples per session, including the final point
// recorded at end time.
func trailFull(count int) bool {
	return count >= MaxTrailPoints
}

func validateCoords(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return &ValidationError{Message: "coordinates out of range"}
	}
	return nil
}

// incrementMemberScore applies an atomic store-level increment — never a
// read-modify-write, so concurrent award paths cannot lose updates.
func incrementMemberScore(tx *gorm.DB, memberID string, delta int64) error {
	return tx.Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
}
