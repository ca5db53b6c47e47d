// workers/announcement_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"awaam-raaj-backend/models"
	"awaam-raaj-backend/services"

	"gorm.io/gorm"
)

// AnnouncementWorker polls for queued announcements and fans them out over the
// WhatsApp gateway. One announcement is dispatched at a time; per-recipient
// failures are counted, never retried.
type AnnouncementWorker struct {
	db       *gorm.DB
	notifier *services.WhatsAppNotifier
	interval time.Duration
}

func NewAnnouncementWorker(db *gorm.DB, notifier *services.WhatsAppNotifier) *AnnouncementWorker {
	return &AnnouncementWorker{
		db:       db,
		notifier: notifier,
		interval: 30 * time.Second,
	}
}

func (w *AnnouncementWorker) Start(ctx context.Context) {
	if w.notifier == nil {
		log.Println("⚠️ Announcement Worker disabled: WHATSAPP_GATEWAY_URL not configured")
		return
	}
	log.Println("🔁 Starting Announcement Dispatch Worker (queued → WhatsApp gateway)…")
	go w.run(ctx)
}

func (w *AnnouncementWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.dispatchNext(ctx); err != nil {
				log.Printf("[ANNOUNCE] ❌ Dispatch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Announcement Dispatch Worker stopped")
			return
		}
	}
}

// dispatchNext claims the oldest queued announcement and sends it out. The
// queued→sending transition is guarded so two workers cannot claim the same
// row.
func (w *AnnouncementWorker) dispatchNext(ctx context.Context) error {
	var ann models.Announcement
	err := w.db.Where("status = ?", models.AnnouncementStatusQueued).
		Order("queued_at ASC").
		First(&ann).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	claimed := w.db.Model(&models.Announcement{}).
		Where("id = ? AND status = ?", ann.ID, models.AnnouncementStatusQueued).
		Update("status", models.AnnouncementStatusSending)
	if claimed.Error != nil {
		return claimed.Error
	}
	if claimed.RowsAffected == 0 {
		return nil // another worker got it
	}

	recipients, err := w.resolveRecipients(&ann)
	if err != nil {
		w.db.Model(&ann).Update("status", models.AnnouncementStatusFailed)
		return err
	}

	log.Printf("[ANNOUNCE] 📣 Dispatching %q to %d recipient(s)", ann.Title, len(recipients))
	message := ann.Title + "\n\n" + ann.Body

	var sent, failed int64
	for _, m := range recipients {
		if ctx.Err() != nil {
			break
		}
		if err := w.notifier.SendMessage(ctx, m.Phone, message); err != nil {
			failed++
			log.Printf("[ANNOUNCE] ⚠️ Delivery to %s failed: %v", m.Phone, err)
		} else {
			sent++
		}
	}

	final := broadcastStatus(sent, len(recipients))
	updates := map[string]interface{}{
		"status":           final,
		"total_recipients": int64(len(recipients)),
		"sent_count":       sent,
		"failed_count":     failed,
	}
	if final == models.AnnouncementStatusSent {
		updates["sent_at"] = time.Now()
	}
	return w.db.Model(&ann).Updates(updates).Error
}

// broadcastStatus: a broadcast that reached nobody despite having recipients
// failed; an empty audience still counts as sent. Failed broadcasts carry no
// send timestamp.
func broadcastStatus(sent int64, recipients int) models.AnnouncementStatus {
	if sent == 0 && recipients > 0 {
		return models.AnnouncementStatusFailed
	}
	return models.AnnouncementStatusSent
}

// resolveRecipients returns the ACTIVE members the announcement targets.
func (w *AnnouncementWorker) resolveRecipients(ann *models.Announcement) ([]models.Member, error) {
	query := w.db.Model(&models.Member{}).
		Select("id", "phone").
		Where("status = ? AND phone <> ''", models.MemberStatusActive)
	if ann.Audience == models.AudienceDistrict && ann.DistrictID != nil {
		query = query.Where("district_id = ?", *ann.DistrictID)
	}

	var members []models.Member
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
