package services

import (
	"context"
	"log"
	"time"

	"recruitment-portal-api/models"

	"gorm.io/gorm"
)

// PostSchedulerService is the time-driven caller of the same capacity
// primitives used by manual selection: it closes expired posts and
// offers the legacy direct-select path.
type PostSchedulerService struct {
	db        *gorm.DB
	selection *SelectionService
	interval  time.Duration
}

func NewPostSchedulerService(db *gorm.DB, selection *SelectionService, interval time.Duration) *PostSchedulerService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PostSchedulerService{db: db, selection: selection, interval: interval}
}

// Run executes the reconciliation loop until the context is canceled.
func (s *PostSchedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := s.CloseExpiredPosts()
			if err != nil {
				log.Printf("post scheduler: close expired posts failed: %v", err)
			} else if closed > 0 {
				log.Printf("post scheduler: closed %d expired posts", closed)
			}

			filled, err := s.ReconcileFilledPosts()
			if err != nil {
				log.Printf("post scheduler: reconcile filled posts failed: %v", err)
			} else if filled > 0 {
				log.Printf("post scheduler: closed %d filled posts", filled)
			}
		}
	}
}

// CloseExpiredPosts bulk-closes active posts whose closing date has
// passed. Idempotent; safe to run repeatedly.
func (s *PostSchedulerService) CloseExpiredPosts() (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Post{}).
		Where("is_active = ? AND is_closed = ? AND delete_at IS NULL AND closing_date IS NOT NULL AND closing_date < ?",
			true, false, now).
		Updates(map[string]any{"is_closed": true, "update_at": now})
	return result.RowsAffected, result.Error
}

// MarkAsSelected is the legacy direct-select path. It verifies the
// application is PROVISIONAL_SELECTED and delegates to the same
// row-locked capacity claim and auto-reject cascade as the admin
// transition; closed posts and already-selected applications are
// rejected, not silently ignored.
func (s *PostSchedulerService) MarkAsSelected(applicationID, adminID int) (*models.Application, error) {
	var current models.Application
	if err := s.db.Where("application_id = ? AND is_deleted = ?", applicationID, false).
		First(&current).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("application %d not found", applicationID)
		}
		return nil, err
	}
	if current.Status == models.StatusSelected {
		return nil, NewConflictError("application %d is already selected", applicationID)
	}

	var post models.Post
	if err := s.db.Where("post_id = ? AND delete_at IS NULL", current.PostID).First(&post).Error; err != nil {
		return nil, err
	}
	if post.IsClosed {
		return nil, NewConflictError("post %s is closed", post.PostCode)
	}

	return s.selection.Transition(applicationID, adminID, ActionSelect, "Marked as selected")
}

// ReconcileFilledPosts closes any post whose positions are exhausted
// but is_closed was left unset.
func (s *PostSchedulerService) ReconcileFilledPosts() (int64, error) {
	now := time.Now()
	result := s.db.Model(&models.Post{}).
		Where("is_closed = ? AND delete_at IS NULL AND filled_positions >= total_positions AND total_positions > 0", false).
		Updates(map[string]any{"is_closed": true, "update_at": now})
	return result.RowsAffected, result.Error
}
