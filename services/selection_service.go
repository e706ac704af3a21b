package services

import (
	"time"

	"recruitment-portal-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectionAction is an admin-driven transition request.
type SelectionAction string

const (
	ActionHold              SelectionAction = "HOLD"
	ActionProvisionalSelect SelectionAction = "PROVISIONAL_SELECT"
	ActionSelect            SelectionAction = "SELECT"
	ActionReject            SelectionAction = "REJECT"
)

// transitionTable maps each action to its allowed source statuses and
// target. No status may skip stages.
var transitionTable = map[SelectionAction]struct {
	from   []models.ApplicationStatus
	target models.ApplicationStatus
}{
	ActionHold:              {from: []models.ApplicationStatus{models.StatusEligible, models.StatusOnHold}, target: models.StatusOnHold},
	ActionProvisionalSelect: {from: []models.ApplicationStatus{models.StatusEligible, models.StatusOnHold}, target: models.StatusProvisionalSelected},
	ActionSelect:            {from: []models.ApplicationStatus{models.StatusProvisionalSelected}, target: models.StatusSelected},
	ActionReject:            {from: []models.ApplicationStatus{models.StatusEligible, models.StatusOnHold, models.StatusProvisionalSelected}, target: models.StatusRejected},
}

// ParseSelectionAction canonicalizes an action string from the API.
func ParseSelectionAction(raw string) (SelectionAction, error) {
	switch SelectionAction(raw) {
	case ActionHold, ActionProvisionalSelect, ActionSelect, ActionReject:
		return SelectionAction(raw), nil
	}
	return "", NewValidationError("unknown selection action %q", raw)
}

// ValidateTransition checks the table without touching storage.
func ValidateTransition(current models.ApplicationStatus, action SelectionAction) (models.ApplicationStatus, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return "", NewValidationError("unknown selection action %q", action)
	}
	for _, from := range rule.from {
		if current == from {
			return rule.target, nil
		}
	}
	return "", NewConflictError("invalid transition: application in status %s cannot move to %s", current, rule.target)
}

// SelectionService advances eligible applications through the admin
// stages and owns the capacity-safe final selection.
type SelectionService struct {
	db        *gorm.DB
	documents *DocumentService
}

func NewSelectionService(db *gorm.DB, documents *DocumentService) *SelectionService {
	return &SelectionService{db: db, documents: documents}
}

// Transition applies one admin action. The application row is locked
// and the status re-validated under the lock; final selection locks the
// post row before reading capacity.
func (s *SelectionService) Transition(applicationID, adminID int, action SelectionAction, remarks string) (*models.Application, error) {
	var result *models.Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ? AND is_deleted = ?", applicationID, false).
			First(&application).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NewNotFoundError("application %d not found", applicationID)
			}
			return err
		}

		// Idempotent re-SELECT: no second increment, but the cascade
		// must still have run for this applicant.
		if action == ActionSelect && application.Status == models.StatusSelected {
			result = &application
			return s.autoRejectOthers(tx, &application, adminID)
		}

		prev := application.Status
		target, err := ValidateTransition(prev, action)
		if err != nil {
			return err
		}

		if action == ActionProvisionalSelect {
			verified, err := s.allDocumentsVerifiedTx(tx, application.ApplicantID)
			if err != nil {
				return err
			}
			if !verified {
				return NewPreconditionError("all documents must be verified before provisional selection",
					map[string]any{"application_id": applicationID})
			}
		}

		now := time.Now()
		if action == ActionSelect {
			if err := s.claimPosition(tx, application.PostID, now); err != nil {
				return err
			}
		}

		updates := map[string]any{
			"status":    target,
			"update_at": now,
		}
		// selection_status mirrors terminal-ish stages only; a hold does
		// not touch it.
		selectionStatus := ""
		switch target {
		case models.StatusProvisionalSelected, models.StatusSelected, models.StatusRejected:
			selectionStatus = string(target)
			updates["selection_status"] = selectionStatus
		}
		if action == ActionProvisionalSelect {
			updates["document_verified"] = true
		}
		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return err
		}

		if err := appendStatusHistory(tx, application.ApplicationID,
			prev, target, adminID, models.ChangedByAdmin, remarks, nil); err != nil {
			return err
		}

		switch target {
		case models.StatusProvisionalSelected, models.StatusSelected:
			if err := openStageRow(tx, application.ApplicationID, target, now); err != nil {
				return err
			}
		case models.StatusRejected:
			if err := closeOpenStageRow(tx, application.ApplicationID, now); err != nil {
				return err
			}
		}

		if selectionStatus != "" {
			if err := syncMeritSelectionStatus(tx, application.ApplicationID, selectionStatus); err != nil {
				return err
			}
		}

		if target == models.StatusSelected {
			if err := s.autoRejectOthers(tx, &application, adminID); err != nil {
				return err
			}
		}

		application.Status = target
		if selectionStatus != "" {
			application.SelectionStatus = &selectionStatus
		}
		result = &application
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claimPosition takes the post row lock, re-checks capacity and
// increments filled_positions, closing the post when it fills up.
func (s *SelectionService) claimPosition(tx *gorm.DB, postID int, now time.Time) error {
	var post models.Post
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("post_id = ? AND delete_at IS NULL", postID).
		First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return NewNotFoundError("post %d not found", postID)
		}
		return err
	}

	if post.FilledPositions >= post.TotalPositions {
		return NewConflictError("post %s has no remaining positions", post.PostCode)
	}

	updates := map[string]any{
		"filled_positions": post.FilledPositions + 1,
		"update_at":        now,
	}
	if post.FilledPositions+1 >= post.TotalPositions {
		updates["is_closed"] = true
	}
	return tx.Model(&post).Updates(updates).Error
}

// autoRejectOthers transitions the applicant's other non-terminal
// applications to SELECTED_IN_OTHER_POST with a SYSTEM history row.
// Safe to re-run; already-transitioned rows are skipped.
func (s *SelectionService) autoRejectOthers(tx *gorm.DB, selected *models.Application, adminID int) error {
	var others []models.Application
	if err := tx.
		Where("applicant_id = ? AND application_id <> ? AND is_deleted = ?",
			selected.ApplicantID, selected.ApplicationID, false).
		Find(&others).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, other := range others {
		if other.Status.IsTerminal() {
			continue
		}
		status := string(models.StatusSelectedInOtherPost)
		if err := tx.Model(&models.Application{}).
			Where("application_id = ?", other.ApplicationID).
			Updates(map[string]any{
				"status":           models.StatusSelectedInOtherPost,
				"selection_status": status,
				"update_at":        now,
			}).Error; err != nil {
			return err
		}
		if err := closeOpenStageRow(tx, other.ApplicationID, now); err != nil {
			return err
		}
		if err := appendStatusHistory(tx, other.ApplicationID,
			other.Status, models.StatusSelectedInOtherPost,
			adminID, models.ChangedBySystem,
			"Applicant selected in another post",
			map[string]any{"selected_application_id": selected.ApplicationID}); err != nil {
			return err
		}
		if err := syncMeritSelectionStatus(tx, other.ApplicationID, status); err != nil {
			return err
		}
	}
	return nil
}

// allDocumentsVerifiedTx mirrors DocumentService.AllDocumentsVerified
// inside the caller's transaction.
func (s *SelectionService) allDocumentsVerifiedTx(tx *gorm.DB, applicantID int) (bool, error) {
	var unverified int64
	err := tx.Model(&models.ApplicantDocument{}).
		Where("applicant_id = ? AND delete_at IS NULL AND verification_status <> ?",
			applicantID, models.DocVerificationVerified).
		Count(&unverified).Error
	if err != nil {
		return false, err
	}
	return unverified == 0, nil
}

// syncMeritSelectionStatus keeps the merit list mirror in step with the
// application's selection status.
func syncMeritSelectionStatus(tx *gorm.DB, applicationID int, status string) error {
	return tx.Model(&models.MeritList{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]any{"selection_status": status, "update_at": time.Now()}).Error
}
