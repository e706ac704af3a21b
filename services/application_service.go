package services

import (
	"encoding/json"
	"fmt"
	"time"

	"recruitment-portal-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmitMeta carries request context recorded on the acknowledgement.
type SubmitMeta struct {
	Place     string
	IPAddress string
	UserAgent string
}

// SubmitOutcome is the structured result of a final submission.
type SubmitOutcome struct {
	Application       *models.Application      `json:"application"`
	ApplicationNumber string                   `json:"application_number"`
	Status            models.ApplicationStatus `json:"status"`
	Verdict           EligibilityVerdict       `json:"verdict"`
	DocumentCheck     *DocumentCheckResult     `json:"document_check"`
}

// ApplicationService owns the authoritative status field for the
// DRAFT/SUBMITTED half of the lifecycle: draft creation, atomic final
// submission and withdrawal. Admin-driven stages live in
// SelectionService; both append to the same history ledger.
type ApplicationService struct {
	db          *gorm.DB
	eligibility *EligibilityService
	documents   *DocumentService
	restriction *RestrictionService
	applicants  *ApplicantService
}

func NewApplicationService(db *gorm.DB, eligibility *EligibilityService, documents *DocumentService,
	restriction *RestrictionService, applicants *ApplicantService) *ApplicationService {
	return &ApplicationService{
		db:          db,
		eligibility: eligibility,
		documents:   documents,
		restriction: restriction,
		applicants:  applicants,
	}
}

// CreateDraft runs the entry gates and creates a DRAFT application.
func (s *ApplicationService) CreateDraft(applicantID, postID int, payload ApplicationPayload) (*models.Application, error) {
	var application *models.Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		app, err := s.createDraftTx(tx, applicantID, postID, payload)
		if err != nil {
			return err
		}
		application = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// createDraftTx is the transaction-scoped draft creation shared with
// the payment confirmation path.
func (s *ApplicationService) createDraftTx(tx *gorm.DB, applicantID, postID int, payload ApplicationPayload) (*models.Application, error) {
	decision, err := s.restriction.CanApplyToPost(applicantID, postID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, NewPreconditionError(
			fmt.Sprintf("application not allowed: %s", decision.Reason), decision)
	}

	completeness, err := s.applicants.Completeness(applicantID)
	if err != nil {
		return nil, err
	}
	if completeness.Percent < 100 {
		return nil, NewPreconditionError("profile is incomplete", completeness)
	}

	var post models.Post
	if err := tx.Where("post_id = ? AND delete_at IS NULL", postID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("post %d not found", postID)
		}
		return nil, err
	}
	now := time.Now()
	if !post.IsOpenForApplications(now) {
		return nil, NewConflictError("post %s is not open for applications", post.PostCode)
	}

	var existing int64
	if err := tx.Model(&models.Application{}).
		Where("applicant_id = ? AND post_id = ? AND is_deleted = ?", applicantID, postID, false).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, NewConflictError("an application for this post already exists")
	}

	var applicant models.Applicant
	if err := tx.Where("applicant_id = ? AND delete_at IS NULL", applicantID).First(&applicant).Error; err != nil {
		return nil, err
	}

	application := models.Application{
		ApplicantID:         applicantID,
		PostID:              post.PostID,
		DistrictID:          post.DistrictID,
		Status:              models.StatusDraft,
		DeclarationAccepted: payload.DeclarationAccepted,
		ApplicantFirstName:  applicant.FirstName,
		ApplicantLastName:   applicant.LastName,
		ApplicantDob:        applicant.DateOfBirth,
		CreateAt:            &now,
		UpdateAt:            &now,
	}
	if err := tx.Create(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// FinalSubmit moves a DRAFT application synchronously to ELIGIBLE or
// NOT_ELIGIBLE in one transaction. Partial failure leaves the
// application in DRAFT with nothing else persisted.
func (s *ApplicationService) FinalSubmit(applicantID, applicationID int, declarationAccepted bool, meta SubmitMeta) (*SubmitOutcome, error) {
	if !declarationAccepted {
		return nil, NewValidationError("declaration must be accepted before submission")
	}

	var outcome *SubmitOutcome
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ? AND applicant_id = ? AND is_deleted = ?",
				applicationID, applicantID, false).
			First(&application).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NewNotFoundError("application %d not found", applicationID)
			}
			return err
		}

		// Re-validated under the lock, not only at request entry.
		if application.IsLocked || application.Status != models.StatusDraft {
			return NewConflictError("application %d has already been submitted", applicationID)
		}

		var post models.Post
		if err := tx.Preload("District").
			Where("post_id = ? AND delete_at IS NULL", application.PostID).First(&post).Error; err != nil {
			return err
		}

		now := time.Now()
		if !post.IsOpenForApplications(now) {
			return NewConflictError("post %s is no longer open for applications", post.PostCode)
		}

		snapshot, err := s.eligibility.BuildSnapshot(applicantID)
		if err != nil {
			return err
		}
		verdict := s.eligibility.Evaluate(snapshot, RequirementsFromPost(&post), now)

		docCheck, err := s.documents.Check(applicantID, application.PostID)
		if err != nil {
			return err
		}

		isEligible := verdict.IsEligible && docCheck.Complete
		finalStatus := models.StatusEligible
		reason := ""
		if !isEligible {
			finalStatus = models.StatusNotEligible
			reason = verdict.FailureSummary()
			if !docCheck.Complete {
				names := make([]string, 0, len(docCheck.Missing))
				for _, dt := range docCheck.Missing {
					names = append(names, dt.DocumentTypeName)
				}
				if reason != "" {
					reason += "; "
				}
				reason += fmt.Sprintf("Missing documents: %v", names)
			}
		}

		number, err := nextApplicationNumber(tx, now)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"status":               finalStatus,
			"is_locked":            true,
			"declaration_accepted": true,
			"submitted_at":         now,
			"system_eligibility":   isEligible,
			"application_number":   number,
			"update_at":            now,
		}
		if reason != "" {
			updates["eligibility_reason"] = reason
		}
		if err := tx.Model(&application).Updates(updates).Error; err != nil {
			return err
		}

		if err := appendStatusHistory(tx, application.ApplicationID,
			models.StatusDraft, models.StatusSubmitted,
			applicantID, models.ChangedByApplicant, "Final submission", nil); err != nil {
			return err
		}
		submitRemarks := "System eligibility evaluation"
		if reason != "" {
			submitRemarks = reason
		}
		if err := appendStatusHistory(tx, application.ApplicationID,
			models.StatusSubmitted, finalStatus,
			applicantID, models.ChangedBySystem, submitRemarks, nil); err != nil {
			return err
		}

		if finalStatus == models.StatusEligible {
			if err := openStageRow(tx, application.ApplicationID, models.StatusEligible, now); err != nil {
				return err
			}
			if err := upsertMeritEntry(tx, &application, &post, snapshot, now); err != nil {
				return err
			}
		}

		checksJSON, err := json.Marshal(verdict.Checks)
		if err != nil {
			return err
		}
		result := models.EligibilityResult{
			ApplicationID: application.ApplicationID,
			IsEligible:    isEligible,
			ChecksJSON:    string(checksJSON),
			EvaluatedAt:   now,
			CreateAt:      &now,
			UpdateAt:      &now,
		}
		if reason != "" {
			result.FailedChecks = &reason
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_eligible", "checks_json", "failed_checks", "evaluated_at", "update_at"}),
		}).Create(&result).Error; err != nil {
			return err
		}

		ack := models.ApplicationAcknowledgement{
			ApplicationID:     application.ApplicationID,
			ApplicationNumber: number,
			ApplicantName:     fmt.Sprintf("%s %s", application.ApplicantFirstName, application.ApplicantLastName),
			PostName:          post.PostName,
			DistrictName:      post.District.DistrictName,
			SubmittedAt:       now,
			CreatedAt:         now,
		}
		if meta.Place != "" {
			ack.SubmittedPlace = &meta.Place
		}
		if meta.IPAddress != "" {
			ack.SubmittedIP = &meta.IPAddress
		}
		if err := tx.Create(&ack).Error; err != nil {
			return err
		}

		application.Status = finalStatus
		application.IsLocked = true
		application.ApplicationNumber = &number
		application.SubmittedAt = &now
		application.SystemEligibility = &isEligible
		if reason != "" {
			application.EligibilityReason = &reason
		}
		outcome = &SubmitOutcome{
			Application:       &application,
			ApplicationNumber: number,
			Status:            finalStatus,
			Verdict:           verdict,
			DocumentCheck:     docCheck,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Withdraw is the applicant-initiated terminal transition, allowed from
// DRAFT, ELIGIBLE and ON_HOLD.
func (s *ApplicationService) Withdraw(applicantID, applicationID int, remarks string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("application_id = ? AND applicant_id = ? AND is_deleted = ?",
				applicationID, applicantID, false).
			First(&application).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return NewNotFoundError("application %d not found", applicationID)
			}
			return err
		}

		prev := application.Status
		switch prev {
		case models.StatusDraft, models.StatusEligible, models.StatusOnHold:
		default:
			return NewConflictError("application in status %s cannot be withdrawn", prev)
		}

		now := time.Now()
		if err := tx.Model(&application).Updates(map[string]any{
			"status":    models.StatusWithdrawn,
			"update_at": now,
		}).Error; err != nil {
			return err
		}
		if err := closeOpenStageRow(tx, application.ApplicationID, now); err != nil {
			return err
		}
		return appendStatusHistory(tx, application.ApplicationID,
			prev, models.StatusWithdrawn,
			applicantID, models.ChangedByApplicant, remarks, nil)
	})
}

// nextApplicationNumber hands out YY-MM-NNNNN numbers from an atomic
// per-month counter. The LAST_INSERT_ID upsert guarantees no two
// concurrent submitters ever observe the same sequence value.
func nextApplicationNumber(tx *gorm.DB, now time.Time) (string, error) {
	period := now.Format("0601")
	if err := tx.Exec(
		"INSERT INTO application_sequences (period, last_seq) VALUES (?, LAST_INSERT_ID(1)) "+
			"ON DUPLICATE KEY UPDATE last_seq = LAST_INSERT_ID(last_seq + 1)",
		period).Error; err != nil {
		return "", err
	}
	var seq int64
	if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&seq).Error; err != nil {
		return "", err
	}
	return formatApplicationNumber(now, seq), nil
}

func formatApplicationNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%05d", now.Format("06"), now.Format("01"), seq)
}

// appendStatusHistory writes one immutable ledger row. Rows are never
// updated or deleted.
func appendStatusHistory(tx *gorm.DB, applicationID int, oldStatus, newStatus models.ApplicationStatus,
	changedBy int, changedByType, remarks string, metadata map[string]any) error {
	row := models.ApplicationStatusHistory{
		ApplicationID: applicationID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     changedBy,
		ChangedByType: changedByType,
		CreatedAt:     time.Now(),
	}
	if remarks != "" {
		row.Remarks = &remarks
	}
	if metadata != nil {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		text := string(encoded)
		row.Metadata = &text
	}
	return tx.Create(&row).Error
}

// openStageRow closes any open stage row and opens a new one, keeping
// at most one row with exited_at NULL per application.
func openStageRow(tx *gorm.DB, applicationID int, stage models.ApplicationStatus, now time.Time) error {
	if err := closeOpenStageRow(tx, applicationID, now); err != nil {
		return err
	}
	row := models.ApplicationStageHistory{
		ApplicationID: applicationID,
		Stage:         stage,
		EnteredAt:     now,
	}
	return tx.Create(&row).Error
}

func closeOpenStageRow(tx *gorm.DB, applicationID int, now time.Time) error {
	return tx.Model(&models.ApplicationStageHistory{}).
		Where("application_id = ? AND exited_at IS NULL", applicationID).
		Update("exited_at", now).Error
}

// upsertMeritEntry creates or refreshes the derived ranking row for an
// eligible application. The score favors qualification seniority and
// accumulated experience.
func upsertMeritEntry(tx *gorm.DB, application *models.Application, post *models.Post,
	snapshot *ApplicantSnapshot, now time.Time) error {
	maxRank := 0
	for _, rank := range snapshot.EducationRanks {
		if rank > maxRank {
			maxRank = rank
		}
	}
	score := float64(maxRank*10) + float64(snapshot.ExperienceMonths)/12

	if err := tx.Model(&models.Application{}).
		Where("application_id = ?", application.ApplicationID).
		Update("merit_score", score).Error; err != nil {
		return err
	}

	entry := models.MeritList{
		PostID:        post.PostID,
		DistrictID:    post.DistrictID,
		ApplicationID: application.ApplicationID,
		MeritScore:    score,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "application_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"merit_score", "update_at"}),
	}).Create(&entry).Error
}
