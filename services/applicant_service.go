package services

import (
	"recruitment-portal-api/models"

	"gorm.io/gorm"
)

// ProfileCompleteness summarizes how much of the profile is filled in.
// Sections are weighted equally; CreateDraft requires 100 percent.
type ProfileCompleteness struct {
	Percent         int      `json:"percent"`
	MissingSections []string `json:"missing_sections,omitempty"`
}

// ApplicantService owns profile-level checks: completeness and the
// profile lock that freezes personal data once an application has left
// DRAFT.
type ApplicantService struct {
	db        *gorm.DB
	documents *DocumentService
}

func NewApplicantService(db *gorm.DB, documents *DocumentService) *ApplicantService {
	return &ApplicantService{db: db, documents: documents}
}

// Completeness computes the profile completion percentage across four
// sections: personal, address, education and mandatory documents.
func (s *ApplicantService) Completeness(applicantID int) (*ProfileCompleteness, error) {
	var applicant models.Applicant
	if err := s.db.
		Preload("Educations", "delete_at IS NULL").
		Where("applicant_id = ? AND delete_at IS NULL", applicantID).
		First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("applicant %d not found", applicantID)
		}
		return nil, err
	}

	var missing []string

	if applicant.FirstName == "" || applicant.LastName == "" ||
		applicant.DateOfBirth == nil || applicant.Gender == "" {
		missing = append(missing, "personal")
	}
	if applicant.AddressLine == "" || applicant.DistrictID == nil || applicant.Pincode == "" {
		missing = append(missing, "address")
	}
	if len(applicant.Educations) == 0 {
		missing = append(missing, "education")
	}

	docCheck, err := s.documents.Check(applicantID, 0)
	if err != nil {
		return nil, err
	}
	if !docCheck.Complete {
		missing = append(missing, "documents")
	}

	const sections = 4
	percent := (sections - len(missing)) * 100 / sections
	return &ProfileCompleteness{Percent: percent, MissingSections: missing}, nil
}

// IsProfileLocked reports whether any of the applicant's applications
// has left DRAFT, freezing personal/education/experience data.
// Document re-uploads stay allowed regardless.
func (s *ApplicantService) IsProfileLocked(applicantID int) (bool, error) {
	var count int64
	err := s.db.Model(&models.Application{}).
		Where("applicant_id = ? AND is_deleted = ? AND status <> ?",
			applicantID, false, models.StatusDraft).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureProfileMutable is the guard profile mutation endpoints call
// before touching personal, education or experience rows.
func (s *ApplicantService) EnsureProfileMutable(applicantID int) error {
	locked, err := s.IsProfileLocked(applicantID)
	if err != nil {
		return err
	}
	if locked {
		return NewConflictError("profile is locked: an application has already been submitted")
	}
	return nil
}

// ApplicantByUser resolves the applicant row owned by a portal user.
func (s *ApplicantService) ApplicantByUser(userID int) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", userID).First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("applicant profile not found for user %d", userID)
		}
		return nil, err
	}
	return &applicant, nil
}
