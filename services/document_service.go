package services

import (
	"time"

	"recruitment-portal-api/models"

	"gorm.io/gorm"
)

// DocumentCheckResult reports completeness of an applicant's uploads
// against the required document-type set.
type DocumentCheckResult struct {
	Complete bool                       `json:"complete"`
	Missing  []models.DocumentType      `json:"missing"`
	Uploaded []models.ApplicantDocument `json:"uploaded"`
}

// DocumentService resolves required document sets and checks uploads
// and verification state against them.
type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

// RequiredDocTypes returns the union of globally mandatory types,
// domicile-gated types (only when the applicant holds domicile) and,
// when postID is non-zero, the post's own mandatory-at-application
// types. Education/experience certificate types are excluded; those are
// attached to their child records and would double-count here.
func (s *DocumentService) RequiredDocTypes(applicantID int, postID int) ([]models.DocumentType, error) {
	var applicant models.Applicant
	if err := s.db.Select("applicant_id", "is_domicile").
		Where("applicant_id = ? AND delete_at IS NULL", applicantID).
		First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("applicant %d not found", applicantID)
		}
		return nil, err
	}

	query := s.db.Where("delete_at IS NULL AND category = ? AND is_mandatory = ?", models.DocCategoryGeneral, true)
	if !applicant.IsDomicile {
		query = query.Where("domicile_only = ?", false)
	}

	var required []models.DocumentType
	if err := query.Order("document_order ASC").Find(&required).Error; err != nil {
		return nil, err
	}

	if postID != 0 {
		var postReqs []models.PostDocumentRequirement
		if err := s.db.Preload("DocumentType").
			Where("post_id = ? AND is_mandatory = ? AND delete_at IS NULL", postID, true).
			Find(&postReqs).Error; err != nil {
			return nil, err
		}
		seen := make(map[int]struct{}, len(required))
		for _, dt := range required {
			seen[dt.DocumentTypeID] = struct{}{}
		}
		for _, req := range postReqs {
			if req.DocumentType.Category != models.DocCategoryGeneral {
				continue
			}
			if _, ok := seen[req.DocumentTypeID]; ok {
				continue
			}
			seen[req.DocumentTypeID] = struct{}{}
			required = append(required, req.DocumentType)
		}
	}

	return required, nil
}

// Check compares the applicant's non-deleted uploads against the
// required set. A requirement is satisfied by a document matching
// either the type id or the type code.
func (s *DocumentService) Check(applicantID int, postID int) (*DocumentCheckResult, error) {
	required, err := s.RequiredDocTypes(applicantID, postID)
	if err != nil {
		return nil, err
	}

	var uploaded []models.ApplicantDocument
	if err := s.db.Preload("DocumentType").
		Where("applicant_id = ? AND delete_at IS NULL", applicantID).
		Find(&uploaded).Error; err != nil {
		return nil, err
	}

	byTypeID := make(map[int]struct{}, len(uploaded))
	byCode := make(map[string]struct{}, len(uploaded))
	for _, doc := range uploaded {
		byTypeID[doc.DocumentTypeID] = struct{}{}
		if doc.DocumentType.Code != "" {
			byCode[doc.DocumentType.Code] = struct{}{}
		}
	}

	result := &DocumentCheckResult{Complete: true, Uploaded: uploaded}
	for _, dt := range required {
		if _, ok := byTypeID[dt.DocumentTypeID]; ok {
			continue
		}
		if dt.Code != "" {
			if _, ok := byCode[dt.Code]; ok {
				continue
			}
		}
		result.Complete = false
		result.Missing = append(result.Missing, dt)
	}
	return result, nil
}

// AllDocumentsVerified reports whether every non-deleted document of
// the applicant is VERIFIED. Zero documents satisfies the check.
func (s *DocumentService) AllDocumentsVerified(applicantID int) (bool, error) {
	var unverified int64
	err := s.db.Model(&models.ApplicantDocument{}).
		Where("applicant_id = ? AND delete_at IS NULL AND verification_status <> ?",
			applicantID, models.DocVerificationVerified).
		Count(&unverified).Error
	if err != nil {
		return false, err
	}
	return unverified == 0, nil
}

// VerifyDocument records an admin verification decision on one upload.
func (s *DocumentService) VerifyDocument(documentID, adminID int, status string, remarks string) (*models.ApplicantDocument, error) {
	if status != models.DocVerificationVerified && status != models.DocVerificationRejected {
		return nil, NewValidationError("verification status must be %s or %s",
			models.DocVerificationVerified, models.DocVerificationRejected)
	}

	var doc models.ApplicantDocument
	if err := s.db.Where("document_id = ? AND delete_at IS NULL", documentID).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("document %d not found", documentID)
		}
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{
		"verification_status": status,
		"verified_by":         adminID,
		"verified_at":         now,
		"update_at":           now,
	}
	if remarks != "" {
		updates["verify_remarks"] = remarks
	}
	if err := s.db.Model(&doc).Updates(updates).Error; err != nil {
		return nil, err
	}

	doc.VerificationStatus = status
	doc.VerifiedBy = &adminID
	doc.VerifiedAt = &now
	if remarks != "" {
		doc.VerifyRemarks = &remarks
	}
	return &doc, nil
}
