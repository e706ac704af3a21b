package controllers

import (
	"strconv"
	"time"

	"recruitment-portal-api/config"
	"recruitment-portal-api/models"
	"recruitment-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetApplicantProfile returns the full profile aggregate with its
// completeness summary.
func GetApplicantProfile(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var full models.Applicant
	if err := config.DB.
		Preload("District").
		Preload("Educations", "delete_at IS NULL").
		Preload("Educations.EducationLevel").
		Preload("Experiences", "delete_at IS NULL").
		Preload("Documents", "delete_at IS NULL").
		Preload("Documents.DocumentType").
		Where("applicant_id = ?", applicant.ApplicantID).
		First(&full).Error; err != nil {
		utils.Error(c, err)
		return
	}

	completeness, err := applicantService().Completeness(applicant.ApplicantID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Profile fetched", gin.H{
		"applicant":    full,
		"completeness": completeness,
	})
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	FatherName  string `json:"father_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
	IsDomicile  *bool  `json:"is_domicile"`
	AddressLine string `json:"address_line"`
	DistrictID  *int   `json:"district_id"`
	Pincode     string `json:"pincode"`
}

// UpdateApplicantProfile mutates personal/address data. Rejected once
// any application has left DRAFT.
func UpdateApplicantProfile(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	if err := applicantService().EnsureProfileMutable(applicant.ApplicantID); err != nil {
		utils.Error(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]any{"update_at": time.Now()}
	if req.FirstName != "" {
		updates["first_name"] = utils.SanitizeInput(req.FirstName)
	}
	if req.LastName != "" {
		updates["last_name"] = utils.SanitizeInput(req.LastName)
	}
	if req.FatherName != "" {
		updates["father_name"] = utils.SanitizeInput(req.FatherName)
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
			return
		}
		updates["date_of_birth"] = dob
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}
	if req.IsDomicile != nil {
		updates["is_domicile"] = *req.IsDomicile
	}
	if req.AddressLine != "" {
		updates["address_line"] = utils.SanitizeInput(req.AddressLine)
	}
	if req.DistrictID != nil {
		updates["district_id"] = *req.DistrictID
	}
	if req.Pincode != "" {
		if !utils.ValidatePincode(req.Pincode) {
			utils.BadRequest(c, "Invalid pincode")
			return
		}
		updates["pincode"] = req.Pincode
	}

	if err := config.DB.Model(&models.Applicant{}).
		Where("applicant_id = ?", applicant.ApplicantID).
		Updates(updates).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Profile updated", nil)
}

type EducationRequest struct {
	EducationLevelID int      `json:"education_level_id" binding:"required"`
	InstituteName    string   `json:"institute_name" binding:"required"`
	PassingYear      int      `json:"passing_year" binding:"required"`
	MarksPercentage  *float64 `json:"marks_percentage"`
	CertificatePath  string   `json:"certificate_path"`
}

// AddEducation appends an education record to an unlocked profile.
func AddEducation(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}
	if err := applicantService().EnsureProfileMutable(applicant.ApplicantID); err != nil {
		utils.Error(c, err)
		return
	}

	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var level models.EducationLevel
	if err := config.DB.Where("education_level_id = ? AND is_active = ? AND delete_at IS NULL",
		req.EducationLevelID, true).First(&level).Error; err != nil {
		utils.BadRequest(c, "Invalid education level")
		return
	}

	now := time.Now()
	record := models.EducationRecord{
		ApplicantID:      applicant.ApplicantID,
		EducationLevelID: req.EducationLevelID,
		InstituteName:    utils.SanitizeInput(req.InstituteName),
		PassingYear:      req.PassingYear,
		MarksPercentage:  req.MarksPercentage,
		CreateAt:         &now,
		UpdateAt:         &now,
	}
	if req.CertificatePath != "" {
		record.CertificatePath = &req.CertificatePath
	}
	if err := config.DB.Create(&record).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Education record added", record)
}

// DeleteEducation soft-deletes an education record.
func DeleteEducation(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}
	if err := applicantService().EnsureProfileMutable(applicant.ApplicantID); err != nil {
		utils.Error(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))
	now := time.Now()
	result := config.DB.Model(&models.EducationRecord{}).
		Where("education_id = ? AND applicant_id = ? AND delete_at IS NULL", id, applicant.ApplicantID).
		Update("delete_at", now)
	if result.Error != nil {
		utils.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, 404, "Education record not found", nil)
		return
	}
	utils.OK(c, "Education record removed", nil)
}

type ExperienceRequest struct {
	EmployerName    string `json:"employer_name" binding:"required"`
	Designation     string `json:"designation" binding:"required"`
	StartDate       string `json:"start_date"` // YYYY-MM-DD
	EndDate         string `json:"end_date"`
	TotalMonths     *int   `json:"total_months"`
	CertificatePath string `json:"certificate_path"`
}

// AddExperience appends an experience record to an unlocked profile.
func AddExperience(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}
	if err := applicantService().EnsureProfileMutable(applicant.ApplicantID); err != nil {
		utils.Error(c, err)
		return
	}

	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	now := time.Now()
	record := models.ExperienceRecord{
		ApplicantID:  applicant.ApplicantID,
		EmployerName: utils.SanitizeInput(req.EmployerName),
		Designation:  utils.SanitizeInput(req.Designation),
		TotalMonths:  req.TotalMonths,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			utils.BadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		record.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			utils.BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		record.EndDate = &end
	}
	if record.StartDate == nil && req.TotalMonths == nil {
		utils.BadRequest(c, "Either start_date or total_months is required")
		return
	}
	if req.CertificatePath != "" {
		record.CertificatePath = &req.CertificatePath
	}

	if err := config.DB.Create(&record).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Experience record added", record)
}

// DeleteExperience soft-deletes an experience record.
func DeleteExperience(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}
	if err := applicantService().EnsureProfileMutable(applicant.ApplicantID); err != nil {
		utils.Error(c, err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))
	now := time.Now()
	result := config.DB.Model(&models.ExperienceRecord{}).
		Where("experience_id = ? AND applicant_id = ? AND delete_at IS NULL", id, applicant.ApplicantID).
		Update("delete_at", now)
	if result.Error != nil {
		utils.Error(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, 404, "Experience record not found", nil)
		return
	}
	utils.OK(c, "Experience record removed", nil)
}

type RegisterDocumentRequest struct {
	DocumentTypeID   int    `json:"document_type_id" binding:"required"`
	OriginalFilename string `json:"original_filename" binding:"required"`
	StoredPath       string `json:"stored_path" binding:"required"`
	MimeType         string `json:"mime_type"`
	FileSize         int64  `json:"file_size"`
}

// RegisterDocument records upload metadata handed over by the file
// storage layer. Re-upload replaces the previous document of the same
// type and resets verification. Allowed even when the profile is
// locked.
func RegisterDocument(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var docType models.DocumentType
	if err := config.DB.Where("document_type_id = ? AND delete_at IS NULL", req.DocumentTypeID).
		First(&docType).Error; err != nil {
		utils.BadRequest(c, "Invalid document type")
		return
	}

	now := time.Now()

	// Soft-delete any previous upload of the same type.
	if err := config.DB.Model(&models.ApplicantDocument{}).
		Where("applicant_id = ? AND document_type_id = ? AND delete_at IS NULL",
			applicant.ApplicantID, req.DocumentTypeID).
		Update("delete_at", now).Error; err != nil {
		utils.Error(c, err)
		return
	}

	doc := models.ApplicantDocument{
		ApplicantID:        applicant.ApplicantID,
		DocumentTypeID:     req.DocumentTypeID,
		OriginalFilename:   req.OriginalFilename,
		StoredPath:         req.StoredPath,
		MimeType:           req.MimeType,
		FileSize:           req.FileSize,
		VerificationStatus: models.DocVerificationPending,
		UploadedAt:         &now,
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "Document registered", doc)
}

// GetDocumentRequirements lists required document types, optionally
// for a specific post, with the current completeness check.
func GetDocumentRequirements(c *gin.Context) {
	applicant := currentApplicant(c)
	if applicant == nil {
		return
	}

	postID := 0
	if raw := c.Query("post_id"); raw != "" {
		postID, _ = strconv.Atoi(raw)
	}

	check, err := documentService().Check(applicant.ApplicantID, postID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.OK(c, "Document requirements fetched", check)
}
