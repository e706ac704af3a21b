package models

import "time"

// Document verification statuses.
const (
	DocVerificationPending  = "PENDING"
	DocVerificationVerified = "VERIFIED"
	DocVerificationRejected = "REJECTED"
)

// DocumentType categories. Education/experience certificates are modeled
// as child-record attachments and excluded from generic requirement sets.
const (
	DocCategoryGeneral    = "general"
	DocCategoryEducation  = "education"
	DocCategoryExperience = "experience"
)

type DocumentType struct {
	DocumentTypeID   int        `gorm:"primaryKey;column:document_type_id" json:"document_type_id"`
	DocumentTypeName string     `gorm:"column:document_type_name" json:"document_type_name"`
	Code             string     `gorm:"column:code" json:"code"`
	Category         string     `gorm:"column:category" json:"category"`
	IsMandatory      bool       `gorm:"column:is_mandatory" json:"is_mandatory"`
	DomicileOnly     bool       `gorm:"column:domicile_only" json:"domicile_only"`
	DocumentOrder    int        `gorm:"column:document_order" json:"document_order"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// PostDocumentRequirement marks a document type mandatory at application
// time for one specific post.
type PostDocumentRequirement struct {
	RequirementID  int        `gorm:"primaryKey;column:requirement_id" json:"requirement_id"`
	PostID         int        `gorm:"column:post_id" json:"post_id"`
	DocumentTypeID int        `gorm:"column:document_type_id" json:"document_type_id"`
	IsMandatory    bool       `gorm:"column:is_mandatory" json:"is_mandatory"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	DocumentType DocumentType `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
}

type ApplicantDocument struct {
	DocumentID         int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	ApplicantID        int        `gorm:"column:applicant_id" json:"applicant_id"`
	DocumentTypeID     int        `gorm:"column:document_type_id" json:"document_type_id"`
	OriginalFilename   string     `gorm:"column:original_filename" json:"original_filename"`
	StoredPath         string     `gorm:"column:stored_path" json:"stored_path"`
	MimeType           string     `gorm:"column:mime_type" json:"mime_type"`
	FileSize           int64      `gorm:"column:file_size" json:"file_size"`
	VerificationStatus string     `gorm:"column:verification_status" json:"verification_status"`
	VerifiedBy         *int       `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	VerifyRemarks      *string    `gorm:"column:verify_remarks" json:"verify_remarks,omitempty"`
	UploadedAt         *time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt           *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	DocumentType DocumentType `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
}

// TableName overrides
func (DocumentType) TableName() string {
	return "document_types"
}

func (PostDocumentRequirement) TableName() string {
	return "post_document_requirements"
}

func (ApplicantDocument) TableName() string {
	return "applicant_documents"
}
