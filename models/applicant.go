package models

import "time"

type Applicant struct {
	ApplicantID   int        `gorm:"primaryKey;column:applicant_id" json:"applicant_id"`
	UserID        int        `gorm:"column:user_id" json:"user_id"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	FatherName    *string    `gorm:"column:father_name" json:"father_name,omitempty"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth" json:"date_of_birth"`
	Gender        string     `gorm:"column:gender" json:"gender"`
	IsDomicile    bool       `gorm:"column:is_domicile" json:"is_domicile"`
	AddressLine   string     `gorm:"column:address_line" json:"address_line"`
	DistrictID    *int       `gorm:"column:district_id" json:"district_id,omitempty"`
	Pincode       string     `gorm:"column:pincode" json:"pincode"`
	PhotoPath     *string    `gorm:"column:photo_path" json:"photo_path,omitempty"`
	SignaturePath *string    `gorm:"column:signature_path" json:"signature_path,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User        User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	District    *District           `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	Educations  []EducationRecord   `gorm:"foreignKey:ApplicantID" json:"educations,omitempty"`
	Experiences []ExperienceRecord  `gorm:"foreignKey:ApplicantID" json:"experiences,omitempty"`
	Documents   []ApplicantDocument `gorm:"foreignKey:ApplicantID" json:"documents,omitempty"`
}

type EducationRecord struct {
	EducationID      int        `gorm:"primaryKey;column:education_id" json:"education_id"`
	ApplicantID      int        `gorm:"column:applicant_id" json:"applicant_id"`
	EducationLevelID int        `gorm:"column:education_level_id" json:"education_level_id"`
	InstituteName    string     `gorm:"column:institute_name" json:"institute_name"`
	PassingYear      int        `gorm:"column:passing_year" json:"passing_year"`
	MarksPercentage  *float64   `gorm:"column:marks_percentage" json:"marks_percentage,omitempty"`
	CertificatePath  *string    `gorm:"column:certificate_path" json:"certificate_path,omitempty"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	EducationLevel EducationLevel `gorm:"foreignKey:EducationLevelID" json:"education_level,omitempty"`
}

type ExperienceRecord struct {
	ExperienceID    int        `gorm:"primaryKey;column:experience_id" json:"experience_id"`
	ApplicantID     int        `gorm:"column:applicant_id" json:"applicant_id"`
	EmployerName    string     `gorm:"column:employer_name" json:"employer_name"`
	Designation     string     `gorm:"column:designation" json:"designation"`
	StartDate       *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate         *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	TotalMonths     *int       `gorm:"column:total_months" json:"total_months,omitempty"`
	CertificatePath *string    `gorm:"column:certificate_path" json:"certificate_path,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Applicant) TableName() string {
	return "applicants"
}

func (EducationRecord) TableName() string {
	return "education_records"
}

func (ExperienceRecord) TableName() string {
	return "experience_records"
}
