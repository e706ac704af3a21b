package models

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the closed set of lifecycle states. Values are
// stored verbatim in the applications.status column; any free-form input
// (query params, request bodies) must pass through ParseApplicationStatus
// before reaching business logic.
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "DRAFT"
	StatusSubmitted           ApplicationStatus = "SUBMITTED"
	StatusEligible            ApplicationStatus = "ELIGIBLE"
	StatusNotEligible         ApplicationStatus = "NOT_ELIGIBLE"
	StatusOnHold              ApplicationStatus = "ON_HOLD"
	StatusProvisionalSelected ApplicationStatus = "PROVISIONAL_SELECTED"
	StatusSelected            ApplicationStatus = "SELECTED"
	StatusRejected            ApplicationStatus = "REJECTED"
	StatusWithdrawn           ApplicationStatus = "WITHDRAWN"
	StatusSelectedInOtherPost ApplicationStatus = "SELECTED_IN_OTHER_POST"
)

// Actor types recorded in status history rows.
const (
	ChangedByApplicant = "APPLICANT"
	ChangedByAdmin     = "ADMIN"
	ChangedBySystem    = "SYSTEM"
)

var statusAliases = map[string]ApplicationStatus{
	"DRAFT":                  StatusDraft,
	"SUBMITTED":              StatusSubmitted,
	"ELIGIBLE":               StatusEligible,
	"NOT_ELIGIBLE":           StatusNotEligible,
	"NOT-ELIGIBLE":           StatusNotEligible,
	"INELIGIBLE":             StatusNotEligible,
	"ON_HOLD":                StatusOnHold,
	"ON-HOLD":                StatusOnHold,
	"HOLD":                   StatusOnHold,
	"PROVISIONAL_SELECTED":   StatusProvisionalSelected,
	"PROVISIONALLY_SELECTED": StatusProvisionalSelected,
	"PROVISIONAL":            StatusProvisionalSelected,
	"SELECTED":               StatusSelected,
	"REJECTED":               StatusRejected,
	"WITHDRAWN":              StatusWithdrawn,
	"SELECTED_IN_OTHER_POST": StatusSelectedInOtherPost,
}

// ParseApplicationStatus canonicalizes an externally supplied status
// string. It is the only place spelling variants are tolerated.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown application status %q", raw)
}

// IsTerminal reports whether no further transition may leave the status.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusSelected, StatusRejected, StatusWithdrawn, StatusSelectedInOtherPost, StatusNotEligible:
		return true
	}
	return false
}

type Application struct {
	ApplicationID       int               `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicationNumber   *string           `gorm:"column:application_number" json:"application_number,omitempty"`
	ApplicantID         int               `gorm:"column:applicant_id" json:"applicant_id"`
	PostID              int               `gorm:"column:post_id" json:"post_id"`
	DistrictID          int               `gorm:"column:district_id" json:"district_id"`
	Status              ApplicationStatus `gorm:"column:status" json:"status"`
	SelectionStatus     *string           `gorm:"column:selection_status" json:"selection_status,omitempty"`
	IsLocked            bool              `gorm:"column:is_locked" json:"is_locked"`
	DeclarationAccepted bool              `gorm:"column:declaration_accepted" json:"declaration_accepted"`
	SubmittedAt         *time.Time        `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	SystemEligibility   *bool             `gorm:"column:system_eligibility" json:"system_eligibility,omitempty"`
	EligibilityReason   *string           `gorm:"column:eligibility_reason" json:"eligibility_reason,omitempty"`
	MeritScore          *float64          `gorm:"column:merit_score" json:"merit_score,omitempty"`
	DocumentVerified    bool              `gorm:"column:document_verified" json:"document_verified"`
	ApplicantFirstName  string            `gorm:"column:applicant_first_name" json:"applicant_first_name"`
	ApplicantLastName   string            `gorm:"column:applicant_last_name" json:"applicant_last_name"`
	ApplicantDob        *time.Time        `gorm:"column:applicant_dob" json:"applicant_dob,omitempty"`
	IsDeleted           bool              `gorm:"column:is_deleted" json:"is_deleted"`
	CreateAt            *time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time        `gorm:"column:update_at" json:"update_at"`

	// Relations
	Applicant Applicant `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Post      Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	District  District  `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

// ApplicationStatusHistory is append-only; rows are never updated or
// deleted. Every status mutation appends exactly one row.
type ApplicationStatusHistory struct {
	HistoryID     int               `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int               `gorm:"column:application_id" json:"application_id"`
	OldStatus     ApplicationStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus     ApplicationStatus `gorm:"column:new_status" json:"new_status"`
	ChangedBy     int               `gorm:"column:changed_by" json:"changed_by"`
	ChangedByType string            `gorm:"column:changed_by_type" json:"changed_by_type"`
	Remarks       *string           `gorm:"column:remarks" json:"remarks,omitempty"`
	Metadata      *string           `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"column:created_at" json:"created_at"`
}

// ApplicationStageHistory records stage occupancy. At most one row per
// application has exited_at NULL.
type ApplicationStageHistory struct {
	StageHistoryID int               `gorm:"primaryKey;column:stage_history_id" json:"stage_history_id"`
	ApplicationID  int               `gorm:"column:application_id" json:"application_id"`
	Stage          ApplicationStatus `gorm:"column:stage" json:"stage"`
	EnteredAt      time.Time         `gorm:"column:entered_at" json:"entered_at"`
	ExitedAt       *time.Time        `gorm:"column:exited_at" json:"exited_at,omitempty"`
}

// EligibilityResult is the one-to-one evaluator snapshot taken at
// submission, overwritten on recomputation.
type EligibilityResult struct {
	ResultID      int        `gorm:"primaryKey;column:result_id" json:"result_id"`
	ApplicationID int        `gorm:"column:application_id;unique" json:"application_id"`
	IsEligible    bool       `gorm:"column:is_eligible" json:"is_eligible"`
	ChecksJSON    string     `gorm:"column:checks_json" json:"checks_json"`
	FailedChecks  *string    `gorm:"column:failed_checks" json:"failed_checks,omitempty"`
	EvaluatedAt   time.Time  `gorm:"column:evaluated_at" json:"evaluated_at"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

// ApplicationSequence backs the per-month application number counter.
// period is "YYMM"; last_seq is bumped with LAST_INSERT_ID so concurrent
// submissions never observe the same value.
type ApplicationSequence struct {
	Period  string `gorm:"primaryKey;column:period" json:"period"`
	LastSeq int64  `gorm:"column:last_seq" json:"last_seq"`
}

// ApplicationAcknowledgement is the receipt persisted at submission and
// later rendered by the report layer.
type ApplicationAcknowledgement struct {
	AcknowledgementID int       `gorm:"primaryKey;column:acknowledgement_id" json:"acknowledgement_id"`
	ApplicationID     int       `gorm:"column:application_id;unique" json:"application_id"`
	ApplicationNumber string    `gorm:"column:application_number" json:"application_number"`
	ApplicantName     string    `gorm:"column:applicant_name" json:"applicant_name"`
	PostName          string    `gorm:"column:post_name" json:"post_name"`
	DistrictName      string    `gorm:"column:district_name" json:"district_name"`
	SubmittedAt       time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	SubmittedPlace    *string   `gorm:"column:submitted_place" json:"submitted_place,omitempty"`
	SubmittedIP       *string   `gorm:"column:submitted_ip" json:"submitted_ip,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Application) TableName() string {
	return "applications"
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}

func (ApplicationStageHistory) TableName() string {
	return "application_stage_history"
}

func (EligibilityResult) TableName() string {
	return "eligibility_results"
}

func (ApplicationSequence) TableName() string {
	return "application_sequences"
}

func (ApplicationAcknowledgement) TableName() string {
	return "application_acknowledgements"
}
