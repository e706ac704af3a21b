package services

import (
	"fmt"
	"strings"
	"time"

	"recruitment-portal-api/models"

	"gorm.io/gorm"
)

// Default age bounds applied when a post leaves them unset.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 65
)

// Criterion names used in verdicts and stored snapshots.
const (
	CriterionAge        = "age"
	CriterionEducation  = "education"
	CriterionExperience = "experience"
)

// CriterionResult is the per-rule outcome inside a verdict.
type CriterionResult struct {
	Criterion string `json:"criterion"`
	Passed    bool   `json:"passed"`
	Message   string `json:"message"`
}

// EligibilityVerdict is the structured pass/fail result of evaluating
// one applicant snapshot against one post's requirements.
type EligibilityVerdict struct {
	IsEligible   bool              `json:"is_eligible"`
	Checks       []CriterionResult `json:"checks"`
	FailedChecks []string          `json:"failed_checks"`
}

// FailureSummary joins the failed-check messages for human display.
func (v EligibilityVerdict) FailureSummary() string {
	return strings.Join(v.FailedChecks, "; ")
}

// ApplicantSnapshot is the read-only input to evaluation: fetched once,
// reusable against many posts.
type ApplicantSnapshot struct {
	ApplicantID      int
	DateOfBirth      *time.Time
	EducationRanks   []int
	ExperienceMonths int
}

// PostRequirements is the rule set extracted from a post row.
type PostRequirements struct {
	PostID              int
	MinAge              *int
	MaxAge              *int
	MinEducationRank    *int
	MaxEducationRank    *int
	MinExperienceMonths int
}

// RequirementsFromPost extracts the evaluator inputs from a post model.
func RequirementsFromPost(post *models.Post) PostRequirements {
	return PostRequirements{
		PostID:              post.PostID,
		MinAge:              post.MinAge,
		MaxAge:              post.MaxAge,
		MinEducationRank:    post.MinEducationRank,
		MaxEducationRank:    post.MaxEducationRank,
		MinExperienceMonths: post.MinExperienceMonths,
	}
}

// EligibilityService evaluates applicant snapshots against post
// requirements. Evaluation itself is pure; only BuildSnapshot touches
// the database.
type EligibilityService struct {
	db *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{db: db}
}

// BuildSnapshot loads everything evaluation needs in one pass so bulk
// listings do not re-query per post.
func (s *EligibilityService) BuildSnapshot(applicantID int) (*ApplicantSnapshot, error) {
	var applicant models.Applicant
	if err := s.db.
		Preload("Educations", "delete_at IS NULL").
		Preload("Educations.EducationLevel").
		Preload("Experiences", "delete_at IS NULL").
		Where("applicant_id = ? AND delete_at IS NULL", applicantID).
		First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("applicant %d not found", applicantID)
		}
		return nil, err
	}
	return SnapshotFromApplicant(&applicant, time.Now()), nil
}

// SnapshotFromApplicant converts a loaded applicant aggregate into an
// evaluation snapshot. Exposed for callers that already hold the rows.
func SnapshotFromApplicant(applicant *models.Applicant, now time.Time) *ApplicantSnapshot {
	snapshot := &ApplicantSnapshot{
		ApplicantID: applicant.ApplicantID,
		DateOfBirth: applicant.DateOfBirth,
	}
	for _, edu := range applicant.Educations {
		snapshot.EducationRanks = append(snapshot.EducationRanks, edu.EducationLevel.DisplayOrder)
	}
	snapshot.ExperienceMonths = totalExperienceMonths(applicant.Experiences, now)
	return snapshot
}

func totalExperienceMonths(records []models.ExperienceRecord, now time.Time) int {
	total := 0
	for _, rec := range records {
		if rec.TotalMonths != nil {
			if *rec.TotalMonths > 0 {
				total += *rec.TotalMonths
			}
			continue
		}
		if rec.StartDate == nil {
			continue
		}
		end := now
		if rec.EndDate != nil {
			end = *rec.EndDate
		}
		months := wholeMonthsBetween(*rec.StartDate, end)
		if months > 0 {
			total += months
		}
	}
	return total
}

func wholeMonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// AgeAt computes completed years between dob and the reference time.
func AgeAt(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return age
}

// Evaluate runs all criteria for one post. Deterministic for fixed
// snapshot, requirements and now; no side effects.
func (s *EligibilityService) Evaluate(snapshot *ApplicantSnapshot, req PostRequirements, now time.Time) EligibilityVerdict {
	checks := []CriterionResult{
		evaluateAge(snapshot, req, now),
		evaluateEducation(snapshot, req),
		evaluateExperience(snapshot, req),
	}

	verdict := EligibilityVerdict{IsEligible: true, Checks: checks}
	for _, check := range checks {
		if !check.Passed {
			verdict.IsEligible = false
			verdict.FailedChecks = append(verdict.FailedChecks, check.Message)
		}
	}
	return verdict
}

// EvaluateAll is the bulk listing path: one snapshot against many
// posts. It must agree with Evaluate on every post.
func (s *EligibilityService) EvaluateAll(snapshot *ApplicantSnapshot, reqs []PostRequirements, now time.Time) map[int]EligibilityVerdict {
	verdicts := make(map[int]EligibilityVerdict, len(reqs))
	for _, req := range reqs {
		verdicts[req.PostID] = s.Evaluate(snapshot, req, now)
	}
	return verdicts
}

func evaluateAge(snapshot *ApplicantSnapshot, req PostRequirements, now time.Time) CriterionResult {
	if snapshot.DateOfBirth == nil {
		return CriterionResult{Criterion: CriterionAge, Passed: false, Message: "Date of birth is missing"}
	}

	minAge := DefaultMinAge
	if req.MinAge != nil {
		minAge = *req.MinAge
	}
	maxAge := DefaultMaxAge
	if req.MaxAge != nil {
		maxAge = *req.MaxAge
	}

	age := AgeAt(*snapshot.DateOfBirth, now)
	if age < minAge || age > maxAge {
		return CriterionResult{
			Criterion: CriterionAge,
			Passed:    false,
			Message:   fmt.Sprintf("Age %d is outside the allowed range %d-%d", age, minAge, maxAge),
		}
	}
	return CriterionResult{
		Criterion: CriterionAge,
		Passed:    true,
		Message:   fmt.Sprintf("Age %d is within the allowed range %d-%d", age, minAge, maxAge),
	}
}

func evaluateEducation(snapshot *ApplicantSnapshot, req PostRequirements) CriterionResult {
	maxRank := 0
	for _, rank := range snapshot.EducationRanks {
		if rank > maxRank {
			maxRank = rank
		}
	}

	if len(snapshot.EducationRanks) == 0 {
		if req.MinEducationRank != nil && *req.MinEducationRank > 0 {
			return CriterionResult{
				Criterion: CriterionEducation,
				Passed:    false,
				Message:   fmt.Sprintf("No education records found; minimum qualification rank %d is required", *req.MinEducationRank),
			}
		}
		return CriterionResult{Criterion: CriterionEducation, Passed: true, Message: "No education requirement configured"}
	}

	if req.MinEducationRank != nil && maxRank < *req.MinEducationRank {
		return CriterionResult{
			Criterion: CriterionEducation,
			Passed:    false,
			Message:   fmt.Sprintf("Highest qualification rank %d is below the required minimum rank %d", maxRank, *req.MinEducationRank),
		}
	}
	if req.MaxEducationRank != nil && maxRank > *req.MaxEducationRank {
		return CriterionResult{
			Criterion: CriterionEducation,
			Passed:    false,
			Message:   fmt.Sprintf("Highest qualification rank %d exceeds the allowed maximum rank %d", maxRank, *req.MaxEducationRank),
		}
	}
	return CriterionResult{
		Criterion: CriterionEducation,
		Passed:    true,
		Message:   fmt.Sprintf("Qualification rank %d satisfies the post requirement", maxRank),
	}
}

func evaluateExperience(snapshot *ApplicantSnapshot, req PostRequirements) CriterionResult {
	if req.MinExperienceMonths <= 0 {
		return CriterionResult{Criterion: CriterionExperience, Passed: true, Message: "No experience requirement configured"}
	}
	if snapshot.ExperienceMonths < req.MinExperienceMonths {
		return CriterionResult{
			Criterion: CriterionExperience,
			Passed:    false,
			Message:   fmt.Sprintf("Total experience %d months is below the required %d months", snapshot.ExperienceMonths, req.MinExperienceMonths),
		}
	}
	return CriterionResult{
		Criterion: CriterionExperience,
		Passed:    true,
		Message:   fmt.Sprintf("Total experience %d months meets the required %d months", snapshot.ExperienceMonths, req.MinExperienceMonths),
	}
}
