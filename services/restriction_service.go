package services

import (
	"recruitment-portal-api/config"
	"recruitment-portal-api/models"

	"gorm.io/gorm"
)

// Restriction decision reason codes.
const (
	ReasonFirstApplication = "FIRST_APPLICATION"
	ReasonAllowed          = "OK"
	ReasonAlreadyApplied   = "ALREADY_APPLIED"
	ReasonDistrictMismatch = "DISTRICT_MISMATCH"
	ReasonDuplicateOSC     = "DUPLICATE_OSC"
	ReasonOSCLimitReached  = "OSC_LIMIT_REACHED"
	ReasonPostNameLimit    = "POST_NAME_LIMIT_REACHED"
)

// RestrictionDecision is a structured allow/deny result. Denials are
// not errors; callers branch on Allowed and surface Reason.
type RestrictionDecision struct {
	Allowed bool           `json:"allowed"`
	Reason  string         `json:"reason"`
	Details map[string]any `json:"details,omitempty"`
}

// appliedPost is the slice of an existing application the guard needs.
type appliedPost struct {
	PostID      int
	PostName    string
	ComponentID int
	DistrictID  int
}

// RestrictionService enforces cross-application limits. Limits come
// from injected settings, never from process environment.
type RestrictionService struct {
	db                   *gorm.DB
	maxDistinctPostNames int
	maxOSCPerPostName    int
}

func NewRestrictionService(db *gorm.DB, settings config.Settings) *RestrictionService {
	return &RestrictionService{
		db:                   db,
		maxDistinctPostNames: settings.MaxDistinctPostNames,
		maxOSCPerPostName:    settings.MaxOSCPerPostName,
	}
}

// activeApplications loads the applicant's applications that still count
// against the limits (withdrawn/rejected ones do not).
func (s *RestrictionService) activeApplications(applicantID int) ([]appliedPost, error) {
	var apps []models.Application
	err := s.db.Preload("Post").
		Where("applicant_id = ? AND is_deleted = ? AND status NOT IN ?",
			applicantID, false,
			[]models.ApplicationStatus{models.StatusWithdrawn, models.StatusRejected}).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	existing := make([]appliedPost, 0, len(apps))
	for _, app := range apps {
		existing = append(existing, appliedPost{
			PostID:      app.PostID,
			PostName:    app.Post.PostName,
			ComponentID: app.Post.ComponentID,
			DistrictID:  app.DistrictID,
		})
	}
	return existing, nil
}

// CanApplyToPost runs the restriction rules for a target post.
func (s *RestrictionService) CanApplyToPost(applicantID, postID int) (*RestrictionDecision, error) {
	var post models.Post
	if err := s.db.Where("post_id = ? AND delete_at IS NULL", postID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("post %d not found", postID)
		}
		return nil, err
	}

	existing, err := s.activeApplications(applicantID)
	if err != nil {
		return nil, err
	}

	target := appliedPost{
		PostID:      post.PostID,
		PostName:    post.PostName,
		ComponentID: post.ComponentID,
		DistrictID:  post.DistrictID,
	}
	decision := s.decide(existing, target)
	return &decision, nil
}

// decide is the pure rule core, evaluated in order:
// exact-post duplicate, first application, single district, OSC rules
// for a known post name, then the distinct post-name cap.
func (s *RestrictionService) decide(existing []appliedPost, target appliedPost) RestrictionDecision {
	for _, app := range existing {
		if app.PostID == target.PostID {
			return RestrictionDecision{
				Allowed: false,
				Reason:  ReasonAlreadyApplied,
				Details: map[string]any{"post_id": target.PostID},
			}
		}
	}

	if len(existing) == 0 {
		return RestrictionDecision{Allowed: true, Reason: ReasonFirstApplication}
	}

	for _, app := range existing {
		if app.DistrictID != target.DistrictID {
			return RestrictionDecision{
				Allowed: false,
				Reason:  ReasonDistrictMismatch,
				Details: map[string]any{
					"existing_district_id": app.DistrictID,
					"target_district_id":   target.DistrictID,
				},
			}
		}
	}

	componentsByName := make(map[string]map[int]struct{})
	for _, app := range existing {
		if componentsByName[app.PostName] == nil {
			componentsByName[app.PostName] = make(map[int]struct{})
		}
		componentsByName[app.PostName][app.ComponentID] = struct{}{}
	}

	if components, ok := componentsByName[target.PostName]; ok {
		if _, dup := components[target.ComponentID]; dup {
			return RestrictionDecision{
				Allowed: false,
				Reason:  ReasonDuplicateOSC,
				Details: map[string]any{
					"post_name":    target.PostName,
					"component_id": target.ComponentID,
				},
			}
		}
		if len(components) >= s.maxOSCPerPostName {
			return RestrictionDecision{
				Allowed: false,
				Reason:  ReasonOSCLimitReached,
				Details: map[string]any{
					"post_name": target.PostName,
					"limit":     s.maxOSCPerPostName,
				},
			}
		}
		return RestrictionDecision{Allowed: true, Reason: ReasonAllowed}
	}

	if len(componentsByName) >= s.maxDistinctPostNames {
		return RestrictionDecision{
			Allowed: false,
			Reason:  ReasonPostNameLimit,
			Details: map[string]any{
				"distinct_post_names": len(componentsByName),
				"limit":               s.maxDistinctPostNames,
			},
		}
	}

	return RestrictionDecision{Allowed: true, Reason: ReasonAllowed}
}
