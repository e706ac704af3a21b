package models

import "time"

type Post struct {
	PostID              int        `gorm:"primaryKey;column:post_id" json:"post_id"`
	PostName            string     `gorm:"column:post_name" json:"post_name"`
	PostCode            string     `gorm:"column:post_code" json:"post_code"`
	ComponentID         int        `gorm:"column:component_id" json:"component_id"`
	DistrictID          int        `gorm:"column:district_id" json:"district_id"`
	MinAge              *int       `gorm:"column:min_age" json:"min_age,omitempty"`
	MaxAge              *int       `gorm:"column:max_age" json:"max_age,omitempty"`
	MinEducationRank    *int       `gorm:"column:min_education_rank" json:"min_education_rank,omitempty"`
	MaxEducationRank    *int       `gorm:"column:max_education_rank" json:"max_education_rank,omitempty"`
	MinExperienceMonths int        `gorm:"column:min_experience_months" json:"min_experience_months"`
	TotalPositions      int        `gorm:"column:total_positions" json:"total_positions"`
	FilledPositions     int        `gorm:"column:filled_positions" json:"filled_positions"`
	IsActive            bool       `gorm:"column:is_active" json:"is_active"`
	IsClosed            bool       `gorm:"column:is_closed" json:"is_closed"`
	ClosingDate         *time.Time `gorm:"column:closing_date" json:"closing_date,omitempty"`
	CreateAt            *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt            *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Component Component `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
	District  District  `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

// IsOpenForApplications reports whether the post can accept new drafts.
func (p *Post) IsOpenForApplications(now time.Time) bool {
	if !p.IsActive || p.IsClosed {
		return false
	}
	if p.ClosingDate != nil && p.ClosingDate.Before(now) {
		return false
	}
	return p.FilledPositions < p.TotalPositions
}

// RemainingPositions never goes below zero.
func (p *Post) RemainingPositions() int {
	if p.FilledPositions >= p.TotalPositions {
		return 0
	}
	return p.TotalPositions - p.FilledPositions
}

// TableName overrides
func (Post) TableName() string {
	return "posts"
}
