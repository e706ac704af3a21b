package models

import "time"

// District represents the districts master table.
type District struct {
	DistrictID   int        `gorm:"primaryKey;column:district_id" json:"district_id"`
	DistrictName string     `gorm:"column:district_name" json:"district_name"`
	Code         string     `gorm:"column:code" json:"code"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Component represents an organizational sub-unit (OSC) hosting posts.
// The same post name can be listed under multiple components.
type Component struct {
	ComponentID   int        `gorm:"primaryKey;column:component_id" json:"component_id"`
	ComponentName string     `gorm:"column:component_name" json:"component_name"`
	Code          string     `gorm:"column:code" json:"code"`
	IsActive      bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// EducationLevel orders qualifications by display_order; a higher
// display_order means a more senior qualification.
type EducationLevel struct {
	EducationLevelID int        `gorm:"primaryKey;column:education_level_id" json:"education_level_id"`
	LevelName        string     `gorm:"column:level_name" json:"level_name"`
	DisplayOrder     int        `gorm:"column:display_order" json:"display_order"`
	IsActive         bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (District) TableName() string {
	return "districts"
}

func (Component) TableName() string {
	return "components"
}

func (EducationLevel) TableName() string {
	return "education_levels"
}
