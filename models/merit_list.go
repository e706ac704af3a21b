package models

import "time"

// MeritList mirrors the application's selection status per (post,
// district) ranking entry; the selection workflow keeps the mirror in
// sync inside the same transaction that mutates the application.
type MeritList struct {
	MeritID         int        `gorm:"primaryKey;column:merit_id" json:"merit_id"`
	PostID          int        `gorm:"column:post_id" json:"post_id"`
	DistrictID      int        `gorm:"column:district_id" json:"district_id"`
	ApplicationID   int        `gorm:"column:application_id;unique" json:"application_id"`
	MeritScore      float64    `gorm:"column:merit_score" json:"merit_score"`
	MeritRank       *int       `gorm:"column:merit_rank" json:"merit_rank,omitempty"`
	SelectionStatus *string    `gorm:"column:selection_status" json:"selection_status,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// TableName overrides
func (MeritList) TableName() string {
	return "merit_lists"
}
