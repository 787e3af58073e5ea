package model

import (
	"time"
)

// Video 视频主表，由上传/审核流程维护，榜单任务只读
type Video struct {
	ID           string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID       string    `gorm:"type:char(36);not null;index:idx_user_id" json:"user_id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	ThumbnailURL string    `gorm:"type:varchar(512)" json:"thumbnail_url"`
	Category     string    `gorm:"type:varchar(64);not null;default:'';index:idx_category" json:"category"`
	Status       string    `gorm:"type:varchar(32);not null;index:idx_status_visibility_created,priority:1" json:"status"`     // draft, processing, published, rejected
	Visibility   string    `gorm:"type:varchar(32);not null;index:idx_status_visibility_created,priority:2" json:"visibility"` // public, unlisted, private
	Views        int64     `gorm:"not null;default:0" json:"views"`
	Likes        int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt    time.Time `gorm:"index:idx_status_visibility_created,priority:3" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}
