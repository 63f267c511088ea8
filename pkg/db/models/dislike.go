package models

import "time"

// Dislike records something a user wants to avoid, with an optional
// severity level.
type Dislike struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	DislikeName string    `gorm:"column:dislike_name;not null"`
	Category    *string   `gorm:"column:category"`
	Severity    *string   `gorm:"column:severity"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
