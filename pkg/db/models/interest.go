package models

import "time"

// Interest records something a user has expressed interest in.
type Interest struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;not null;index"`
	InterestName string    `gorm:"column:interest_name;not null"`
	Category     *string   `gorm:"column:category"`
	Description  *string   `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
