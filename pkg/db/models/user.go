package models

import (
	"time"

	"github.com/mgolesberg/api-example/pkg/enums"
)

// User represents the canonical identity entity. Rows are never deleted;
// the condition flag drives the account lifecycle.
type User struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName     string              `gorm:"column:first_name;not null"`
	LastName      string              `gorm:"column:last_name;not null"`
	BirthDate     time.Time           `gorm:"column:birth_date;type:date;not null"`
	Email         string              `gorm:"column:email;type:text;not null;uniqueIndex"`
	PhoneNumber   *string             `gorm:"column:phone_number"`
	Condition     enums.UserCondition `gorm:"column:condition;type:text;not null;default:'active'"`
	Street1       string              `gorm:"column:street1;not null"`
	Street2       *string             `gorm:"column:street2"`
	City          string              `gorm:"column:city;not null"`
	StateProvince string              `gorm:"column:state_province;not null"`
	Zip           string              `gorm:"column:zip;not null"`
	Country       string              `gorm:"column:country;not null"`
	Interests     []Interest          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Dislikes      []Dislike           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Orders        []Order             `gorm:"foreignKey:UserID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
