package models

// UserAllergy is the explicit join row linking a user to an allergy.
// Composite key keeps ownership and lifecycle explicit.
type UserAllergy struct {
	UserID      int64   `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	AllergyName string  `gorm:"column:allergy_name;primaryKey"`
	Notes       *string `gorm:"column:notes"`
}
