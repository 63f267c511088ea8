package models

// Allergy is a catalog entry users can link to. The name doubles as the
// primary key so the catalog stays unique by construction.
type Allergy struct {
	Name        string  `gorm:"column:name;primaryKey"`
	Description *string `gorm:"column:description"`
}
