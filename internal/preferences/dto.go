package preferences

import "github.com/mgolesberg/api-example/pkg/db/models"

// AllergyInput captures a catalog entry payload.
type AllergyInput struct {
	Name        string
	Description *string
}

// UserAllergyInput links a user to a catalog allergy with optional notes.
type UserAllergyInput struct {
	AllergyName string
	Notes       *string
}

// UserAllergyView is a user's link joined with its catalog entry.
type UserAllergyView struct {
	AllergyName string  `json:"allergy_name"`
	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// InterestInput captures a new or updated interest row.
type InterestInput struct {
	InterestName string
	Category     *string
	Description  *string
}

// ToModel maps the input onto a fresh Interest row for the user.
func (in InterestInput) ToModel(userID int64) *models.Interest {
	return &models.Interest{
		UserID:       userID,
		InterestName: in.InterestName,
		Category:     copyStringPtr(in.Category),
		Description:  copyStringPtr(in.Description),
	}
}

// DislikeInput captures a new or updated dislike row.
type DislikeInput struct {
	DislikeName string
	Category    *string
	Severity    *string
	Description *string
}

// ToModel maps the input onto a fresh Dislike row for the user.
func (in DislikeInput) ToModel(userID int64) *models.Dislike {
	return &models.Dislike{
		UserID:      userID,
		DislikeName: in.DislikeName,
		Category:    copyStringPtr(in.Category),
		Severity:    copyStringPtr(in.Severity),
		Description: copyStringPtr(in.Description),
	}
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
