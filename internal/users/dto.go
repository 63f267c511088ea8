package users

import (
	"time"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
)

// CreateUserInput captures the payload required to register a user.
type CreateUserInput struct {
	FirstName     string
	LastName      string
	BirthDate     time.Time
	Email         string
	PhoneNumber   *string
	Street1       string
	Street2       *string
	City          string
	StateProvince string
	Zip           string
	Country       string
}

// ToModel maps the input onto a fresh User row.
func (in CreateUserInput) ToModel() *models.User {
	return &models.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		BirthDate:     in.BirthDate,
		Email:         in.Email,
		PhoneNumber:   copyStringPtr(in.PhoneNumber),
		Condition:     enums.UserConditionActive,
		Street1:       in.Street1,
		Street2:       copyStringPtr(in.Street2),
		City:          in.City,
		StateProvince: in.StateProvince,
		Zip:           in.Zip,
		Country:       in.Country,
	}
}

// UpdateUserInput carries optional profile updates; nil fields are left alone.
type UpdateUserInput struct {
	FirstName     *string
	LastName      *string
	PhoneNumber   *string
	Street1       *string
	Street2       *string
	City          *string
	StateProvince *string
	Zip           *string
	Country       *string
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
