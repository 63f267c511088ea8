package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

// E.164, same constraint the database enforces.
var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// UserRepository defines the persistence surface required by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
	UpdateCondition(ctx context.Context, id int64, condition enums.UserCondition) error
}

// Service exposes account lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*models.User, error)
	Deactivate(ctx context.Context, id int64) (*models.User, error)
	MarkForDeletion(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	repo UserRepository
}

// NewService builds a users service backed by the provided repository.
func NewService(repo UserRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// Create registers a new user. Re-registering an email belonging to a
// deactivated or deletion-marked account reactivates it with the new profile
// instead of conflicting; rows are never duplicated or deleted.
func (s *service) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := validatePhone(input.PhoneNumber); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	input.Email = email

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user by email")
	}
	if existing != nil {
		if existing.Condition == enums.UserConditionActive {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered").
				WithDetails(map[string]any{"email": email})
		}
		refreshed := input.ToModel()
		refreshed.ID = existing.ID
		refreshed.CreatedAt = existing.CreatedAt
		saved, err := s.repo.Save(ctx, refreshed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reactivate user")
		}
		return saved, nil
	}

	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}

// GetByID loads a single user or returns not-found.
func (s *service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// GetByEmail loads a single user by unique email.
func (s *service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"email": email})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// List returns all users.
func (s *service) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return rows, nil
}

// Update applies partial profile changes. Email and condition are managed
// through their own operations, never here.
func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (*models.User, error) {
	if err := validatePhone(input.PhoneNumber); err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyIfSet(&user.FirstName, input.FirstName)
	applyIfSet(&user.LastName, input.LastName)
	if input.PhoneNumber != nil {
		user.PhoneNumber = copyStringPtr(input.PhoneNumber)
	}
	applyIfSet(&user.Street1, input.Street1)
	if input.Street2 != nil {
		user.Street2 = copyStringPtr(input.Street2)
	}
	applyIfSet(&user.City, input.City)
	applyIfSet(&user.StateProvince, input.StateProvince)
	applyIfSet(&user.Zip, input.Zip)
	applyIfSet(&user.Country, input.Country)

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return saved, nil
}

// Deactivate flags the account as deactivated.
func (s *service) Deactivate(ctx context.Context, id int64) (*models.User, error) {
	return s.transition(ctx, id, enums.UserConditionDeactivated)
}

// MarkForDeletion flags the account for eventual removal.
func (s *service) MarkForDeletion(ctx context.Context, id int64) (*models.User, error) {
	return s.transition(ctx, id, enums.UserConditionMarkedForDeletion)
}

func (s *service) transition(ctx context.Context, id int64, target enums.UserCondition) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Condition == target {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "user already in requested condition").
			WithDetails(map[string]any{"user_id": id, "condition": target.String()})
	}
	if err := s.repo.UpdateCondition(ctx, id, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user condition")
	}
	user.Condition = target
	return user, nil
}

func validatePhone(phone *string) error {
	if phone == nil || *phone == "" {
		return nil
	}
	if !phoneRe.MatchString(*phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number must be E.164 format").
			WithDetails(map[string]any{"phone_number": *phone})
	}
	return nil
}

func applyIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func userNotFound(id int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
		WithDetails(map[string]any{"user_id": id})
}
