package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db"
	"github.com/mgolesberg/api-example/pkg/db/models"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

// PreferenceRepository defines the persistence surface required by the service.
type PreferenceRepository interface {
	ListAllergies(ctx context.Context) ([]models.Allergy, error)
	FindAllergy(ctx context.Context, name string) (*models.Allergy, error)
	CreateAllergy(ctx context.Context, allergy *models.Allergy) (*models.Allergy, error)
	SaveAllergy(ctx context.Context, allergy *models.Allergy) (*models.Allergy, error)
	DeleteAllergy(ctx context.Context, name string) error
	CountAllergyLinks(ctx context.Context, name string) (int64, error)

	ListUserAllergies(ctx context.Context, userID int64) ([]UserAllergyView, error)
	CreateUserAllergy(ctx context.Context, link *models.UserAllergy) error
	DeleteUserAllergy(ctx context.Context, userID int64, name string) error

	ListInterests(ctx context.Context, userID int64) ([]models.Interest, error)
	FindInterest(ctx context.Context, id int64) (*models.Interest, error)
	CreateInterest(ctx context.Context, row *models.Interest) (*models.Interest, error)
	SaveInterest(ctx context.Context, row *models.Interest) (*models.Interest, error)
	DeleteInterest(ctx context.Context, id int64) error

	ListDislikes(ctx context.Context, userID int64) ([]models.Dislike, error)
	FindDislike(ctx context.Context, id int64) (*models.Dislike, error)
	CreateDislike(ctx context.Context, row *models.Dislike) (*models.Dislike, error)
	SaveDislike(ctx context.Context, row *models.Dislike) (*models.Dislike, error)
	DeleteDislike(ctx context.Context, id int64) error
}

// Service exposes the preference tracking operations.
type Service interface {
	ListAllergies(ctx context.Context) ([]models.Allergy, error)
	CreateAllergy(ctx context.Context, input AllergyInput) (*models.Allergy, error)
	UpdateAllergy(ctx context.Context, name string, description *string) (*models.Allergy, error)
	DeleteAllergy(ctx context.Context, name string) error

	ListUserAllergies(ctx context.Context, userID int64) ([]UserAllergyView, error)
	AddUserAllergy(ctx context.Context, userID int64, input UserAllergyInput) error
	RemoveUserAllergy(ctx context.Context, userID int64, name string) error

	ListInterests(ctx context.Context, userID int64) ([]models.Interest, error)
	CreateInterest(ctx context.Context, userID int64, input InterestInput) (*models.Interest, error)
	UpdateInterest(ctx context.Context, userID, id int64, input InterestInput) (*models.Interest, error)
	DeleteInterest(ctx context.Context, userID, id int64) error

	ListDislikes(ctx context.Context, userID int64) ([]models.Dislike, error)
	CreateDislike(ctx context.Context, userID int64, input DislikeInput) (*models.Dislike, error)
	UpdateDislike(ctx context.Context, userID, id int64, input DislikeInput) (*models.Dislike, error)
	DeleteDislike(ctx context.Context, userID, id int64) error
}

type service struct {
	repo PreferenceRepository
}

// NewService builds a preferences service backed by the provided repository.
func NewService(repo PreferenceRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("preferences repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	rows, err := s.repo.ListAllergies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list allergies")
	}
	return rows, nil
}

func (s *service) CreateAllergy(ctx context.Context, input AllergyInput) (*models.Allergy, error) {
	name := normalizeAllergyName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allergy name is required")
	}
	created, err := s.repo.CreateAllergy(ctx, &models.Allergy{Name: name, Description: input.Description})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "allergy already exists").
				WithDetails(map[string]any{"name": name})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create allergy")
	}
	return created, nil
}

func (s *service) UpdateAllergy(ctx context.Context, name string, description *string) (*models.Allergy, error) {
	allergy, err := s.findAllergy(ctx, normalizeAllergyName(name))
	if err != nil {
		return nil, err
	}
	allergy.Description = description
	saved, err := s.repo.SaveAllergy(ctx, allergy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update allergy")
	}
	return saved, nil
}

// DeleteAllergy removes a catalog entry. Entries still linked to users stay
// put; callers must unlink every user first.
func (s *service) DeleteAllergy(ctx context.Context, name string) error {
	name = normalizeAllergyName(name)
	links, err := s.repo.CountAllergyLinks(ctx, name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count allergy links")
	}
	if links > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "allergy is still linked to users").
			WithDetails(map[string]any{"name": name, "linked_users": links})
	}
	if err := s.repo.DeleteAllergy(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return allergyNotFound(name)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete allergy")
	}
	return nil
}

func (s *service) ListUserAllergies(ctx context.Context, userID int64) ([]UserAllergyView, error) {
	rows, err := s.repo.ListUserAllergies(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user allergies")
	}
	return rows, nil
}

func (s *service) AddUserAllergy(ctx context.Context, userID int64, input UserAllergyInput) error {
	name := normalizeAllergyName(input.AllergyName)
	if _, err := s.findAllergy(ctx, name); err != nil {
		return err
	}
	err := s.repo.CreateUserAllergy(ctx, &models.UserAllergy{
		UserID:      userID,
		AllergyName: name,
		Notes:       input.Notes,
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, ""):
			return pkgerrors.New(pkgerrors.CodeConflict, "allergy already linked to user").
				WithDetails(map[string]any{"user_id": userID, "name": name})
		case db.IsForeignKeyViolation(err):
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"user_id": userID})
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link allergy to user")
		}
	}
	return nil
}

func (s *service) RemoveUserAllergy(ctx context.Context, userID int64, name string) error {
	name = normalizeAllergyName(name)
	if err := s.repo.DeleteUserAllergy(ctx, userID, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "allergy not linked to user").
				WithDetails(map[string]any{"user_id": userID, "name": name})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink allergy from user")
	}
	return nil
}

func (s *service) ListInterests(ctx context.Context, userID int64) ([]models.Interest, error) {
	rows, err := s.repo.ListInterests(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list interests")
	}
	return rows, nil
}

func (s *service) CreateInterest(ctx context.Context, userID int64, input InterestInput) (*models.Interest, error) {
	if strings.TrimSpace(input.InterestName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interest name is required")
	}
	created, err := s.repo.CreateInterest(ctx, input.ToModel(userID))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"user_id": userID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create interest")
	}
	return created, nil
}

func (s *service) UpdateInterest(ctx context.Context, userID, id int64, input InterestInput) (*models.Interest, error) {
	row, err := s.repo.FindInterest(ctx, id)
	if err != nil || row.UserID != userID {
		return nil, notFoundOr(err, "interest", id, "load interest")
	}
	if strings.TrimSpace(input.InterestName) != "" {
		row.InterestName = input.InterestName
	}
	row.Category = copyStringPtr(input.Category)
	row.Description = copyStringPtr(input.Description)
	saved, err := s.repo.SaveInterest(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update interest")
	}
	return saved, nil
}

func (s *service) DeleteInterest(ctx context.Context, userID, id int64) error {
	row, err := s.repo.FindInterest(ctx, id)
	if err != nil || row.UserID != userID {
		return notFoundOr(err, "interest", id, "load interest")
	}
	if err := s.repo.DeleteInterest(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete interest")
	}
	return nil
}

func (s *service) ListDislikes(ctx context.Context, userID int64) ([]models.Dislike, error) {
	rows, err := s.repo.ListDislikes(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dislikes")
	}
	return rows, nil
}

func (s *service) CreateDislike(ctx context.Context, userID int64, input DislikeInput) (*models.Dislike, error) {
	if strings.TrimSpace(input.DislikeName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dislike name is required")
	}
	created, err := s.repo.CreateDislike(ctx, input.ToModel(userID))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"user_id": userID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dislike")
	}
	return created, nil
}

func (s *service) UpdateDislike(ctx context.Context, userID, id int64, input DislikeInput) (*models.Dislike, error) {
	row, err := s.repo.FindDislike(ctx, id)
	if err != nil || row.UserID != userID {
		return nil, notFoundOr(err, "dislike", id, "load dislike")
	}
	if strings.TrimSpace(input.DislikeName) != "" {
		row.DislikeName = input.DislikeName
	}
	row.Category = copyStringPtr(input.Category)
	row.Severity = copyStringPtr(input.Severity)
	row.Description = copyStringPtr(input.Description)
	saved, err := s.repo.SaveDislike(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dislike")
	}
	return saved, nil
}

func (s *service) DeleteDislike(ctx context.Context, userID, id int64) error {
	row, err := s.repo.FindDislike(ctx, id)
	if err != nil || row.UserID != userID {
		return notFoundOr(err, "dislike", id, "load dislike")
	}
	if err := s.repo.DeleteDislike(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dislike")
	}
	return nil
}

func (s *service) findAllergy(ctx context.Context, name string) (*models.Allergy, error) {
	allergy, err := s.repo.FindAllergy(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, allergyNotFound(name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load allergy")
	}
	return allergy, nil
}

func normalizeAllergyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func allergyNotFound(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "allergy not found").
		WithDetails(map[string]any{"name": name})
}

// notFoundOr treats a missing row and a row owned by another user the same
// way so ids cannot be probed across accounts.
func notFoundOr(err error, kind string, id int64, op string) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, kind+" not found").
			WithDetails(map[string]any{"id": id})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
