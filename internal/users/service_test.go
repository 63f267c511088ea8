package users

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

type stubUserRepo struct {
	byID    map[int64]*models.User
	byEmail map[string]*models.User

	created    []*models.User
	saved      []*models.User
	conditions map[int64]enums.UserCondition
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:       map[int64]*models.User{},
		byEmail:    map[string]*models.User{},
		conditions: map[int64]enums.UserCondition{},
	}
}

func (s *stubUserRepo) add(u *models.User) {
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = int64(len(s.byID) + 1)
	s.created = append(s.created, user)
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Save(_ context.Context, user *models.User) (*models.User, error) {
	s.saved = append(s.saved, user)
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) UpdateCondition(_ context.Context, id int64, condition enums.UserCondition) error {
	s.conditions[id] = condition
	if u, ok := s.byID[id]; ok {
		u.Condition = condition
	}
	return nil
}

func activeUser(id int64, email string) *models.User {
	return &models.User{
		ID:            id,
		FirstName:     "Avery",
		LastName:      "Stone",
		BirthDate:     time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
		Email:         email,
		Condition:     enums.UserConditionActive,
		Street1:       "12 Main St",
		City:          "Springfield",
		StateProvince: "IL",
		Zip:           "62701",
		Country:       "USA",
	}
}

func TestCreateNewUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateUserInput{
		FirstName: "Avery", LastName: "Stone",
		BirthDate: time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
		Email:     "Avery@Example.com",
		Street1:   "12 Main St", City: "Springfield",
		StateProvince: "IL", Zip: "62701", Country: "USA",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "avery@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.Condition != enums.UserConditionActive {
		t.Fatalf("expected active condition, got %s", created.Condition)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
}

func TestCreateConflictsOnActiveEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(activeUser(7, "avery@example.com"))
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), CreateUserInput{
		FirstName: "Other", LastName: "Person",
		Email:   "avery@example.com",
		Street1: "1 Elm", City: "Ames", StateProvince: "IA", Zip: "50010", Country: "USA",
	})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.created) != 0 || len(repo.saved) != 0 {
		t.Fatalf("no write should happen on conflict")
	}
}

func TestCreateReactivatesDeactivatedUser(t *testing.T) {
	repo := newStubUserRepo()
	old := activeUser(7, "avery@example.com")
	old.Condition = enums.UserConditionDeactivated
	old.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.add(old)
	svc, _ := NewService(repo)

	revived, err := svc.Create(context.Background(), CreateUserInput{
		FirstName: "Avery", LastName: "Stone-Reed",
		BirthDate: old.BirthDate,
		Email:     "avery@example.com",
		Street1:   "99 Oak Ave", City: "Springfield",
		StateProvince: "IL", Zip: "62702", Country: "USA",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if revived.ID != 7 {
		t.Fatalf("reactivation must keep the existing row, got id %d", revived.ID)
	}
	if revived.Condition != enums.UserConditionActive {
		t.Fatalf("expected active after reactivation, got %s", revived.Condition)
	}
	if revived.LastName != "Stone-Reed" || revived.Street1 != "99 Oak Ave" {
		t.Fatalf("profile fields not refreshed: %+v", revived)
	}
	if !revived.CreatedAt.Equal(old.CreatedAt) {
		t.Fatalf("created_at must survive reactivation")
	}
	if len(repo.created) != 0 {
		t.Fatalf("reactivation must not insert a second row")
	}
}

func TestCreateRejectsBadPhone(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := NewService(repo)

	bad := "555-not-a-phone"
	_, err := svc.Create(context.Background(), CreateUserInput{
		FirstName: "A", LastName: "B", Email: "x@y.com",
		PhoneNumber: &bad,
		Street1:     "1 Elm", City: "Ames", StateProvince: "IA", Zip: "50010", Country: "USA",
	})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(newStubUserRepo())

	_, err := svc.GetByID(context.Background(), 404)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(activeUser(3, "avery@example.com"))
	svc, _ := NewService(repo)

	city := "Chicago"
	updated, err := svc.Update(context.Background(), 3, UpdateUserInput{City: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.City != "Chicago" {
		t.Fatalf("city not applied: %q", updated.City)
	}
	if updated.FirstName != "Avery" || updated.Street1 != "12 Main St" {
		t.Fatalf("unset fields must be preserved: %+v", updated)
	}
}

func TestDeactivateAndMarkForDeletion(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(activeUser(5, "avery@example.com"))
	svc, _ := NewService(repo)

	u, err := svc.Deactivate(context.Background(), 5)
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if u.Condition != enums.UserConditionDeactivated {
		t.Fatalf("expected deactivated, got %s", u.Condition)
	}

	// Repeating the same transition is a state conflict.
	_, err = svc.Deactivate(context.Background(), 5)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	u, err = svc.MarkForDeletion(context.Background(), 5)
	if err != nil {
		t.Fatalf("MarkForDeletion: %v", err)
	}
	if u.Condition != enums.UserConditionMarkedForDeletion {
		t.Fatalf("expected marked_for_deletion, got %s", u.Condition)
	}
	if repo.conditions[5] != enums.UserConditionMarkedForDeletion {
		t.Fatalf("condition not persisted")
	}
}
