package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

type stubProductRepo struct {
	byID map[uuid.UUID]*models.Product

	created []*models.Product
	saved   []*models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.created = append(s.created, product)
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	s.saved = append(s.saved, product)
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = active
	return nil
}

func (s *stubProductRepo) List(_ context.Context, _ ListQuery) (*ListResult, error) {
	out := make([]models.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, *p)
	}
	return &ListResult{Products: out}, nil
}

func TestServiceCreateValidatesPrice(t *testing.T) {
	svc, _ := NewService(newStubProductRepo())

	_, err := svc.Create(context.Background(), CreateProductInput{
		Name: "Free Sample", Description: "x",
		Price: decimal.Zero, Quantity: 1,
		Category: "misc", SubCategory: "misc", Brand: "none",
	})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	repo := newStubProductRepo()
	svc, _ := NewService(repo)

	created, err := svc.Create(context.Background(), CreateProductInput{
		Name: "Apple", Description: "Honeycrisp",
		Price: decimal.NewFromFloat(0.99), Quantity: 100,
		Category: "produce", SubCategory: "fruit", Brand: "local",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsActive {
		t.Fatal("new products must start active")
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Apple" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	repo := newStubProductRepo()
	svc, _ := NewService(repo)

	created, _ := svc.Create(context.Background(), CreateProductInput{
		Name: "Apple", Description: "Honeycrisp",
		Price: decimal.NewFromFloat(0.99), Quantity: 100,
		Category: "produce", SubCategory: "fruit", Brand: "local",
	})

	newQty := 42
	updated, err := svc.Update(context.Background(), created.ID, UpdateProductInput{Quantity: &newQty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Quantity != 42 {
		t.Fatalf("quantity not applied: %d", updated.Quantity)
	}
	if updated.Name != "Apple" || !updated.Price.Equal(decimal.NewFromFloat(0.99)) {
		t.Fatalf("unset fields must be preserved: %+v", updated)
	}

	negative := -1
	_, err = svc.Update(context.Background(), created.ID, UpdateProductInput{Quantity: &negative})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceDeactivate(t *testing.T) {
	repo := newStubProductRepo()
	svc, _ := NewService(repo)

	created, _ := svc.Create(context.Background(), CreateProductInput{
		Name: "Apple", Description: "Honeycrisp",
		Price: decimal.NewFromFloat(0.99), Quantity: 100,
		Category: "produce", SubCategory: "fruit", Brand: "local",
	})

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.byID[created.ID].IsActive {
		t.Fatal("expected product to be inactive")
	}

	err := svc.Deactivate(context.Background(), uuid.New())
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
