package products

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Oat Milk %s", uuid.NewString()[:8]),
		Description: "Barista blend",
		Price:       decimal.NewFromFloat(4.99),
		Quantity:    10,
		Category:    "dairy_alternatives",
		SubCategory: "milk",
		Brand:       "Oatly",
		IsActive:    true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Product{
		ID:          uuid.New(),
		Name:        "Sourdough Loaf",
		Description: "Naturally leavened",
		Price:       decimal.NewFromFloat(6.50),
		Quantity:    4,
		Category:    "bakery",
		SubCategory: "bread",
		Brand:       "Hearth",
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Name != "Sourdough Loaf" {
		t.Fatalf("unexpected name %q", fetched.Name)
	}

	fetched.Quantity = 9
	if _, err := repo.Save(ctx, fetched); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	deactivated, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected product to be inactive")
	}

	if err := repo.SetActive(ctx, uuid.New(), false); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found for unknown id, got %v", err)
	}
}

func TestRepositoryDecrementStock(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, func(p *models.Product) { p.Quantity = 5 })

	ok, err := repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatal("expected decrement to succeed")
	}

	// 2 remain; asking for 3 must leave the row untouched.
	ok, err = repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if ok {
		t.Fatal("expected guard to reject over-decrement")
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", reloaded.Quantity)
	}
}

func TestRepositoryListPagination(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		mustCreateTestProduct(t, conn, func(p *models.Product) {
			p.CreatedAt = ts
			p.UpdatedAt = ts
			if i == 0 {
				p.IsActive = false
			}
		})
	}

	page, err := repo.List(ctx, ListQuery{
		Pagination: pagination.Params{Limit: 2},
		Filters:    ListFilters{ActiveOnly: true},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Products) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Products))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor on a full page")
	}
	if !page.Products[0].CreatedAt.After(page.Products[1].CreatedAt) {
		t.Fatal("rows must be ordered newest first")
	}

	rest, err := repo.List(ctx, ListQuery{
		Pagination: pagination.Params{Limit: 10, Cursor: page.NextCursor},
		Filters:    ListFilters{ActiveOnly: true},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest.Products) != 2 {
		t.Fatalf("expected 2 remaining active rows, got %d", len(rest.Products))
	}
	if rest.NextCursor != "" {
		t.Fatalf("expected empty cursor on final page, got %q", rest.NextCursor)
	}
}

func TestRepositoryListSearch(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestProduct(t, conn, func(p *models.Product) { p.Name = "Cold Brew Coffee" })
	mustCreateTestProduct(t, conn, func(p *models.Product) { p.Name = "Green Tea" })

	page, err := repo.List(ctx, ListQuery{Filters: ListFilters{Query: "cold brew"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].Name != "Cold Brew Coffee" {
		t.Fatalf("search mismatch: %+v", page.Products)
	}
}
