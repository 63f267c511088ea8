package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/internal/products"
	"github.com/mgolesberg/api-example/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockAccessor gives the order manager tx-scoped access to the catalog.
// Every call runs inside the caller's transaction so checkout stays atomic.
type StockAccessor interface {
	Lookup(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	Decrement(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (bool, error)
}

type catalogStock struct{}

// NewCatalogStock exposes the default catalog-backed stock accessor.
func NewCatalogStock() StockAccessor {
	return catalogStock{}
}

func (catalogStock) Lookup(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	return products.NewRepository(tx).FindByID(ctx, id)
}

func (catalogStock) Decrement(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	return products.NewRepository(tx).DecrementStock(ctx, id, qty)
}
