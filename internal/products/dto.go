package products

import (
	"github.com/shopspring/decimal"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/pagination"
)

// CreateProductInput captures the payload for a new catalog listing.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	ImageURL    *string
	Category    string
	SubCategory string
	Brand       string
}

// ToModel maps the input onto a fresh Product row.
func (in CreateProductInput) ToModel() *models.Product {
	return &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		ImageURL:    copyStringPtr(in.ImageURL),
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Brand:       in.Brand,
		IsActive:    true,
	}
}

// UpdateProductInput carries optional field updates; nil fields are left alone.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
	ImageURL    *string
	Category    *string
	SubCategory *string
	Brand       *string
	IsActive    *bool
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category   *string
	Query      string
	ActiveOnly bool
}

// ListQuery bundles pagination and filters for a catalog page.
type ListQuery struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// ListResult is one page of catalog rows plus the cursor for the next page.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
