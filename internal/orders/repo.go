package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
)

// Repository wires together order and purchase persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindCartOrder loads the user's open cart order with its lines.
func (r *Repository) FindCartOrder(ctx context.Context, userID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Purchases").
		First(&order, "user_id = ? AND status = ?", userID, enums.OrderStatusCart).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountOrders reports how many orders the user has in any status.
func (r *Repository) CountOrders(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}

// CreateOrder inserts a fresh order row.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindLine loads the purchase row for one product inside an order.
func (r *Repository) FindLine(ctx context.Context, orderID int64, productID uuid.UUID) (*models.Purchase, error) {
	var line models.Purchase
	err := r.db.WithContext(ctx).
		First(&line, "order_id = ? AND product_id = ?", orderID, productID).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a purchase row.
func (r *Repository) CreateLine(ctx context.Context, line *models.Purchase) (*models.Purchase, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// SaveLine updates a purchase row.
func (r *Repository) SaveLine(ctx context.Context, line *models.Purchase) (*models.Purchase, error) {
	if err := r.db.WithContext(ctx).Save(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// ActiveLines returns the order's lines that still carry quantity.
func (r *Repository) ActiveLines(ctx context.Context, orderID int64) ([]models.Purchase, error) {
	var lines []models.Purchase
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND quantity > 0", orderID).
		Order("id ASC").
		Find(&lines).
		Error
	return lines, err
}

// UpdateOrderTotal persists the recomputed order total.
func (r *Repository) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).
		Error
}

// CompleteOrder flips a cart order to completed. The status guard makes the
// transition happen at most once; zero rows affected means the order is gone
// or already completed.
func (r *Repository) CompleteOrder(ctx context.Context, orderID int64, total decimal.Decimal, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusCart).
		Updates(map[string]any{
			"status":       enums.OrderStatusCompleted,
			"total_amount": total,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindOrder loads one order with its lines.
func (r *Repository) FindOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Purchases").
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the user's orders newest first with lines preloaded.
func (r *Repository) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Purchases").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}
