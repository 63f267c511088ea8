package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgolesberg/api-example/pkg/enums"
)

// Order is a bundle of purchases for one user. At most one order per user
// holds status=cart at a time; checkout flips it to completed exactly once.
type Order struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64             `gorm:"column:user_id;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'cart'"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	Purchases   []Purchase        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
