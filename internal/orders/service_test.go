package orders

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
	"github.com/mgolesberg/api-example/pkg/enums"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	tables := []any{&models.User{}, &models.Product{}, &models.Order{}, &models.Purchase{}}
	if err := conn.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), testTxRunner{db: conn}, NewCatalogStock())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:     "Cart",
		LastName:      "Tester",
		BirthDate:     time.Date(1992, 3, 9, 0, 0, 0, 0, time.UTC),
		Email:         fmt.Sprintf("cart_%s@example.com", uuid.NewString()[:8]),
		Condition:     enums.UserConditionActive,
		Street1:       "1 Test Way",
		City:          "Tulsa",
		StateProvince: "OK",
		Zip:           "74104",
		Country:       "US",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Item %s", uuid.NewString()[:8]),
		Description: "test item",
		Price:       decimal.NewFromFloat(price),
		Quantity:    stock,
		Category:    "pantry",
		SubCategory: "misc",
		Brand:       "house",
		IsActive:    true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func stockOf(t *testing.T, conn *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	if err := conn.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.Quantity
}

func TestAddItemCreatesCartAndLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	product := mustCreateTestProduct(t, conn, 2.50, 10)

	order, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if order.Status != enums.OrderStatusCart {
		t.Fatalf("expected cart status, got %s", order.Status)
	}
	if len(order.Purchases) != 1 {
		t.Fatalf("expected one line, got %d", len(order.Purchases))
	}
	line := order.Purchases[0]
	if line.Quantity != 3 || !line.UnitPrice.Equal(decimal.NewFromFloat(2.50)) {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(7.50)) {
		t.Fatalf("expected total 7.50, got %s", order.TotalAmount)
	}

	// Adding does not touch stock.
	if got := stockOf(t, conn, product.ID); got != 10 {
		t.Fatalf("stock must be untouched by add, got %d", got)
	}

	var orderCount int64
	conn.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)
	if orderCount != 1 {
		t.Fatalf("expected exactly one order, got %d", orderCount)
	}
}

func TestAddItemAccumulatesAndKeepsPriceSnapshot(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	product := mustCreateTestProduct(t, conn, 4.00, 10)

	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	// Price change between adds must not move the snapshot.
	if err := conn.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromFloat(9.99)).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}

	order, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(order.Purchases) != 1 {
		t.Fatalf("duplicate add must reuse the line, got %d lines", len(order.Purchases))
	}
	line := order.Purchases[0]
	if line.Quantity != 5 {
		t.Fatalf("expected accumulated quantity 5, got %d", line.Quantity)
	}
	if !line.UnitPrice.Equal(decimal.NewFromFloat(4.00)) {
		t.Fatalf("unit price snapshot moved: %s", line.UnitPrice)
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(20.00)) {
		t.Fatalf("expected total 20.00, got %s", order.TotalAmount)
	}
}

func TestAddItemRejectsInactiveProductAndBadQuantity(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	product := mustCreateTestProduct(t, conn, 1.00, 5)
	conn.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false)

	_, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}

	_, err = svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 0})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityZeroMatchesRemove(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	keep := mustCreateTestProduct(t, conn, 3.00, 10)
	drop := mustCreateTestProduct(t, conn, 5.00, 10)

	for _, p := range []*models.Product{keep, drop} {
		if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: p.ID, Quantity: 2}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	order, err := svc.UpdateQuantity(ctx, CartItemInput{UserID: user.ID, ProductID: drop.ID, Quantity: 0})
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	// The row survives at quantity 0 and drops out of the total.
	if len(order.Purchases) != 2 {
		t.Fatalf("zeroed line must be kept, got %d lines", len(order.Purchases))
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(6.00)) {
		t.Fatalf("expected total 6.00, got %s", order.TotalAmount)
	}
	for _, line := range order.Purchases {
		if line.ProductID == drop.ID && line.Quantity != 0 {
			t.Fatalf("expected zeroed quantity, got %d", line.Quantity)
		}
	}

	// Updating the zeroed line again is a 404; it only returns via AddItem.
	_, err = svc.UpdateQuantity(ctx, CartItemInput{UserID: user.ID, ProductID: drop.ID, Quantity: 4})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on zeroed line, got %v", err)
	}
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	product := mustCreateTestProduct(t, conn, 3.00, 10)

	// No cart at all.
	if _, err := svc.RemoveItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID}); err != nil {
		t.Fatalf("remove without cart must succeed: %v", err)
	}

	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Cart exists, product not in it.
	other := mustCreateTestProduct(t, conn, 1.00, 1)
	order, err := svc.RemoveItem(ctx, CartItemInput{UserID: user.ID, ProductID: other.ID})
	if err != nil {
		t.Fatalf("remove absent line must succeed: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(3.00)) {
		t.Fatalf("cart must be unchanged, total %s", order.TotalAmount)
	}
}

func TestCheckoutCompletesOrderAndDecrementsStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	a := mustCreateTestProduct(t, conn, 2.00, 5)
	b := mustCreateTestProduct(t, conn, 10.00, 4)

	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: a.ID, Quantity: 3}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: b.ID, Quantity: 1}); err != nil {
		t.Fatalf("add b: %v", err)
	}

	order, err := svc.Checkout(ctx, user.ID)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", order.Status)
	}
	if order.CompletedAt == nil {
		t.Fatal("completed_at must be stamped")
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(16.00)) {
		t.Fatalf("expected total 16.00, got %s", order.TotalAmount)
	}
	if got := stockOf(t, conn, a.ID); got != 2 {
		t.Fatalf("expected stock 2 for a, got %d", got)
	}
	if got := stockOf(t, conn, b.ID); got != 3 {
		t.Fatalf("expected stock 3 for b, got %d", got)
	}

	// Second checkout against the completed history.
	_, err = svc.Checkout(ctx, user.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on second checkout, got %v", err)
	}
	if got := stockOf(t, conn, a.ID); got != 2 {
		t.Fatalf("failed checkout must not touch stock, got %d", got)
	}
}

func TestCheckoutInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	a := mustCreateTestProduct(t, conn, 2.00, 5)
	b := mustCreateTestProduct(t, conn, 3.00, 1)

	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: a.ID, Quantity: 3}); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: b.ID, Quantity: 2}); err != nil {
		t.Fatalf("add b: %v", err)
	}

	_, err := svc.Checkout(ctx, user.ID)
	got := pkgerrors.As(err)
	if got == nil || got.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// The whole transaction rolled back: cart still open, stock intact,
	// a's provisional decrement undone.
	if stock := stockOf(t, conn, a.ID); stock != 5 {
		t.Fatalf("expected stock 5 for a, got %d", stock)
	}
	if stock := stockOf(t, conn, b.ID); stock != 1 {
		t.Fatalf("expected stock 1 for b, got %d", stock)
	}

	var order models.Order
	if err := conn.First(&order, "user_id = ? AND status = ?", user.ID, enums.OrderStatusCart).Error; err != nil {
		t.Fatalf("cart order must survive failed checkout: %v", err)
	}

	// Freeing the shortfall lets the same cart complete.
	if _, err := svc.UpdateQuantity(ctx, CartItemInput{UserID: user.ID, ProductID: b.ID, Quantity: 1}); err != nil {
		t.Fatalf("update b: %v", err)
	}
	completed, err := svc.Checkout(ctx, user.ID)
	if err != nil {
		t.Fatalf("retry checkout: %v", err)
	}
	if completed.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)

	// No orders at all.
	_, err := svc.Checkout(ctx, user.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart, got %v", err)
	}

	// A cart whose only line was zeroed counts as empty too.
	product := mustCreateTestProduct(t, conn, 2.00, 5)
	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.RemoveItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, err = svc.Checkout(ctx, user.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart for zeroed lines, got %v", err)
	}
}

func TestListOrders(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := mustCreateTestUser(t, conn)
	product := mustCreateTestProduct(t, conn, 2.00, 50)

	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Checkout(ctx, user.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := svc.AddItem(ctx, CartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add after checkout: %v", err)
	}

	rows, err := svc.ListOrders(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row.Purchases) == 0 {
			t.Fatalf("orders must ship with their lines: %+v", row)
		}
	}

	// A fresh user sees an empty history, not an error.
	other := mustCreateTestUser(t, conn)
	empty, err := svc.ListOrders(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListOrders empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no orders, got %d", len(empty))
	}
}
