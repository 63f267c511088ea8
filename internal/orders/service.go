package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db"
	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/enums"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
)

// Service is the cart/order manager. A user has at most one cart order;
// checkout moves it to completed in a single transaction.
type Service interface {
	AddItem(ctx context.Context, input CartItemInput) (*models.Order, error)
	UpdateQuantity(ctx context.Context, input CartItemInput) (*models.Order, error)
	RemoveItem(ctx context.Context, input CartItemInput) (*models.Order, error)
	Checkout(ctx context.Context, userID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]models.Order, error)
}

type service struct {
	repo  *Repository
	tx    txRunner
	stock StockAccessor
	now   func() time.Time
}

// NewService builds the order manager with the required dependencies.
func NewService(repo *Repository, tx txRunner, stock StockAccessor) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock accessor required")
	}
	return &service{
		repo:  repo,
		tx:    tx,
		stock: stock,
		now:   time.Now,
	}, nil
}

// AddItem puts qty units of a product into the user's cart, creating the
// cart order on first use. Adding a product already in the cart accumulates
// quantity on the existing line; the unit price snapshot from the first add
// is kept. Stock is not checked here, only at checkout.
func (s *service) AddItem(ctx context.Context, input CartItemInput) (*models.Order, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": input.Quantity})
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.stock.Lookup(ctx, tx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return productNotFound(input)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return productNotFound(input)
		}

		order, err := s.findOrCreateCart(ctx, repo, input.UserID)
		if err != nil {
			return err
		}

		line, err := repo.FindLine(ctx, order.ID, input.ProductID)
		switch {
		case err == nil:
			line.Quantity += input.Quantity
			line.TotalAmount = lineTotal(line.UnitPrice, line.Quantity)
			if _, err := repo.SaveLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = &models.Purchase{
				OrderID:     order.ID,
				UserID:      input.UserID,
				ProductID:   input.ProductID,
				Quantity:    input.Quantity,
				UnitPrice:   product.Price,
				TotalAmount: lineTotal(product.Price, input.Quantity),
			}
			if _, err := repo.CreateLine(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}

		result, err = s.refreshTotals(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity sets the absolute quantity of an existing cart line.
// Quantity 0 zeroes the line but keeps the row for history.
func (s *service) UpdateQuantity(ctx context.Context, input CartItemInput) (*models.Order, error) {
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative").
			WithDetails(map[string]any{"quantity": input.Quantity})
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindCartOrder(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cartLineNotFound(input)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		line, err := repo.FindLine(ctx, order.ID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cartLineNotFound(input)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}
		if line.Quantity == 0 {
			// A zeroed line was removed; it only comes back through AddItem.
			return cartLineNotFound(input)
		}

		line.Quantity = input.Quantity
		line.TotalAmount = lineTotal(line.UnitPrice, line.Quantity)
		if _, err := repo.SaveLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
		}

		result, err = s.refreshTotals(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem zeroes the product's cart line. Removing a product that is not
// in the cart is a no-op success.
func (s *service) RemoveItem(ctx context.Context, input CartItemInput) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindCartOrder(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		result = order

		line, err := repo.FindLine(ctx, order.ID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}
		if line.Quantity == 0 {
			return nil
		}

		line.Quantity = 0
		line.TotalAmount = decimal.Zero
		if _, err := repo.SaveLine(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "zero cart line")
		}

		result, err = s.refreshTotals(ctx, repo, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Checkout completes the user's cart order in one transaction: every active
// line's stock is validated, stock is decremented, and the order flips to
// completed with completed_at stamped. Any shortfall aborts the whole
// transaction with every offender reported, leaving cart and stock untouched.
func (s *service) Checkout(ctx context.Context, userID int64) (*models.Order, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindCartOrder(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.noCartError(ctx, repo, userID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		lines, err := repo.ActiveLines(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items").
				WithDetails(map[string]any{"user_id": userID})
		}

		if err := s.decrementAll(ctx, tx, lines); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.TotalAmount)
		}

		completed, err := repo.CompleteOrder(ctx, order.ID, total, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete order")
		}
		if !completed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open for checkout").
				WithDetails(map[string]any{"order_id": order.ID})
		}

		result, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListOrders returns the user's full order history, carts included.
func (s *service) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// decrementAll applies the guarded stock decrement for every line. Failures
// are collected rather than short-circuited so the caller sees every
// offender at once.
func (s *service) decrementAll(ctx context.Context, tx *gorm.DB, lines []models.Purchase) error {
	var failures error
	var shortfalls []StockShortfall

	for _, line := range lines {
		ok, err := s.stock.Decrement(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if ok {
			continue
		}

		available := 0
		if product, lookupErr := s.stock.Lookup(ctx, tx, line.ProductID); lookupErr == nil {
			available = product.Quantity
		}
		shortfalls = append(shortfalls, StockShortfall{
			ProductID: line.ProductID,
			Requested: line.Quantity,
			Available: available,
		})
		failures = multierr.Append(failures, fmt.Errorf(
			"product %s: requested %d, available %d", line.ProductID, line.Quantity, available))
	}

	if failures != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInsufficientStock, failures, "insufficient stock").
			WithDetails(map[string]any{"shortfalls": shortfalls})
	}
	return nil
}

func (s *service) findOrCreateCart(ctx context.Context, repo *Repository, userID int64) (*models.Order, error) {
	order, err := repo.FindCartOrder(ctx, userID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := repo.CreateOrder(ctx, &models.Order{
		UserID:      userID,
		Status:      enums.OrderStatusCart,
		TotalAmount: decimal.Zero,
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"user_id": userID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart order")
	}
	return created, nil
}

// noCartError distinguishes a user who already checked out from one who
// never put anything in a cart.
func (s *service) noCartError(ctx context.Context, repo *Repository, userID int64) error {
	count, err := repo.CountOrders(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "latest order is already completed").
			WithDetails(map[string]any{"user_id": userID})
	}
	return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items").
		WithDetails(map[string]any{"user_id": userID})
}

func (s *service) refreshTotals(ctx context.Context, repo *Repository, orderID int64) (*models.Order, error) {
	lines, err := repo.ActiveLines(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalAmount)
	}
	if err := repo.UpdateOrderTotal(ctx, orderID, total); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
	}
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return order, nil
}

func lineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

func productNotFound(input CartItemInput) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]any{"product_id": input.ProductID.String()})
}

func cartLineNotFound(input CartItemInput) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
		WithDetails(map[string]any{"user_id": input.UserID, "product_id": input.ProductID.String()})
}
