package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mgolesberg/api-example/api/responses"
	"github.com/mgolesberg/api-example/api/validators"
	ordersvc "github.com/mgolesberg/api-example/internal/orders"
	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/logger"
)

type cartItemRequest struct {
	UserID    int64     `json:"user_id" validate:"required,gt=0"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

func (r cartItemRequest) toInput() ordersvc.CartItemInput {
	return ordersvc.CartItemInput{
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}
}

type purchaseResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	TotalAmount string    `json:"total_amount"`
}

type orderResponse struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	Status      string             `json:"status"`
	TotalAmount string             `json:"total_amount"`
	Items       []purchaseResponse `json:"items"`
	CompletedAt *string            `json:"completed_at,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]purchaseResponse, 0, len(order.Purchases))
	for _, line := range order.Purchases {
		if line.Quantity == 0 {
			continue
		}
		items = append(items, purchaseResponse{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			TotalAmount: line.TotalAmount.StringFixed(2),
		})
	}
	out := orderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       items,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	}
	if order.CompletedAt != nil {
		ts := order.CompletedAt.Format(time.RFC3339)
		out.CompletedAt = &ts
	}
	return out
}

func CartAddItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.AddItem(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

func CartUpdateItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateQuantity(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func CartRemoveItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.RemoveItem(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order == nil {
			// no cart to remove from, removal is still a success
			responses.WriteSuccess(w, map[string]string{"status": "removed"})
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
