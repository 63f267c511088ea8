package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgolesberg/api-example/api/responses"
	"github.com/mgolesberg/api-example/api/validators"
	prefsvc "github.com/mgolesberg/api-example/internal/preferences"
	"github.com/mgolesberg/api-example/pkg/db/models"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
	"github.com/mgolesberg/api-example/pkg/logger"
)

type interestRequest struct {
	InterestName string  `json:"interest_name" validate:"required"`
	Category     *string `json:"category,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func (r interestRequest) toInput() prefsvc.InterestInput {
	return prefsvc.InterestInput{
		InterestName: r.InterestName,
		Category:     r.Category,
		Description:  r.Description,
	}
}

type interestResponse struct {
	ID           int64   `json:"id"`
	InterestName string  `json:"interest_name"`
	Category     *string `json:"category,omitempty"`
	Description  *string `json:"description,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func newInterestResponse(row *models.Interest) interestResponse {
	return interestResponse{
		ID:           row.ID,
		InterestName: row.InterestName,
		Category:     row.Category,
		Description:  row.Description,
		CreatedAt:    row.CreatedAt.Format(time.RFC3339),
	}
}

type dislikeRequest struct {
	DislikeName string  `json:"dislike_name" validate:"required"`
	Category    *string `json:"category,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r dislikeRequest) toInput() prefsvc.DislikeInput {
	return prefsvc.DislikeInput{
		DislikeName: r.DislikeName,
		Category:    r.Category,
		Severity:    r.Severity,
		Description: r.Description,
	}
}

type dislikeResponse struct {
	ID          int64   `json:"id"`
	DislikeName string  `json:"dislike_name"`
	Category    *string `json:"category,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func newDislikeResponse(row *models.Dislike) dislikeResponse {
	return dislikeResponse{
		ID:          row.ID,
		DislikeName: row.DislikeName,
		Category:    row.Category,
		Severity:    row.Severity,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Format(time.RFC3339),
	}
}

func preferenceIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "prefID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid preference id").
			WithDetails(map[string]any{"id": raw})
	}
	return id, nil
}

func InterestsList(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListInterests(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]interestResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newInterestResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func InterestCreate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload interestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateInterest(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newInterestResponse(created))
	}
}

func InterestUpdate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := preferenceIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload interestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateInterest(r.Context(), userID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newInterestResponse(updated))
	}
}

func InterestDelete(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := preferenceIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteInterest(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func DislikesList(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListDislikes(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]dislikeResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newDislikeResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func DislikeCreate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload dislikeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateDislike(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDislikeResponse(created))
	}
}

func DislikeUpdate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := preferenceIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload dislikeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateDislike(r.Context(), userID, id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDislikeResponse(updated))
	}
}

func DislikeDelete(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := preferenceIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteDislike(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
