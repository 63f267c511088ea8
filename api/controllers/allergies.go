package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgolesberg/api-example/api/responses"
	"github.com/mgolesberg/api-example/api/validators"
	prefsvc "github.com/mgolesberg/api-example/internal/preferences"
	"github.com/mgolesberg/api-example/pkg/db/models"
	"github.com/mgolesberg/api-example/pkg/logger"
)

type allergyRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

type updateAllergyRequest struct {
	Description *string `json:"description,omitempty"`
}

type allergyResponse struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func newAllergyResponse(a *models.Allergy) allergyResponse {
	return allergyResponse{Name: a.Name, Description: a.Description}
}

func AllergiesList(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListAllergies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]allergyResponse, 0, len(rows))
		for i := range rows {
			out = append(out, newAllergyResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func AllergyCreate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload allergyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.CreateAllergy(r.Context(), prefsvc.AllergyInput{
			Name:        payload.Name,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newAllergyResponse(created))
	}
}

func AllergyUpdate(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateAllergyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateAllergy(r.Context(), chi.URLParam(r, "name"), payload.Description)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAllergyResponse(updated))
	}
}

func AllergyDelete(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteAllergy(r.Context(), chi.URLParam(r, "name")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type userAllergyRequest struct {
	AllergyName string  `json:"allergy_name" validate:"required"`
	Notes       *string `json:"notes,omitempty"`
}

func UserAllergiesList(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListUserAllergies(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func UserAllergyAdd(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload userAllergyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddUserAllergy(r.Context(), userID, prefsvc.UserAllergyInput{
			AllergyName: payload.AllergyName,
			Notes:       payload.Notes,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "linked"})
	}
}

func UserAllergyRemove(svc prefsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveUserAllergy(r.Context(), userID, chi.URLParam(r, "name")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unlinked"})
	}
}
