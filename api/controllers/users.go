package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgolesberg/api-example/api/responses"
	"github.com/mgolesberg/api-example/api/validators"
	userssvc "github.com/mgolesberg/api-example/internal/users"
	"github.com/mgolesberg/api-example/pkg/db/models"
	pkgerrors "github.com/mgolesberg/api-example/pkg/errors"
	"github.com/mgolesberg/api-example/pkg/logger"
)

const birthDateLayout = "2006-01-02"

type createUserRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	BirthDate     string  `json:"birth_date" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Street1       string  `json:"street1" validate:"required"`
	Street2       *string `json:"street2,omitempty"`
	City          string  `json:"city" validate:"required"`
	StateProvince string  `json:"state_province" validate:"required"`
	Zip           string  `json:"zip" validate:"required"`
	Country       string  `json:"country" validate:"required"`
}

func (r createUserRequest) toInput() (userssvc.CreateUserInput, error) {
	birth, err := time.Parse(birthDateLayout, r.BirthDate)
	if err != nil {
		return userssvc.CreateUserInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "birth_date must be YYYY-MM-DD")
	}
	return userssvc.CreateUserInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		BirthDate:     birth,
		Email:         r.Email,
		PhoneNumber:   r.PhoneNumber,
		Street1:       r.Street1,
		Street2:       r.Street2,
		City:          r.City,
		StateProvince: r.StateProvince,
		Zip:           r.Zip,
		Country:       r.Country,
	}, nil
}

type updateUserRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Street1       *string `json:"street1,omitempty"`
	Street2       *string `json:"street2,omitempty"`
	City          *string `json:"city,omitempty"`
	StateProvince *string `json:"state_province,omitempty"`
	Zip           *string `json:"zip,omitempty"`
	Country       *string `json:"country,omitempty"`
}

type userResponse struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	BirthDate     string  `json:"birth_date"`
	Email         string  `json:"email"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Condition     string  `json:"condition"`
	Street1       string  `json:"street1"`
	Street2       *string `json:"street2,omitempty"`
	City          string  `json:"city"`
	StateProvince string  `json:"state_province"`
	Zip           string  `json:"zip"`
	Country       string  `json:"country"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		BirthDate:     u.BirthDate.Format(birthDateLayout),
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		Condition:     u.Condition.String(),
		Street1:       u.Street1,
		Street2:       u.Street2,
		City:          u.City,
		StateProvince: u.StateProvince,
		Zip:           u.Zip,
		Country:       u.Country,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// UserCreate registers a user, reviving a deactivated account when the
// email matches.
func UserCreate(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newUserResponse(user))
	}
}

// UserGet resolves the path segment as a numeric id first and falls back to
// treating it as an email.
func UserGet(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "userID")

		var (
			user *models.User
			err  error
		)
		if id, parseErr := strconv.ParseInt(key, 10, 64); parseErr == nil {
			user, err = svc.GetByID(r.Context(), id)
		} else {
			user, err = svc.GetByEmail(r.Context(), key)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserResponse(user))
	}
}

func UsersList(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]userResponse, 0, len(users))
		for i := range users {
			out = append(out, newUserResponse(&users[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

func UserUpdate(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), id, userssvc.UpdateUserInput{
			FirstName:     payload.FirstName,
			LastName:      payload.LastName,
			PhoneNumber:   payload.PhoneNumber,
			Street1:       payload.Street1,
			Street2:       payload.Street2,
			City:          payload.City,
			StateProvince: payload.StateProvince,
			Zip:           payload.Zip,
			Country:       payload.Country,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserResponse(user))
	}
}

func UserDeactivate(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserResponse(user))
	}
}

func UserMarkForDeletion(svc userssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.MarkForDeletion(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserResponse(user))
	}
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id").
			WithDetails(map[string]any{"user_id": raw})
	}
	return id, nil
}
