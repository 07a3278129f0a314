package handler

import (
	"log/slog"
	"net/http"

	"synnapse/internal/delivery/api/response"
	"synnapse/internal/domain/entity"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PersonHandlerParams holds dependencies for PersonHandler, injected by Fx.
type PersonHandlerParams struct {
	fx.In

	PersonUC usecase.PersonUsecase
	Logger   *slog.Logger
}

// PersonHandler holds dependencies for person-related handlers
type PersonHandler struct {
	personUC usecase.PersonUsecase
	logger   *slog.Logger
}

// NewPersonHandler is the constructor for PersonHandler
func NewPersonHandler(params PersonHandlerParams) *PersonHandler {
	return &PersonHandler{
		personUC: params.PersonUC,
		logger:   params.Logger,
	}
}

// PersonRequest is the body of create and update. Password is optional on update.
type PersonRequest struct {
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname"`
	Email    string  `json:"email" validate:"required,email"`
	Role     string  `json:"role" validate:"omitempty,oneof=Admin Teacher Student"`
	Password *string `json:"password"`
	GoogleID *string `json:"google_id"`
}

// PersonResponse is the public view of a person. The password hash is never exposed.
type PersonResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	GoogleID    *string `json:"google_id"`
	HasPassword bool    `json:"has_password"`
}

func toPersonResponse(p *entity.Person) PersonResponse {
	return PersonResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Surname:     p.Surname,
		Email:       p.Email,
		Role:        p.Role.String(),
		GoogleID:    p.FederatedID,
		HasPassword: p.HasPassword(),
	}
}

func (r *PersonRequest) toInput() *usecase.PersonInput {
	return &usecase.PersonInput{
		Name:        r.Name,
		Surname:     r.Surname,
		Email:       r.Email,
		Role:        entity.Role(r.Role),
		Password:    r.Password,
		FederatedID: r.GoogleID,
	}
}

// List handles GET /api/person
func (h *PersonHandler) List(c echo.Context) error {
	persons, err := h.personUC.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]PersonResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, toPersonResponse(p))
	}

	return response.Success(c, http.StatusOK, out)
}

// Get handles GET /api/person/:id
func (h *PersonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	person, err := h.personUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPersonResponse(person))
}

// GetByGoogleID handles GET /api/person/by-google-id/:google_id
func (h *PersonHandler) GetByGoogleID(c echo.Context) error {
	person, err := h.personUC.GetByFederatedID(c.Request().Context(), c.Param("google_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPersonResponse(person))
}

// Create handles POST /api/person
func (h *PersonHandler) Create(c echo.Context) error {
	var req PersonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	person, err := h.personUC.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toPersonResponse(person))
}

// Update handles PUT /api/person/:id
func (h *PersonHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req PersonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	person, err := h.personUC.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPersonResponse(person))
}

// Delete handles DELETE /api/person/:id
func (h *PersonHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.personUC.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
