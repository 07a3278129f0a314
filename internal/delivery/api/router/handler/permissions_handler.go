package handler

import (
	"log/slog"
	"net/http"

	"synnapse/internal/delivery/api/response"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PermissionsHandlerParams holds dependencies for PermissionsHandler, injected by Fx.
type PermissionsHandlerParams struct {
	fx.In

	PermissionsUC usecase.PermissionsUsecase
	Logger        *slog.Logger
}

// PermissionsHandler holds dependencies for permissions-related handlers
type PermissionsHandler struct {
	permissionsUC usecase.PermissionsUsecase
	logger        *slog.Logger
}

// NewPermissionsHandler is the constructor for PermissionsHandler
func NewPermissionsHandler(params PermissionsHandlerParams) *PermissionsHandler {
	return &PermissionsHandler{
		permissionsUC: params.PermissionsUC,
		logger:        params.Logger,
	}
}

// PermissionsBody is both the request and the response shape of a permissions row.
type PermissionsBody struct {
	ID               string `json:"id,omitempty"`
	PersonID         string `json:"person_id" validate:"required,uuid"`
	Dashboard        bool   `json:"dashboard"`
	SeeSelfHistory   bool   `json:"see_self_history"`
	SeeOthersHistory bool   `json:"see_others_history"`
	AdminPanel       bool   `json:"admin_panel"`
	EditPermissions  bool   `json:"edit_permissions"`
}

func toPermissionsBody(p *entity.Permissions) PermissionsBody {
	return PermissionsBody{
		ID:               p.ID.String(),
		PersonID:         p.PersonID.String(),
		Dashboard:        p.Dashboard,
		SeeSelfHistory:   p.SeeSelfHistory,
		SeeOthersHistory: p.SeeOthersHistory,
		AdminPanel:       p.AdminPanel,
		EditPermissions:  p.EditPermissions,
	}
}

func (b *PermissionsBody) toEntity() (*entity.Permissions, error) {
	personID, err := uuid.Parse(b.PersonID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithMessage("person_id must be a valid UUID")
	}

	return &entity.Permissions{
		PersonID:         personID,
		Dashboard:        b.Dashboard,
		SeeSelfHistory:   b.SeeSelfHistory,
		SeeOthersHistory: b.SeeOthersHistory,
		AdminPanel:       b.AdminPanel,
		EditPermissions:  b.EditPermissions,
	}, nil
}

func permissionsList(list []*entity.Permissions) []PermissionsBody {
	out := make([]PermissionsBody, 0, len(list))
	for _, p := range list {
		out = append(out, toPermissionsBody(p))
	}

	return out
}

// List handles GET /api/permissions
func (h *PermissionsHandler) List(c echo.Context) error {
	list, err := h.permissionsUC.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, permissionsList(list))
}

// Get handles GET /api/permissions/:id
func (h *PermissionsHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.permissionsUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPermissionsBody(p))
}

// ListByPerson handles GET /api/permissions/by-person/:person_id
func (h *PermissionsHandler) ListByPerson(c echo.Context) error {
	personID, err := pathID(c, "person_id")
	if err != nil {
		return err
	}

	list, err := h.permissionsUC.ListByPerson(c.Request().Context(), personID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, permissionsList(list))
}

// Create handles POST /api/permissions
func (h *PermissionsHandler) Create(c echo.Context) error {
	var req PermissionsBody
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.toEntity()
	if err != nil {
		return err
	}

	if err := h.permissionsUC.Create(c.Request().Context(), p); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toPermissionsBody(p))
}

// Update handles PUT /api/permissions/:id
func (h *PermissionsHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req PermissionsBody
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.toEntity()
	if err != nil {
		return err
	}

	if err := h.permissionsUC.Update(c.Request().Context(), id, p); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toPermissionsBody(p))
}

// Delete handles DELETE /api/permissions/:id
func (h *PermissionsHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.permissionsUC.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
