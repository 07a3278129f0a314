package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"synnapse/internal/delivery/api/response"
	"synnapse/internal/domain/datefmt"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EntryHandlerParams holds dependencies for EntryHandler, injected by Fx.
type EntryHandlerParams struct {
	fx.In

	EntryUC usecase.EntryUsecase
	Logger  *slog.Logger
}

// EntryHandler holds dependencies for entry-related handlers
type EntryHandler struct {
	entryUC usecase.EntryUsecase
	logger  *slog.Logger
}

// NewEntryHandler is the constructor for EntryHandler
func NewEntryHandler(params EntryHandlerParams) *EntryHandler {
	return &EntryHandler{
		entryUC: params.EntryUC,
		logger:  params.Logger,
	}
}

// EntryRequest is the body of create and update. Instant accepts the lenient date
// formats and defaults to now when empty.
type EntryRequest struct {
	PersonID string `json:"person_id" validate:"required,uuid"`
	Instant  string `json:"instant"`
	Action   string `json:"action" validate:"required,oneof=Enter Exit"`
}

type EntryResponse struct {
	ID       string    `json:"id"`
	PersonID string    `json:"person_id"`
	Instant  time.Time `json:"instant"`
	Action   string    `json:"action"`
}

func toEntryResponse(e *entity.Entry) EntryResponse {
	return EntryResponse{
		ID:       e.ID.String(),
		PersonID: e.PersonID.String(),
		Instant:  e.Instant,
		Action:   string(e.Action),
	}
}

func (r *EntryRequest) toInput() (*usecase.EntryInput, error) {
	personID, err := uuid.Parse(r.PersonID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithMessage("person_id must be a valid UUID")
	}

	input := &usecase.EntryInput{PersonID: personID, Action: entity.EntryAction(r.Action)}
	if r.Instant != "" {
		instant, err := datefmt.Parse(r.Instant)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithMessage("Invalid date format")
		}
		input.Instant = instant
	}

	return input, nil
}

// list runs query and writes the matching entries.
func (h *EntryHandler) list(c echo.Context, query *usecase.EntryQuery) error {
	entries, err := h.entryUC.List(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}

	return response.Success(c, http.StatusOK, out)
}

// queryFromPath builds a listing filter from the :person_id, :date and :action path parameters present on the route.
func queryFromPath(c echo.Context) (*usecase.EntryQuery, error) {
	query := &usecase.EntryQuery{Action: c.Param("action")}

	if raw := c.Param("date"); raw != "" {
		// Dates such as 05/12/2023 arrive percent-encoded.
		date, err := url.PathUnescape(raw)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithMessage("Invalid date format")
		}
		query.Date = date
	}

	if c.Param("person_id") != "" {
		personID, err := pathID(c, "person_id")
		if err != nil {
			return nil, err
		}
		query.PersonID = &personID
	}

	return query, nil
}

// List handles GET /api/entries and every filtered variant under it.
func (h *EntryHandler) List(c echo.Context) error {
	query, err := queryFromPath(c)
	if err != nil {
		return err
	}

	return h.list(c, query)
}

// Get handles GET /api/entries/:id
func (h *EntryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.entryUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toEntryResponse(entry))
}

// Create handles POST /api/entries
func (h *EntryHandler) Create(c echo.Context) error {
	var req EntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	entry, err := h.entryUC.Create(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toEntryResponse(entry))
}

// Update handles PUT /api/entries/:id
func (h *EntryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req EntryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	entry, err := h.entryUC.Update(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toEntryResponse(entry))
}

// Delete handles DELETE /api/entries/:id
func (h *EntryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.entryUC.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
