package crud

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-admin/internal/api"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// HandlerImpl dispatches /records/{model} requests through the registry.
type HandlerImpl struct {
	registry *Registry
	logger   *slog.Logger
}

func NewHandler(registry *Registry, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		registry: registry,
		logger:   logger,
	}
}

func (h *HandlerImpl) resolve(w http.ResponseWriter, r *http.Request) (Handle, bool) {
	handle, err := h.registry.Resolve(chi.URLParam(r, "model"))
	if err != nil {
		api.WriteError(w, r, err)
		return nil, false
	}
	return handle, true
}

func (h *HandlerImpl) decode(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	var payload json.RawMessage
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		api.WriteError(w, r, types.NewError(types.KindInvalidInput, err.Error(), nil))
		return nil, false
	}
	return payload, true
}

// List godoc
// @Summary      List records
// @Description  Returns every active record of the given kind.
// @Tags         Records
// @Produce      json
// @Param        model path string true "Record kind" example(Users)
// @Success      200 {object} types.Response "Active records"
// @Failure      400 {object} types.Response "Unknown model"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      503 {object} types.Response "Storage unavailable"
// @Security     BearerAuth
// @Router       /records/{model} [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CrudHandler").Start(r.Context(), "List", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/records/{model}"),
	))
	defer span.End()
	r = r.WithContext(ctx)

	handle, ok := h.resolve(w, r)
	if !ok {
		return
	}
	result, err := handle.List(ctx)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteResult(w, r, http.StatusOK, result)
}

// Get godoc
// @Summary      Get record
// @Description  Returns one active record by id.
// @Tags         Records
// @Produce      json
// @Param        model path string true "Record kind" example(Users)
// @Param        id path string true "Record ID"
// @Success      200 {object} types.Response "Record"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Not found"
// @Security     BearerAuth
// @Router       /records/{model}/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CrudHandler").Start(r.Context(), "Get", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/records/{model}/{id}"),
	))
	defer span.End()
	r = r.WithContext(ctx)

	handle, ok := h.resolve(w, r)
	if !ok {
		return
	}
	result, err := handle.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteResult(w, r, http.StatusOK, result)
}

// Create godoc
// @Summary      Create record
// @Description  Validates and stores a new record, then writes a CREATE audit entry.
// @Tags         Records
// @Accept       json
// @Produce      json
// @Param        model path string true "Record kind" example(Users)
// @Param        record body types.UserInput true "Record fields"
// @Success      201 {object} types.Response "Created record"
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      409 {object} types.Response "Email already exists"
// @Security     BearerAuth
// @Router       /records/{model} [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CrudHandler").Start(r.Context(), "Create", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/records/{model}"),
	))
	defer span.End()
	r = r.WithContext(ctx)

	handle, ok := h.resolve(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := handle.Create(ctx, payload)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteResult(w, r, http.StatusCreated, result)
}

// Update godoc
// @Summary      Replace record
// @Description  Replaces every editable field of an active record, then writes an UPDATE audit entry.
// @Tags         Records
// @Accept       json
// @Produce      json
// @Param        model path string true "Record kind" example(Users)
// @Param        id path string true "Record ID"
// @Param        record body types.UserInput true "Record fields"
// @Success      200 {object} types.Response "Updated record"
// @Failure      400 {object} types.Response "Invalid input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Not found"
// @Failure      409 {object} types.Response "Email already exists"
// @Security     BearerAuth
// @Router       /records/{model}/{id} [put]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CrudHandler").Start(r.Context(), "Update", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/records/{model}/{id}"),
	))
	defer span.End()
	r = r.WithContext(ctx)

	handle, ok := h.resolve(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	result, err := handle.Update(ctx, chi.URLParam(r, "id"), payload)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteResult(w, r, http.StatusOK, result)
}

// Remove godoc
// @Summary      Soft-delete record
// @Description  Marks an active record deleted, then writes a DELETE audit entry. Deleting twice is 404.
// @Tags         Records
// @Produce      json
// @Param        model path string true "Record kind" example(Users)
// @Param        id path string true "Record ID"
// @Success      200 {object} api.RemoveResponse "Deleted"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      404 {object} types.Response "Not found"
// @Security     BearerAuth
// @Router       /records/{model}/{id} [delete]
func (h *HandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CrudHandler").Start(r.Context(), "Remove", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/records/{model}/{id}"),
	))
	defer span.End()
	r = r.WithContext(ctx)

	handle, ok := h.resolve(w, r)
	if !ok {
		return
	}
	id, err := handle.Remove(ctx, chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.RemoveResponse{Success: true, ID: id.String()})
}
