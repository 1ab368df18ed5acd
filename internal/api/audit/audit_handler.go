package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-user-admin/internal/api"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

type AuditHandler struct {
	service AuditService
	logger  *slog.Logger
}

func NewAuditHandler(service AuditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger,
	}
}

func parseLogQuery(r *http.Request) (types.LogQuery, error) {
	values := r.URL.Query()
	q := types.LogQuery{Model: values.Get("model")}

	if raw := values.Get("recordId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, types.InvalidInputf("recordId must be a valid id")
		}
		q.RecordID = &id
	}
	for name, dst := range map[string]*int{"limit": &q.Limit, "offset": &q.Offset} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, types.InvalidInputf("%s must be a non-negative integer", name)
		}
		*dst = n
	}
	return q, nil
}

// GetLogs godoc
// @Summary      List system logs
// @Description  Returns the most recent audit entries, newest first. Optional filters narrow by model and record.
// @Tags         System Logs
// @Produce      json
// @Param        model query string false "Record kind" example(Users)
// @Param        recordId query string false "Record ID"
// @Param        limit query int false "Maximum entries (capped at the configured log limit)"
// @Param        offset query int false "Entries to skip"
// @Success      200 {object} types.Response "Audit entries"
// @Failure      400 {object} types.Response "Invalid query"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /syslogs [get]
func (h *AuditHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q, err := parseLogQuery(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	entries, err := h.service.ListLogs(r.Context(), q)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteResult(w, r, http.StatusOK, entries)
}

// ClearLogs godoc
// @Summary      Clear system logs
// @Description  Irreversibly deletes every audit entry.
// @Tags         System Logs
// @Produce      json
// @Success      200 {object} types.Response "Logs cleared"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /syslogs [delete]
func (h *AuditHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ClearLogs(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "System logs cleared", slog.Int64("deleted", n))
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Logs cleared"})
}
