package api

import (
	"net/http"

	"github.com/okian/splitpool/internal/domain/types"
)

// SettleHandler handles stateless settlement requests.
type SettleHandler struct {
	deps SettleDependencies
}

// NewSettleHandler creates a new settle handler.
func NewSettleHandler(deps SettleDependencies) *SettleHandler {
	return &SettleHandler{deps: deps}
}

// HandleSettle handles POST /settle requests.
func (h *SettleHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	const op = "api.settle"
	var req types.SettleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	summary, err := h.deps.Settle(r.Context(), types.ToModel(req.Participants), langOf(r, req.Lang))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromSummary(summary))
}
