package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/splitpool/internal/adapters/repository"
	"github.com/okian/splitpool/internal/domain/types"
)

// GroupsHandler handles the group workspace routes.
type GroupsHandler struct {
	deps GroupDependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupDependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// HandleCreate handles POST /groups.
func (h *GroupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_group"
	var req types.CreateGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	g, summary, err := h.deps.CreateGroup(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.FromGroup(g, summary))
}

// HandleList handles GET /groups.
func (h *GroupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_groups"
	groups, err := h.deps.ListGroups(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	out := make([]types.Group, len(groups))
	for i, g := range groups {
		out[i] = types.FromGroupHeader(g)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /groups/{id}.
func (h *GroupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_group"
	g, summary, err := h.deps.GetGroup(r.Context(), chi.URLParam(r, "id"), langOf(r, ""))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromGroup(g, summary))
}

// HandleDelete handles DELETE /groups/{id}.
func (h *GroupsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_group"
	if err := h.deps.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSettlement handles GET /groups/{id}/settlement.
func (h *GroupsHandler) HandleSettlement(w http.ResponseWriter, r *http.Request) {
	const op = "api.group_settlement"
	summary, err := h.deps.GroupSettlement(r.Context(), chi.URLParam(r, "id"), langOf(r, ""))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromSummary(summary))
}

// HandleAddParticipant handles POST /groups/{id}/participants.
func (h *GroupsHandler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_participant"
	var req types.AddParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	g, p, summary, err := h.deps.AddParticipant(r.Context(), chi.URLParam(r, "id"), req.Name, req.Paid)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.ParticipantAdded{
		Participant: types.FromParticipant(p),
		Group:       types.FromGroup(g, summary),
	})
}

// HandleUpdateParticipant handles PATCH /groups/{id}/participants/{pid}.
func (h *GroupsHandler) HandleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_participant"
	var req types.UpdateParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Name == nil && req.Paid == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("nothing to update")))
		return
	}

	patch := repository.ParticipantPatch{Name: req.Name, Paid: req.Paid}
	g, summary, err := h.deps.UpdateParticipant(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"), patch)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromGroup(g, summary))
}

// HandleRemoveParticipant handles DELETE /groups/{id}/participants/{pid}.
func (h *GroupsHandler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_participant"
	g, summary, err := h.deps.RemoveParticipant(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromGroup(g, summary))
}
