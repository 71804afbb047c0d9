// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/okian/splitpool/internal/adapters/repository"
	"github.com/okian/splitpool/internal/domain/model"
)

// SettleDependencies settles ad-hoc snapshots.
type SettleDependencies interface {
	Settle(ctx context.Context, participants []model.Participant, lang string) (model.Summary, error)
}

// GroupDependencies manages stored groups. Every mutation returns the
// group's recomputed settlement.
type GroupDependencies interface {
	CreateGroup(ctx context.Context, name string) (model.Group, model.Summary, error)
	GetGroup(ctx context.Context, id, lang string) (model.Group, model.Summary, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, groupID, name string, paid float64) (model.Group, model.Participant, model.Summary, error)
	UpdateParticipant(ctx context.Context, groupID, participantID string, patch repository.ParticipantPatch) (model.Group, model.Summary, error)
	RemoveParticipant(ctx context.Context, groupID, participantID string) (model.Group, model.Summary, error)
	GroupSettlement(ctx context.Context, groupID, lang string) (model.Summary, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SettleDependencies
	GroupDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	settleHandler *SettleHandler
	groupsHandler *GroupsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		settleHandler: NewSettleHandler(deps),
		groupsHandler: NewGroupsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Post("/settle", MetricsMiddleware(s.settleHandler.HandleSettle, "settle"))

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", MetricsMiddleware(s.groupsHandler.HandleCreate, "groups"))
		r.Get("/", MetricsMiddleware(s.groupsHandler.HandleList, "groups"))
		r.Get("/{id}", MetricsMiddleware(s.groupsHandler.HandleGet, "group"))
		r.Delete("/{id}", MetricsMiddleware(s.groupsHandler.HandleDelete, "group"))
		r.Get("/{id}/settlement", MetricsMiddleware(s.groupsHandler.HandleSettlement, "settlement"))
		r.Post("/{id}/participants", MetricsMiddleware(s.groupsHandler.HandleAddParticipant, "participants"))
		r.Patch("/{id}/participants/{pid}", MetricsMiddleware(s.groupsHandler.HandleUpdateParticipant, "participant"))
		r.Delete("/{id}/participants/{pid}", MetricsMiddleware(s.groupsHandler.HandleRemoveParticipant, "participant"))
	})
}
