// Package api exposes allocation plans over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-staker/internal/datasource"
	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/report"
	"github.com/yourusername/value-staker/internal/service"
	"github.com/yourusername/value-staker/internal/staking"
)

const maxRequestBytes = 1 << 20

// Planner is the part of the plan service the handlers depend on
type Planner interface {
	Matches(ctx context.Context, country string) (*service.MatchesResponse, error)
	AllocateCandidates(ctx context.Context, candidates []models.Candidate, params staking.Params) (*models.AllocationPlan, error)
	ResolveParams(o service.ParamOverrides, source string) staking.Params
	LatestPlans(ctx context.Context, limit int) ([]*models.AllocationPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.AllocationPlan, error)
}

// AllocateRequest is the body of POST /api/allocate
type AllocateRequest struct {
	Candidates []models.Candidate `json:"candidates"`
	service.ParamOverrides
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	planner Planner
	logger  *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(planner Planner, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{planner: planner, logger: logger}
}

// GetMatches returns merged match rows and the plan built from them
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		country = "all"
	}

	resp, err := h.planner.Matches(r.Context(), country)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp.Plan = report.RoundPlan(resp.Plan)
	resp.Predictions = resp.Plan.Bets
	respondJSON(w, http.StatusOK, resp)
}

// PostAllocate sizes the candidates in the request body
func (h *Handler) PostAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	for i, c := range req.Candidates {
		if !c.Outcome.IsValid() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("candidate %d: unknown outcome %q", i, c.Outcome))
			return
		}
	}

	params := h.planner.ResolveParams(req.ParamOverrides, "api")
	plan, err := h.planner.AllocateCandidates(r.Context(), req.Candidates, params)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report.RoundPlan(plan))
}

// GetLatestPlans returns the most recently persisted plans
func (h *Handler) GetLatestPlans(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	plans, err := h.planner.LatestPlans(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	rounded := make([]*models.AllocationPlan, len(plans))
	for i, plan := range plans {
		rounded[i] = report.RoundPlan(plan)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"plans": rounded})
}

// GetPlan returns one persisted plan
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid plan id")
		return
	}

	plan, err := h.planner.GetPlan(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report.RoundPlan(plan))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	var feedErr *datasource.FeedError
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoFeed), errors.Is(err, models.ErrNoRepository):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &feedErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response. Values that cannot be encoded
// produce a 500 instead of a truncated body.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: fmt.Sprintf("failed to encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
