package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/engine"
	"github.com/openclaims/kestrel/internal/geo"
	"github.com/openclaims/kestrel/internal/policy"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	bus      domain.EventBus
	engine   *engine.Engine
	policies *policy.Engine
	geo      *geo.Calculator
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, eng *engine.Engine, policies *policy.Engine, calc *geo.Calculator, version string) *Handler {
	return &Handler{
		repo:     repo,
		cache:    cache,
		bus:      bus,
		engine:   eng,
		policies: policies,
		geo:      calc,
		version:  version,
	}
}

func validDisruptionType(t string) bool {
	switch t {
	case "", domain.DisruptionDelay, domain.DisruptionCancellation,
		domain.DisruptionDeniedBoarding, domain.DisruptionDowngrading:
		return true
	}
	return false
}

// Check handles POST /check requests: the synchronous eligibility check.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	traceID := GetTraceID(ctx)

	// Parse request
	var req domain.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	// Validate required fields
	if req.FlightNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "flightNumber is required",
		})
		return
	}
	if req.DepartureAirport == "" || req.ArrivalAirport == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "departureAirport and arrivalAirport are required",
		})
		return
	}
	if !validDisruptionType(req.DisruptionType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "disruptionType must be one of delay, cancellation, denied_boarding, downgrading",
		})
		return
	}

	rec := req.ToDisruption()
	rec.ID = uuid.New().String()
	rec.TenantID = tenantID

	// Save disruption if repository is available
	if h.repo != nil {
		if err := h.repo.SaveDisruption(ctx, tenantID, rec); err != nil {
			slog.Error("failed to save disruption", "error", err)
			// Continue even if save fails, the verdict matters more.
		}
	}

	// 1. Statutory verdict
	out := h.engine.Evaluate(ctx, rec)

	// 2. Operator override policies
	var policyResults []domain.PolicyResult
	if h.policies != nil && h.policies.PoliciesCount() > 0 {
		results, err := h.policies.EvaluateAll(ctx, &policy.EvaluateInput{
			TenantID:   tenantID,
			Record:     rec,
			Result:     &out.Result,
			DistanceKm: out.DistanceKm,
		})
		if err != nil {
			slog.Error("policy evaluation failed", "error", err)
		} else {
			policyResults = results
		}
	}

	eval := &domain.Evaluation{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		DisruptionID:   rec.ID,
		FlightNumber:   rec.FlightNumber,
		Result:         out.Result,
		PolicyResults:  policyResults,
		ReviewRequired: policy.ReviewRequired(policyResults),
		Metadata: domain.EvaluationMetadata{
			TraceID:          traceID,
			DistanceKm:       out.DistanceKm,
			DistanceTier:     out.DistanceTier,
			ClassifierSource: out.ClassifierSource,
			EngineVersion:    engine.EngineVersion,
			TotalMs:          time.Since(start).Milliseconds(),
		},
		Timestamp: time.Now().UTC(),
	}

	// 3. Save evaluation
	if h.repo != nil {
		if err := h.repo.SaveEvaluation(ctx, tenantID, eval); err != nil {
			slog.Error("failed to save evaluation", "error", err)
		}
	}

	// 4. Publish verdict events
	if h.bus != nil {
		payload, _ := json.Marshal(eval)
		if err := h.bus.Publish(ctx, tenantID, domain.TopicClaimEvaluated, payload); err != nil {
			slog.Error("failed to publish evaluation", "error", err)
		}
		if eval.Result.Eligible {
			_ = h.bus.Publish(ctx, tenantID, domain.TopicClaimEligible, payload)
		}
		if eval.ReviewRequired {
			_ = h.bus.Publish(ctx, tenantID, domain.TopicClaimReview, payload)
		}
	}

	// 5. Respond
	resp := domain.CheckResponse{
		EvaluationID:   eval.ID,
		DisruptionID:   rec.ID,
		Result:         eval.Result,
		ReviewRequired: eval.ReviewRequired,
	}
	resp.Metadata.TraceID = traceID
	resp.Metadata.DistanceKm = out.DistanceKm
	resp.Metadata.DistanceTier = out.DistanceTier
	resp.Metadata.TotalMs = time.Since(start).Milliseconds()
	resp.Metadata.Version = h.version

	writeJSON(w, http.StatusOK, resp)
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check repository health
	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// GetEvaluation retrieves an evaluation by ID.
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	evalID := chi.URLParam(r, "id")

	if evalID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "evaluation id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	eval, err := h.repo.GetEvaluation(ctx, tenantID, evalID)
	if err != nil {
		slog.Error("failed to get evaluation", "id", evalID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "evaluation not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// GetDisruption retrieves a disruption record by ID.
func (h *Handler) GetDisruption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := GetTenantID(ctx)
	recID := chi.URLParam(r, "id")

	if recID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "disruption id is required",
		})
		return
	}

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	rec, err := h.repo.GetDisruption(ctx, tenantID, recID)
	if err != nil {
		slog.Error("failed to get disruption", "id", recID, "error", err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "disruption not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// DistanceResponse is the response for GET /distance/{from}/{to}.
type DistanceResponse struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Km    float64 `json:"km"`
	Miles float64 `json:"miles"`
	Tier  string  `json:"tier"`

	// Estimated is set when one or both airports are unknown and the
	// fallback distance was applied.
	Estimated bool `json:"estimated,omitempty"`
}

// GetDistance returns the great-circle distance between two airports.
func (h *Handler) GetDistance(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "from and to airport codes are required",
		})
		return
	}

	entry := h.geo.Distance(r.Context(), from, to)
	km := geo.EffectiveKm(entry)

	writeJSON(w, http.StatusOK, DistanceResponse{
		From:      from,
		To:        to,
		Km:        km,
		Miles:     entry.Miles,
		Tier:      geo.Tier(km),
		Estimated: !entry.Valid,
	})
}

// ListPolicies returns all loaded override policies from the engine.
// Policies are loaded from the database at startup and can be reloaded
// via POST /policies/reload.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	loaded := h.policies.GetLoadedPolicies()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"policies": loaded,
		"count":    len(loaded),
		"source":   "database",
	})
}

// GetPolicy retrieves a policy by ID from the loaded engine policies.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policyID := chi.URLParam(r, "id")

	if policyID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "policy id is required",
		})
		return
	}

	for _, p := range h.policies.GetLoadedPolicies() {
		if p.ID == policyID {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}

	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "policy not found",
	})
}

// CreatePolicyRequest is the request body for creating an override policy.
type CreatePolicyRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Expression  string `json:"expression"`
	Action      string `json:"action"`
	Enabled     bool   `json:"enabled"`
}

// CreatePolicy creates a new override policy and saves it to the database.
// Policies are saved globally (tenant_id = "*") so they apply to all tenants.
// After saving, call POST /policies/reload to hot-reload into the engine.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	// Validate
	if req.ID == "" || req.Name == "" || req.Expression == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, and expression are required",
		})
		return
	}
	if req.Action != domain.PolicyActionFlagReview && req.Action != domain.PolicyActionGoodwill {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "action must be flag_review or goodwill",
		})
		return
	}

	// Create policy config (global tenant)
	cfg := &domain.PolicyConfig{
		ID:          req.ID,
		TenantID:    domain.GlobalTenantID,
		Name:        req.Name,
		Description: req.Description,
		Version:     "1.0.0",
		Expression:  req.Expression,
		Action:      req.Action,
		Enabled:     req.Enabled,
	}

	// Validate CEL expression before persisting
	if err := h.policies.ValidatePolicy(cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid CEL expression: " + err.Error(),
		})
		return
	}

	// Persist to repository (global tenant ID)
	if h.repo != nil {
		if err := h.repo.SavePolicy(ctx, domain.GlobalTenantID, cfg); err != nil {
			slog.Error("failed to save policy", "id", cfg.ID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to save policy",
			})
			return
		}
	}

	slog.Info("policy created", "id", cfg.ID, "name", cfg.Name)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"policy":  cfg,
		"message": "Policy created. Call POST /policies/reload to apply changes.",
	})
}

// DeletePolicy disables a policy and auto-reloads the engine.
func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policyID := chi.URLParam(r, "id")

	if policyID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "policy id is required",
		})
		return
	}

	if h.repo != nil {
		if err := h.repo.DeletePolicy(ctx, domain.GlobalTenantID, policyID); err != nil {
			slog.Error("failed to delete policy", "id", policyID, "error", err)
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "policy not found",
			})
			return
		}

		// Auto-reload after delete
		dbPolicies, err := h.repo.ListPolicies(ctx, domain.GlobalTenantID)
		if err != nil {
			slog.Error("failed to reload policies after delete", "error", err)
		} else {
			if err := h.policies.ReloadPolicies(dbPolicies); err != nil {
				slog.Error("failed to reload policy engine after delete", "error", err)
			} else {
				slog.Info("policies auto-reloaded after delete", "count", len(dbPolicies))
			}
		}
	}

	slog.Info("policy deleted", "id", policyID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Policy deleted and engine reloaded.",
	})
}

// ReloadPolicies reloads all policies from the database into the engine.
// This enables hot-reloading without server restart.
func (h *Handler) ReloadPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "repository not available",
		})
		return
	}

	// Load policies from database (global policies)
	dbPolicies, err := h.repo.ListPolicies(ctx, domain.GlobalTenantID)
	if err != nil {
		slog.Error("failed to list policies from database", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load policies from database",
		})
		return
	}

	// Reload into engine
	if err := h.policies.ReloadPolicies(dbPolicies); err != nil {
		slog.Error("failed to reload policies into engine", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload policies: " + err.Error(),
		})
		return
	}

	slog.Info("policies reloaded from database", "count", len(dbPolicies))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "policies reloaded successfully",
		"count":   len(dbPolicies),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
