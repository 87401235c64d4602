// Package worker provides async claim processing from the EventBus.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/engine"
	"github.com/openclaims/kestrel/internal/policy"
)

// Worker processes submitted claims asynchronously from the EventBus.
// Batch intake (CSV imports, partner feeds) publishes to the submitted topic
// and the worker runs the same evaluation pipeline as the synchronous API.
type Worker struct {
	bus      domain.EventBus
	repo     domain.Repository
	engine   *engine.Engine
	policies *policy.Engine

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// TenantIDs is the list of tenants to process (empty = all via wildcard if supported)
	TenantIDs []string

	// WorkerCount is the number of concurrent workers per tenant
	WorkerCount int
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, eng *engine.Engine, policies *policy.Engine) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		repo:     repo,
		engine:   eng,
		policies: policies,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing claims for the given tenants.
func (w *Worker) Start(cfg Config) error {
	if len(cfg.TenantIDs) == 0 {
		return w.startGlobalWorker()
	}

	for _, tenantID := range cfg.TenantIDs {
		if err := w.startTenantWorker(tenantID); err != nil {
			slog.Error("failed to start worker for tenant",
				"tenant_id", tenantID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"tenant_count", len(cfg.TenantIDs),
	)

	return nil
}

// startGlobalWorker starts a worker that processes all tenants (for testing/dev).
func (w *Worker) startGlobalWorker() error {
	sub, err := w.bus.Subscribe(w.ctx, "_global", domain.TopicClaimSubmitted, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("global worker started")
	return nil
}

// startTenantWorker starts workers for a specific tenant.
func (w *Worker) startTenantWorker(tenantID string) error {
	sub, err := w.bus.Subscribe(w.ctx, tenantID, domain.TopicClaimSubmitted, func(ctx context.Context, msg *domain.Message) error {
		return w.processClaim(ctx, tenantID, msg)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("tenant worker started",
		"tenant_id", tenantID,
		"topic", domain.TopicClaimSubmitted,
	)

	return nil
}

// handleMessage handles messages from global subscription.
func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	return w.processClaim(ctx, msg.TenantID, msg)
}

// ClaimMessage is the message payload for async claim processing.
type ClaimMessage struct {
	ClaimID  string `json:"claimId,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	TraceID  string `json:"traceId,omitempty"`

	domain.CheckRequest
}

// processClaim evaluates a submitted claim through the full pipeline.
func (w *Worker) processClaim(ctx context.Context, tenantID string, msg *domain.Message) error {
	start := time.Now()

	var claim ClaimMessage
	if err := json.Unmarshal(msg.Payload, &claim); err != nil {
		slog.Error("failed to parse claim message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	// Use message tenant if provided
	if claim.TenantID != "" {
		tenantID = claim.TenantID
	}

	traceID := claim.TraceID
	if traceID == "" {
		traceID = msg.ID
	}

	rec := claim.ToDisruption()
	rec.ID = claim.ClaimID
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.TenantID = tenantID

	slog.Debug("processing claim",
		"claim_id", rec.ID,
		"tenant_id", tenantID,
		"trace_id", traceID,
	)

	// 1. Statutory verdict
	out := w.engine.Evaluate(ctx, rec)

	// 2. Override policies
	var policyResults []domain.PolicyResult
	if w.policies != nil && w.policies.PoliciesCount() > 0 {
		results, err := w.policies.EvaluateAll(ctx, &policy.EvaluateInput{
			TenantID:   tenantID,
			Record:     rec,
			Result:     &out.Result,
			DistanceKm: out.DistanceKm,
		})
		if err != nil {
			slog.Error("policy evaluation failed",
				"claim_id", rec.ID,
				"error", err,
			)
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

	// 3. Persist the audit trail
	if w.repo != nil {
		if err := w.repo.SaveDisruption(ctx, tenantID, rec); err != nil {
			slog.Error("failed to save disruption",
				"claim_id", rec.ID,
				"error", err,
			)
		}
		if err := w.repo.SaveEvaluation(ctx, tenantID, eval); err != nil {
			slog.Error("failed to save evaluation",
				"claim_id", rec.ID,
				"error", err,
			)
		}
	}

	// 4. Publish the verdict
	resultPayload, _ := json.Marshal(eval)
	if err := w.bus.Publish(ctx, tenantID, domain.TopicClaimEvaluated, resultPayload); err != nil {
		slog.Error("failed to publish evaluation",
			"claim_id", rec.ID,
			"error", err,
		)
	}

	if eval.Result.Eligible {
		if err := w.bus.Publish(ctx, tenantID, domain.TopicClaimEligible, resultPayload); err != nil {
			slog.Error("failed to publish eligible claim",
				"claim_id", rec.ID,
				"error", err,
			)
		}
	}

	if eval.ReviewRequired {
		if err := w.bus.Publish(ctx, tenantID, domain.TopicClaimReview, resultPayload); err != nil {
			slog.Error("failed to publish review claim",
				"claim_id", rec.ID,
				"error", err,
			)
		}
	}

	slog.Info("claim processed",
		"claim_id", rec.ID,
		"tenant_id", tenantID,
		"eligible", eval.Result.Eligible,
		"amount", eval.Result.Amount,
		"regulation", eval.Result.Regulation,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops all workers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
