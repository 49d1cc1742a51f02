package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/maintenance"
	"github.com/hugh/fleet-hub/internal/notify"
	"github.com/hugh/fleet-hub/internal/tenant"
	"github.com/hugh/fleet-hub/pkg/crypto"
	"gorm.io/gorm"
)

// Handler processes the worker-side tasks. Each task builds a scope for the
// franchise it targets, so worker queries carry the same tenant filter as
// request-path queries.
type Handler struct {
	db          *gorm.DB
	logger      *slog.Logger
	maintenance *maintenance.Service
	notifier    notify.Notifier
	encryptor   *crypto.Encryptor
	asynqClient *asynq.Client
}

func NewHandler(db *gorm.DB, logger *slog.Logger, svc *maintenance.Service, notifier notify.Notifier, encryptor *crypto.Encryptor, asynqClient *asynq.Client) *Handler {
	return &Handler{
		db:          db,
		logger:      logger,
		maintenance: svc,
		notifier:    notifier,
		encryptor:   encryptor,
		asynqClient: asynqClient,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePushBroadcast, h.HandlePushBroadcast)
	mux.HandleFunc(TypeReminderTick, h.HandleReminderTick)
	mux.HandleFunc(TypePolicyApply, h.HandlePolicyApply)
}

// HandlePushBroadcast delivers a notification to every active subscription
// in the franchise. Individual delivery failures are logged and skipped; a
// dead endpoint should not block the rest of the fan-out.
func (h *Handler) HandlePushBroadcast(ctx context.Context, t *asynq.Task) error {
	var p PushBroadcastPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshaling push broadcast payload: %w", err)
	}

	scope := tenant.NewScope(h.db, p.FranchiseID)

	var subs []models.PushSubscription
	if err := scope.Find(ctx, &subs, "is_active = ?", true); err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		p256dh, err := h.encryptor.DecryptString(sub.P256dhEncrypted)
		if err != nil {
			h.logger.Error("failed to decrypt subscription key", "subscription_id", sub.ID, "error", err)
			continue
		}
		auth, err := h.encryptor.DecryptString(sub.AuthEncrypted)
		if err != nil {
			h.logger.Error("failed to decrypt subscription auth", "subscription_id", sub.ID, "error", err)
			continue
		}

		msg := notify.Message{
			Endpoint: sub.Endpoint,
			P256dh:   p256dh,
			Auth:     auth,
			Title:    p.Title,
			Body:     p.Body,
		}
		if err := h.notifier.Send(ctx, msg); err != nil {
			h.logger.Error("push delivery failed", "subscription_id", sub.ID, "error", err)
			continue
		}
		sent++
	}

	h.logger.Info("push broadcast complete",
		"franchise_id", p.FranchiseID,
		"subscriptions", len(subs),
		"sent", sent,
	)
	return nil
}

// HandleReminderTick sweeps every franchise for due maintenance and queues a
// broadcast per franchise that has any.
func (h *Handler) HandleReminderTick(ctx context.Context, t *asynq.Task) error {
	var franchises []models.Franchise
	if err := h.db.WithContext(ctx).Find(&franchises).Error; err != nil {
		return fmt.Errorf("loading franchises: %w", err)
	}

	now := time.Now()
	for _, f := range franchises {
		scope := tenant.NewScope(h.db, f.ID)

		due, err := h.maintenance.DueForReminder(ctx, scope, now)
		if err != nil {
			h.logger.Error("reminder sweep failed", "franchise_id", f.ID, "error", err)
			continue
		}
		if len(due) == 0 {
			continue
		}

		title := fmt.Sprintf("%d maintenance task(s) due", len(due))
		body := "Vehicles: "
		for i, item := range due {
			if i > 0 {
				body += ", "
			}
			body += item.Vehicle.Name
			if i == 4 && len(due) > 5 {
				body += ", ..."
				break
			}
		}

		task, err := NewPushBroadcastTask(PushBroadcastPayload{
			FranchiseID: f.ID,
			Title:       title,
			Body:        body,
		})
		if err != nil {
			h.logger.Error("failed to build broadcast task", "franchise_id", f.ID, "error", err)
			continue
		}
		if h.asynqClient != nil {
			if _, err := h.asynqClient.Enqueue(task, asynq.Queue("low")); err != nil {
				h.logger.Error("failed to enqueue broadcast", "franchise_id", f.ID, "error", err)
			}
		}
	}

	return nil
}

// HandlePolicyApply runs the policy applier for one franchise. Apply is
// idempotent, so asynq's retry on failure is safe.
func (h *Handler) HandlePolicyApply(ctx context.Context, t *asynq.Task) error {
	var p PolicyApplyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshaling policy apply payload: %w", err)
	}

	scope := tenant.NewScope(h.db, p.FranchiseID)
	result, err := h.maintenance.Apply(ctx, scope)
	if err != nil {
		return fmt.Errorf("applying policies for franchise %s: %w", p.FranchiseID, err)
	}

	h.logger.Info("background policy apply complete",
		"franchise_id", p.FranchiseID,
		"updated", result.Updated,
	)
	return nil
}
