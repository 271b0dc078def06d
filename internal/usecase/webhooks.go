package usecase

import (
	"context"
	"sync"

	"TapeFeed/internal/domain/models"
	drepo "TapeFeed/internal/domain/repository"
	"TapeFeed/pkg/logger"
)

// WebhooksUsecase manages the upstream webhook registration lifecycle.
// One webhook is active at a time; registering a new token replaces it.
type WebhooksUsecase struct {
	admin  drepo.WebhookAdmin
	ingest *IngestUsecase
	log    *logger.Logger

	mu       sync.Mutex
	activeID string
}

// NewWebhooksUsecase creates the webhook lifecycle usecase.
func NewWebhooksUsecase(admin drepo.WebhookAdmin, ingest *IngestUsecase, log *logger.Logger) *WebhooksUsecase {
	return &WebhooksUsecase{admin: admin, ingest: ingest, log: log}
}

// CreateOrReplace registers a webhook for tokenAddress, deleting any
// previously active webhook first. A failed delete of the old webhook is
// tolerated; a failed create is not. On success the pipeline starts
// tracking the token.
func (u *WebhooksUsecase) CreateOrReplace(ctx context.Context, tokenAddress, poolAddress, webhookURL string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.activeID != "" {
		if err := u.admin.DeleteWebhook(ctx, u.activeID); err != nil {
			u.log.Warn("could not delete previous webhook",
				logger.String("webhook_id", u.activeID),
				logger.Error(err),
			)
		} else {
			u.log.Info("deleted previous webhook", logger.String("webhook_id", u.activeID))
		}
	}

	hook, err := u.admin.CreateWebhook(ctx, webhookURL, []string{tokenAddress})
	if err != nil {
		return "", err
	}

	u.activeID = hook.WebhookID
	u.ingest.TrackToken(tokenAddress, poolAddress)
	return hook.WebhookID, nil
}

// Delete removes the active webhook and stops tracking. Returns the
// deleted webhook ID, empty when none was active.
func (u *WebhooksUsecase) Delete(ctx context.Context) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.activeID == "" {
		return "", nil
	}

	if err := u.admin.DeleteWebhook(ctx, u.activeID); err != nil {
		return "", err
	}

	deleted := u.activeID
	u.activeID = ""
	u.ingest.Untrack()
	return deleted, nil
}

// WebhookStatus is the lifecycle status payload.
type WebhookStatus struct {
	ActiveWebhookID string           `json:"activeWebhookId,omitempty"`
	TrackedToken    string           `json:"trackedToken,omitempty"`
	AllWebhooks     []models.Webhook `json:"allWebhooks"`
	Error           string           `json:"error,omitempty"`
}

// Status reports the active webhook and everything registered upstream.
// A failing upstream list degrades to a partial status, not an error.
func (u *WebhooksUsecase) Status(ctx context.Context) WebhookStatus {
	u.mu.Lock()
	activeID := u.activeID
	u.mu.Unlock()

	status := WebhookStatus{
		ActiveWebhookID: activeID,
		TrackedToken:    u.ingest.Status().TrackedToken,
		AllWebhooks:     []models.Webhook{},
	}

	hooks, err := u.admin.ListWebhooks(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.AllWebhooks = hooks
	return status
}

// ActiveID returns the currently registered webhook ID, if any.
func (u *WebhooksUsecase) ActiveID() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.activeID
}
