package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TapeFeed/internal/domain/models"
	"TapeFeed/internal/service/hub"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWebhookAdmin records registry operations in memory.
type fakeWebhookAdmin struct {
	hooks      map[string]models.Webhook
	nextID     int
	createErr  error
	deleteErr  error
	listErr    error
	deletedIDs []string
}

func newFakeWebhookAdmin() *fakeWebhookAdmin {
	return &fakeWebhookAdmin{hooks: make(map[string]models.Webhook)}
}

func (f *fakeWebhookAdmin) ListWebhooks(ctx context.Context) ([]models.Webhook, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Webhook, 0, len(f.hooks))
	for _, h := range f.hooks {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeWebhookAdmin) CreateWebhook(ctx context.Context, callbackURL string, addresses []string) (*models.Webhook, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	h := models.Webhook{
		WebhookID:        fmt.Sprintf("wh-%d", f.nextID),
		WebhookURL:       callbackURL,
		AccountAddresses: addresses,
	}
	f.hooks[h.WebhookID] = h
	return &h, nil
}

func (f *fakeWebhookAdmin) DeleteWebhook(ctx context.Context, webhookID string) error {
	f.deletedIDs = append(f.deletedIDs, webhookID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.hooks, webhookID)
	return nil
}

func newTestWebhooks(t *testing.T) (*WebhooksUsecase, *fakeWebhookAdmin, *IngestUsecase) {
	t.Helper()
	log := testLogger(t)
	ingest := NewIngestUsecase(
		NewTokenSession(),
		NewSwapParser(),
		NewDedupWindow(),
		NewCandleBuilder(30*time.Second),
		hub.New(log),
		nil,
		newFakeMetrics(),
		log,
	)
	admin := newFakeWebhookAdmin()
	return NewWebhooksUsecase(admin, ingest, log), admin, ingest
}

func TestWebhookCreateStartsTracking(t *testing.T) {
	u, admin, ingest := newTestWebhooks(t)

	id, err := u.CreateOrReplace(context.Background(), testMint, testPool, "https://example.com/hook")
	require.NoError(t, err)
	assert.Equal(t, "wh-1", id)
	assert.Equal(t, id, u.ActiveID())
	assert.Equal(t, testMint, ingest.Status().TrackedToken)
	assert.Len(t, admin.hooks, 1)
}

func TestWebhookReplaceDeletesPrevious(t *testing.T) {
	u, admin, _ := newTestWebhooks(t)
	ctx := context.Background()

	first, err := u.CreateOrReplace(ctx, testMint, testPool, "https://example.com/hook")
	require.NoError(t, err)

	second, err := u.CreateOrReplace(ctx, "OtherMint1111111111111111111111111111111111", "", "https://example.com/hook")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first}, admin.deletedIDs)
	assert.Len(t, admin.hooks, 1)
}

func TestWebhookReplaceToleratesDeleteFailure(t *testing.T) {
	u, admin, _ := newTestWebhooks(t)
	ctx := context.Background()

	_, err := u.CreateOrReplace(ctx, testMint, testPool, "https://example.com/hook")
	require.NoError(t, err)

	admin.deleteErr = fmt.Errorf("upstream down")
	id, err := u.CreateOrReplace(ctx, "OtherMint1111111111111111111111111111111111", "", "https://example.com/hook")
	require.NoError(t, err)
	assert.Equal(t, "wh-2", id)
}

func TestWebhookCreateFailureKeepsState(t *testing.T) {
	u, admin, ingest := newTestWebhooks(t)
	admin.createErr = fmt.Errorf("upstream down")

	_, err := u.CreateOrReplace(context.Background(), testMint, testPool, "https://example.com/hook")
	require.Error(t, err)
	assert.Equal(t, "", u.ActiveID())
	assert.Equal(t, "", ingest.Status().TrackedToken)
}

func TestWebhookDelete(t *testing.T) {
	u, _, ingest := newTestWebhooks(t)
	ctx := context.Background()

	// Nothing active: no-op, no error.
	deleted, err := u.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", deleted)

	id, err := u.CreateOrReplace(ctx, testMint, testPool, "https://example.com/hook")
	require.NoError(t, err)

	deleted, err = u.Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, deleted)
	assert.Equal(t, "", u.ActiveID())
	assert.Equal(t, "", ingest.Status().TrackedToken)
}

func TestWebhookStatusDegradesOnListFailure(t *testing.T) {
	u, admin, _ := newTestWebhooks(t)
	ctx := context.Background()

	id, err := u.CreateOrReplace(ctx, testMint, testPool, "https://example.com/hook")
	require.NoError(t, err)

	admin.listErr = fmt.Errorf("upstream down")
	status := u.Status(ctx)
	assert.Equal(t, id, status.ActiveWebhookID)
	assert.Equal(t, testMint, status.TrackedToken)
	assert.NotEmpty(t, status.Error)
	assert.Empty(t, status.AllWebhooks)
}
