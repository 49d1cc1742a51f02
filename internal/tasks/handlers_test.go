package tasks_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/maintenance"
	"github.com/hugh/fleet-hub/internal/notify"
	"github.com/hugh/fleet-hub/internal/tasks"
	"github.com/hugh/fleet-hub/internal/testutil"
	"github.com/hugh/fleet-hub/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier captures messages instead of delivering them.
type recordingNotifier struct {
	sent []notify.Message
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg notify.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func newTaskHandler(t *testing.T, db *gorm.DB, notifier notify.Notifier) (*tasks.Handler, *crypto.Encryptor) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	encryptor, err := crypto.NewEncryptor("")
	require.NoError(t, err)

	svc := maintenance.NewService(logger)
	return tasks.NewHandler(db, logger, svc, notifier, encryptor, nil), encryptor
}

func createSubscription(t *testing.T, db *gorm.DB, enc *crypto.Encryptor, tc *testutil.TestSetup, endpoint string) {
	t.Helper()

	p256dh, err := enc.EncryptString("p256dh-key")
	require.NoError(t, err)
	authKey, err := enc.EncryptString("auth-key")
	require.NoError(t, err)

	sub := &models.PushSubscription{
		FranchiseID:     tc.Franchise.ID,
		UserID:          tc.User.ID,
		Endpoint:        endpoint,
		P256dhEncrypted: p256dh,
		AuthEncrypted:   authKey,
		IsActive:        true,
	}
	require.NoError(t, db.Create(sub).Error)
}

func TestHandlePushBroadcast(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	notifier := &recordingNotifier{}
	handler, enc := newTaskHandler(t, tc.DB, notifier)

	createSubscription(t, tc.DB, enc, tc, "https://push.example.com/sub-1")
	createSubscription(t, tc.DB, enc, tc, "https://push.example.com/sub-2")

	// Subscriptions in another franchise must not receive the broadcast.
	other := testutil.CreateTestFranchise(t, tc.DB)
	otherUser := testutil.CreateTestUser(t, tc.DB)
	otherSub := &models.PushSubscription{
		FranchiseID:     other.ID,
		UserID:          otherUser.ID,
		Endpoint:        "https://push.example.com/other",
		P256dhEncrypted: "x",
		AuthEncrypted:   "y",
		IsActive:        true,
	}
	require.NoError(t, tc.DB.Create(otherSub).Error)

	task, err := tasks.NewPushBroadcastTask(tasks.PushBroadcastPayload{
		FranchiseID: tc.Franchise.ID,
		Title:       "Maintenance due",
		Body:        "Van 1 needs an oil change",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandlePushBroadcast(context.Background(), task))

	require.Len(t, notifier.sent, 2)
	for _, msg := range notifier.sent {
		assert.Equal(t, "Maintenance due", msg.Title)
		assert.Equal(t, "p256dh-key", msg.P256dh)
		assert.Equal(t, "auth-key", msg.Auth)
		assert.NotEqual(t, "https://push.example.com/other", msg.Endpoint)
	}
}

func TestHandlePushBroadcast_SkipsInactiveAndUndecryptable(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	notifier := &recordingNotifier{}
	handler, enc := newTaskHandler(t, tc.DB, notifier)

	createSubscription(t, tc.DB, enc, tc, "https://push.example.com/good")

	inactive := &models.PushSubscription{
		FranchiseID:     tc.Franchise.ID,
		UserID:          tc.User.ID,
		Endpoint:        "https://push.example.com/inactive",
		P256dhEncrypted: "x",
		AuthEncrypted:   "y",
		IsActive:        false,
	}
	require.NoError(t, tc.DB.Create(inactive).Error)

	// Garbage ciphertext is logged and skipped, not fatal.
	garbage := &models.PushSubscription{
		FranchiseID:     tc.Franchise.ID,
		UserID:          tc.User.ID,
		Endpoint:        "https://push.example.com/garbage",
		P256dhEncrypted: "not-ciphertext",
		AuthEncrypted:   "not-ciphertext",
		IsActive:        true,
	}
	require.NoError(t, tc.DB.Create(garbage).Error)

	task, err := tasks.NewPushBroadcastTask(tasks.PushBroadcastPayload{
		FranchiseID: tc.Franchise.ID,
		Title:       "Hello",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandlePushBroadcast(context.Background(), task))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "https://push.example.com/good", notifier.sent[0].Endpoint)
}

func TestHandlePolicyApply(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	handler, _ := newTaskHandler(t, tc.DB, &recordingNotifier{})

	vehicle := testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Van 1")
	testutil.CreateTestPolicy(t, tc.DB, tc.Franchise.ID, "oil_change", testutil.IntPtr(3000), nil)
	blank := testutil.CreateTestSchedule(t, tc.DB, tc.Franchise.ID, vehicle.ID, "oil_change", nil, nil)

	task, err := tasks.NewPolicyApplyTask(tasks.PolicyApplyPayload{FranchiseID: tc.Franchise.ID})
	require.NoError(t, err)

	require.NoError(t, handler.HandlePolicyApply(context.Background(), task))

	var got models.ScheduledMaintenance
	require.NoError(t, tc.DB.First(&got, "id = ?", blank.ID).Error)
	require.NotNil(t, got.IntervalMiles)
	assert.Equal(t, 3000, *got.IntervalMiles)

	// Retrying the task is harmless.
	require.NoError(t, handler.HandlePolicyApply(context.Background(), task))
}

func TestHandleReminderTick_NoDueWork(t *testing.T) {
	tc := testutil.NewTestContext(t)
	defer tc.Cleanup()

	notifier := &recordingNotifier{}
	handler, _ := newTaskHandler(t, tc.DB, notifier)

	vehicle := testutil.CreateTestVehicle(t, tc.DB, tc.Franchise.ID, "Van 1")
	future := time.Now().Add(30 * 24 * time.Hour)
	sched := &models.ScheduledMaintenance{
		VehicleID:       vehicle.ID,
		MaintenanceType: "oil_change",
		DueDate:         &future,
	}
	sched.FranchiseID = tc.Franchise.ID
	require.NoError(t, tc.DB.Create(sched).Error)

	// Nothing due: the sweep completes without enqueuing anything.
	require.NoError(t, handler.HandleReminderTick(context.Background(), tasks.NewReminderTickTask()))
	assert.Empty(t, notifier.sent)
}
