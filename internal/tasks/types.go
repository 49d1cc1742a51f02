package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypePushBroadcast = "notify:push_broadcast"
	TypeReminderTick  = "maintenance:reminder_tick"
	TypePolicyApply   = "maintenance:policy_apply"
)

// PushBroadcastPayload fans a notification out to every active subscription
// in one franchise.
type PushBroadcastPayload struct {
	FranchiseID uuid.UUID `json:"franchise_id"`
	SenderID    uuid.UUID `json:"sender_id,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
}

func NewPushBroadcastTask(payload PushBroadcastPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushBroadcast, data), nil
}

// ReminderTickPayload is empty - the sweep covers all franchises.
type ReminderTickPayload struct{}

func NewReminderTickTask() *asynq.Task {
	return asynq.NewTask(TypeReminderTick, nil)
}

// PolicyApplyPayload runs the policy applier for one franchise off the
// request path.
type PolicyApplyPayload struct {
	FranchiseID uuid.UUID `json:"franchise_id"`
}

func NewPolicyApplyTask(payload PolicyApplyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePolicyApply, data), nil
}
