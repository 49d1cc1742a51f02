package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/hugh/fleet-hub/internal/api/dto"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/database/models"
	"github.com/hugh/fleet-hub/internal/tasks"
	"github.com/hugh/fleet-hub/pkg/crypto"
)

// NotificationHandler registers push subscriptions and lets managers queue a
// broadcast to the franchise. Delivery happens in the worker behind the
// Notifier interface; this handler never talks to a push service.
type NotificationHandler struct {
	encryptor   *crypto.Encryptor
	asynqClient *asynq.Client
}

func NewNotificationHandler(encryptor *crypto.Encryptor, asynqClient *asynq.Client) *NotificationHandler {
	return &NotificationHandler{encryptor: encryptor, asynqClient: asynqClient}
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Endpoint, p256dh, and auth are required"})
		return
	}

	p256dhEnc, err := h.encryptor.EncryptString(req.P256dh)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store subscription"})
		return
	}
	authEnc, err := h.encryptor.EncryptString(req.Auth)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store subscription"})
		return
	}

	sub := models.PushSubscription{
		UserID:          rctx.UserID,
		Endpoint:        req.Endpoint,
		P256dhEncrypted: p256dhEnc,
		AuthEncrypted:   authEnc,
		IsActive:        true,
	}
	if err := rctx.Scope.Create(r.Context(), &sub); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store subscription"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.SuccessResponse{Message: "Subscribed"})
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Endpoint is required"})
		return
	}

	// Users can only drop their own subscriptions.
	n, err := rctx.Scope.Delete(r.Context(), &models.PushSubscription{},
		"user_id = ? AND endpoint = ?", rctx.UserID, req.Endpoint)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to unsubscribe"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Subscription not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Unsubscribed"})
}

type SendNotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Send queues a push broadcast for every active subscription in the
// franchise.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	rctx := middleware.GetContext(r.Context())

	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed",
			Details: map[string]string{"title": "Title is required"}})
		return
	}

	count, err := rctx.Scope.Count(r.Context(), &models.PushSubscription{}, "is_active = ?", true)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to queue notification"})
		return
	}

	if h.asynqClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Notification queue unavailable"})
		return
	}

	task, err := tasks.NewPushBroadcastTask(tasks.PushBroadcastPayload{
		FranchiseID: rctx.FranchiseID,
		SenderID:    rctx.UserID,
		Title:       req.Title,
		Body:        req.Body,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to queue notification"})
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to queue notification"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":     "Notification queued",
		"subscribers": count,
	})
}
