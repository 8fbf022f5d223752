package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wheelstrust/internal/repository"
)

// NotificationHandler handles HTTP requests for in-app notifications.
type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// NotificationResponse is the HTTP representation of a notification.
type NotificationResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetMine handles GET /v1/notifications
func (h *NotificationHandler) GetMine(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondBadRequest(c, "missing user identity")
		return
	}

	notifications, err := h.notificationRepo.GetByUser(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, NotificationResponse{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Type:        string(n.Type),
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	respondData(c, http.StatusOK, resp)
}

// MarkRead handles POST /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondBadRequest(c, "missing user identity")
		return
	}

	if err := h.notificationRepo.MarkRead(c.Request.Context(), c.Param("id"), uid); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, nil)
}

// MarkAllRead handles POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondBadRequest(c, "missing user identity")
		return
	}

	if err := h.notificationRepo.MarkAllRead(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, nil)
}
