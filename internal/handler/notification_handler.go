package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/event"
)

// NotificationRequest is the field data of the created notification record.
type NotificationRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Route  string `json:"route"`
	TaskID string `json:"taskId"`
}

type NotificationHandler struct {
	notifier *event.Notifier
}

func NewNotificationHandler(notifier *event.Notifier) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
	}
}

func (h *NotificationHandler) HandleNotificationCreated(c *gin.Context) {
	ctx := c.Request.Context()

	userID := strings.TrimSpace(c.Param("userId"))
	messageID := strings.TrimSpace(c.Param("messageId"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", domain.ErrMissingEventOwner.Error())
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "read_error", "failed to read request body")
		return
	}

	if isEmptyRecord(body) {
		c.JSON(http.StatusOK, h.notifier.Ignore(ctx, userID, messageID))
		return
	}

	var req NotificationRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		slog.WarnContext(ctx, "request validation failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.notifier.Notify(ctx, &domain.NotificationEvent{
		UserID:    userID,
		MessageID: messageID,
		Title:     req.Title,
		Body:      req.Body,
		Route:     req.Route,
		TaskID:    req.TaskID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingEventOwner) {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to deliver notification")
		return
	}

	c.JSON(http.StatusOK, result)
}

func isEmptyRecord(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
