package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/notifications?limit=
func (h *Handler) ListNotifications(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.notifier.List(c.Request.Context(), currentProfile(c).ID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(items))
}

// POST /internal/reminders/run
func (h *Handler) RunReminders(c *gin.Context) {
	ctx := c.Request.Context()
	if h.reminderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.reminderTimeout)
		defer cancel()
	}

	res, err := h.reminders.Run(ctx)
	if err != nil {
		h.logger.Error("Reminder run failed", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
