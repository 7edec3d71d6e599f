package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/sweep"
)

type SweepHandler struct {
	sweepService *sweep.Service
	clock        func() time.Time
}

func NewSweepHandler(sweepService *sweep.Service) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
		clock:        time.Now,
	}
}

// HandleSweep runs one due-reminder sweep. The optional now query parameter
// (RFC3339) replays the window for a given instant.
func (h *SweepHandler) HandleSweep(c *gin.Context) {
	ctx := c.Request.Context()

	now := h.clock()
	if nowStr := c.Query("now"); nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, nowStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid now time format, expected RFC3339")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using explicit sweep time",
			slog.Time("now", now),
		)
	}

	resp, err := h.sweepService.Run(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "sweep failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}
