package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
	"github.com/TanuSree02/prodex/pkg/metrics"
)

type SyncHandler struct {
	svc    SyncService
	logger *zap.Logger
}

func NewSyncHandler(svc SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

// TasksSync handles the task-only fast path: a single all-or-nothing
// transactional upsert of the pushed task collection.
func (h *SyncHandler) TasksSync(c *gin.Context) {
	var req model.TasksSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tasks == nil {
		h.logger.Warn("TasksSync: invalid payload", zap.Error(err))
		metrics.RecordSyncRequest("tasks", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task payload"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.svc.EnsureUser(ctx)
	if err != nil {
		h.logger.Error("TasksSync: failed to resolve user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync tasks",
			"details": err.Error(),
		})
		return
	}

	tasks, err := h.svc.SyncTasks(ctx, user.ID, req.Tasks)
	if err != nil {
		h.logger.Error("TasksSync: failed",
			zap.Error(err),
			zap.String("user_id", user.ID),
			zap.Int("task_count", len(req.Tasks)),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync tasks",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tasks": tasks}})
}

// FullSync handles the multi-group push path. Group failures are
// isolated into the warnings list; only a settings-update failure or a
// broken snapshot read turns into a 500.
func (h *SyncHandler) FullSync(c *gin.Context) {
	var req model.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Settings == nil {
		h.logger.Warn("FullSync: invalid payload", zap.Error(err))
		metrics.RecordSyncRequest("full", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.svc.EnsureUser(ctx)
	if err != nil {
		h.logger.Error("FullSync: failed to resolve user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync data",
			"details": err.Error(),
		})
		return
	}

	snapshot, warnings, err := h.svc.FullSync(ctx, user.ID, req)
	if err != nil {
		h.logger.Error("FullSync: failed",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync data",
			"details": err.Error(),
		})
		return
	}

	if len(warnings) > 0 {
		h.logger.Warn("FullSync: partial failure",
			zap.String("user_id", user.ID),
			zap.Strings("warnings", warnings),
		)
	}
	c.JSON(http.StatusOK, gin.H{"data": snapshot, "warnings": warnings})
}
