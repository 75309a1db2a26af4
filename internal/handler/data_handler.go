package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
	"github.com/TanuSree02/prodex/pkg/metrics"
)

// SyncService is the server-side sync surface the handlers drive.
type SyncService interface {
	EnsureUser(ctx context.Context) (*model.User, error)
	Snapshot(ctx context.Context, userID string) (*model.Snapshot, error)
	SyncTasks(ctx context.Context, userID string, tasks []model.TaskPayload) ([]model.TaskPayload, error)
	FullSync(ctx context.Context, userID string, payload model.SyncRequest) (*model.Snapshot, []string, error)
}

type DataHandler struct {
	svc    SyncService
	logger *zap.Logger
}

func NewDataHandler(svc SyncService, logger *zap.Logger) *DataHandler {
	return &DataHandler{svc: svc, logger: logger}
}

// GetData serves the full snapshot read path, bootstrapping the demo
// user on first access.
func (h *DataHandler) GetData(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.svc.EnsureUser(ctx)
	if err != nil {
		h.logger.Error("GetData: failed to resolve user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
		return
	}

	snapshot, err := h.svc.Snapshot(ctx, user.ID)
	if err != nil {
		h.logger.Error("GetData: failed to assemble snapshot",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
		return
	}

	metrics.SnapshotRequestCount.Inc()
	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}
