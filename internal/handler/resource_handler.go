package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type ResourceReader interface {
	ListCategories(ctx context.Context) ([]model.ResourceCategoryCard, error)
	GetBySlug(ctx context.Context, slug string) (*model.CategoryResources, error)
}

type ResourceHandler struct {
	resources ResourceReader
	logger    *zap.Logger
}

func NewResourceHandler(resources ResourceReader, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{resources: resources, logger: logger}
}

func (h *ResourceHandler) ListCategories(c *gin.Context) {
	cards, err := h.resources.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("ListCategories: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resource categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cards})
}

func (h *ResourceHandler) GetBySlug(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category slug is required"})
		return
	}

	result, err := h.resources.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.logger.Error("GetBySlug: failed",
			zap.Error(err),
			zap.String("slug", slug),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources for category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
