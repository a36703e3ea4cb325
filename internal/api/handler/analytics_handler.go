package handler

import (
	"Folio/internal/api/dto"
	"Folio/internal/pkg/response"
	"Folio/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
	reconcileSvc service.ReconcileService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService, reconcileSvc service.ReconcileService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		reconcileSvc: reconcileSvc,
	}
}

func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.analyticsSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *AnalyticsHandler) Categories(c *gin.Context) {
	categories, err := h.analyticsSvc.ByCategory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	monthly, err := h.analyticsSvc.ByMonth(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, monthly)
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analyticsSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

// Reconcile 带 postId 查询参数时只校准单篇帖子
func (h *AnalyticsHandler) Reconcile(c *gin.Context) {
	var query struct {
		PostID uint64 `form:"postId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	var (
		report *dto.ReconcileReportDTO
		err    error
	)
	if query.PostID > 0 {
		report, err = h.reconcileSvc.ReconcilePost(c.Request.Context(), query.PostID)
	} else {
		report, err = h.reconcileSvc.ReconcileAll(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report)
}
