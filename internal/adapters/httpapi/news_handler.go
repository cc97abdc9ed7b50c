// internal/adapters/httpapi/news_handler.go
package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"finsight/internal/core/domain"
	"finsight/internal/core/usecases"
	"finsight/internal/platform/logx"
)

// NewsHandler sirve el endpoint de agregación de noticias. Siempre
// responde 200 con un body estructuralmente válido; la degradación se
// señala dentro del payload.
type NewsHandler struct {
	pipeline *usecases.NewsPipeline
	logger   logx.Logger
}

// NewNewsHandler crea el handler de noticias.
func NewNewsHandler(pipeline *usecases.NewsPipeline, logger logx.Logger) *NewsHandler {
	return &NewsHandler{
		pipeline: pipeline,
		logger:   logger.With("handler", "news"),
	}
}

// Get maneja GET /api/news?category=&pageSize=&sources=
func (h *NewsHandler) Get(c *gin.Context) {
	query := domain.NewsQuery{
		Category: c.Query("category"),
	}
	if v := c.Query("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			query.PageSize = n
		}
	}
	if v := c.Query("sources"); v != "" {
		query.Sources = strings.Split(v, ",")
	}

	result := h.pipeline.Run(c.Request.Context(), query)

	resp := gin.H{
		"articles":       result.Articles,
		"totalResults":   len(result.Articles),
		"sourcesUsed":    result.SourcesUsed(),
		"sourceOutcomes": result.Outcomes,
		"marketSummary":  result.Summary,
		"analyzedAt":     result.GeneratedAt,
	}
	if result.Fallback {
		resp["fallback"] = true
		resp["error"] = result.Err
	}

	c.JSON(http.StatusOK, resp)
}
