// internal/adapters/httpapi/ad_handler.go
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/core/domain"
	"finsight/internal/core/usecases"
	"finsight/internal/platform/logx"
)

// AdHandler sirve el endpoint de selección de creatividad. Siempre
// responde 200: el agotamiento de todas las redes degrada al house ad.
type AdHandler struct {
	selector *usecases.AdSelector
	logger   logx.Logger
}

// NewAdHandler crea el handler de ads.
func NewAdHandler(selector *usecases.AdSelector, logger logx.Logger) *AdHandler {
	return &AdHandler{
		selector: selector,
		logger:   logger.With("handler", "ad"),
	}
}

// Get maneja GET /api/ad?type=&placement=&userPreference=
func (h *AdHandler) Get(c *gin.Context) {
	req := domain.AdRequest{
		Type:           c.Query("type"),
		Placement:      c.Query("placement"),
		UserPreference: c.Query("userPreference"),
	}

	decision := h.selector.Select(c.Request.Context(), req)
	c.JSON(http.StatusOK, decision)
}
