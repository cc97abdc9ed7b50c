// internal/adapters/httpapi/market_handlers.go
package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finsight/internal/core/domain"
	"finsight/internal/platform/cache"
	"finsight/internal/platform/errors"
	"finsight/internal/platform/logx"
	"finsight/internal/sources/exchangerate"
	"finsight/internal/sources/finnhub"
)

// MarketHandler agrupa los endpoints pass-through: un solo upstream,
// sin agregación ni fallback; un fallo upstream se propaga como 5xx.
type MarketHandler struct {
	market *finnhub.Client
	forex  *exchangerate.Client
	cache  cache.Cache
	ttl    time.Duration
	logger logx.Logger
}

// NewMarketHandler crea el handler de endpoints pass-through.
func NewMarketHandler(market *finnhub.Client, forex *exchangerate.Client, c cache.Cache, ttl time.Duration, logger logx.Logger) *MarketHandler {
	return &MarketHandler{
		market: market,
		forex:  forex,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("handler", "market"),
	}
}

// GetQuote maneja GET /api/quote?symbol=
func (h *MarketHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	key := "quote:" + symbol
	if cached, ok := h.lookup(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	quote, err := h.market.GetQuote(c.Request.Context(), symbol)
	if err != nil {
		h.fail(c, "quote", err)
		return
	}

	h.store(key, quote)
	c.JSON(http.StatusOK, quote)
}

// GetForex maneja GET /api/forex?from=&to=
func (h *MarketHandler) GetForex(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("from", "USD")))
	to := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("to", "EUR")))
	if len(from) != 3 || len(to) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency codes must be 3 letters"})
		return
	}

	key := "forex:" + from + ":" + to
	if cached, ok := h.lookup(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	rate, err := h.forex.GetRate(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "forex", err)
		return
	}

	h.store(key, rate)
	c.JSON(http.StatusOK, rate)
}

// GetHeadlines maneja GET /api/headlines?category=&pageSize=
// Titulares crudos de un único upstream, sin scoring ni dedupe.
func (h *MarketHandler) GetHeadlines(c *gin.Context) {
	query := domain.NewsQuery{Category: c.Query("category")}
	if v := c.Query("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			query.PageSize = n
		}
	}
	query.Normalize()

	articles, err := h.market.Fetch(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "headlines", err)
		return
	}
	if len(articles) > query.PageSize {
		articles = articles[:query.PageSize]
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":     articles,
		"totalResults": len(articles),
	})
}

// GetRecommendations maneja GET /api/recommendations?symbol=
func (h *MarketHandler) GetRecommendations(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}

	key := "recs:" + symbol
	if cached, ok := h.lookup(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	recs, err := h.market.GetRecommendations(c.Request.Context(), symbol)
	if err != nil {
		h.fail(c, "recommendations", err)
		return
	}

	h.store(key, recs)
	c.JSON(http.StatusOK, gin.H{
		"symbol":          symbol,
		"recommendations": recs,
	})
}

// lookup consulta la cache compartida si está configurada.
func (h *MarketHandler) lookup(key string) (interface{}, bool) {
	if h.cache == nil || h.ttl <= 0 {
		return nil, false
	}
	return h.cache.Get(key)
}

// store guarda en la cache compartida si está configurada.
func (h *MarketHandler) store(key string, value interface{}) {
	if h.cache == nil || h.ttl <= 0 {
		return
	}
	h.cache.Set(key, value, h.ttl)
}

// fail traduce un error upstream al status HTTP del pass-through.
func (h *MarketHandler) fail(c *gin.Context, endpoint string, err error) {
	h.logger.Warn("upstream failed", "endpoint", endpoint, "error", err.Error())
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor mapea los sentinels de plataforma a códigos HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.IsMissingConfig(err):
		return http.StatusServiceUnavailable
	case errors.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
