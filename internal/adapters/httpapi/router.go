// internal/adapters/httpapi/router.go
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finsight/internal/core/usecases"
	"finsight/internal/platform/cache"
	"finsight/internal/platform/logx"
	"finsight/internal/sources/exchangerate"
	"finsight/internal/sources/finnhub"
)

// Router expone el pipeline y el selector por HTTP. Los dos endpoints
// core (/api/news, /api/ad) nunca devuelven 5xx; los pass-through sí.
type Router struct {
	engine   *gin.Engine
	news     *NewsHandler
	ads      *AdHandler
	market   *MarketHandler
	signals  *SignalsHandler
	version  string
	started  time.Time
	logger   logx.Logger
}

// RouterOptions configura el router HTTP.
type RouterOptions struct {
	Pipeline *usecases.NewsPipeline
	Selector *usecases.AdSelector

	// Market cliente de cotizaciones, headlines y recomendaciones
	Market *finnhub.Client

	// Forex cliente de tipos de cambio
	Forex *exchangerate.Client

	// Cache cache compartida de los endpoints pass-through
	Cache cache.Cache

	// CacheTTL vida de las entradas pass-through (0 = sin cache)
	CacheTTL time.Duration

	// WidgetDir directorio de assets estáticos del ad widget
	WidgetDir string

	Version string
	Logger  logx.Logger
}

// NewRouter crea el router con todas las rutas montadas.
func NewRouter(opts RouterOptions) *Router {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(opts.Logger))

	r := &Router{
		engine:  engine,
		news:    NewNewsHandler(opts.Pipeline, opts.Logger),
		ads:     NewAdHandler(opts.Selector, opts.Logger),
		market:  NewMarketHandler(opts.Market, opts.Forex, opts.Cache, opts.CacheTTL, opts.Logger),
		signals: NewSignalsHandler(),
		version: opts.Version,
		started: time.Now(),
		logger:  opts.Logger.With("component", "router"),
	}

	api := engine.Group("/api")
	{
		api.GET("/news", r.news.Get)
		api.GET("/ad", r.ads.Get)
		api.GET("/quote", r.market.GetQuote)
		api.GET("/forex", r.market.GetForex)
		api.GET("/headlines", r.market.GetHeadlines)
		api.GET("/recommendations", r.market.GetRecommendations)
		api.GET("/signals", r.signals.Get)
	}

	engine.GET("/health", r.health)

	if opts.WidgetDir != "" {
		engine.Static("/widget", opts.WidgetDir)
	}

	return r
}

// Handler retorna el http.Handler del router.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// health responde el estado del proceso.
func (r *Router) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": r.version,
		"uptime":  time.Since(r.started).Round(time.Second).String(),
	})
}

// requestLogger registra cada petición con el logger estructurado.
func requestLogger(logger logx.Logger) gin.HandlerFunc {
	log := logger.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
