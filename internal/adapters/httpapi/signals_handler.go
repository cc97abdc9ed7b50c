// internal/adapters/httpapi/signals_handler.go
package httpapi

import (
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SignalsHandler sirve señales técnicas sintéticas. Es un placeholder
// aleatorizado sin contenido algorítmico real; cada llamada produce una
// señal distinta.
type SignalsHandler struct{}

// NewSignalsHandler crea el handler de señales.
func NewSignalsHandler() *SignalsHandler {
	return &SignalsHandler{}
}

// Get maneja GET /api/signals?symbol=
func (h *SignalsHandler) Get(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("symbol", "SPY")))

	rsi := 20 + rand.Float64()*60
	macd := rand.Float64()*4 - 2

	signal := "hold"
	switch {
	case rsi < 30 && macd > 0:
		signal = "buy"
	case rsi > 70 && macd < 0:
		signal = "sell"
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":     symbol,
		"signal":     signal,
		"confidence": round2(0.5 + rand.Float64()*0.5),
		"indicators": gin.H{
			"rsi":   round2(rsi),
			"macd":  round2(macd),
			"sma20": round2(100 + rand.Float64()*400),
			"sma50": round2(100 + rand.Float64()*400),
		},
		"generatedAt": time.Now().UTC(),
	})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
