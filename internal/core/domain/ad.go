// internal/core/domain/ad.go
package domain

// AdRequest describe una petición de creatividad publicitaria.
type AdRequest struct {
	// Type formato solicitado (banner, native, video)
	Type string `json:"type"`

	// Placement posición en página (header, sidebar, inline, footer)
	Placement string `json:"placement"`

	// UserPreference hint opcional de categoría preferida del usuario
	UserPreference string `json:"userPreference,omitempty"`
}

// Normalize aplica defaults a la petición.
func (r *AdRequest) Normalize() {
	if r.Type == "" {
		r.Type = "banner"
	}
	if r.Placement == "" {
		r.Placement = "sidebar"
	}
}

// AdCreative es la creatividad normalizada devuelta por una ad network.
type AdCreative struct {
	// Network nombre de la red que sirvió la creatividad (identidad)
	Network string `json:"network"`

	// HTML markup listo para inyectar en el slot
	HTML string `json:"html"`

	// EstimatedRevenue ingreso estimado del impression en USD
	EstimatedRevenue float64 `json:"estimatedRevenue"`

	// LoadTimeMs latencia de carga configurada de la red
	LoadTimeMs int `json:"loadTime"`
}

// Identity retorna la clave de deduplicación de la creatividad.
func (c *AdCreative) Identity() string {
	return c.Network
}

// IsValid verifica que la creatividad tenga los campos mínimos.
func (c *AdCreative) IsValid() bool {
	return c != nil && c.Network != "" && c.HTML != ""
}

// AdDecision es el resultado final de la selección de red publicitaria.
type AdDecision struct {
	Success          bool    `json:"success"`
	Network          string  `json:"network"`
	HTML             string  `json:"html"`
	RevenueScore     float64 `json:"revenueScore"`
	LoadTimeMs       int     `json:"loadTime"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`

	// Fallback indica que todas las redes fallaron y se sirvió el house ad
	Fallback bool `json:"fallback,omitempty"`

	// Attempted redes intentadas en orden, para observabilidad
	Attempted []string `json:"attempted,omitempty"`

	// Metrics snapshot de contadores de la red ganadora
	Metrics *NetworkMetrics `json:"revenueMetrics,omitempty"`
}

// NetworkMetrics es un snapshot inmutable de los contadores rolling
// de rendimiento de una red publicitaria.
type NetworkMetrics struct {
	Requests     int64   `json:"requests"`
	Successes    int64   `json:"successes"`
	SuccessRate  float64 `json:"successRate"`
	TotalRevenue float64 `json:"totalRevenue"`
}
