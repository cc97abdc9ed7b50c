// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"finsight/internal/core/domain"
)

// NewsSource es el port primario de toda fuente de noticias en finsight.
// Cualquier upstream (API REST, RSS, scraper HTML) debe implementar esta
// interfaz. El contrato del adapter: una llamada acotada por timeout y
// cualquier fallo (red, status no-2xx, payload malformado, credencial
// ausente) se devuelve como error, nunca como panic.
type NewsSource interface {
	// Name retorna el nombre único de la fuente (ej: "newsapi", "finnhub")
	Name() string

	// Fetch ejecuta la fuente contra la consulta y retorna artículos
	// normalizados. Un error marca la fuente como fallida en el fan-out;
	// el resto de fuentes no se ve afectado.
	Fetch(ctx context.Context, query domain.NewsQuery) ([]*domain.Article, error)

	// Close libera recursos utilizados por la fuente.
	Close() error
}

// AdNetwork es el port de una red publicitaria.
type AdNetwork interface {
	// Name retorna el nombre único de la red (ej: "adsense")
	Name() string

	// LoadTimeMs retorna la latencia de carga configurada de la red.
	LoadTimeMs() int

	// FillRate retorna el fill rate configurado en [0,1].
	FillRate() float64

	// Request solicita una creatividad. Un error (incluida credencial
	// ausente o no-fill) pasa la selección a la siguiente red.
	Request(ctx context.Context, req domain.AdRequest) (*domain.AdCreative, error)

	// Close libera recursos utilizados por la red.
	Close() error
}

// SourceConfig contiene la configuración específica de una fuente.
type SourceConfig struct {
	// Enabled indica si la fuente está habilitada
	Enabled bool `yaml:"enabled"`

	// Timeout tiempo máximo por llamada upstream
	Timeout time.Duration `yaml:"timeout"`

	// Priority orden dentro del fan-out (mayor = antes en el merge)
	Priority int `yaml:"priority"`

	// APIKey credencial del upstream (vacía = la fuente corto-circuita
	// a missing_config sin intentar la llamada)
	APIKey string `yaml:"-"`

	// Custom configuración específica de la fuente (URLs de feeds, etc.)
	Custom map[string]interface{} `yaml:"custom"`
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:  true,
		Timeout:  5 * time.Second,
		Priority: 0,
		Custom:   make(map[string]interface{}),
	}
}

// NetworkConfig contiene la configuración de una red publicitaria.
type NetworkConfig struct {
	// Enabled indica si la red participa en la selección
	Enabled bool `yaml:"enabled"`

	// Priority orden configurado; desempata scores iguales
	Priority int `yaml:"priority"`

	// LoadTimeMs latencia de carga publicada por la red
	LoadTimeMs int `yaml:"load_time_ms"`

	// FillRate fill rate publicado en [0,1]
	FillRate float64 `yaml:"fill_rate"`

	// PublisherID credencial/publisher de la red
	PublisherID string `yaml:"-"`

	// Timeout tiempo máximo por petición de creatividad
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultNetworkConfig retorna una configuración por defecto.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Enabled:    true,
		Priority:   0,
		LoadTimeMs: 500,
		FillRate:   0.8,
		Timeout:    5 * time.Second,
	}
}

// SourceMetadata contiene metadatos sobre una fuente registrada.
type SourceMetadata struct {
	Name         string
	Description  string
	RequiresAuth bool

	// Priority orden por defecto dentro del fan-out
	Priority int

	// Categories categorías que la fuente sabe servir (vacío = todas)
	Categories []string
}

// NetworkMetadata contiene metadatos sobre una red registrada.
type NetworkMetadata struct {
	Name         string
	Description  string
	RequiresAuth bool
	Priority     int
}
