// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"finsight/internal/core/ports"
)

// Config es la configuración completa del servicio.
type Config struct {
	// Server
	Server Server `yaml:"server"`

	// Log
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Sources: mapa de configuraciones por fuente de noticias.
	// Key = source name (ej: "newsapi", "finnhub", "rssfeed")
	Sources map[string]ports.SourceConfig `yaml:"sources"`

	// Networks: mapa de configuraciones por ad network.
	// Key = network name (ej: "adsense", "medianet", "propeller")
	Networks map[string]ports.NetworkConfig `yaml:"networks"`

	// Forex configuración del cliente de tipos de cambio. No entra en
	// el registry de fuentes: solo sirve al pass-through /api/forex.
	Forex ports.SourceConfig `yaml:"forex"`

	// CacheTTL vida de las respuestas cacheadas de los endpoints
	// pass-through (quote, forex, recommendations)
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// WidgetDir directorio con los assets estáticos del ad widget
	WidgetDir string `yaml:"widget_dir"`

	PrintVersion bool   `yaml:"-"`
	ConfigFile   string `yaml:"-"`
}

// Server agrupa los parámetros del servidor HTTP.
type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr retorna la dirección de escucha host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},

		LogLevel: "info",
		LogJSON:  false,

		Sources: map[string]ports.SourceConfig{
			"newsapi": {
				Enabled:  true,
				Timeout:  5 * time.Second,
				Priority: 10,
				Custom:   make(map[string]interface{}),
			},
			"marketaux": {
				Enabled:  true,
				Timeout:  5 * time.Second,
				Priority: 8,
				Custom:   make(map[string]interface{}),
			},
			"finnhub": {
				Enabled:  true,
				Timeout:  5 * time.Second,
				Priority: 6,
				Custom:   make(map[string]interface{}),
			},
			"rssfeed": {
				Enabled:  true,
				Timeout:  8 * time.Second,
				Priority: 5,
				Custom:   make(map[string]interface{}),
			},
			"cryptocompare": {
				Enabled:  true,
				Timeout:  5 * time.Second,
				Priority: 4,
				Custom:   make(map[string]interface{}),
			},
			"yahoohtml": {
				Enabled:  true,
				Timeout:  8 * time.Second,
				Priority: 2,
				Custom:   make(map[string]interface{}),
			},
		},

		Networks: map[string]ports.NetworkConfig{
			"adsense": {
				Enabled:    true,
				Priority:   10,
				LoadTimeMs: 800,
				FillRate:   0.95,
				Timeout:    3 * time.Second,
			},
			"medianet": {
				Enabled:    true,
				Priority:   6,
				LoadTimeMs: 500,
				FillRate:   0.85,
				Timeout:    3 * time.Second,
			},
			"propeller": {
				Enabled:    true,
				Priority:   3,
				LoadTimeMs: 300,
				FillRate:   0.70,
				Timeout:    3 * time.Second,
			},
		},

		Forex: ports.SourceConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Custom:  make(map[string]interface{}),
		},

		CacheTTL:  30 * time.Second,
		WidgetDir: "web/static",
	}
}

// credentialEnv mapea cada fuente/red a la variable de entorno que lleva
// su credencial. Las credenciales solo entran por entorno, nunca por
// fichero ni flags.
var credentialEnv = map[string]string{
	"newsapi":       "NEWSAPI_KEY",
	"marketaux":     "MARKETAUX_KEY",
	"finnhub":       "FINNHUB_KEY",
	"cryptocompare": "CRYPTOCOMPARE_KEY",
	"exchangerate":  "EXCHANGERATE_KEY",
	"adsense":       "ADSENSE_PUBLISHER_ID",
	"medianet":      "MEDIANET_PUBLISHER_ID",
	"propeller":     "PROPELLER_ZONE_ID",
}

// Load inicializa la configuración. Precedencia creciente:
// defaults -> fichero YAML -> ENV -> flags.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// El path del fichero puede venir de ENV o del flag --config;
	// se pre-escanean los args para poder cargar el fichero antes
	// de aplicar los overrides.
	cfg.ConfigFile = getenv("FINSIGHT_CONFIG", "")
	if path := scanConfigFlag(args); path != "" {
		cfg.ConfigFile = path
	}
	if cfg.ConfigFile != "" {
		if err := loadFromFile(&cfg, cfg.ConfigFile); err != nil {
			return cfg, fmt.Errorf("loading config file %s: %w", cfg.ConfigFile, err)
		}
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, nil
}

// loadFromFile aplica un fichero YAML sobre la configuración actual.
// Los campos de duración aceptan la sintaxis de time.ParseDuration
// ("5s", "1m30s"); yaml.v3 no la soporta de serie, así que el fichero
// se decodifica vía un espejo con wrappers de duración.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file fileConfig
	file.fromConfig(cfg)
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	file.apply(cfg)
	return nil
}

// duration envuelve time.Duration para aceptar "5s" en YAML.
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = duration(parsed)
	return nil
}

type fileServer struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeout     duration `yaml:"read_timeout"`
	WriteTimeout    duration `yaml:"write_timeout"`
	ShutdownTimeout duration `yaml:"shutdown_timeout"`
}

// fileSource y fileNetwork usan punteros: una clave ausente en el
// fichero deja el default intacto en vez de ponerlo a cero.
type fileSource struct {
	Enabled  *bool                  `yaml:"enabled"`
	Timeout  *duration              `yaml:"timeout"`
	Priority *int                   `yaml:"priority"`
	Custom   map[string]interface{} `yaml:"custom"`
}

type fileNetwork struct {
	Enabled    *bool     `yaml:"enabled"`
	Priority   *int      `yaml:"priority"`
	LoadTimeMs *int      `yaml:"load_time_ms"`
	FillRate   *float64  `yaml:"fill_rate"`
	Timeout    *duration `yaml:"timeout"`
}

type fileConfig struct {
	Server    fileServer             `yaml:"server"`
	LogLevel  string                 `yaml:"log_level"`
	LogJSON   bool                   `yaml:"log_json"`
	Sources   map[string]fileSource  `yaml:"sources"`
	Networks  map[string]fileNetwork `yaml:"networks"`
	Forex     fileSource             `yaml:"forex"`
	CacheTTL  duration               `yaml:"cache_ttl"`
	WidgetDir string                 `yaml:"widget_dir"`
}

// fromConfig siembra el espejo con los valores actuales para que las
// claves ausentes en el fichero conserven sus defaults.
func (f *fileConfig) fromConfig(cfg *Config) {
	f.Server = fileServer{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     duration(cfg.Server.ReadTimeout),
		WriteTimeout:    duration(cfg.Server.WriteTimeout),
		ShutdownTimeout: duration(cfg.Server.ShutdownTimeout),
	}
	f.LogLevel = cfg.LogLevel
	f.LogJSON = cfg.LogJSON
	f.CacheTTL = duration(cfg.CacheTTL)
	f.WidgetDir = cfg.WidgetDir
}

// apply vuelca el espejo decodificado sobre la configuración real.
func (f *fileConfig) apply(cfg *Config) {
	cfg.Server.Host = f.Server.Host
	cfg.Server.Port = f.Server.Port
	cfg.Server.ReadTimeout = time.Duration(f.Server.ReadTimeout)
	cfg.Server.WriteTimeout = time.Duration(f.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = time.Duration(f.Server.ShutdownTimeout)
	cfg.LogLevel = f.LogLevel
	cfg.LogJSON = f.LogJSON
	cfg.CacheTTL = time.Duration(f.CacheTTL)
	cfg.WidgetDir = f.WidgetDir
	cfg.Forex = applySource(cfg.Forex, f.Forex)

	for name, src := range f.Sources {
		out, ok := cfg.Sources[name]
		if !ok {
			out = ports.DefaultSourceConfig()
		}
		cfg.Sources[name] = applySource(out, src)
	}
	for name, net := range f.Networks {
		out, ok := cfg.Networks[name]
		if !ok {
			out = ports.DefaultNetworkConfig()
		}
		if net.Enabled != nil {
			out.Enabled = *net.Enabled
		}
		if net.Priority != nil {
			out.Priority = *net.Priority
		}
		if net.LoadTimeMs != nil {
			out.LoadTimeMs = *net.LoadTimeMs
		}
		if net.FillRate != nil {
			out.FillRate = *net.FillRate
		}
		if net.Timeout != nil {
			out.Timeout = time.Duration(*net.Timeout)
		}
		cfg.Networks[name] = out
	}
}

func applySource(out ports.SourceConfig, src fileSource) ports.SourceConfig {
	if src.Enabled != nil {
		out.Enabled = *src.Enabled
	}
	if src.Timeout != nil {
		out.Timeout = time.Duration(*src.Timeout)
	}
	if src.Priority != nil {
		out.Priority = *src.Priority
	}
	if src.Custom != nil {
		out.Custom = src.Custom
	}
	return out
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("FINSIGHT_HOST", ""); v != "" {
		cfg.Server.Host = v
	}
	if v := getenv("FINSIGHT_PORT", ""); v != "" {
		cfg.Server.Port = parseInt(v, cfg.Server.Port)
	}
	if v := getenv("FINSIGHT_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("FINSIGHT_LOG_JSON", ""); v != "" {
		cfg.LogJSON = parseBool(v)
	}
	if v := getenv("FINSIGHT_CACHE_TTL", ""); v != "" {
		cfg.CacheTTL = time.Duration(parseInt(v, int(cfg.CacheTTL.Seconds()))) * time.Second
	}
	if v := getenv("FINSIGHT_WIDGET_DIR", ""); v != "" {
		cfg.WidgetDir = v
	}

	// Sources config desde ENV
	// Formato: FINSIGHT_SOURCES_NEWSAPI_ENABLED=true
	//          FINSIGHT_SOURCES_NEWSAPI_PRIORITY=10
	//          FINSIGHT_SOURCES_NEWSAPI_TIMEOUT=5
	for name := range cfg.Sources {
		prefix := fmt.Sprintf("FINSIGHT_SOURCES_%s_", strings.ToUpper(name))

		sourceCfg := cfg.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sourceCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			sourceCfg.Priority = parseInt(v, sourceCfg.Priority)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sourceCfg.Timeout = time.Duration(parseInt(v, int(sourceCfg.Timeout.Seconds()))) * time.Second
		}

		cfg.Sources[name] = sourceCfg
	}

	// Networks config desde ENV
	// Formato: FINSIGHT_NETWORKS_ADSENSE_FILLRATE=0.9
	for name := range cfg.Networks {
		prefix := fmt.Sprintf("FINSIGHT_NETWORKS_%s_", strings.ToUpper(name))

		netCfg := cfg.Networks[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			netCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			netCfg.Priority = parseInt(v, netCfg.Priority)
		}
		if v := getenv(prefix+"LOADTIME", ""); v != "" {
			netCfg.LoadTimeMs = parseInt(v, netCfg.LoadTimeMs)
		}
		if v := getenv(prefix+"FILLRATE", ""); v != "" {
			netCfg.FillRate = parseFloat(v, netCfg.FillRate)
		}

		cfg.Networks[name] = netCfg
	}

	// Credenciales: solo desde entorno
	for name, envKey := range credentialEnv {
		v := getenv(envKey, "")
		if v == "" {
			continue
		}
		if name == "exchangerate" {
			cfg.Forex.APIKey = v
			continue
		}
		if sourceCfg, ok := cfg.Sources[name]; ok {
			sourceCfg.APIKey = v
			cfg.Sources[name] = sourceCfg
		}
		if netCfg, ok := cfg.Networks[name]; ok {
			netCfg.PublisherID = v
			cfg.Networks[name] = netCfg
		}
	}
}

// loadFromFlags parsea flags de CLI (overrides de ENV y fichero).
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("finsight", pflag.ContinueOnError)

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path del fichero de configuración YAML")
	fs.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Host de escucha del servidor HTTP")
	fs.IntVar(&cfg.Server.Port, "port", cfg.Server.Port, "Puerto de escucha del servidor HTTP")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Nivel de log (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Emitir logs en JSON en lugar de consola")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Imprimir versión y salir")

	// Source y network configs (solo enabled y priority via flags, el
	// resto via ENV o fichero). Los valores de mapa son copias, así que
	// los flags se atan a holders y se vuelcan tras el Parse.
	sourceHolders := make(map[string]*ports.SourceConfig, len(cfg.Sources))
	for name := range cfg.Sources {
		sourceCfg := cfg.Sources[name]
		holder := &sourceCfg
		fs.BoolVar(&holder.Enabled, fmt.Sprintf("src.%s", name), holder.Enabled,
			fmt.Sprintf("Habilitar fuente %s", name))
		fs.IntVar(&holder.Priority, fmt.Sprintf("src.%s.priority", name), holder.Priority,
			fmt.Sprintf("Prioridad de fuente %s (mayor = antes en el merge)", name))
		sourceHolders[name] = holder
	}

	netHolders := make(map[string]*ports.NetworkConfig, len(cfg.Networks))
	for name := range cfg.Networks {
		netCfg := cfg.Networks[name]
		holder := &netCfg
		fs.BoolVar(&holder.Enabled, fmt.Sprintf("net.%s", name), holder.Enabled,
			fmt.Sprintf("Habilitar red %s", name))
		fs.IntVar(&holder.Priority, fmt.Sprintf("net.%s.priority", name), holder.Priority,
			fmt.Sprintf("Prioridad de red %s (desempate de scores)", name))
		netHolders[name] = holder
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for name, holder := range sourceHolders {
		cfg.Sources[name] = *holder
	}
	for name, holder := range netHolders {
		cfg.Networks[name] = *holder
	}
	return nil
}

// scanConfigFlag busca --config en los args sin parsear el resto.
func scanConfigFlag(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func normalize(c *Config) {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	for name, sourceCfg := range c.Sources {
		if sourceCfg.Timeout <= 0 {
			sourceCfg.Timeout = 5 * time.Second
		}
		if sourceCfg.Custom == nil {
			sourceCfg.Custom = make(map[string]interface{})
		}
		c.Sources[name] = sourceCfg
	}

	if c.Forex.Timeout <= 0 {
		c.Forex.Timeout = 5 * time.Second
	}

	for name, netCfg := range c.Networks {
		if netCfg.FillRate < 0 {
			netCfg.FillRate = 0
		}
		if netCfg.FillRate > 1 {
			netCfg.FillRate = 1
		}
		if netCfg.LoadTimeMs < 0 {
			netCfg.LoadTimeMs = 0
		}
		if netCfg.Timeout <= 0 {
			netCfg.Timeout = 3 * time.Second
		}
		c.Networks[name] = netCfg
	}
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
