package types

import "time"

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetServerConfig() ServerConfig
	GetLogConfig() LogConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetKeysConfig() KeysConfig
	GetTranslateConfig() TranslateConfig
	GetLocalModelConfig() LocalModelConfig
	GetHistoryConfig() HistoryConfig
	Validate() error
	DisplayServerConfig()
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
}

// KeysConfig represents the remote credential pool configuration.
// APIKeys preserves the configured order; rotation follows it.
type KeysConfig struct {
	APIKeys []string `json:"-"`
}

// TranslateConfig represents the remote translation client configuration
type TranslateConfig struct {
	DefaultSourceLang   string        `json:"default_source_lang"`
	DefaultTargetLang   string        `json:"default_target_lang"`
	UpstreamURL         string        `json:"upstream_url"`
	Model               string        `json:"model"`
	ConnectTimeout      time.Duration `json:"connect_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
	MaxTransientRetries int           `json:"max_transient_retries"`
}

// LocalModelConfig represents the local fallback engine configuration
type LocalModelConfig struct {
	ModelDir string `json:"model_dir"`
}

// HistoryConfig represents conversation history configuration
type HistoryConfig struct {
	Limit      int           `json:"limit"`
	SessionTTL time.Duration `json:"session_ttl"`
}
