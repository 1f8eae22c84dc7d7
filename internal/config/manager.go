// Package config provides environment-sourced configuration management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"translator-go/internal/types"
	"translator-go/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Manager implements types.ConfigManager backed by environment variables.
// A .env file in the working directory is honored when present.
type Manager struct {
	server      types.ServerConfig
	log         types.LogConfig
	cors        types.CORSConfig
	performance types.PerformanceConfig
	keys        types.KeysConfig
	translate   types.TranslateConfig
	localModel  types.LocalModelConfig
	history     types.HistoryConfig
}

// NewManager creates a new configuration manager from the environment.
func NewManager() (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	m := &Manager{
		server: types.ServerConfig{
			Host:                    parseString("HOST", "0.0.0.0"),
			Port:                    parseInteger("PORT", 3001),
			ReadTimeout:             parseInteger("SERVER_READ_TIMEOUT", 60),
			WriteTimeout:            parseInteger("SERVER_WRITE_TIMEOUT", 120),
			IdleTimeout:             parseInteger("SERVER_IDLE_TIMEOUT", 120),
			GracefulShutdownTimeout: parseInteger("GRACEFUL_SHUTDOWN_TIMEOUT", 10),
		},
		log: types.LogConfig{
			Level:      parseString("LOG_LEVEL", "info"),
			Format:     parseString("LOG_FORMAT", "text"),
			EnableFile: parseBoolean("LOG_ENABLE_FILE", false),
			FilePath:   parseString("LOG_FILE_PATH", "./logs/translator.log"),
		},
		cors: types.CORSConfig{
			Enabled:          parseBoolean("ENABLE_CORS", true),
			AllowedOrigins:   parseArray("ALLOWED_ORIGINS", "*"),
			AllowedMethods:   parseArray("ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders:   parseArray("ALLOWED_HEADERS", "*"),
			AllowCredentials: parseBoolean("ALLOW_CREDENTIALS", false),
		},
		performance: types.PerformanceConfig{
			MaxConcurrentRequests: parseInteger("MAX_CONCURRENT_REQUESTS", 100),
		},
		keys: types.KeysConfig{
			APIKeys: parseAPIKeys(),
		},
		translate: types.TranslateConfig{
			DefaultSourceLang:   parseString("DEFAULT_SOURCE_LANG", "en"),
			DefaultTargetLang:   parseString("DEFAULT_TARGET_LANG", "ur"),
			UpstreamURL:         strings.TrimSuffix(parseString("GEMINI_UPSTREAM_URL", "https://generativelanguage.googleapis.com"), "/"),
			Model:               parseString("GEMINI_MODEL", "gemini-1.5-flash"),
			ConnectTimeout:      time.Duration(parseInteger("CONNECT_TIMEOUT", 15)) * time.Second,
			RequestTimeout:      time.Duration(parseInteger("REQUEST_TIMEOUT", 30)) * time.Second,
			MaxTransientRetries: parseInteger("MAX_TRANSIENT_RETRIES", 2),
		},
		localModel: types.LocalModelConfig{
			ModelDir: parseString("LOCAL_MODEL_DIR", "./models"),
		},
		history: types.HistoryConfig{
			Limit:      parseInteger("HISTORY_LIMIT", 20),
			SessionTTL: time.Duration(parseInteger("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return m, nil
}

// parseAPIKeys reads the credential list. GEMINI_API_KEYS (comma-separated,
// ordered) takes precedence; GEMINI_API_KEY is the single-key fallback. An
// empty result is valid and means "no remote capability".
func parseAPIKeys() []string {
	raw := os.Getenv("GEMINI_API_KEYS")
	if raw == "" {
		raw = os.Getenv("GEMINI_API_KEY")
	}
	return utils.SplitAndTrim(raw, ",")
}

// GetServerConfig returns HTTP server configuration
func (m *Manager) GetServerConfig() types.ServerConfig { return m.server }

// GetLogConfig returns logging configuration
func (m *Manager) GetLogConfig() types.LogConfig { return m.log }

// GetCORSConfig returns CORS configuration
func (m *Manager) GetCORSConfig() types.CORSConfig { return m.cors }

// GetPerformanceConfig returns performance configuration
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig { return m.performance }

// GetKeysConfig returns the credential pool configuration
func (m *Manager) GetKeysConfig() types.KeysConfig { return m.keys }

// GetTranslateConfig returns the remote translation client configuration
func (m *Manager) GetTranslateConfig() types.TranslateConfig { return m.translate }

// GetLocalModelConfig returns the local fallback engine configuration
func (m *Manager) GetLocalModelConfig() types.LocalModelConfig { return m.localModel }

// GetHistoryConfig returns conversation history configuration
func (m *Manager) GetHistoryConfig() types.HistoryConfig { return m.history }

// Validate checks configuration consistency.
func (m *Manager) Validate() error {
	if m.server.Port < 1 || m.server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", m.server.Port)
	}
	if m.history.Limit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", m.history.Limit)
	}
	if m.translate.MaxTransientRetries < 0 {
		return fmt.Errorf("MAX_TRANSIENT_RETRIES must not be negative, got %d", m.translate.MaxTransientRetries)
	}
	if m.translate.RequestTimeout < time.Second {
		return fmt.Errorf("REQUEST_TIMEOUT must be at least one second")
	}

	if _, err := language.Parse(m.translate.DefaultSourceLang); err != nil {
		return fmt.Errorf("invalid DEFAULT_SOURCE_LANG %q: %w", m.translate.DefaultSourceLang, err)
	}
	if _, err := language.Parse(m.translate.DefaultTargetLang); err != nil {
		return fmt.Errorf("invalid DEFAULT_TARGET_LANG %q: %w", m.translate.DefaultTargetLang, err)
	}
	if m.translate.DefaultSourceLang == m.translate.DefaultTargetLang {
		return fmt.Errorf("DEFAULT_SOURCE_LANG and DEFAULT_TARGET_LANG must differ")
	}

	return nil
}

// DisplayServerConfig logs the effective configuration at startup.
// Credential values never appear here, only the pool size.
func (m *Manager) DisplayServerConfig() {
	logrus.Info("Server Configuration:")
	logrus.Infof("  Listen: %s:%d", m.server.Host, m.server.Port)
	logrus.Infof("  Credential pool size: %d", len(m.keys.APIKeys))
	logrus.Infof("  Default direction: %s -> %s", m.translate.DefaultSourceLang, m.translate.DefaultTargetLang)
	logrus.Infof("  Remote model: %s", m.translate.Model)
	logrus.Infof("  Local model dir: %s", m.localModel.ModelDir)
	logrus.Infof("  History limit: %d (session TTL %v)", m.history.Limit, m.history.SessionTTL)
	logrus.Infof("  Log level: %s, format: %s", m.log.Level, m.log.Format)
}

// --- env parsing helpers ---

func parseString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseInteger(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logrus.Warnf("Invalid integer for %s: %q, using default %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func parseBoolean(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		logrus.Warnf("Invalid boolean for %s: %q, using default %t", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func parseArray(key, defaultValue string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = defaultValue
	}
	return utils.SplitAndTrim(raw, ",")
}
