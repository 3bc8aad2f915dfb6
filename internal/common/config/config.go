// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Renderer RendererConfig `mapstructure:"renderer"`
	Document DocumentConfig `mapstructure:"document"`
	Email    EmailConfig    `mapstructure:"email"`
	Callback CallbackConfig `mapstructure:"callback"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	ServiceURL      string `mapstructure:"service_url"`      // public base URL used in callback file links
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// StorageConfig carries every directory the pipeline touches. Directories
// are created once at process start, never lazily inside the pipeline.
type StorageConfig struct {
	TempDir      string `mapstructure:"temp_dir"`      // rendered artifacts, ${certificateId}.pdf
	TemplatesDir string `mapstructure:"templates_dir"` // built-in default templates
	UploadsDir   string `mapstructure:"uploads_dir"`   // caller-supplied templates
}

type RendererConfig struct {
	ChromePath    string `mapstructure:"chrome_path"`    // empty means chromedp's default lookup
	Timeout       int    `mapstructure:"timeout"`        // milliseconds, per render
	MaxConcurrent int    `mapstructure:"max_concurrent"` // bound on live Chrome instances
}

// DocumentConfig holds substitution-time constants.
type DocumentConfig struct {
	CompanyName string `mapstructure:"company_name"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"` // "smtp" or "ses"
	From     string `mapstructure:"from"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	SES struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"ses"`
}

type CallbackConfig struct {
	Timeout int `mapstructure:"timeout"` // milliseconds
}

// CacheConfig holds settings for the template byte cache.
type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
