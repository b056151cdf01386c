package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/execpartners/bpsim/internal/save"
	"github.com/execpartners/bpsim/internal/scoring"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort     = 8080
	DefaultSessionTTL   = 30 * time.Minute
	DefaultPushInterval = 5 * time.Second
	DefaultWorksheet    = "Submissions"
	DefaultCompany      = "Executive Partners"
	DefaultSaveMode     = "on_report"
)

// Config is the full configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Sheet   SheetConfig    `yaml:"sheet"`
	Save    SaveConfig     `yaml:"save"`
	Report  ReportConfig   `yaml:"report"`
	Scoring scoring.Config `yaml:"scoring"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures the reviewer-PIN gate in front of the API.
	Auth AuthConfig `yaml:"auth"`

	// Session controls in-memory session retention.
	Session SessionConfig `yaml:"session"`

	// PushInterval is how often the WebSocket hub pushes evaluation updates
	// (default 5s).
	PushInterval time.Duration `yaml:"push_interval"`
}

// AuthConfig controls reviewer authentication.
type AuthConfig struct {
	// Mode is one of: pin | none.
	Mode string `yaml:"mode"`

	// PINEnv is the name of the environment variable that holds the expected
	// reviewer PIN. Used when Mode == "pin".
	PINEnv string `yaml:"pin_env"`

	// Header is the HTTP header name to read the PIN from.
	// Defaults to "x-reviewer-pin" if empty.
	Header string `yaml:"header"`
}

// PIN returns the expected reviewer PIN resolved from the environment.
func (a AuthConfig) PIN() string {
	if a.PINEnv == "" {
		return ""
	}
	return os.Getenv(a.PINEnv)
}

// SessionConfig controls in-memory session retention.
type SessionConfig struct {
	// TTL is how long an idle session is kept before eviction. Default: 30m.
	TTL time.Duration `yaml:"ttl"`
}

// SheetConfig locates the shared spreadsheet and its credentials.
type SheetConfig struct {
	// SpreadsheetID identifies the spreadsheet; empty disables persistence.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// Worksheet is the tab rows are appended to (default "Submissions").
	Worksheet string `yaml:"worksheet"`

	// CredentialsEnv is the name of the environment variable holding the raw
	// service-account key JSON. Takes precedence over CredentialsFile.
	CredentialsEnv string `yaml:"credentials_env"`

	// CredentialsFile is a path to a service-account key file, used for
	// local development.
	CredentialsFile string `yaml:"credentials_file"`
}

// Credentials returns the service-account key resolved from the environment.
func (s SheetConfig) Credentials() []byte {
	if s.CredentialsEnv == "" {
		return nil
	}
	if v := os.Getenv(s.CredentialsEnv); v != "" {
		return []byte(v)
	}
	return nil
}

// SaveConfig selects the auto-save behaviour.
type SaveConfig struct {
	// Mode is one of: manual | on_report | always | off (default on_report).
	Mode string `yaml:"mode"`
}

// ReportConfig brands the generated PDF.
type ReportConfig struct {
	// Company is the name on the report header, watermark and footer.
	Company string `yaml:"company"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:     DefaultHTTPPort,
			Session:      SessionConfig{TTL: DefaultSessionTTL},
			PushInterval: DefaultPushInterval,
		},
		Sheet:   SheetConfig{Worksheet: DefaultWorksheet},
		Save:    SaveConfig{Mode: DefaultSaveMode},
		Report:  ReportConfig{Company: DefaultCompany},
		Scoring: scoring.DefaultConfig(),
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "pin", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want pin|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Session.TTL < 0 {
		return fmt.Errorf("server.session.ttl must not be negative")
	}
	if cfg.Server.PushInterval <= 0 {
		return fmt.Errorf("server.push_interval must be positive")
	}
	if _, err := save.ParseMode(cfg.Save.Mode); err != nil {
		return err
	}
	if cfg.Scoring.DefaultAUMThresholdM <= 0 {
		return fmt.Errorf("scoring.default_aum_threshold_m must be positive")
	}
	if cfg.Scoring.TolerancePct < 0 {
		return fmt.Errorf("scoring.tolerance_pct must not be negative")
	}
	if s := cfg.Scoring.TargetSegment; s != "" {
		if _, ok := cfg.Scoring.SegmentThresholdsM[s]; !ok {
			return fmt.Errorf("scoring.target_segment %q has no entry in scoring.segment_thresholds_m", s)
		}
	}
	return nil
}
