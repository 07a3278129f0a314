package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultAPIKeyHeader       = "X-Syn-Api-Key"
	defaultResetTokenTTL      = time.Hour
	defaultSweepInterval      = 15 * time.Minute
	defaultQueryTimeout       = 5 * time.Second
	defaultSlowQuery          = 200 * time.Millisecond
	defaultSendTimeout        = 10 * time.Second
	defaultPBKDF2Iterations   = 600_000
	defaultMailBaseURL        = "https://syn.loseardes77.dev"
	defaultMailFrom           = "no-reply@syn.loseardes77.dev"
	defaultSQLitePath         = "synnapse.db"

	// DisableAuthEnv is the operator escape hatch that turns the access gate off.
	DisableAuthEnv = "SYN_DISABLE_AUTH"
)

// Database drivers understood by the persistence layer.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Mail providers understood by the notification layer.
const (
	MailProviderSMTP = "smtp"
	MailProviderLog  = "log"
)

// PubSub providers understood by the event publisher.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Database DatabaseConfig `json:"database" yaml:"database"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	AccessGate AccessGateConfig `json:"accessGate" yaml:"accessGate"`

	Auth AuthConfig `json:"auth" yaml:"auth"`

	GoogleOAuth *GoogleOAuthConfig `json:"googleOAuth" yaml:"googleOAuth"`

	Mail MailConfig `json:"mail" yaml:"mail"`

	// PubSub configuration for auth event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// DatabaseConfig selects the storage backend and its per-call budget
type DatabaseConfig struct {
	Driver      string `json:"driver" yaml:"driver"`
	AutoMigrate bool   `json:"autoMigrate" yaml:"autoMigrate"`
	SQLite      struct {
		Path string `json:"path" yaml:"path"`
	} `json:"sqlite" yaml:"sqlite"`
	Timeouts struct {
		Query time.Duration `json:"query" yaml:"query"`

		// SlowQuery is the elapsed time above which a statement is logged at WARN.
		SlowQuery time.Duration `json:"slowQuery" yaml:"slowQuery"`
	} `json:"timeouts" yaml:"timeouts"`
}

// AccessGateConfig configures the shared-secret API key check
type AccessGateConfig struct {
	Secret   string `json:"secret" yaml:"secret"`
	Header   string `json:"header" yaml:"header"`
	Disabled bool   `json:"disabled" yaml:"disabled"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	PBKDF2Iterations int           `json:"pbkdf2Iterations" yaml:"pbkdf2Iterations"`
	ResetTokenTTL    time.Duration `json:"resetTokenTTL" yaml:"resetTokenTTL"`
	SweepInterval    time.Duration `json:"sweepInterval" yaml:"sweepInterval"`
}

type GoogleOAuthConfig struct {
	// ClientID is the audience expected in Google ID tokens. Empty disables verification.
	ClientID string `json:"clientId" yaml:"clientId"`
}

// MailConfig defines how password reset emails are delivered
type MailConfig struct {
	Provider    string        `json:"provider" yaml:"provider"`
	Host        string        `json:"host" yaml:"host"`
	Port        int           `json:"port" yaml:"port"`
	Username    string        `json:"username" yaml:"username"`
	Password    string        `json:"password" yaml:"password"`
	From        string        `json:"from" yaml:"from"`
	BaseURL     string        `json:"baseUrl" yaml:"baseUrl"`
	SendTimeout time.Duration `json:"sendTimeout" yaml:"sendTimeout"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// AuthDisabled reports whether the access gate has been switched off by config or by the operator env flag.
func (c *Config) AuthDisabled() bool {
	return c.AccessGate.Disabled || os.Getenv(DisableAuthEnv) == "1"
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// ACCESSGATE_SECRET -> accessGate.secret
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case "":
		c.Database.Driver = DriverSQLite
	case DriverSQLite, DriverPostgres:
	default:
		return errors.Errorf("unknown database driver: %s", c.Database.Driver)
	}
	if c.Database.Driver == DriverSQLite && c.Database.SQLite.Path == "" {
		c.Database.SQLite.Path = defaultSQLitePath
	}
	if c.Database.Driver == DriverPostgres && c.Postgres == nil {
		return errors.New("postgres driver selected but postgres section is missing")
	}
	if c.Database.Timeouts.Query <= 0 {
		c.Database.Timeouts.Query = defaultQueryTimeout
	}
	if c.Database.Timeouts.SlowQuery <= 0 {
		c.Database.Timeouts.SlowQuery = defaultSlowQuery
	}

	if c.AccessGate.Header == "" {
		c.AccessGate.Header = defaultAPIKeyHeader
	}
	if c.AccessGate.Secret == "" && !c.AuthDisabled() {
		return errors.New("accessGate.secret is required unless the gate is disabled")
	}

	if c.Auth.PBKDF2Iterations <= 0 {
		c.Auth.PBKDF2Iterations = defaultPBKDF2Iterations
	}
	if c.Auth.ResetTokenTTL <= 0 {
		c.Auth.ResetTokenTTL = defaultResetTokenTTL
	}
	if c.Auth.SweepInterval <= 0 {
		c.Auth.SweepInterval = defaultSweepInterval
	}

	if c.Mail.Provider == "" {
		c.Mail.Provider = MailProviderLog
	}
	if c.Mail.BaseURL == "" {
		c.Mail.BaseURL = defaultMailBaseURL
	}
	if c.Mail.From == "" {
		c.Mail.From = defaultMailFrom
	}
	if c.Mail.SendTimeout <= 0 {
		c.Mail.SendTimeout = defaultSendTimeout
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
