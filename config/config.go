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
	defaultPersistenceDriver  = "postgres"
	defaultSweepInterval      = 24 * time.Hour
	defaultSweepBatchSize     = 200
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
		RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
	} `json:"http" yaml:"http"`

	// Worker configuration for the push worker server
	Worker struct {
		Port int `json:"port" yaml:"port"`
	} `json:"worker" yaml:"worker"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Persistence selects the storage driver
	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	// Firebase configuration for push notifications
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// QRCode configuration for deposit QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// Wallet configuration for deposits
	Wallet WalletConfig `json:"wallet" yaml:"wallet"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Economy holds the tunable rates of the simulation
	Economy *EconomyConfig `json:"economy" yaml:"economy"`

	// Sweep configuration for scheduled income collection
	Sweep SweepConfig `json:"sweep" yaml:"sweep"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// RateLimitConfig defines the per-client request rate of the API
type RateLimitConfig struct {
	// RequestsPerSecond of zero disables rate limiting
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// PersistenceConfig defines which storage backs the repositories
type PersistenceConfig struct {
	// Driver is "postgres" or "memory"
	Driver string `json:"driver" yaml:"driver"`

	// AutoMigrate creates or updates tables on start (postgres only)
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// FirebaseConfig defines Firebase configuration for push notifications
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// WalletConfig defines where players send deposits
type WalletConfig struct {
	Network         string `json:"network" yaml:"network"`
	ReceiverAddress string `json:"receiverAddress" yaml:"receiverAddress"`
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

// EconomyConfig defines the rates of the simulation. Static data such as the
// business catalog and level table is compiled in.
type EconomyConfig struct {
	MapSize              int                   `json:"mapSize" yaml:"mapSize"`
	TaxRate              float64               `json:"taxRate" yaml:"taxRate"`
	ProgressiveTax       ProgressiveTaxConfig  `json:"progressiveTax" yaml:"progressiveTax"`
	ResaleCommission     float64               `json:"resaleCommission" yaml:"resaleCommission"`
	DemolishFeeRate      float64               `json:"demolishFeeRate" yaml:"demolishFeeRate"`
	WithdrawalCommission float64               `json:"withdrawalCommission" yaml:"withdrawalCommission"`
	MinWithdrawal        float64               `json:"minWithdrawal" yaml:"minWithdrawal"`
	TradeCommission      float64               `json:"tradeCommission" yaml:"tradeCommission"`
	MaterialUnitPrice    float64               `json:"materialUnitPrice" yaml:"materialUnitPrice"`
	ConnectionRadius     int                   `json:"connectionRadius" yaml:"connectionRadius"`
	ConnectionBonus      ConnectionBonusConfig `json:"connectionBonus" yaml:"connectionBonus"`
	CollectDebounce      time.Duration         `json:"collectDebounce" yaml:"collectDebounce"`
	ResaleFloor          ResaleFloorConfig     `json:"resaleFloor" yaml:"resaleFloor"`
}

// ProgressiveTaxConfig enables market-share based tax brackets
type ProgressiveTaxConfig struct {
	Enabled  bool               `json:"enabled" yaml:"enabled"`
	Brackets []TaxBracketConfig `json:"brackets" yaml:"brackets"`
}

// TaxBracketConfig applies Rate once a player's market share reaches Share
type TaxBracketConfig struct {
	Share float64 `json:"share" yaml:"share"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

// ConnectionBonusConfig sets the per-connection income bonus for each caller
type ConnectionBonusConfig struct {
	OnDemand    float64 `json:"onDemand" yaml:"onDemand"`
	AutoCollect float64 `json:"autoCollect" yaml:"autoCollect"`
	Projection  float64 `json:"projection" yaml:"projection"`
}

// ResaleFloorConfig defines the minimum resale price fractions
type ResaleFloorConfig struct {
	BaseFraction       float64 `json:"baseFraction" yaml:"baseFraction"`
	InvestmentFraction float64 `json:"investmentFraction" yaml:"investmentFraction"`
}

// SweepConfig defines the scheduled income collection
type SweepConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	Interval      time.Duration `json:"interval" yaml:"interval"`
	BatchSize     int           `json:"batchSize" yaml:"batchSize"`
	RatePerSecond float64       `json:"ratePerSecond" yaml:"ratePerSecond"`
	// RunOnce performs a single pass and shuts the worker down
	RunOnce bool `json:"runOnce" yaml:"runOnce"`
}

// DefaultEconomyConfig returns the reference economy rates.
func DefaultEconomyConfig() *EconomyConfig {
	return &EconomyConfig{
		MapSize: 100,
		TaxRate: 0.13,
		ProgressiveTax: ProgressiveTaxConfig{
			Brackets: []TaxBracketConfig{
				{Share: 0.15, Rate: 0.18},
				{Share: 0.20, Rate: 0.25},
				{Share: 0.25, Rate: 0.35},
			},
		},
		ResaleCommission:     0.15,
		DemolishFeeRate:      0.05,
		WithdrawalCommission: 0.03,
		MinWithdrawal:        1.0,
		TradeCommission:      0,
		MaterialUnitPrice:    0.005,
		ConnectionRadius:     5,
		ConnectionBonus: ConnectionBonusConfig{
			OnDemand:    0.05,
			AutoCollect: 0.05,
			Projection:  0.05,
		},
		CollectDebounce: time.Hour,
		ResaleFloor: ResaleFloorConfig{
			BaseFraction:       0.5,
			InvestmentFraction: 0.5,
		},
	}
}

// WithDefaults fills every unset (zero) field from DefaultEconomyConfig so a
// partial economy section only overrides the keys it names. A zero rate is
// treated as unset.
func (ec *EconomyConfig) WithDefaults() *EconomyConfig {
	def := DefaultEconomyConfig()

	fillInt(&ec.MapSize, def.MapSize)
	fillFloat(&ec.TaxRate, def.TaxRate)
	fillFloat(&ec.ResaleCommission, def.ResaleCommission)
	fillFloat(&ec.DemolishFeeRate, def.DemolishFeeRate)
	fillFloat(&ec.WithdrawalCommission, def.WithdrawalCommission)
	fillFloat(&ec.MinWithdrawal, def.MinWithdrawal)
	fillFloat(&ec.TradeCommission, def.TradeCommission)
	fillFloat(&ec.MaterialUnitPrice, def.MaterialUnitPrice)
	fillInt(&ec.ConnectionRadius, def.ConnectionRadius)
	fillFloat(&ec.ConnectionBonus.OnDemand, def.ConnectionBonus.OnDemand)
	fillFloat(&ec.ConnectionBonus.AutoCollect, def.ConnectionBonus.AutoCollect)
	fillFloat(&ec.ConnectionBonus.Projection, def.ConnectionBonus.Projection)
	fillFloat(&ec.ResaleFloor.BaseFraction, def.ResaleFloor.BaseFraction)
	fillFloat(&ec.ResaleFloor.InvestmentFraction, def.ResaleFloor.InvestmentFraction)
	if ec.CollectDebounce <= 0 {
		ec.CollectDebounce = def.CollectDebounce
	}
	if len(ec.ProgressiveTax.Brackets) == 0 {
		ec.ProgressiveTax.Brackets = def.ProgressiveTax.Brackets
	}

	return ec
}

func fillFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func fillInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
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

	// Try to find and load the config file
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

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
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

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Persistence.Driver == "" {
		cfg.Persistence.Driver = defaultPersistenceDriver
	}
	if cfg.Economy == nil {
		cfg.Economy = DefaultEconomyConfig()
	}
	cfg.Economy.WithDefaults()
	if cfg.Sweep.Interval <= 0 {
		cfg.Sweep.Interval = defaultSweepInterval
	}
	if cfg.Sweep.BatchSize <= 0 {
		cfg.Sweep.BatchSize = defaultSweepBatchSize
	}
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
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
