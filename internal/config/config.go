package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"furitingoasis/growlight/internal/policy"
)

// Config represents the application configuration. It is read once at startup.
type Config struct {
	Light   LightConfig   `yaml:"light"`
	Climate ClimateConfig `yaml:"climate"`
	Relay   RelayConfig   `yaml:"relay"`
	Display DisplayConfig `yaml:"display"`
	Storage StorageConfig `yaml:"storage"`
	Loop    LoopConfig    `yaml:"loop"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// LightConfig contains the light sensor and light assessment settings
type LightConfig struct {
	OptimalLux   float64 `yaml:"optimalLux" env:"OPTIMAL_LIGHT_LEVEL" env-default:"40000"`
	ToleranceLux float64 `yaml:"toleranceLux" env:"LIGHT_LEVEL_TOLERANCE" env-default:"5000"`
	Address      int     `yaml:"address" env:"LIGHT_SENSOR_ADDRESS" env-default:"92"`
}

// ClimateConfig contains the temperature/humidity sensor settings
type ClimateConfig struct {
	MaxAttempts       uint          `yaml:"maxAttempts" env:"CLIMATE_MAX_ATTEMPTS" env-default:"5"`
	RetryDelay        time.Duration `yaml:"retryDelay" env:"CLIMATE_RETRY_DELAY" env-default:"2s"`
	MaxRetryDelay     time.Duration `yaml:"maxRetryDelay" env:"CLIMATE_MAX_RETRY_DELAY" env-default:"10s"`
	TemperatureOffset float64       `yaml:"temperatureOffset" env:"TEMPERATURE_OFFSET"`
	HumidityOffset    float64       `yaml:"humidityOffset" env:"HUMIDITY_OFFSET"`
}

// RelayConfig contains the grow light relay settings
type RelayConfig struct {
	// Pin is the header pin number; BCM 21 is header pin 40.
	Pin        string `yaml:"pin" env:"RELAY_PIN" env-default:"40"`
	Policy     string `yaml:"policy" env:"RELAY_POLICY" env-default:"schedule"`
	ActiveHigh bool   `yaml:"activeHigh" env:"RELAY_ACTIVE_HIGH"`
	DayStart   string `yaml:"dayStart" env:"DAY_START" env-default:"06:00"`
	DayEnd     string `yaml:"dayEnd" env:"DAY_END" env-default:"20:00"`
}

// DisplayConfig contains the display wiring
type DisplayConfig struct {
	SegmentAddress int    `yaml:"segmentAddress" env:"SEGMENT_ADDRESS" env-default:"112"`
	MatrixClockPin string `yaml:"matrixClockPin" env:"MATRIX_CLOCK_PIN" env-default:"23"`
	MatrixDataPin  string `yaml:"matrixDataPin" env:"MATRIX_DATA_PIN" env-default:"19"`
	MatrixCSPin    string `yaml:"matrixCsPin" env:"MATRIX_CS_PIN" env-default:"26"`
	MatrixModules  uint   `yaml:"matrixModules" env:"MATRIX_MODULES" env-default:"2"`
}

// StorageConfig contains the paths of both record sinks
type StorageConfig struct {
	CSVPath string `yaml:"csvPath" env:"CSV_PATH" env-default:"data.csv"`
	DBPath  string `yaml:"dbPath" env:"DB_PATH" env-default:"data.db"`
}

type LoopConfig struct {
	Interval time.Duration `yaml:"interval" env:"POLL_INTERVAL" env-default:"60s"`
}

// MQTTConfig contains the optional telemetry settings. An empty broker URL disables MQTT.
type MQTTConfig struct {
	BrokerURL     string        `yaml:"brokerUrl" env:"MQTT_BROKER_URL"`
	ClientID      string        `yaml:"clientId" env:"MQTT_CLIENT_ID" env-default:"growlight"`
	Username      string        `yaml:"username" env:"MQTT_USERNAME"`
	Password      string        `yaml:"password" env:"MQTT_PASSWORD"`
	TopicPrefix   string        `yaml:"topicPrefix" env:"MQTT_TOPIC_PREFIX" env-default:"farm/growlight"`
	MaxRetries    int           `yaml:"maxRetries" env:"MQTT_MAX_RETRIES" env-default:"3"`
	RetryInterval time.Duration `yaml:"retryInterval" env:"MQTT_RETRY_INTERVAL" env-default:"2s"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// Without a file only the environment and defaults are used.
func Load(configPath string) (*Config, error) {
	var cfg Config

	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(configPath, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Light.ToleranceLux < 0 {
		return fmt.Errorf("light level tolerance must not be negative, got %v", c.Light.ToleranceLux)
	}
	if c.Light.Address < 0x03 || c.Light.Address > 0x77 {
		return fmt.Errorf("light sensor address 0x%x is not a valid 7-bit i2c address", c.Light.Address)
	}
	if c.Display.SegmentAddress < 0x03 || c.Display.SegmentAddress > 0x77 {
		return fmt.Errorf("segment display address 0x%x is not a valid 7-bit i2c address", c.Display.SegmentAddress)
	}

	if c.Climate.RetryDelay < 0 || c.Climate.MaxRetryDelay < 0 {
		return fmt.Errorf("climate retry delays must not be negative")
	}

	if strings.TrimSpace(c.Relay.Pin) == "" {
		return fmt.Errorf("relay pin is required")
	}
	if _, err := c.RelayPolicy(); err != nil {
		return err
	}

	if c.Loop.Interval < time.Second {
		return fmt.Errorf("poll interval must be at least 1 second, got %s", c.Loop.Interval)
	}

	if c.Storage.CSVPath == "" || c.Storage.DBPath == "" {
		return fmt.Errorf("csv and database paths are required")
	}

	if c.MQTT.BrokerURL != "" && c.MQTT.MaxRetries < 1 {
		return fmt.Errorf("mqtt max retries must be at least 1")
	}

	return ValidateLogging(&c.Logging)
}

// RelayPolicy parses the relay policy and day window.
func (c *Config) RelayPolicy() (policy.Relay, error) {
	variant, err := policy.ParseVariant(c.Relay.Policy)
	if err != nil {
		return policy.Relay{}, err
	}
	start, err := policy.ParseClockTime(c.Relay.DayStart)
	if err != nil {
		return policy.Relay{}, fmt.Errorf("day start: %w", err)
	}
	end, err := policy.ParseClockTime(c.Relay.DayEnd)
	if err != nil {
		return policy.Relay{}, fmt.Errorf("day end: %w", err)
	}
	if start.Hour*60+start.Minute >= end.Hour*60+end.Minute {
		return policy.Relay{}, fmt.Errorf("day start %s must be before day end %s", start, end)
	}
	return policy.Relay{Variant: variant, Day: policy.Window{Start: start, End: end}}, nil
}

// PrintConfig prints the configuration (masking sensitive fields)
func (c *Config) PrintConfig(logger *zap.Logger) {
	logger.Info("configuration loaded",
		zap.Float64("optimal_lux", c.Light.OptimalLux),
		zap.Float64("tolerance_lux", c.Light.ToleranceLux),
		zap.Uint("climate_max_attempts", c.Climate.MaxAttempts),
		zap.Duration("climate_retry_delay", c.Climate.RetryDelay),
		zap.String("relay_pin", c.Relay.Pin),
		zap.String("relay_policy", c.Relay.Policy),
		zap.Bool("relay_active_high", c.Relay.ActiveHigh),
		zap.String("day_start", c.Relay.DayStart),
		zap.String("day_end", c.Relay.DayEnd),
		zap.Duration("interval", c.Loop.Interval),
		zap.String("csv_path", c.Storage.CSVPath),
		zap.String("db_path", c.Storage.DBPath),
		zap.String("mqtt_broker", c.MQTT.BrokerURL),
		zap.Bool("mqtt_password_set", c.MQTT.Password != ""),
		zap.String("log_format", c.Logging.Format),
		zap.String("log_level", c.Logging.Level),
	)
}
