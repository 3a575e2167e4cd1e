package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/afroash/dht-alert/internal/models"
)

// Defaults match the board wiring: DHT11 on GPIO3, LED on GPIO1, alert above 35°C.
const (
	DefaultSensorPin     = 3
	DefaultLEDPin        = 1
	DefaultLEDChip       = "gpiochip0"
	DefaultThreshold     = 35.0
	DefaultReadInterval  = 2 * time.Second
	DefaultSettleDelay   = 3 * time.Second
	DefaultBlinkInterval = 100 * time.Millisecond
	DefaultBlinkCount    = 3
)

// Config holds all configuration for the alert daemon
type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	LED     LEDConfig     `yaml:"led"`
	Alert   AlertConfig   `yaml:"alert"`
	Logging LoggingConfig `yaml:"logging"`
}

// SensorConfig contains sensor-specific settings
type SensorConfig struct {
	ID           string        `yaml:"id"`
	Type         string        `yaml:"type"`
	GPIOPin      int           `yaml:"gpio_pin"`
	ReadInterval time.Duration `yaml:"read_interval"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	MaxRetries   int           `yaml:"max_retries"`
}

// LEDConfig contains the alert LED wiring and the distress pattern
type LEDConfig struct {
	// DryRun logs LED changes instead of driving a GPIO line.
	DryRun        bool          `yaml:"dry_run"`
	Chip          string        `yaml:"chip"`
	GPIOPin       int           `yaml:"gpio_pin"`
	BlinkInterval time.Duration `yaml:"blink_interval"`
	BlinkCount    int           `yaml:"blink_count"`
	// RestoreAfterBlink turns the LED back on after a distress pattern
	// while the alert is active. Defaults to true.
	RestoreAfterBlink *bool `yaml:"restore_after_blink"`
}

// AlertConfig contains the alert threshold in degrees Celsius
type AlertConfig struct {
	Threshold *float64 `yaml:"threshold"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// LoadConfig loads configuration from a YAML file. An empty path yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if path != "" {
		yamlData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(yamlData, &config); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	config.ApplyDefaults()
	config.OverrideFromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// ApplyDefaults sets default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.Sensor.ID == "" {
		c.Sensor.ID = "dht11"
	}
	if c.Sensor.Type == "" {
		c.Sensor.Type = "DHT11"
	}
	if c.Sensor.GPIOPin == 0 {
		c.Sensor.GPIOPin = DefaultSensorPin
	}
	if c.Sensor.ReadInterval == 0 {
		c.Sensor.ReadInterval = DefaultReadInterval
	}
	if c.Sensor.SettleDelay == 0 {
		c.Sensor.SettleDelay = DefaultSettleDelay
	}
	if c.Sensor.MaxRetries == 0 {
		c.Sensor.MaxRetries = 3
	}
	if c.LED.Chip == "" {
		c.LED.Chip = DefaultLEDChip
	}
	if c.LED.GPIOPin == 0 {
		c.LED.GPIOPin = DefaultLEDPin
	}
	if c.LED.BlinkInterval == 0 {
		c.LED.BlinkInterval = DefaultBlinkInterval
	}
	if c.LED.BlinkCount == 0 {
		c.LED.BlinkCount = DefaultBlinkCount
	}
	if c.LED.RestoreAfterBlink == nil {
		restore := true
		c.LED.RestoreAfterBlink = &restore
	}
	if c.Alert.Threshold == nil {
		threshold := DefaultThreshold
		c.Alert.Threshold = &threshold
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// OverrideFromEnv overrides config values from environment variables
func (c *Config) OverrideFromEnv() {
	if v := os.Getenv("SENSOR_ID"); v != "" {
		c.Sensor.ID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Sensor.ID == "" {
		return fmt.Errorf("sensor ID is required")
	}
	if c.Sensor.GPIOPin <= 0 {
		return fmt.Errorf("sensor GPIO pin must be greater than 0")
	}
	if c.LED.GPIOPin <= 0 {
		return fmt.Errorf("LED GPIO pin must be greater than 0")
	}
	if !c.LED.DryRun && c.LED.GPIOPin == c.Sensor.GPIOPin {
		return fmt.Errorf("LED and sensor cannot share GPIO pin %d", c.LED.GPIOPin)
	}
	if c.Sensor.ReadInterval < 1*time.Second {
		return fmt.Errorf("read interval must be at least 1 second")
	}
	if c.Sensor.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.Sensor.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	if c.LED.BlinkInterval <= 0 {
		return fmt.Errorf("blink interval must be positive")
	}
	if c.LED.BlinkCount < 1 {
		return fmt.Errorf("blink count must be at least 1")
	}
	if c.Alert.Threshold == nil {
		return fmt.Errorf("alert threshold is required")
	}
	if t := *c.Alert.Threshold; math.IsNaN(t) || t < -20 || t > 60 {
		return fmt.Errorf("alert threshold %.1f°C outside sensor range -20..60°C", t)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("log format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// Threshold returns the alert threshold in tenths of a degree
func (c *Config) Threshold() models.Temperature {
	if c.Alert.Threshold == nil {
		return models.TemperatureFromFloat(DefaultThreshold)
	}
	return models.TemperatureFromFloat(*c.Alert.Threshold)
}

// RestoreAfterBlink reports whether the alert LED is re-driven after a distress pattern
func (c *Config) RestoreAfterBlink() bool {
	return c.LED.RestoreAfterBlink == nil || *c.LED.RestoreAfterBlink
}

// String returns a readable representation of the resolved configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Sensor: %+v, LED: [DryRun=%t Chip=%s Pin=%d Blink=%dx%s Restore=%t], Threshold: %s°C, Logging: %+v}",
		c.Sensor,
		c.LED.DryRun,
		c.LED.Chip,
		c.LED.GPIOPin,
		c.LED.BlinkCount,
		c.LED.BlinkInterval,
		c.RestoreAfterBlink(),
		c.Threshold(),
		c.Logging,
	)
}
