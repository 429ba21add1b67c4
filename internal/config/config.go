package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the shade plugin host.
// Values come from YAML and may be overridden by environment variables.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	SSDP     SSDPConfig     `yaml:"ssdp"`
	Storage  StorageConfig  `yaml:"storage"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Provider ProviderConfig `yaml:"provider"`
}

// HTTPConfig contains the dispatch server settings.
type HTTPConfig struct {
	Listen string `yaml:"listen"`
	// AdvertiseIP is the address handed to Hue clients. Detected when empty.
	AdvertiseIP string `yaml:"advertise_ip"`
}

type SSDPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StorageConfig locates the JSON device store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// MQTTConfig contains MQTT broker connection settings. When disabled,
// announcements are only recorded in memory.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig delays are in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ProviderConfig tunes the device provider.
type ProviderConfig struct {
	Debounce        time.Duration `yaml:"debounce"`
	ReannounceDelay time.Duration `yaml:"reannounce_delay"`
	// HueOpenWhen is an optional expression over "on" and "bri" that decides
	// whether a Hue state update opens a shade.
	HueOpenWhen string `yaml:"hue_open_when"`
}

// Load reads path, applies environment overrides and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Listen: ":80",
		},
		SSDP: SSDPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			Path: "/app/shades.json",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "neosmart-shades",
			},
			QoS:         1,
			TopicPrefix: "shades",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Provider: ProviderConfig{
			Debounce:        500 * time.Millisecond,
			ReannounceDelay: 2 * time.Second,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHADES_HTTP_LISTEN"); v != "" {
		cfg.HTTP.Listen = v
	}
	// LOCAL_IP is kept for existing container setups.
	if v := os.Getenv("LOCAL_IP"); v != "" {
		cfg.HTTP.AdvertiseIP = v
	}
	if v := os.Getenv("SHADES_ADVERTISE_IP"); v != "" {
		cfg.HTTP.AdvertiseIP = v
	}

	if v := os.Getenv("SHADES_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("SHADES_MQTT_HOST"); v != "" {
		cfg.MQTT.Enabled = true
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SHADES_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SHADES_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("SHADES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []string

	if c.HTTP.Listen == "" {
		errs = append(errs, "http.listen is required")
	}
	if c.Storage.Path == "" {
		errs = append(errs, "storage.path is required")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if strings.Trim(c.MQTT.TopicPrefix, "/") == "" {
			errs = append(errs, "mqtt.topic_prefix is required")
		}
	}

	if c.Provider.Debounce < 0 {
		errs = append(errs, "provider.debounce must not be negative")
	}
	if c.Provider.ReannounceDelay < 0 {
		errs = append(errs, "provider.reannounce_delay must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
