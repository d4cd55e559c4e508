package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. VEHICLEGW_UPSTREAM_TIMEOUT.
const EnvPrefix = "VEHICLEGW"

type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Web       WebConfig       `yaml:"web"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Messaging MessagingConfig `yaml:"messaging"`
}

type UpstreamConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	ResponseType string        `yaml:"response_type"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // "console" or "json"
	EnableColor bool   `yaml:"enable_color"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"` // OTLP gRPC; empty disables tracing
	ServiceName string `yaml:"service_name"`
}

type MessagingConfig struct {
	Backend      string      `yaml:"backend"` // "none", "mqtt" or "kafka"
	MQTT         MQTTConfig  `yaml:"mqtt"`
	Kafka        KafkaConfig `yaml:"kafka"`
	CommandTopic string      `yaml:"command_topic"`
	EventsTopic  string      `yaml:"events_topic"`
	NodeID       string      `yaml:"node_id"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

// Messaging backends.
const (
	BackendNone  = "none"
	BackendMQTT  = "mqtt"
	BackendKafka = "kafka"
)

func Defaults() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:      "https://gmapi.azurewebsites.net",
			Timeout:      10 * time.Second,
			ResponseType: "JSON",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName: "vehiclegw",
		},
		Messaging: MessagingConfig{
			Backend: BackendNone,
			MQTT: MQTTConfig{
				Broker:   "localhost",
				Port:     1883,
				ClientID: "vehiclegw",
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
			},
			CommandTopic: "vehiclegw/commands",
			EventsTopic:  "vehiclegw/events",
			NodeID:       "vehiclegw",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (a missing file is not an error), then VEHICLEGW_* environment
// variables, then any flag in fs the user actually set. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("web.port", EnvPrefix+"_WEB_PORT", "PORT"); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}
	cfg.applyOverrides(v)
	return cfg, nil
}

// keys maps every overridable setting to its field.
func (c *Config) keys() map[string]any {
	return map[string]any{
		"upstream.base_url":        &c.Upstream.BaseURL,
		"upstream.timeout":         &c.Upstream.Timeout,
		"upstream.response_type":   &c.Upstream.ResponseType,
		"web.host":                 &c.Web.Host,
		"web.port":                 &c.Web.Port,
		"log.level":                &c.Log.Level,
		"log.format":               &c.Log.Format,
		"log.enable_color":         &c.Log.EnableColor,
		"metrics.enabled":          &c.Metrics.Enabled,
		"metrics.path":             &c.Metrics.Path,
		"tracing.endpoint":         &c.Tracing.Endpoint,
		"tracing.service_name":     &c.Tracing.ServiceName,
		"messaging.backend":        &c.Messaging.Backend,
		"messaging.mqtt.broker":    &c.Messaging.MQTT.Broker,
		"messaging.mqtt.port":      &c.Messaging.MQTT.Port,
		"messaging.mqtt.client_id": &c.Messaging.MQTT.ClientID,
		"messaging.kafka.brokers":  &c.Messaging.Kafka.Brokers,
		"messaging.command_topic":  &c.Messaging.CommandTopic,
		"messaging.events_topic":   &c.Messaging.EventsTopic,
		"messaging.node_id":        &c.Messaging.NodeID,
	}
}

func (c *Config) applyOverrides(v *viper.Viper) {
	for key, field := range c.keys() {
		if !v.IsSet(key) {
			continue
		}
		switch p := field.(type) {
		case *string:
			*p = v.GetString(key)
		case *int:
			*p = v.GetInt(key)
		case *bool:
			*p = v.GetBool(key)
		case *time.Duration:
			*p = v.GetDuration(key)
		case *[]string:
			*p = v.GetStringSlice(key)
		}
	}
}

// AddFlags registers one flag per overridable setting, named after its key
// and defaulting to the value currently in c.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.String("upstream.base_url", c.Upstream.BaseURL, "Base URL of the upstream vehicle API.")
	fs.Duration("upstream.timeout", c.Upstream.Timeout, "Timeout for each upstream request.")
	fs.String("upstream.response_type", c.Upstream.ResponseType, "responseType sent to the upstream API.")
	fs.String("web.host", c.Web.Host, "Address to listen on.")
	fs.Int("web.port", c.Web.Port, "Port to listen on.")
	fs.String("log.level", c.Log.Level, "Minimum log level (debug, info, warn, error).")
	fs.String("log.format", c.Log.Format, "Log output format (console or json).")
	fs.Bool("log.enable_color", c.Log.EnableColor, "Colorize console log levels.")
	fs.Bool("metrics.enabled", c.Metrics.Enabled, "Serve Prometheus metrics.")
	fs.String("metrics.path", c.Metrics.Path, "Path of the metrics endpoint.")
	fs.String("tracing.endpoint", c.Tracing.Endpoint, "OTLP gRPC endpoint; empty disables tracing.")
	fs.String("messaging.backend", c.Messaging.Backend, "Event publishing backend (none, mqtt, kafka).")
	fs.String("messaging.mqtt.broker", c.Messaging.MQTT.Broker, "MQTT broker host.")
	fs.Int("messaging.mqtt.port", c.Messaging.MQTT.Port, "MQTT broker port.")
	fs.StringSlice("messaging.kafka.brokers", c.Messaging.Kafka.Brokers, "Kafka broker addresses.")
	fs.String("messaging.command_topic", c.Messaging.CommandTopic, "Topic for engine command events.")
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream.base_url must not be empty"))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout))
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		errs = append(errs, fmt.Errorf("web.port %d out of range", c.Web.Port))
	}
	switch c.Messaging.Backend {
	case BackendNone, "":
	case BackendMQTT:
		if c.Messaging.MQTT.Port < 1 || c.Messaging.MQTT.Port > 65535 {
			errs = append(errs, fmt.Errorf("messaging.mqtt.port %d out of range", c.Messaging.MQTT.Port))
		}
	case BackendKafka:
		if len(c.Messaging.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("messaging.kafka.brokers must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown messaging backend %q", c.Messaging.Backend))
	}
	return errors.Join(errs...)
}

// Addr returns the web listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
