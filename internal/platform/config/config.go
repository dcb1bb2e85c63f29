package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	SchoolRegistryPath  string
	RuleOrder           []string
	AuthorizationExpiry time.Duration
	SecretKeyBase       string
	AutoEmailDomain     string

	EnableOutboxRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "agora"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	var ruleOrder []string
	for _, value := range strings.Split(os.Getenv("MPASSID_RULE_ORDER"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			ruleOrder = append(ruleOrder, value)
		}
	}

	expiry, err := envDuration("MPASSID_AUTHORIZATION_EXPIRY", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		SchoolRegistryPath:  os.Getenv("MPASSID_SCHOOL_REGISTRY_PATH"),
		RuleOrder:           ruleOrder,
		AuthorizationExpiry: expiry,
		SecretKeyBase:       os.Getenv("SECRET_KEY_BASE"),
		AutoEmailDomain:     os.Getenv("MPASSID_AUTO_EMAIL_DOMAIN"),

		EnableOutboxRelay: envBool("ENABLE_MPASSID_OUTBOX_RELAY", true),
	}, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
