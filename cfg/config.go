package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a Redis backend was configured. Without one the
// service caches provider responses in memory.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type ProviderClientConfig struct {
	BaseURL string
	APIKey  string
}

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type ObservabilityConfig struct {
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv             string
	AppPort            string
	NodeID             int64
	HTTPTimeoutSeconds int
	CacheTTLMinutes    int
	RedisConfig        RedisConfig
	ProviderConfig     ProviderClientConfig
	LLMConfig          LLMConfig
	Observability      ObservabilityConfig
}

func Load() (*Config, error) {
	var errs []error

	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)
	providerBaseURL := mustEnv("PROVIDER_BASE_URL", &errs)
	providerAPIKey := mustEnv("PROVIDER_API_KEY", &errs)

	cacheTTLMinutes := intEnv("CACHE_TTL_MINUTES", 15, &errs)
	httpTimeoutSeconds := intEnv("HTTP_TIMEOUT_SECONDS", 10, &errs)
	nodeID := intEnv("NODE_ID", 1, &errs)

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "awardfinder"
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:             appEnv,
		AppPort:            appPort,
		NodeID:             int64(nodeID),
		HTTPTimeoutSeconds: httpTimeoutSeconds,
		CacheTTLMinutes:    cacheTTLMinutes,
		RedisConfig: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		ProviderConfig: ProviderClientConfig{
			BaseURL: providerBaseURL,
			APIKey:  providerAPIKey,
		},
		LLMConfig: LLMConfig{
			BaseURL: os.Getenv("LLM_BASE_URL"),
			APIKey:  os.Getenv("LLM_API_KEY"),
			Model:   os.Getenv("LLM_MODEL"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  serviceName,
			Environment:  appEnv,
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func intEnv(key string, fallback int, errs *[]error) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}
