package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aulavia/aulavia-backend/internal/platform/envutil"
	"github.com/aulavia/aulavia-backend/internal/platform/logger"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	Port        string `yaml:"port"`

	DispatcherMaxTurns int           `yaml:"dispatcher_max_turns"`
	ConceptMapMaxNodes int           `yaml:"concept_map_max_nodes"`
	RedisAddr          string        `yaml:"redis_addr"`
	GuidelinesCacheTTL time.Duration `yaml:"guidelines_cache_ttl"`
}

// LoadConfig reads the optional YAML file named by CONFIG_FILE, then
// lets environment variables override it. Missing values fall back to
// defaults.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:        "aulavia",
		Environment:        "development",
		Version:            "dev",
		Port:               "8080",
		DispatcherMaxTurns: 6,
		ConceptMapMaxNodes: 14,
		GuidelinesCacheTTL: time.Hour,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("config file unreadable, using defaults", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Warn("config file invalid, using defaults", "path", path, "error", err)
		}
	}

	cfg.ServiceName = envutil.String("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.DispatcherMaxTurns = envutil.Int("DISPATCHER_MAX_TURNS", cfg.DispatcherMaxTurns)
	cfg.ConceptMapMaxNodes = envutil.Int("CONCEPT_MAP_MAX_NODES", cfg.ConceptMapMaxNodes)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.GuidelinesCacheTTL = envutil.Seconds("GUIDELINES_CACHE_TTL_SECONDS", cfg.GuidelinesCacheTTL)

	return cfg
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}
