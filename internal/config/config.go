package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
	Search SearchConfig `json:"search"`
}

type ServerConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// SearchConfig controls how the demo service builds its search index and
// which environment/deployment-config file it resolves weights from.
type SearchConfig struct {
	CacheCapacity    int    `json:"cache_capacity"`
	NgramSize        int    `json:"ngram_size"`
	Environment      string `json:"environment"`
	DeploymentConfig string `json:"deployment_config"`
}

func Load() *Config {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	cacheCapacity := 512
	if capStr := os.Getenv("SEARCH_CACHE_CAPACITY"); capStr != "" {
		if c, err := strconv.Atoi(capStr); err == nil {
			cacheCapacity = c
		}
	}

	ngramSize := 2
	if nStr := os.Getenv("SEARCH_NGRAM_SIZE"); nStr != "" {
		if n, err := strconv.Atoi(nStr); err == nil {
			ngramSize = n
		}
	}

	environment := os.Getenv("SEARCH_ENVIRONMENT")
	if environment == "" {
		environment = "production"
	}

	deploymentConfig := os.Getenv("SEARCH_DEPLOYMENT_CONFIG")
	if deploymentConfig == "" {
		deploymentConfig = "deployment.json"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		},
		Log: LogConfig{
			Level: logLevel,
		},
		Search: SearchConfig{
			CacheCapacity:    cacheCapacity,
			NgramSize:        ngramSize,
			Environment:      environment,
			DeploymentConfig: deploymentConfig,
		},
	}
}
