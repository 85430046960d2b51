package config

import (
	"strings"
	"time"
)

// MongoConfig contains MongoDB configuration. Transactions need a replica set.
type MongoConfig struct {
	URI            string        `env:"URI"             envDefault:"mongodb://localhost:27017/?replicaSet=rs0"`
	Database       string        `env:"DATABASE"        envDefault:"iynfluencer"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	// EnsureIndexes creates the unique and lookup indexes on startup.
	EnsureIndexes bool `env:"ENSURE_INDEXES" envDefault:"true"`
}

// Sanitize applies guardrails to MongoDB configuration values.
func (m *MongoConfig) Sanitize() {
	m.URI = strings.TrimSpace(m.URI)
	m.Database = strings.TrimSpace(m.Database)
	if m.ConnectTimeout < time.Second {
		m.ConnectTimeout = time.Second
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
