// Package config holds the popmcp runtime configuration: where the pop
// binary lives, launch timeout budgets, default node ports, logging, and
// the launch-record database path. Values come from an optional config
// file (YAML or JSON) with POPMCP_* environment variables taking
// precedence.
package config

import (
	"os"
	"time"
)

// EnvPopBin names an explicit pop binary path, honored only if it exists.
const EnvPopBin = "POPMCP_POP_BIN"

// DefaultDBPath is the default relative path for the launch-record DB
// (per-workspace). Open() creates the parent dir (e.g. .popmcp).
const DefaultDBPath = ".popmcp/popmcp.db"

// Log controls the slog handler installed at startup.
type Log struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug|info|warn|error
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // text|json
	File   string `json:"file,omitempty" yaml:"file,omitempty"`     // log sink; empty = stderr
}

// Timeouts are launch and teardown budgets, in seconds in the file.
type Timeouts struct {
	NodeSec     int `json:"node,omitempty" yaml:"node,omitempty"`         // single dev node readiness
	NetworkSec  int `json:"network,omitempty" yaml:"network,omitempty"`   // multi-node topology readiness
	EndpointSec int `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // descriptor endpoint read retry
	TeardownSec int `json:"teardown,omitempty" yaml:"teardown,omitempty"` // port-release wait after kill
}

// Ports are the well-known single-node defaults. Concurrent launches need
// distinct overrides; the defaults are a documented collision risk.
type Ports struct {
	Node   int `json:"node,omitempty" yaml:"node,omitempty"`       // substrate RPC (default 9944)
	EthRPC int `json:"eth_rpc,omitempty" yaml:"eth_rpc,omitempty"` // eth RPC (default 8545)
}

// Config is the full popmcp configuration.
type Config struct {
	PopBin   string   `json:"pop_bin,omitempty" yaml:"pop_bin,omitempty"` // explicit binary path
	DBPath   string   `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Log      Log      `json:"log,omitempty" yaml:"log,omitempty"`
	Timeouts Timeouts `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Ports    Ports    `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DBPath: DefaultDBPath,
		Log:    Log{Level: "info", Format: "text"},
		Timeouts: Timeouts{
			NodeSec:     60,
			NetworkSec:  300,
			EndpointSec: 60,
			TeardownSec: 10,
		},
		Ports: Ports{Node: 9944, EthRPC: 8545},
	}
}

// NodeTimeout returns the single-node readiness budget.
func (c *Config) NodeTimeout() time.Duration { return secs(c.Timeouts.NodeSec, 60) }

// NetworkTimeout returns the topology readiness budget.
func (c *Config) NetworkTimeout() time.Duration { return secs(c.Timeouts.NetworkSec, 300) }

// EndpointTimeout returns the descriptor endpoint read retry budget.
func (c *Config) EndpointTimeout() time.Duration { return secs(c.Timeouts.EndpointSec, 60) }

// TeardownTimeout returns the port-release wait budget.
func (c *Config) TeardownTimeout() time.Duration { return secs(c.Timeouts.TeardownSec, 10) }

func secs(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// applyEnv lets POPMCP_* variables win over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPopBin); v != "" {
		c.PopBin = v
	}
	if v := os.Getenv("POPMCP_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("POPMCP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POPMCP_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}
