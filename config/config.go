// Package config holds the cart.yaml project configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level cart.yaml configuration. Every field can
// also be supplied on the command line; flags win over the file.
type Config struct {
	Agent     AgentRef  `yaml:"agent"`
	Role      string    `yaml:"role,omitempty"`
	Warehouse string    `yaml:"warehouse,omitempty"`
	Output    OutputRef `yaml:"output,omitempty"`
	Snowflake ConnRef   `yaml:"snowflake,omitempty"`
}

// AgentRef identifies the agent whose grants are generated.
type AgentRef struct {
	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`
	Name     string `yaml:"name"`
}

// FQN returns the agent's fully qualified name.
func (a AgentRef) FQN() string {
	return a.Database + "." + a.Schema + "." + a.Name
}

// OutputRef configures where generated scripts land.
type OutputRef struct {
	Dir string `yaml:"dir,omitempty"` // default: current directory
}

// ConnRef names the connection pieces that are safe to keep in a config
// file. Credentials stay in the environment.
type ConnRef struct {
	Account string `yaml:"account,omitempty"`
	User    string `yaml:"user,omitempty"`
	Role    string `yaml:"role,omitempty"` // session role for metadata queries
}

// Parse parses raw YAML bytes into a Config and validates required fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing cart config: %w", err)
	}

	if cfg.Agent.Database == "" {
		return nil, fmt.Errorf("cart config: agent.database is required")
	}
	if cfg.Agent.Schema == "" {
		return nil, fmt.Errorf("cart config: agent.schema is required")
	}
	if cfg.Agent.Name == "" {
		return nil, fmt.Errorf("cart config: agent.name is required")
	}

	return &cfg, nil
}

// Load reads and parses a cart.yaml file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cart config %s: %w", path, err)
	}
	return Parse(data)
}
