// Package config loads bridge settings from the environment and the channel
// binding table from a JSON file. Env var names are lowercase for
// compatibility with existing deployments.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/tinyland-inc/bridgeclaw/pkg/binding"
)

// DefaultPath is where the binding file lives when --config is not given.
const DefaultPath = "config.json"

// Config holds the credentials and flags read from the environment.
type Config struct {
	GuildedEmail    string `env:"guilded_email,required"`
	GuildedPassword string `env:"guilded_password,required"`
	DiscordAuth     string `env:"discord_auth,required"`
	PrintAllMsg     bool   `env:"print_all_msg"`
}

// FromEnv parses the process environment into a Config. Missing required
// credentials are reported together by env.Parse.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment config: %w", err)
	}
	return cfg, nil
}

type bindingFile struct {
	TextChannelBindings []binding.Binding `json:"text_channel_bindings"`
}

// LoadBindings reads the channel binding file and builds the lookup table.
// An unreadable or empty file is an error: the bridge has nothing to do
// without at least one binding.
func LoadBindings(path string) (*binding.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings %s: %w", path, err)
	}

	var f bindingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bindings %s: %w", path, err)
	}
	if len(f.TextChannelBindings) == 0 {
		return nil, fmt.Errorf("bindings %s: no text_channel_bindings", path)
	}

	table, err := binding.NewTable(f.TextChannelBindings)
	if err != nil {
		return nil, fmt.Errorf("bindings %s: %w", path, err)
	}
	return table, nil
}

// SaveBindings writes a binding file, used by `bridgeclaw check --init` to
// scaffold a template.
func SaveBindings(path string, bindings []binding.Binding) error {
	data, err := json.MarshalIndent(bindingFile{TextChannelBindings: bindings}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
