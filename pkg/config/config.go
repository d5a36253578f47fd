// Package config loads chain lists and connector settings from YAML files
// so hosts can ship network catalogs alongside their deployment config.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/walletmesh/torus-connector/pkg/chains"
	"github.com/walletmesh/torus-connector/pkg/torus"
)

// File is the on-disk configuration shape.
type File struct {
	Chains []chains.Chain `yaml:"chains"`
	Torus  TorusSettings  `yaml:"torus"`
}

// TorusSettings mirrors the connector's construction options.
type TorusSettings struct {
	ButtonPosition string `yaml:"buttonPosition"`
	ButtonSize     int    `yaml:"buttonSize"`
	ZIndex         int    `yaml:"modalZIndex"`
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	ChainID        int64  `yaml:"chainId"`
	Host           string `yaml:"host"`
	HideButton     bool   `yaml:"hideButton"`
}

// Options converts the settings into wallet construction options.
func (s TorusSettings) Options() torus.Options {
	return torus.Options{
		ButtonPosition: torus.ButtonPosition(s.ButtonPosition),
		ButtonSize:     s.ButtonSize,
		ZIndex:         s.ZIndex,
		APIKey:         s.APIKey,
		BaseURL:        s.BaseURL,
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// LoadChains reads just the chain list from a configuration file.
func LoadChains(path string) (chains.List, error) {
	file, err := Load(path)
	if err != nil {
		return nil, err
	}
	return chains.List(file.Chains), nil
}

func (f *File) validate() error {
	seen := make(map[int64]bool, len(f.Chains))
	for i, chain := range f.Chains {
		if chain.ID <= 0 {
			return fmt.Errorf("chain %d: invalid id %d", i, chain.ID)
		}
		if chain.Name == "" {
			return fmt.Errorf("chain %d: missing name", chain.ID)
		}
		if len(chain.RPCURLs) == 0 {
			return fmt.Errorf("chain %d: no rpc urls", chain.ID)
		}
		if seen[chain.ID] {
			return fmt.Errorf("chain %d: duplicate id", chain.ID)
		}
		seen[chain.ID] = true
	}
	return nil
}
