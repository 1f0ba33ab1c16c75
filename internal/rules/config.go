package rules

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the top-level table configuration file.
type Config struct {
	Table TableConfig `hcl:"table,block"`
	Bots  []BotConfig `hcl:"bot,block"`
}

// TableConfig defines the variant and stakes for a table.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
	Seats         int    `hcl:"seats,optional"`
}

// BotConfig names a bot strategy seated at the table.
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
}

// DefaultConfig returns the configuration used when no file is provided:
// a six-seat $5/$10 table filled with calling-station bots.
func DefaultConfig() *Config {
	cfg := &Config{
		Table: TableConfig{
			Name:          "main",
			SmallBlind:    5,
			BigBlind:      10,
			StartingChips: 1000,
			Seats:         6,
		},
	}
	for i := 0; i < cfg.Table.Seats; i++ {
		cfg.Bots = append(cfg.Bots, BotConfig{
			Name:     fmt.Sprintf("bot%d", i+1),
			Strategy: "caller",
		})
	}
	return cfg
}

// LoadConfig loads a table configuration from an HCL file. A missing file
// falls back to DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Table.SmallBlind <= 0 || cfg.Table.BigBlind <= 0 {
		return nil, fmt.Errorf("table %q: blinds must be positive", cfg.Table.Name)
	}
	if cfg.Table.BigBlind < cfg.Table.SmallBlind {
		return nil, fmt.Errorf("table %q: big blind smaller than small blind", cfg.Table.Name)
	}
	if cfg.Table.StartingChips == 0 {
		cfg.Table.StartingChips = cfg.Table.BigBlind * 100
	}
	if cfg.Table.Seats == 0 {
		cfg.Table.Seats = 6
	}
	for i := range cfg.Bots {
		if cfg.Bots[i].Strategy == "" {
			cfg.Bots[i].Strategy = "caller"
		}
	}

	return &cfg, nil
}

// Provider builds the rule provider for this table.
func (c *Config) Provider() Provider {
	return NewNoLimit(c.Table.SmallBlind, c.Table.BigBlind)
}
