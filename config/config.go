package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	DB     *DBConfig     `yaml:"db"`
	Logger *LogConfig    `yaml:"logger"`
	Ledger *LedgerConfig `yaml:"ledger"`
}

// LoadConfig reads YAML config from the file and fills in the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cpy := cfg.WithDefaults()
	return &cpy, nil
}

// WithDefaults returns a copy of the Config with missing sections and
// fields set to their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	db := DBConfig{}
	if c.DB != nil {
		db = *c.DB
	}
	db = db.WithDefaults()
	cpy.DB = &db

	ledger := LedgerConfig{}
	if c.Ledger != nil {
		ledger = *c.Ledger
	}
	cpy.Ledger = &ledger

	if c.Logger != nil {
		logger := c.Logger.WithDefaults()
		cpy.Logger = &logger
	}
	return cpy
}
