package config

const defaultDBPath = ".ctoken/store"

type DBConfig struct {
	Path string `yaml:"path"`
	// keep the records in memory only, nothing survives the process
	InMemory bool `yaml:"inMemory"`
}

// WithDefaults returns a copy of the DBConfig with any missing fields set to
// their default values.
func (c DBConfig) WithDefaults() DBConfig {
	cpy := c
	if cpy.Path == "" && !cpy.InMemory {
		cpy.Path = defaultDBPath
	}
	return cpy
}
