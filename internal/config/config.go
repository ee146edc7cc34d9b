// Package config handles objtool configuration loading and management.
package config

// Config holds all objtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds OBJ parser settings.
type ParseConfig struct {
	Permissive   bool   `yaml:"permissive"`    // NaN for bad numbers instead of failing
	ParseNormals bool   `yaml:"parse_normals"` // honour vn lines
	Charset      string `yaml:"charset"`       // input text encoding, empty = UTF-8
}

// MeshConfig holds draw mesh building settings.
type MeshConfig struct {
	Triangulate     bool `yaml:"triangulate"`
	Validate        bool `yaml:"validate"`
	GenerateNormals bool `yaml:"generate_normals"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Permissive:   false,
			ParseNormals: false,
			Charset:      "utf-8",
		},
		Mesh: MeshConfig{
			Triangulate:     false,
			Validate:        true,
			GenerateNormals: false,
		},
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
	}
}
