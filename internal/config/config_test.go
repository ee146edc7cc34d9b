package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Parse.Permissive {
		t.Error("expected strict number parsing by default")
	}
	if cfg.Parse.ParseNormals {
		t.Error("expected vn parsing to be off by default")
	}
	if cfg.Parse.Charset != "utf-8" {
		t.Errorf("expected charset utf-8, got %s", cfg.Parse.Charset)
	}
	if cfg.Mesh.Triangulate {
		t.Error("expected triangulate to be false by default")
	}
	if !cfg.Mesh.Validate {
		t.Error("expected validate to be true by default")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objtool.yaml")

	yamlContent := `
parse:
  permissive: true
  parse_normals: true
  charset: euc-kr

mesh:
  triangulate: true
  validate: false
  generate_normals: true

logging:
  level: "debug"
  log_file: "objtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Parse.Permissive {
		t.Error("expected permissive to be true")
	}
	if !cfg.Parse.ParseNormals {
		t.Error("expected parse_normals to be true")
	}
	if cfg.Parse.Charset != "euc-kr" {
		t.Errorf("expected charset euc-kr, got %s", cfg.Parse.Charset)
	}
	if !cfg.Mesh.Triangulate {
		t.Error("expected triangulate to be true")
	}
	if cfg.Mesh.Validate {
		t.Error("expected validate to be false")
	}
	if !cfg.Mesh.GenerateNormals {
		t.Error("expected generate_normals to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "objtool.log" {
		t.Errorf("expected log file 'objtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objtool.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  triangulate: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Mesh.Triangulate {
		t.Error("expected triangulate from file")
	}
	if !cfg.Mesh.Validate {
		t.Error("expected validate default to survive a partial file")
	}
	if cfg.Parse.Charset != "utf-8" {
		t.Errorf("expected default charset, got %s", cfg.Parse.Charset)
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("expected empty file to be accepted, got %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected defaults to be kept, got level %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "parse:\n  permissive: not a bool\n  invalid syntax here\n"},
		{"unknown key", "parse:\n  permisive: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/objtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "objtool.yaml")
	if err := os.WriteFile(configPath, []byte("mesh:\n  triangulate: true\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find objtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "parse flags",
			setup: func() {
				*flagPermissive = true
				*flagNormals = true
				*flagCharset = "euc-kr"
			},
			verify: func(cfg *Config) {
				if !cfg.Parse.Permissive || !cfg.Parse.ParseNormals {
					t.Errorf("expected permissive and normals, got %+v", cfg.Parse)
				}
				if cfg.Parse.Charset != "euc-kr" {
					t.Errorf("expected charset euc-kr, got %s", cfg.Parse.Charset)
				}
			},
			teardown: func() {
				*flagPermissive = false
				*flagNormals = false
				*flagCharset = ""
			},
		},
		{
			name: "mesh flags",
			setup: func() {
				*flagTriangulate = true
				*flagNoValidate = true
			},
			verify: func(cfg *Config) {
				if !cfg.Mesh.Triangulate {
					t.Error("expected triangulate with -triangulate")
				}
				if cfg.Mesh.Validate {
					t.Error("expected validate off with -no-validate")
				}
			},
			teardown: func() {
				*flagTriangulate = false
				*flagNoValidate = false
			},
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "/tmp/objtool.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "/tmp/objtool.log" {
					t.Errorf("expected log file from flag, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "objtool.yaml")

	yamlContent := `
parse:
  charset: windows-1252
mesh:
  triangulate: false
  generate_normals: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTriangulate = true
	defer func() {
		*flagConfig = ""
		*flagTriangulate = false
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if !cfg.Mesh.Triangulate {
		t.Error("expected triangulate from flag")
	}
	// File beats default.
	if cfg.Parse.Charset != "windows-1252" {
		t.Errorf("expected charset from file, got %s", cfg.Parse.Charset)
	}
	if !cfg.Mesh.GenerateNormals {
		t.Error("expected generate_normals from file")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "objtool.yaml")

	cfg := Default()
	cfg.Parse.Charset = "euc-kr"
	cfg.Mesh.Triangulate = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v after round trip, got %+v", cfg, loaded)
	}
}
