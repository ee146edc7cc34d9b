package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagPermissive  = flag.Bool("permissive", false, "Store NaN for malformed numbers instead of failing")
	flagNormals     = flag.Bool("normals", false, "Parse vn lines")
	flagCharset     = flag.String("charset", "", "Input charset (utf-8, euc-kr, windows-1252, ...)")
	flagTriangulate = flag.Bool("triangulate", false, "Fan-triangulate polygons when building meshes")
	flagNoValidate  = flag.Bool("no-validate", false, "Skip index range validation")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPermissive {
		cfg.Parse.Permissive = true
	}
	if *flagNormals {
		cfg.Parse.ParseNormals = true
	}
	if *flagCharset != "" {
		cfg.Parse.Charset = *flagCharset
	}
	if *flagTriangulate {
		cfg.Mesh.Triangulate = true
	}
	if *flagNoValidate {
		cfg.Mesh.Validate = false
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
