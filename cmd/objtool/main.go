// objtool is a CLI utility for inspecting and checking Wavefront OBJ meshes.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objkit/internal/config"
	"github.com/Faultbox/objkit/internal/engine/model"
	"github.com/Faultbox/objkit/internal/loader"
	"github.com/Faultbox/objkit/internal/logger"
	"github.com/Faultbox/objkit/pkg/formats"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	var cmdErr error
	switch command {
	case "info":
		cmdErr = cmdInfo(cfg, args)
	case "groups", "g":
		cmdErr = cmdGroups(cfg, args)
	case "validate", "check":
		cmdErr = cmdValidate(cfg, args)
	case "dump":
		cmdErr = cmdDump(cfg, args)
	case "mesh":
		cmdErr = cmdMesh(cfg, args)
	case "watch":
		cmdErr = cmdWatch(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(cmdErr))
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ mesh utility

Usage:
  objtool [flags] <command> [options]

Commands:
  info <file.obj>          Show vertex, polygon and group counts
  groups <file.obj>        List groups with material and polygon range
  validate <file.obj>      Check face references and group ranges
  dump [-n N] <file.obj>   Print groups and polygons as YAML
  mesh <file.obj>          Build the draw mesh and show per-group draw ranges
  watch <file.obj>         Print info every time the file changes

Flags:
  -config <path>     Config file (default ./objtool.yaml)
  -charset <name>    Input charset (utf-8, euc-kr, windows-1252, ...)
  -permissive        Store NaN for malformed numbers instead of failing
  -normals           Parse vn lines
  -triangulate       Fan-triangulate polygons in 'mesh'
  -no-validate       Skip reference validation
  -debug             Enable debug logging
  -log-file <path>   Also write logs to a rotating file

Examples:
  objtool info tank.obj
  objtool -charset euc-kr groups data/model/tank.obj
  objtool -triangulate mesh tank.obj
  objtool dump -n 10 tank.obj`)
}

// loaderOptions maps the config onto loader options.
func loaderOptions(cfg *config.Config, validate bool) loader.Options {
	return loader.Options{
		Charset: cfg.Parse.Charset,
		Parse: formats.OBJParseOptions{
			Permissive:   cfg.Parse.Permissive,
			ParseNormals: cfg.Parse.ParseNormals,
		},
		Validate: validate,
	}
}

// buildOptions maps the config onto mesh build options.
func buildOptions(cfg *config.Config) model.BuildOptions {
	return model.BuildOptions{
		Triangulate:     cfg.Mesh.Triangulate,
		Validate:        cfg.Mesh.Validate,
		GenerateNormals: cfg.Mesh.GenerateNormals,
	}
}
