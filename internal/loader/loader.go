// Package loader reads OBJ files from disk, decodes them and parses them.
package loader

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objkit/internal/logger"
	"github.com/Faultbox/objkit/pkg/encoding"
	"github.com/Faultbox/objkit/pkg/formats"
)

// Options controls how input is decoded and parsed.
type Options struct {
	// Charset of the input text. Empty means UTF-8.
	Charset string
	Parse   formats.OBJParseOptions
	// Validate runs formats.ValidateOBJ after parsing.
	Validate bool
}

// Load decodes and parses OBJ data held in memory.
func Load(data []byte, opts Options) (*formats.OBJ, error) {
	text, err := encoding.DecodeText(encoding.StripBOM(data), opts.Charset)
	if err != nil {
		return nil, err
	}

	obj, err := formats.ParseOBJWithOptions(text, opts.Parse)
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if err := formats.ValidateOBJ(obj); err != nil {
			return nil, err
		}
	}

	return obj, nil
}

// LoadFile reads and parses the OBJ file at path.
func LoadFile(path string, opts Options) (*formats.OBJ, error) {
	log := logger.Named("loader")
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	obj, err := Load(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug("parsed OBJ",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Int("vertices", obj.VertexCount()),
		zap.Int("uvs", obj.UVCount()),
		zap.Int("normals", obj.NormalCount()),
		zap.Int("polygons", len(obj.Polygons)),
		zap.Int("groups", len(obj.Groups)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return obj, nil
}
