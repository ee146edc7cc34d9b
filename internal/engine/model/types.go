// Package model turns parsed OBJ meshes into index buffers and per-material
// draw ranges ready for GPU upload.
package model

import "github.com/go-gl/mathgl/mgl32"

// Index buffer element formats.
const (
	IndexFormatUint16 = "uint16"
	IndexFormatUint32 = "uint32"
)

// MaterialGroup is the slice of the index buffer drawn with one material.
type MaterialGroup struct {
	ID         string
	Material   string
	StartIndex int32
	IndexCount int32
}

// Mesh holds the complete model mesh data ready for GPU upload.
// Positions and Normals hold 3 floats per vertex, UVs hold 2.
type Mesh struct {
	Positions []float32
	UVs       []float32
	Normals   []float32
	Indices   []uint32
	Groups    []MaterialGroup
	Bounds    Bounds
}

// IndexFormat returns the narrowest index type that can hold every index.
func (m *Mesh) IndexFormat() string {
	for _, idx := range m.Indices {
		if idx > 0xFFFF {
			return IndexFormatUint32
		}
	}
	return IndexFormatUint16
}

// Indices16 returns the index buffer as uint16, or false if it does not fit.
func (m *Mesh) Indices16() ([]uint16, bool) {
	if m.IndexFormat() != IndexFormatUint16 {
		return nil, false
	}
	out := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = uint16(idx)
	}
	return out, true
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// Triangulate fan-splits every polygon so each draw range is a
	// triangle list. Faces with fewer than three corners are dropped.
	Triangulate bool
	// Validate runs formats.ValidateOBJ before building.
	Validate bool
	// GenerateNormals computes smooth per-vertex normals when the OBJ has
	// none.
	GenerateNormals bool
}
