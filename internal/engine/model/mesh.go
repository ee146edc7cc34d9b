package model

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/objkit/pkg/formats"
)

// ErrNegativeIndex is returned when a face points before the first vertex.
var ErrNegativeIndex = errors.New("negative vertex index")

// BuildMesh creates a draw mesh from parsed OBJ data.
// The index buffer is the vertex index of every face corner in file order,
// and each OBJ group becomes one MaterialGroup covering its own faces.
func BuildMesh(obj *formats.OBJ, opts BuildOptions) (*Mesh, error) {
	if opts.Validate {
		if err := formats.ValidateOBJ(obj); err != nil {
			return nil, err
		}
	}

	mesh := &Mesh{
		Positions: slices.Clone(obj.Vertices),
		UVs:       slices.Clone(obj.UVs),
		Normals:   slices.Clone(obj.Normals),
		Indices:   make([]uint32, 0, obj.IndexCount()),
		Groups:    make([]MaterialGroup, 0, len(obj.Groups)),
	}

	for gi := range obj.Groups {
		group := &obj.Groups[gi]
		if group.Offset < 0 || group.End() > len(obj.Polygons) {
			return nil, fmt.Errorf("%w: group %s covers [%d,%d) of %d polygons",
				formats.ErrOBJGroupRange, group.ID, group.Offset, group.End(), len(obj.Polygons))
		}

		start := len(mesh.Indices)
		for pi, poly := range obj.GroupPolygons(group) {
			var err error
			if opts.Triangulate {
				mesh.Indices, err = appendTriangles(mesh.Indices, poly)
			} else {
				mesh.Indices, err = appendPolygon(mesh.Indices, poly)
			}
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", group.Offset+pi, err)
			}
		}

		mesh.Groups = append(mesh.Groups, MaterialGroup{
			ID:         group.ID,
			Material:   group.Material,
			StartIndex: int32(start),
			IndexCount: int32(len(mesh.Indices) - start),
		})
	}

	if opts.GenerateNormals && len(mesh.Normals) == 0 {
		mesh.Normals = SmoothNormals(mesh.Positions, obj.Polygons)
	}

	mesh.Bounds = ComputeBounds(mesh.Positions)
	return mesh, nil
}

func appendPolygon(indices []uint32, poly formats.OBJPolygon) ([]uint32, error) {
	for _, pv := range poly {
		if pv.Vertex < 0 {
			return indices, fmt.Errorf("%w: %d", ErrNegativeIndex, pv.Vertex)
		}
		indices = append(indices, uint32(pv.Vertex))
	}
	return indices, nil
}

// appendTriangles fan-splits poly around its first corner.
func appendTriangles(indices []uint32, poly formats.OBJPolygon) ([]uint32, error) {
	if len(poly) < 3 {
		return indices, nil
	}
	for _, pv := range poly {
		if pv.Vertex < 0 {
			return indices, fmt.Errorf("%w: %d", ErrNegativeIndex, pv.Vertex)
		}
	}
	for i := 1; i < len(poly)-1; i++ {
		indices = append(indices,
			uint32(poly[0].Vertex),
			uint32(poly[i].Vertex),
			uint32(poly[i+1].Vertex))
	}
	return indices, nil
}

// ComputeBounds returns the bounding box of a flat xyz position array.
// NaN components are skipped; an empty array gives a zero box.
func ComputeBounds(positions []float32) Bounds {
	inf := float32(math.Inf(1))
	b := Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}

	seen := false
	for i := 0; i+2 < len(positions); i += 3 {
		for axis := 0; axis < 3; axis++ {
			v := positions[i+axis]
			if math.IsNaN(float64(v)) {
				continue
			}
			seen = true
			b.Min[axis] = min(b.Min[axis], v)
			b.Max[axis] = max(b.Max[axis], v)
		}
	}

	if !seen {
		return Bounds{}
	}
	return b
}

// CenterMesh moves the mesh so its bounding box is centred on the origin.
// Returns the offset that was subtracted.
func CenterMesh(mesh *Mesh) mgl32.Vec3 {
	center := mesh.Bounds.Center()

	for i := 0; i+2 < len(mesh.Positions); i += 3 {
		mesh.Positions[i] -= center[0]
		mesh.Positions[i+1] -= center[1]
		mesh.Positions[i+2] -= center[2]
	}

	mesh.Bounds.Min = mesh.Bounds.Min.Sub(center)
	mesh.Bounds.Max = mesh.Bounds.Max.Sub(center)

	return center
}

// SmoothNormals computes one normal per position by summing the
// area-weighted normals of every triangle that touches it.
// Out of range corners are ignored.
func SmoothNormals(positions []float32, polygons []formats.OBJPolygon) []float32 {
	count := len(positions) / 3
	sums := make([]mgl32.Vec3, count)

	at := func(i int) mgl32.Vec3 {
		return mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]}
	}
	inRange := func(i int) bool {
		return i >= 0 && i < count
	}

	for _, poly := range polygons {
		for i := 1; i+1 < len(poly); i++ {
			a, b, c := poly[0].Vertex, poly[i].Vertex, poly[i+1].Vertex
			if !inRange(a) || !inRange(b) || !inRange(c) {
				continue
			}
			// Unnormalized cross product, so larger faces weigh more.
			n := at(b).Sub(at(a)).Cross(at(c).Sub(at(a)))
			sums[a] = sums[a].Add(n)
			sums[b] = sums[b].Add(n)
			sums[c] = sums[c].Add(n)
		}
	}

	normals := make([]float32, 0, 3*count)
	for _, n := range sums {
		if n.Len() < 1e-6 {
			n = mgl32.Vec3{0, 1, 0}
		} else {
			n = n.Normalize()
		}
		normals = append(normals, n[0], n[1], n[2])
	}
	return normals
}
