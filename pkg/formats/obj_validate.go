package formats

import "fmt"

// OBJRefKind names the attribute array a face corner points into.
type OBJRefKind string

// Reference kinds.
const (
	OBJRefVertex OBJRefKind = "vertex"
	OBJRefUV     OBJRefKind = "uv"
	OBJRefNormal OBJRefKind = "normal"
)

// OutOfRangeReferenceError reports a face corner whose index does not
// point at an existing vertex, uv or normal.
type OutOfRangeReferenceError struct {
	Polygon int
	Corner  int
	Kind    OBJRefKind
	Index   int // zero-based, as stored in the polygon
	Count   int // number of entries available
}

func (e *OutOfRangeReferenceError) Error() string {
	return fmt.Sprintf("polygon %d corner %d: %s index %d out of range [0,%d)",
		e.Polygon, e.Corner, e.Kind, e.Index, e.Count)
}

// ValidateOBJ checks what ParseOBJ leaves unchecked: every face reference
// is in range and the groups tile the polygon list in order.
// Absent uv and normal references are accepted.
func ValidateOBJ(obj *OBJ) error {
	if err := validateGroups(obj); err != nil {
		return err
	}

	vertexCount := obj.VertexCount()
	uvCount := obj.UVCount()
	normalCount := obj.NormalCount()

	for pi, poly := range obj.Polygons {
		for ci, pv := range poly {
			if pv.Vertex < 0 || pv.Vertex >= vertexCount {
				return &OutOfRangeReferenceError{Polygon: pi, Corner: ci, Kind: OBJRefVertex, Index: pv.Vertex, Count: vertexCount}
			}
			if pv.UV.Valid && (pv.UV.Value < 0 || pv.UV.Value >= uvCount) {
				return &OutOfRangeReferenceError{Polygon: pi, Corner: ci, Kind: OBJRefUV, Index: pv.UV.Value, Count: uvCount}
			}
			if pv.Normal.Valid && (pv.Normal.Value < 0 || pv.Normal.Value >= normalCount) {
				return &OutOfRangeReferenceError{Polygon: pi, Corner: ci, Kind: OBJRefNormal, Index: pv.Normal.Value, Count: normalCount}
			}
		}
	}

	return nil
}

// Validate is shorthand for ValidateOBJ(o).
func (o *OBJ) Validate() error {
	return ValidateOBJ(o)
}

func validateGroups(obj *OBJ) error {
	if len(obj.Groups) == 0 {
		if len(obj.Polygons) != 0 {
			return fmt.Errorf("%w: %d polygons without a group", ErrOBJGroupRange, len(obj.Polygons))
		}
		return nil
	}

	next := 0
	for i, g := range obj.Groups {
		if g.Offset != next || g.Size < 0 {
			return fmt.Errorf("%w: group %d (%s) covers [%d,%d), expected offset %d",
				ErrOBJGroupRange, i, g.ID, g.Offset, g.End(), next)
		}
		next = g.End()
	}
	if next != len(obj.Polygons) {
		return fmt.Errorf("%w: groups end at %d but there are %d polygons",
			ErrOBJGroupRange, next, len(obj.Polygons))
	}

	return nil
}
