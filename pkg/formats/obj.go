package formats

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// OBJ format errors.
var (
	ErrMalformedOBJLine = errors.New("malformed OBJ line")
	ErrOBJGroupRange    = errors.New("OBJ group ranges are not contiguous")
)

// OBJDefaultGroup is the id of the group created when geometry appears
// before any "g" directive.
const OBJDefaultGroup = "default"

// MalformedNumberError reports a coordinate or index token that is not a number.
type MalformedNumberError struct {
	Line    int    // 1-based line number
	Command string // directive the token belongs to ("v", "vt", "f", ...)
	Token   string
	Err     error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("line %d: %s: malformed number %q", e.Line, e.Command, e.Token)
}

func (e *MalformedNumberError) Unwrap() error {
	return e.Err
}

// OBJIndex is an optional zero-based index into one of the OBJ attribute arrays.
// Valid is false when the face corner omitted the component, which is not the
// same thing as index 0.
type OBJIndex struct {
	Value int
	Valid bool
}

// String returns the index, or "-" when absent.
func (i OBJIndex) String() string {
	if !i.Valid {
		return "-"
	}
	return strconv.Itoa(i.Value)
}

// OBJPolyVertex is one corner of a face.
type OBJPolyVertex struct {
	Vertex int
	UV     OBJIndex
	Normal OBJIndex
}

// OBJPolygon is a face in the order its corners were written. N-gons are
// kept as is.
type OBJPolygon []OBJPolyVertex

// OBJGroup is a named, contiguous range of polygons.
type OBJGroup struct {
	ID string
	// Material is the name given by usemtl, empty if none was set.
	Material string
	Offset   int
	Size     int
}

// HasMaterial reports whether a usemtl directive applied to this group.
func (g *OBJGroup) HasMaterial() bool {
	return g.Material != ""
}

// End returns the index one past the group's last polygon.
func (g *OBJGroup) End() int {
	return g.Offset + g.Size
}

// OBJ represents a parsed Wavefront OBJ mesh.
// Attribute arrays are flat: Vertices and Normals hold 3 floats per entry,
// UVs hold 2.
type OBJ struct {
	Vertices []float32
	UVs      []float32
	Normals  []float32
	Polygons []OBJPolygon
	Groups   []OBJGroup
}

// VertexCount returns the number of xyz positions.
func (o *OBJ) VertexCount() int {
	return len(o.Vertices) / 3
}

// UVCount returns the number of texture coordinates.
func (o *OBJ) UVCount() int {
	return len(o.UVs) / 2
}

// NormalCount returns the number of normals.
func (o *OBJ) NormalCount() int {
	return len(o.Normals) / 3
}

// Vertex returns the position at index i.
func (o *OBJ) Vertex(i int) [3]float32 {
	return [3]float32{o.Vertices[3*i], o.Vertices[3*i+1], o.Vertices[3*i+2]}
}

// UV returns the texture coordinate at index i.
func (o *OBJ) UV(i int) [2]float32 {
	return [2]float32{o.UVs[2*i], o.UVs[2*i+1]}
}

// IndexCount returns the total number of face corners.
func (o *OBJ) IndexCount() int {
	n := 0
	for _, p := range o.Polygons {
		n += len(p)
	}
	return n
}

// Group returns the first group with the given id, or nil.
func (o *OBJ) Group(id string) *OBJGroup {
	for i := range o.Groups {
		if o.Groups[i].ID == id {
			return &o.Groups[i]
		}
	}
	return nil
}

// GroupPolygons returns the polygons belonging to g.
func (o *OBJ) GroupPolygons(g *OBJGroup) []OBJPolygon {
	return o.Polygons[g.Offset:g.End()]
}

// Materials returns the distinct material names in order of first use.
func (o *OBJ) Materials() []string {
	var names []string
	seen := make(map[string]bool)
	for _, g := range o.Groups {
		if !g.HasMaterial() || seen[g.Material] {
			continue
		}
		seen[g.Material] = true
		names = append(names, g.Material)
	}
	return names
}

// OBJParseOptions controls how lenient the parser is.
type OBJParseOptions struct {
	// Permissive stores NaN for coordinate tokens that are not numbers
	// instead of failing.
	Permissive bool
	// ParseNormals honours "vn" lines. Without it they are ignored and
	// Normals stays empty.
	ParseNormals bool
}

// ParseOBJ parses Wavefront OBJ text with strict number handling.
func ParseOBJ(text string) (*OBJ, error) {
	return ParseOBJWithOptions(text, OBJParseOptions{})
}

// ParseOBJWithOptions parses Wavefront OBJ text.
// Supported directives are g, usemtl, v, vt and f (plus vn when enabled);
// everything else is skipped. On error no partial mesh is returned.
func ParseOBJWithOptions(text string, opts OBJParseOptions) (*OBJ, error) {
	p := &objParser{opts: opts, obj: &OBJ{}}

	for i, raw := range strings.Split(text, "\n") {
		p.line = i + 1
		if err := p.parseLine(raw); err != nil {
			return nil, err
		}
	}

	return p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(string(data))
}

// objParser holds the accumulators of a single ParseOBJ call.
type objParser struct {
	opts OBJParseOptions
	obj  *OBJ
	line int
}

// currentGroup returns the group that new faces belong to.
// A later "g" always appends, so it is the last one.
func (p *objParser) currentGroup() *OBJGroup {
	return &p.obj.Groups[len(p.obj.Groups)-1]
}

func (p *objParser) parseLine(raw string) error {
	line, _, _ := strings.Cut(raw, "#")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	command, rest, err := p.splitLine(line)
	if err != nil {
		return err
	}

	switch command {
	case "g":
		p.openGroup(rest)
		return nil
	case "usemtl", "v", "vt", "f":
		if len(p.obj.Groups) == 0 {
			p.openGroup(OBJDefaultGroup)
		}
	}

	switch command {
	case "usemtl":
		p.currentGroup().Material = rest
	case "v":
		return p.appendFloats(&p.obj.Vertices, command, strings.Fields(rest))
	case "vn":
		if p.opts.ParseNormals {
			return p.appendFloats(&p.obj.Normals, command, strings.Fields(rest))
		}
	case "vt":
		tokens := strings.Fields(rest)
		if len(tokens) < 2 {
			return fmt.Errorf("%w: line %d: vt needs two coordinates: %q", ErrMalformedOBJLine, p.line, line)
		}
		return p.appendFloats(&p.obj.UVs, command, tokens[:2])
	case "f":
		poly, err := p.parseFace(strings.Fields(rest))
		if err != nil {
			return err
		}
		p.obj.Polygons = append(p.obj.Polygons, poly)
		p.currentGroup().Size++
	}

	return nil
}

// splitLine separates the command word from the rest of the line.
func (p *objParser) splitLine(line string) (command, rest string, err error) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: line %d: missing arguments: %q", ErrMalformedOBJLine, p.line, line)
	}

	command = line[:idx]
	for _, r := range command {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", "", fmt.Errorf("%w: line %d: invalid command %q", ErrMalformedOBJLine, p.line, command)
		}
	}

	return command, strings.TrimSpace(line[idx:]), nil
}

func (p *objParser) openGroup(id string) {
	p.obj.Groups = append(p.obj.Groups, OBJGroup{
		ID:     id,
		Offset: len(p.obj.Polygons),
	})
}

func (p *objParser) appendFloats(dst *[]float32, command string, tokens []string) error {
	for _, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 32)
		// Out of range values come back as ±Inf; ranges are not checked here.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			if !p.opts.Permissive {
				return &MalformedNumberError{Line: p.line, Command: command, Token: tok, Err: err}
			}
			f = math.NaN()
		}
		*dst = append(*dst, float32(f))
	}
	return nil
}

// parseFace parses the point tokens of an "f" line.
// Points have the forms v, v/vt, v/vt/vn and v//vn with 1-based indices.
func (p *objParser) parseFace(points []string) (OBJPolygon, error) {
	poly := make(OBJPolygon, 0, len(points))

	for _, point := range points {
		parts := strings.Split(point, "/")
		if len(parts) > 3 {
			return nil, fmt.Errorf("%w: line %d: face point %q has too many components", ErrMalformedOBJLine, p.line, point)
		}

		vertex, err := p.parseIndex(parts[0])
		if err != nil {
			return nil, err
		}

		var pv OBJPolyVertex
		pv.Vertex = vertex
		if len(parts) > 1 && parts[1] != "" {
			if pv.UV.Value, err = p.parseIndex(parts[1]); err != nil {
				return nil, err
			}
			pv.UV.Valid = true
		}
		if len(parts) > 2 && parts[2] != "" {
			if pv.Normal.Value, err = p.parseIndex(parts[2]); err != nil {
				return nil, err
			}
			pv.Normal.Valid = true
		}

		poly = append(poly, pv)
	}

	return poly, nil
}

// parseIndex converts a 1-based OBJ index to 0-based.
func (p *objParser) parseIndex(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &MalformedNumberError{Line: p.line, Command: "f", Token: tok, Err: err}
	}
	return n - 1, nil
}
