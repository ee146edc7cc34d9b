package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objkit/internal/config"
	"github.com/Faultbox/objkit/internal/engine/model"
	"github.com/Faultbox/objkit/internal/loader"
	"github.com/Faultbox/objkit/pkg/formats"
)

// stdout is where command output goes; tests swap it out.
var stdout io.Writer = os.Stdout

func requireFile(name string, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("usage: objtool %s <file.obj>", name)
	}
	return args[0], nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	path, err := requireFile("info", args)
	if err != nil {
		return err
	}

	obj, err := loader.LoadFile(path, loaderOptions(cfg, false))
	if err != nil {
		return err
	}

	printInfo(stdout, path, obj)
	return nil
}

func printInfo(w io.Writer, path string, obj *formats.OBJ) {
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Vertices:  %d\n", obj.VertexCount())
	fmt.Fprintf(w, "UVs:       %d\n", obj.UVCount())
	fmt.Fprintf(w, "Normals:   %d\n", obj.NormalCount())
	fmt.Fprintf(w, "Polygons:  %d (%d corners)\n", len(obj.Polygons), obj.IndexCount())
	fmt.Fprintf(w, "Groups:    %d\n", len(obj.Groups))
	fmt.Fprintf(w, "Materials: %s\n", strings.Join(obj.Materials(), ", "))

	// Polygon arity histogram
	arity := make(map[int]int)
	maxArity := 0
	for _, p := range obj.Polygons {
		arity[len(p)]++
		maxArity = max(maxArity, len(p))
	}
	if len(arity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Polygons by corner count:")
		for n := 0; n <= maxArity; n++ {
			if arity[n] > 0 {
				fmt.Fprintf(w, "  %-4d %d\n", n, arity[n])
			}
		}
	}
}

func cmdGroups(cfg *config.Config, args []string) error {
	path, err := requireFile("groups", args)
	if err != nil {
		return err
	}

	obj, err := loader.LoadFile(path, loaderOptions(cfg, false))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tMATERIAL\tOFFSET\tSIZE")
	for _, g := range obj.Groups {
		material := g.Material
		if !g.HasMaterial() {
			material = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", g.ID, material, g.Offset, g.Size)
	}
	return tw.Flush()
}

func cmdValidate(cfg *config.Config, args []string) error {
	path, err := requireFile("validate", args)
	if err != nil {
		return err
	}

	obj, err := loader.LoadFile(path, loaderOptions(cfg, true))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: OK (%d polygons in %d groups)\n", path, len(obj.Polygons), len(obj.Groups))
	return nil
}

// dumpDoc is the YAML shape printed by 'dump'.
type dumpDoc struct {
	Vertices int         `yaml:"vertices"`
	UVs      int         `yaml:"uvs"`
	Normals  int         `yaml:"normals"`
	Groups   []dumpGroup `yaml:"groups"`
}

type dumpGroup struct {
	ID       string `yaml:"id"`
	Material string `yaml:"material,omitempty"`
	Offset   int    `yaml:"offset"`
	Size     int    `yaml:"size"`
	// Polygons lists corners as "vertex/uv/normal", zero-based, "-" when absent.
	Polygons [][]string `yaml:"polygons,flow"`
}

func cmdDump(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	limit := fs.Int("n", 0, "Limit polygons per group (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := requireFile("dump", fs.Args())
	if err != nil {
		return err
	}

	obj, err := loader.LoadFile(path, loaderOptions(cfg, false))
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(buildDump(obj, *limit))
}

func buildDump(obj *formats.OBJ, limit int) dumpDoc {
	doc := dumpDoc{
		Vertices: obj.VertexCount(),
		UVs:      obj.UVCount(),
		Normals:  obj.NormalCount(),
	}

	for i := range obj.Groups {
		g := &obj.Groups[i]
		polys := obj.GroupPolygons(g)
		if limit > 0 && len(polys) > limit {
			polys = polys[:limit]
		}

		dg := dumpGroup{ID: g.ID, Material: g.Material, Offset: g.Offset, Size: g.Size}
		for _, p := range polys {
			corners := make([]string, len(p))
			for j, pv := range p {
				corners[j] = fmt.Sprintf("%d/%s/%s", pv.Vertex, pv.UV, pv.Normal)
			}
			dg.Polygons = append(dg.Polygons, corners)
		}
		doc.Groups = append(doc.Groups, dg)
	}

	return doc
}

func cmdMesh(cfg *config.Config, args []string) error {
	path, err := requireFile("mesh", args)
	if err != nil {
		return err
	}

	obj, err := loader.LoadFile(path, loaderOptions(cfg, false))
	if err != nil {
		return err
	}

	mesh, err := model.BuildMesh(obj, buildOptions(cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	b := mesh.Bounds
	fmt.Fprintf(stdout, "Indices:   %d (%s)\n", len(mesh.Indices), mesh.IndexFormat())
	fmt.Fprintf(stdout, "Normals:   %d\n", len(mesh.Normals)/3)
	fmt.Fprintf(stdout, "Bounds:    min (%g, %g, %g) max (%g, %g, %g)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	size := b.Size()
	fmt.Fprintf(stdout, "Size:      %g x %g x %g\n", size[0], size[1], size[2])
	fmt.Fprintln(stdout)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tMATERIAL\tSTART\tCOUNT")
	for _, g := range mesh.Groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", g.ID, g.Material, g.StartIndex, g.IndexCount)
	}
	return tw.Flush()
}

func cmdWatch(cfg *config.Config, args []string) error {
	path, err := requireFile("watch", args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", path)
	return loader.Watch(ctx, path, loaderOptions(cfg, cfg.Mesh.Validate), func(obj *formats.OBJ, err error) {
		if err != nil {
			fmt.Fprintf(stdout, "%s: %v\n\n", path, err)
			return
		}
		printInfo(stdout, path, obj)
		fmt.Fprintln(stdout)
	})
}
