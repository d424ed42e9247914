// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"q3level/bsp"
	"q3level/maps"
	"q3level/math/vec"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <map>",
	Short: "Print the lump directory and table sizes of a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := levels.Get(levelPath(args[0]))
		if err != nil {
			return err
		}
		if infoJSON {
			return writeInfoJSON(cmd.OutOrStdout(), l)
		}
		return writeInfo(cmd.OutOrStdout(), l)
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print as json")
}

type tableSize struct {
	name  string
	count int
}

func tableSizes(l *bsp.Level) []tableSize {
	return []tableSize{
		{"vertices", len(l.Vertices)},
		{"mesh_vertices", len(l.MeshVertices)},
		{"faces", len(l.Faces)},
		{"submodels", len(l.Submodels)},
		{"textures", len(l.Textures)},
		{"lightmaps", len(l.Lightmaps)},
		{"planes", len(l.Planes)},
		{"nodes", len(l.Nodes)},
		{"leafs", len(l.Leafs)},
		{"leaf_faces", len(l.LeafFaces)},
		{"leaf_brushes", len(l.LeafBrushes)},
		{"brushes", len(l.Brushes)},
		{"brush_sides", len(l.BrushSides)},
		{"effects", len(l.Effects)},
		{"light_volumes", len(l.LightVolumes)},
		{"vis_clusters", l.Vis.VectorCount},
	}
}

// tolerance for the length of vertex normals
const normalEps = 1e-3

// nonUnitNormals counts vertices whose normal is not of unit length.
func nonUnitNormals(l *bsp.Level) int {
	n := 0
	for i := range l.Vertices {
		if !l.Vertices[i].Normal.IsUnit(normalEps) {
			n++
		}
	}
	return n
}

func writeInfo(w io.Writer, l *bsp.Level) error {
	mins, maxs := l.Bounds()
	size := vec.Sub(maxs, mins)
	fmt.Fprintf(w, "name:    %s\n", l.Name())
	if t := maps.Title(l.Name()); t != "" {
		fmt.Fprintf(w, "title:   %s\n", t)
	}
	fmt.Fprintf(w, "version: %d\n", l.Version)
	fmt.Fprintf(w, "bounds:  (%g %g %g) (%g %g %g)\n", mins.X, mins.Y, mins.Z, maxs.X, maxs.Y, maxs.Z)
	fmt.Fprintf(w, "size:    %g x %g x %g\n", size.X, size.Y, size.Z)
	if n := nonUnitNormals(l); n > 0 {
		fmt.Fprintf(w, "non-unit normals: %d\n", n)
	}
	fmt.Fprintf(w, "entities: %d bytes\n\n", len(l.EntityText))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "lump\toffset\tsize\t")
	for i, lp := range l.Lumps {
		fmt.Fprintf(tw, "%v\t%d\t%d\t\n", bsp.LumpID(i), lp.Offset, lp.Size)
	}
	fmt.Fprintln(tw, "\t\t\t")
	for _, s := range tableSizes(l) {
		fmt.Fprintf(tw, "%s\t%d\t\t\n", s.name, s.count)
	}
	return tw.Flush()
}

func infoStruct(l *bsp.Level) (*structpb.Struct, error) {
	mins, maxs := l.Bounds()
	size := vec.Sub(maxs, mins)
	lumps := make([]any, len(l.Lumps))
	for i, lp := range l.Lumps {
		lumps[i] = map[string]any{
			"name":   bsp.LumpID(i).String(),
			"offset": lp.Offset,
			"size":   lp.Size,
		}
	}
	tables := make(map[string]any)
	for _, s := range tableSizes(l) {
		tables[s.name] = s.count
	}
	return structpb.NewStruct(map[string]any{
		"name":    l.Name(),
		"title":   maps.Title(l.Name()),
		"version": l.Version,
		"mins":    []any{mins.X, mins.Y, mins.Z},
		"maxs":    []any{maxs.X, maxs.Y, maxs.Z},
		"size":    []any{size.X, size.Y, size.Z},
		"lumps":   lumps,
		"tables":  tables,

		"non_unit_normals": nonUnitNormals(l),
	})
}

func writeInfoJSON(w io.Writer, l *bsp.Level) error {
	s, err := infoStruct(l)
	if err != nil {
		return fmt.Errorf("building info of %s: %w", l.Name(), err)
	}
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
