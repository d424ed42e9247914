// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"q3level/bsp"
)

var countCmd = &cobra.Command{
	Use:   "count <map> [model]",
	Short: "Count vertices, faces and triangles of a submodel",
	Long: `count sums up the geometry of the faces of a submodel. Model 0, the
default, is the world. Vertices only include polygon and mesh faces.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := 0
		if len(args) == 2 {
			var err error
			if model, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid model %q: %w", args[1], err)
			}
		}
		l, err := levels.Get(levelPath(args[0]))
		if err != nil {
			return err
		}
		c, err := countModel(l, model)
		if err != nil {
			return err
		}
		return c.write(cmd.OutOrStdout())
	},
}

type modelCounts struct {
	model     int
	vertices  int
	faces     int
	triangles int
}

func countModel(l *bsp.Level, model int) (modelCounts, error) {
	c := modelCounts{model: model}
	idx, err := l.FaceIndices(model)
	if err != nil {
		return c, err
	}
	if c.vertices, err = l.CountVertices(idx); err != nil {
		return c, err
	}
	if c.faces, err = l.CountFaces(idx); err != nil {
		return c, err
	}
	if c.triangles, err = l.CountTriangles(idx); err != nil {
		return c, err
	}
	return c, nil
}

func (c modelCounts) write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "model %d: %d vertices, %d faces, %d triangles\n",
		c.model, c.vertices, c.faces, c.triangles)
	return err
}
