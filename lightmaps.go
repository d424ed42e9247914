// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"q3level/bsp"
	"q3level/filesystem"
	"q3level/image"
)

var lightmapsCmd = &cobra.Command{
	Use:   "lightmaps <map> <outdir>",
	Short: "Write the lightmaps of a level as png files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := levels.Get(levelPath(args[0]))
		if err != nil {
			return err
		}
		n, err := writeLightmaps(afero.NewOsFs(), args[1], l)
		if err != nil {
			return err
		}
		log.Info("Wrote lightmaps", "level", l.Name(), "count", n, "dir", args[1])
		return nil
	},
}

// writeLightmaps stores lightmap i of l as <dir>/<level>_lm<i>.png.
func writeLightmaps(fs afero.Fs, dir string, l *bsp.Level) (int, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	base := filesystem.Base(l.Name())
	for i := range l.Lightmaps {
		name := filepath.Join(dir, fmt.Sprintf("%s_lm%04d.png", base, i))
		if err := image.Write(fs, name, l.Lightmaps[i].Image()); err != nil {
			return i, fmt.Errorf("writing lightmap %d: %w", i, err)
		}
	}
	return len(l.Lightmaps), nil
}
