// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"q3level/bsp"
	"q3level/filesystem"
	"q3level/image"
)

var texturesCmd = &cobra.Command{
	Use:   "textures <map>",
	Short: "Check which texture images of a level are in the search path",
	Long: `textures looks up <name>.tga and <name>.jpg for every texture of the
level. Names without an image are usually shaders.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := levels.Get(levelPath(args[0]))
		if err != nil {
			return err
		}
		missing, err := writeTextures(cmd.OutOrStdout(), search, l, log)
		if err != nil {
			return err
		}
		log.Info("Checked textures", "level", l.Name(), "count", len(l.Textures), "missing", missing)
		return nil
	},
}

func writeTextures(w io.Writer, src filesystem.Archive, l *bsp.Level, log *slog.Logger) (int, error) {
	missing := 0
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i := range l.Textures {
		name := l.Textures[i].Name()
		img, fn, err := image.Load(src, name)
		switch {
		case errors.Is(err, image.ErrNotFound):
			missing++
			fmt.Fprintf(tw, "%s\tmissing\t\n", name)
		case err != nil:
			log.Warn("Broken texture", "name", name, "error", err)
			fmt.Fprintf(tw, "%s\t%s\tbroken\n", name, fn)
		default:
			b := img.Bounds()
			fmt.Fprintf(tw, "%s\t%s\t%dx%d\n", name, fn, b.Dx(), b.Dy())
		}
	}
	return missing, tw.Flush()
}
