// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"q3level/cache"
	"q3level/database"
	"q3level/filesystem"
	"q3level/progress"
)

var dbPath string

var exportCmd = &cobra.Command{
	Use:   "export [maps...]",
	Short: "Export levels into a SQLite database",
	Long: `export decodes the given levels, or every level of the search path if none
are given, and writes their tables into the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = levelPath(a)
		}
		if len(names) == 0 {
			names = search.List(".bsp")
		}
		if len(names) == 0 {
			return fmt.Errorf("no levels in %s", search)
		}

		db, err := database.Open(cmd.Context(), database.DefaultOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		bar := progress.New(os.Stderr, len(names), !noProgress)
		defer bar.Wait()
		return exportLevels(cmd.Context(), db, search, levels, names, bar, log)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&dbPath, "database", "d", "", "database file path")
}

// exportLevels writes every level of names into db. A level that cannot be
// decoded or stored is logged and skipped, the error then reports how many
// failed.
func exportLevels(ctx context.Context, db *database.Database, src filesystem.Archive,
	lc *cache.Levels, names []string, bar *progress.Bar, log *slog.Logger) error {
	failed := 0
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		bar.Describe(n)
		if err := exportLevel(ctx, db, src, lc, n, log); err != nil {
			log.Error("Export failed", "level", n, "error", err)
			failed++
		}
		bar.Increment()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levels failed to export", failed, len(names))
	}
	return nil
}

func exportLevel(ctx context.Context, db *database.Database, src filesystem.Archive,
	lc *cache.Levels, name string, log *slog.Logger) error {
	l, err := lc.Get(name)
	if err != nil {
		return err
	}
	hash, err := hashFile(src, name)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", name, err)
	}
	id, err := db.InsertLevel(ctx, l, hash)
	if err != nil {
		return err
	}
	log.Info("Exported level", "level", name, "id", id, "hash", fmt.Sprintf("%016x", hash),
		"faces", len(l.Faces), "vertices", len(l.Vertices))
	return nil
}

func hashFile(src filesystem.Archive, name string) (uint64, error) {
	f, err := src.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
