// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"q3level/cache"
	"q3level/config"
	"q3level/conlog"
	"q3level/filesystem"
)

var (
	cfg     *config.Config
	cfgFile string

	baseDir    string
	game       string
	logLevel   string
	logFormat  string
	noProgress bool

	log    *slog.Logger
	search *filesystem.SearchPath
	levels *cache.Levels
)

var rootCmd = &cobra.Command{
	Use:   "q3level",
	Short: "Quake III level inspection and export tool",
	Long: `q3level decodes Quake III Arena and Return to Castle Wolfenstein bsp files
from a game directory, its pak and pk3 archives.

It prints the lump directory and table sizes of a level, counts the geometry
of its submodels, writes lightmaps as png files and exports levels into a
queryable SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("basedir") {
			cfg.BaseDir = baseDir
		}
		if cmd.Flags().Changed("game") {
			cfg.Game = game
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}

		log, err = conlog.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(log)

		log.Debug("Configuration",
			"basedir", cfg.BaseDir,
			"game", cfg.Game,
			"database", cfg.Database,
			"cache_size", cfg.CacheSize,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		dir := filepath.Join(cfg.BaseDir, cfg.Game)
		search, err = filesystem.Mount(afero.NewOsFs(), dir)
		if err != nil {
			return fmt.Errorf("failed to mount %s: %w", dir, err)
		}
		log.Debug("Search path", "archives", search.String())

		levels, err = cache.New(search, log, cfg.CacheSize)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if search == nil {
			return nil
		}
		return search.Close()
	},
}

// levelPath accepts 'q3dm17' as short form of 'maps/q3dm17.bsp'.
func levelPath(arg string) string {
	arg = filepath.ToSlash(arg)
	if strings.Contains(arg, "/") || filesystem.Ext(arg) != "" {
		return arg
	}
	return "maps/" + arg + ".bsp"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is q3level.yaml in home or pwd)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "basedir", "b", "", "directory containing the game directories")
	rootCmd.PersistentFlags().StringVarP(&game, "game", "g", "", "game directory below basedir")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")

	rootCmd.AddCommand(lsCmd, infoCmd, countCmd, lightmapsCmd, texturesCmd, exportCmd)
}
