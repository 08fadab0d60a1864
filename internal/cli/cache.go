package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sandbox-validator/internal/cache"
	"github.com/ppiankov/sandbox-validator/internal/model"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the on-disk result cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		removed, err := pruneCache(cfg.Cache)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Removed %d expired entries from %s\n", removed, cfg.Cache.DiskDir)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		if err := clearCache(cfg.Cache); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Cleared %s\n", cfg.Cache.DiskDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

var errNoDiskCache = errors.New("no disk cache configured (set cache.disk_dir)")

func pruneCache(cfg model.CacheConfig) (int, error) {
	if cfg.DiskDir == "" {
		return 0, errNoDiskCache
	}
	return cache.NewDiskCache(cfg.DiskDir, cfg.DiskTTL).Prune()
}

// clearCache empties the configured layers even when caching is switched off.
func clearCache(cfg model.CacheConfig) error {
	if cfg.DiskDir == "" {
		return errNoDiskCache
	}
	cfg.Enabled = true
	return cache.New(cfg).Clear()
}
