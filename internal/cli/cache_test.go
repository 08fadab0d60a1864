package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/sandbox-validator/internal/cache"
	"github.com/ppiankov/sandbox-validator/internal/model"
)

func TestPruneCache(t *testing.T) {
	dir := t.TempDir()
	disk := cache.NewDiskCache(dir, time.Hour)
	if err := disk.Set("old", []byte(`"x"`), -time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := disk.Set("new", []byte(`"y"`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	removed, err := pruneCache(model.CacheConfig{DiskDir: dir, DiskTTL: time.Hour})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed entry, got %d", removed)
	}
	if _, ok := disk.Get("new"); !ok {
		t.Error("Expected fresh entry to survive")
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	disk := cache.NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte(`"v"`), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Clearing works with result caching switched off
	if err := clearCache(model.CacheConfig{Enabled: false, DiskDir: dir, DiskTTL: time.Hour}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected cache directory removed, stat err = %v", err)
	}
}

func TestCacheCommands_NoDiskDir(t *testing.T) {
	if _, err := pruneCache(model.CacheConfig{Enabled: true}); !errors.Is(err, errNoDiskCache) {
		t.Errorf("prune: expected errNoDiskCache, got %v", err)
	}
	if err := clearCache(model.CacheConfig{Enabled: true}); !errors.Is(err, errNoDiskCache) {
		t.Errorf("clear: expected errNoDiskCache, got %v", err)
	}
}
