// Package cache stores evaluation results keyed by a digest of the record.
// Evaluation is deterministic, so a cached result is always valid for the
// same record and rubric version.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// KeyPrefix namespaces keys by rubric version. Bump it when scoring rules change.
const KeyPrefix = "sandbox:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RecordKey derives the cache key for a record. Fields are hashed in a fixed
// order with a separator, so moving text between fields changes the key.
func RecordKey(r model.ExperimentRecord) string {
	h := sha256.New()
	for _, field := range []string{
		r.Problem, r.Hypothesis, r.KPI, r.Baseline, r.Target, r.TestPlan,
		r.PrivacyRisks, r.Dependencies, r.ManagingUnit, r.Sponsor, r.References,
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Results stores evaluation results in a byte cache.
type Results struct {
	cache Cache
	ttl   time.Duration
}

// NewResults wraps c. A zero ttl uses each layer's default.
func NewResults(c Cache, ttl time.Duration) *Results {
	return &Results{cache: c, ttl: ttl}
}

// Load returns the cached result for the record, if any. Undecodable entries
// are dropped and reported as misses.
func (s *Results) Load(r model.ExperimentRecord) (model.EvaluationResult, bool) {
	key := RecordKey(r)
	data, found := s.cache.Get(key)
	if !found {
		return model.EvaluationResult{}, false
	}
	var result model.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = s.cache.Delete(key)
		return model.EvaluationResult{}, false
	}
	return result, true
}

// Store caches the result for the record.
func (s *Results) Store(r model.ExperimentRecord, result model.EvaluationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return s.cache.Set(RecordKey(r), data, s.ttl)
}

// New builds the cache described by cfg: nil when disabled, memory only when no
// disk directory is set, otherwise memory over disk.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	if cfg.DiskDir == "" {
		return memory
	}
	return NewLayeredCache(memory, NewDiskCache(cfg.DiskDir, cfg.DiskTTL))
}
