package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/sandbox-validator/internal/cache"
	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/observability"
	"github.com/ppiankov/sandbox-validator/internal/score"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

// Engine orchestrates one evaluation: validate, cache lookup, score, record metrics
type Engine struct {
	score   func(model.ExperimentRecord) model.EvaluationResult
	results *cache.Results // nil when caching is disabled
	logger  *slog.Logger
}

// NewEngine creates an engine. A nil cache disables result caching.
func NewEngine(c cache.Cache, ttl time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		score:  score.NewScorer().Evaluate,
		logger: logger,
	}
	if c != nil {
		e.results = cache.NewResults(c, ttl)
	}
	return e
}

// NewEngineFromConfig creates an engine with the cache described by cfg.
// Expired disk entries are pruned first.
func NewEngineFromConfig(cfg *model.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Cache.Enabled && cfg.Cache.DiskDir != "" {
		removed, err := cache.NewDiskCache(cfg.Cache.DiskDir, cfg.Cache.DiskTTL).Prune()
		if err != nil {
			logger.Warn("disk cache prune failed", "dir", cfg.Cache.DiskDir, "error", err)
		} else if removed > 0 {
			logger.Debug("disk cache pruned", "dir", cfg.Cache.DiskDir, "removed", removed)
		}
	}
	return NewEngine(cache.New(cfg.Cache), 0, logger)
}

// Evaluate scores a validated record. It fails only with an InternalError or
// when ctx is already done.
func (e *Engine) Evaluate(ctx context.Context, r model.ExperimentRecord) (model.EvaluationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.EvaluationResult{}, err
	}

	cacheState := observability.CacheOff
	if e.results != nil {
		if cached, found := e.results.Load(r); found {
			observability.RecordEvaluation(observability.OutcomeOK, observability.CacheHit)
			return cached, nil
		}
		cacheState = observability.CacheMiss
	}

	start := time.Now()
	result, err := e.safeScore(r)
	if err != nil {
		observability.RecordEvaluation(observability.OutcomeInternal, cacheState)
		e.logger.ErrorContext(ctx, "evaluation failed", "error", err, "subject", r.Subject())
		return model.EvaluationResult{}, err
	}
	observability.RecordResult(result.Score, int(result.Phase), time.Since(start).Seconds())
	observability.RecordEvaluation(observability.OutcomeOK, cacheState)

	if e.results != nil {
		if err := e.results.Store(r, result); err != nil {
			e.logger.WarnContext(ctx, "cache store failed", "error", err)
		}
	}

	e.logger.DebugContext(ctx, "evaluated",
		"subject", r.Subject(),
		"score", result.Score,
		"phase", int(result.Phase),
		"trl", result.MaturityLevel,
	)
	return result, nil
}

// EvaluateJSON validates a raw record, bare or enveloped, and scores it
func (e *Engine) EvaluateJSON(ctx context.Context, data []byte) (model.EvaluationResult, error) {
	r, err := validate.Record(data)
	if err != nil {
		e.rejected(err)
		return model.EvaluationResult{}, err
	}
	return e.Evaluate(ctx, r)
}

// DecodeRequest validates a scoring request body ({"experimento": ...})
func (e *Engine) DecodeRequest(body []byte) (model.ExperimentRecord, error) {
	r, err := validate.ScoreRequest(body)
	if err != nil {
		e.rejected(err)
		return model.ExperimentRecord{}, err
	}
	return r, nil
}

// EvaluateRequest validates a scoring request body and scores it
func (e *Engine) EvaluateRequest(ctx context.Context, body []byte) (model.EvaluationResult, error) {
	r, err := e.DecodeRequest(body)
	if err != nil {
		return model.EvaluationResult{}, err
	}
	return e.Evaluate(ctx, r)
}

// rejected records an invalid input
func (e *Engine) rejected(err error) {
	observability.RecordEvaluation(observability.OutcomeInvalid, observability.CacheOff)
	var errs validate.Errors
	if errors.As(err, &errs) {
		e.logger.Debug("record rejected", "fields", errs.Fields())
	}
}

// safeScore runs the scorer, turning panics and broken results into InternalError
func (e *Engine) safeScore(r model.ExperimentRecord) (result model.EvaluationResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = model.EvaluationResult{}
			err = &InternalError{Op: "evaluate", Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	result = e.score(r)
	if err := checkResult(result); err != nil {
		return model.EvaluationResult{}, &InternalError{Op: "evaluate", Err: err}
	}
	return result, nil
}

// checkResult rejects results that break the output contract. No partial
// result ever leaves the engine.
func checkResult(res model.EvaluationResult) error {
	if res.Score < 0 || res.Score > 100 {
		return fmt.Errorf("score %d out of range", res.Score)
	}
	if len(res.Breakdown) != 6 {
		return fmt.Errorf("breakdown has %d criteria, want 6", len(res.Breakdown))
	}
	weights := 0
	for _, c := range res.Breakdown {
		if c.RawScore < 0 || c.RawScore > score.MaxRawScore {
			return fmt.Errorf("%s raw score %.1f out of range", c.Name, c.RawScore)
		}
		weights += c.Weight
	}
	if weights != score.TotalWeight {
		return fmt.Errorf("weights sum to %d, want %d", weights, score.TotalWeight)
	}
	if n := len(res.GoalTags); n < 1 || n > 3 {
		return fmt.Errorf("%d goal tags, want 1-3", n)
	}
	if res.Phase < model.PhaseInitial || res.Phase > model.PhaseProduction {
		return fmt.Errorf("phase %d out of range", res.Phase)
	}
	return nil
}
