package worker

import (
	"context"
	"errors"

	"github.com/ppiankov/sandbox-validator/internal/model"
	"github.com/ppiankov/sandbox-validator/internal/validate"
)

// Evaluator scores one raw record document (JSON)
type Evaluator interface {
	EvaluateJSON(ctx context.Context, data []byte) (model.EvaluationResult, error)
}

// Item is one record of a batch. Label identifies it in output (file name, line).
type Item struct {
	Label string
	Data  []byte
}

// batchKey is the single Limiter key shared by every worker of a batch
const batchKey = "batch"

// EvaluateJob evaluates one batch item
type EvaluateJob struct {
	Item      Item
	Evaluator Evaluator
	Pacer     *Limiter // optional
}

// Execute executes the evaluation job
func (j *EvaluateJob) Execute(ctx context.Context) Result {
	if j.Pacer != nil {
		if err := j.Pacer.Wait(ctx, batchKey); err != nil {
			return &EvaluateResult{Label: j.Item.Label, Error: err}
		}
	}

	result, err := j.Evaluator.EvaluateJSON(ctx, j.Item.Data)
	if err != nil {
		return &EvaluateResult{Label: j.Item.Label, Error: err}
	}
	return &EvaluateResult{Label: j.Item.Label, Result: &result}
}

// EvaluateResult represents the outcome of one batch item
type EvaluateResult struct {
	Label  string
	Result *model.EvaluationResult
	Error  error
}

// GetError returns the error from the evaluation
func (r *EvaluateResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many records concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	pacer       *Limiter
}

// NewBatchProcessor creates a batch processor. A positive rps paces evaluations
// across all workers; zero disables pacing.
func NewBatchProcessor(evaluator Evaluator, concurrency int, rps float64, burst int) *BatchProcessor {
	b := &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		b.pacer = NewLimiter(rps, burst)
	}
	return b
}

// Process evaluates items and returns one result per item, in input order
func (b *BatchProcessor) Process(ctx context.Context, items []Item) []*EvaluateResult {
	jobs := make([]Job, len(items))
	for i, item := range items {
		jobs[i] = &EvaluateJob{Item: item, Evaluator: b.evaluator, Pacer: b.pacer}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*EvaluateResult, len(results))
	for i, res := range results {
		if er, ok := res.(*EvaluateResult); ok {
			out[i] = er
			continue
		}
		out[i] = &EvaluateResult{Label: items[i].Label, Error: res.GetError()}
	}
	return out
}

// Summary counts batch outcomes
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Invalid   int // Failed items rejected by validation
	Phases    map[model.Phase]int
}

// Summarize tallies results by outcome and recommended phase
func Summarize(results []*EvaluateResult) Summary {
	s := Summary{Total: len(results), Phases: make(map[model.Phase]int)}
	for _, r := range results {
		if r.Error != nil || r.Result == nil {
			s.Failed++
			if validate.IsValidation(r.Error) {
				s.Invalid++
			}
			continue
		}
		s.Succeeded++
		s.Phases[r.Result.Phase]++
	}
	return s
}

// Err joins every item error, labelled, or returns nil
func Err(results []*EvaluateResult) error {
	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, &ItemError{Label: r.Label, Err: r.Error})
		}
	}
	return errors.Join(errs...)
}

// ItemError ties an evaluation error to its batch item
type ItemError struct {
	Label string
	Err   error
}

func (e *ItemError) Error() string {
	return e.Label + ": " + e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
