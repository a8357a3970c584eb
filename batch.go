package triage

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used by ClassifyBatch when no limit is given.
const DefaultConcurrency = 4

// Item is one email submitted to ClassifyBatch.
type Item struct {
	ID    string
	Email string
}

// BatchResult is the outcome for one Item. Exactly one of Result and Err is
// set.
type BatchResult struct {
	ItemID    string
	RequestID string
	Result    *Result
	Err       error
}

// ClassifyBatch classifies items with at most concurrency calls in flight.
// Results are returned in input order; a failed item never cancels the
// others. Items without an ID are numbered from 1.
func (c *Classifier) ClassifyBatch(ctx context.Context, strategy *Strategy, items []Item, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]BatchResult, len(items))
	var group errgroup.Group
	group.SetLimit(concurrency)
	for i, item := range items {
		id := item.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		results[i] = BatchResult{ItemID: id, RequestID: uuid.NewString()}
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = c.classify(ctx, strategy, item.Email, results[i].RequestID)
			return nil
		})
	}
	group.Wait()
	return results
}

// StrategyResult is the outcome of one strategy in ClassifyAll.
type StrategyResult struct {
	Strategy *Strategy
	Result   *Result
	Err      error
}

// ClassifyAll runs every strategy on the same email concurrently and returns
// the outcomes in strategy order.
func (c *Classifier) ClassifyAll(ctx context.Context, strategies []*Strategy, email string) []StrategyResult {
	results := make([]StrategyResult, len(strategies))
	var group errgroup.Group
	for i, strategy := range strategies {
		results[i].Strategy = strategy
		group.Go(func() error {
			results[i].Result, results[i].Err = c.Classify(ctx, strategy, email)
			return nil
		})
	}
	group.Wait()
	return results
}
