// Package checker feeds discovered class models through the rule engine.
package checker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/lracheck/internal/catalog"
	"github.com/codewithboateng/lracheck/internal/metadata"
	"github.com/codewithboateng/lracheck/internal/metrics"
	"github.com/codewithboateng/lracheck/internal/model"
	"github.com/codewithboateng/lracheck/internal/rules"
)

type Options struct {
	// Parallelism bounds concurrent class validation; <= 1 runs sequentially.
	Parallelism int
	Metrics     *metrics.Metrics
}

// Check validates every class into cat and returns one summary per class,
// in input order. Validation problems land in cat; the returned error is
// reserved for a nil model or a cancelled context.
func Check(ctx context.Context, classes []model.ClassModel, engine *rules.Engine, cat *catalog.Catalog, opts Options) ([]model.ClassSummary, error) {
	summaries := make([]model.ClassSummary, len(classes))

	checkOne := func(i int) error {
		c := &classes[i]
		if len(c.AncestorChain) == 0 {
			_, err := engine.Validate(c)
			return err
		}
		start := time.Now()
		md := metadata.Load(c)
		fs := engine.Evaluate(md)
		opts.Metrics.ObserveClass(fs, time.Since(start))
		for _, f := range fs {
			cat.Add(f)
		}
		summaries[i] = model.ClassSummary{
			Name:          c.Name,
			AncestorChain: c.AncestorChain,
			Active:        md.ActiveMethods(),
			Findings:      len(fs),
		}
		return nil
	}

	if opts.Parallelism <= 1 {
		for i := range classes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := checkOne(i); err != nil {
				return nil, err
			}
		}
		return summaries, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i := range classes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return checkOne(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ReportFindings returns the catalog content in report order: insertion
// order for sequential runs, sorted otherwise.
func ReportFindings(cat *catalog.Catalog, parallelism int) []model.Finding {
	if parallelism > 1 {
		return cat.Sorted()
	}
	return cat.Findings()
}
