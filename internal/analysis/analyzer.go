// Package analysis fans one anchor variable and value out across every
// bivariate table involving that variable and assembles per-table
// conditional distributions into a single result.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/dataset"
	"github.com/sells-group/demographics-cli/internal/distribution"
	"github.com/sells-group/demographics-cli/internal/matcher"
	"github.com/sells-group/demographics-cli/internal/resilience"
	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

// Options bounds the fan-out.
type Options struct {
	// TableTimeout caps each table's fetch-and-compute pipeline. Zero means
	// 10 seconds.
	TableTimeout time.Duration
	// MaxConcurrent bounds parallel table pipelines. Zero means one worker
	// per table.
	MaxConcurrent int
}

// Analyzer runs anchor-conditioned analyses. Safe for concurrent use; the
// registry is immutable and each request carries its own state.
type Analyzer struct {
	reg    *taxonomy.Registry
	source dataset.TableSource
	match  *matcher.Matcher
	opts   Options
}

func New(reg *taxonomy.Registry, source dataset.TableSource, m *matcher.Matcher, opts Options) *Analyzer {
	if opts.TableTimeout <= 0 {
		opts.TableTimeout = 10 * time.Second
	}
	return &Analyzer{reg: reg, source: source, match: m, opts: opts}
}

// Analyze resolves the anchor value against the canonical category list,
// then runs each adjacent table's fetch/match/condition pipeline
// concurrently. Individual table failures become per-table statuses; the
// request as a whole fails only for an unknown anchor variable or a
// cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, geographyID, anchorVariable, anchorValue string) (*Result, error) {
	canonical, err := a.reg.CategoriesFor(anchorVariable)
	if err != nil {
		return nil, err
	}
	anchor := a.match.Match(anchorValue, canonical)

	tables, err := a.reg.TablesFor(anchorVariable)
	if err != nil {
		return nil, err
	}

	outcomes := make([]TableOutcome, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	limit := a.opts.MaxConcurrent
	if limit <= 0 {
		limit = len(tables)
	}
	g.SetLimit(limit)

	for i, tbl := range tables {
		g.Go(func() error {
			outcomes[i] = a.analyzeTable(gctx, geographyID, tbl, anchorVariable, anchorValue)
			return nil
		})
	}
	// Workers never return errors; Wait only orders the writes above.
	_ = g.Wait()

	// Partial results are discarded when the request itself is cancelled.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "analysis: request cancelled")
	}

	succeeded := 0
	for _, o := range outcomes {
		if o.Status == StatusSuccess {
			succeeded++
		}
	}

	zap.L().Info("analysis complete",
		zap.String("geoid", geographyID),
		zap.String("variable", anchorVariable),
		zap.String("value", anchorValue),
		zap.String("matched", anchor.Matched),
		zap.Int("attempted", len(outcomes)),
		zap.Int("succeeded", succeeded))

	return &Result{
		GeographyID:    geographyID,
		AnchorVariable: anchorVariable,
		AnchorValue:    anchorValue,
		ResolvedAnchor: anchor,
		Tables:         outcomes,
		Summary:        Summary{Attempted: len(outcomes), Succeeded: succeeded},
	}, nil
}

func (a *Analyzer) analyzeTable(ctx context.Context, geographyID string, tbl *taxonomy.Table, anchorVariable, anchorValue string) TableOutcome {
	paired, _ := tbl.PairedVariable(anchorVariable)
	out := TableOutcome{TableID: tbl.ID, PairedVariable: paired}

	ctx, cancel := context.WithTimeout(ctx, a.opts.TableTimeout)
	defer cancel()

	raw, err := a.source.FetchRawTable(ctx, geographyID, tbl.ID)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrNotFound):
			out.Status = StatusNoData
			out.Error = "no stored data for this table and geography"
		default:
			out.Status = StatusError
			out.Error = err.Error()
			out.Retryable = resilience.IsTransient(err)
		}
		zap.L().Warn("table pipeline failed",
			zap.String("table", tbl.ID),
			zap.String("geoid", geographyID),
			zap.String("status", string(out.Status)),
			zap.Error(err))
		return out
	}

	// The same concept may be bucketed differently per table, so the anchor
	// value is re-resolved against the table-local categories.
	local, err := a.reg.TableCategories(tbl.ID, anchorVariable)
	if err != nil {
		out.Status = StatusError
		out.Error = err.Error()
		return out
	}
	match := a.match.Match(anchorValue, local)
	out.MatchedCondition = match.Matched
	out.Explanation = match.Explanation
	if !match.Confident {
		out.Status = StatusNoMatch
		return out
	}

	dist, err := distribution.Conditional(raw, anchorVariable, match.Matched)
	if err != nil {
		out.Status = StatusError
		out.Error = err.Error()
		return out
	}
	out.Distribution = dist
	out.Status = StatusSuccess
	return out
}
