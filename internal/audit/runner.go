// Package audit crawls a deployed fixture set and reports every fixture
// that fails to load, validate or reconcile.
package audit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/wtstats/wtstats/internal/adapters/fixtures"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/pkg/logger"
	"github.com/wtstats/wtstats/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Run audits the fixtures at cfg.URL. The manager index must load since
// the pair list comes from it; every other failure is recorded in the
// report. The returned error wraps ErrHardFailures when any fixture is
// broken.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := newReport(uuid.NewString())
	log := logger.Named("audit").With(logger.String("runID", report.RunID))

	client, err := fixtures.New(cfg.URL,
		fixtures.WithBasePath(cfg.BasePath),
		fixtures.WithTimeout(cfg.Timeout),
		fixtures.WithLogger(log))
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "starting fixture audit",
		logger.String("url", cfg.URL),
		logger.String("basePath", client.BasePath()),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	idx, err := client.Managers(ctx)
	report.add(fixtures.PathManagers, fixtures.Outcome(err), err)
	if err != nil {
		report.EndTime = time.Now()
		return report, fmt.Errorf("load manager index: %w", err)
	}
	report.Managers = len(idx.Managers)

	checkIndexes(ctx, client, report)

	if err := auditPairs(ctx, client, cfg, idx, report, log); err != nil {
		report.EndTime = time.Now()
		return report, err
	}

	report.EndTime = time.Now()
	log.Info(ctx, "fixture audit finished",
		logger.Int("pairs", report.Pairs),
		logger.Int("hardErrors", report.HardErrors()),
		logger.String("duration", report.Duration().String()))

	if n := report.HardErrors(); n > 0 {
		return report, fmt.Errorf("%w: %d", ErrHardFailures, n)
	}
	return report, nil
}

func checkIndexes(ctx context.Context, client *fixtures.Client, report *Report) {
	_, err := client.LeagueHistory(ctx)
	report.add(fixtures.PathLeagueHistory, fixtures.Outcome(err), err)
	_, err = client.DraftHistory(ctx)
	report.add(fixtures.PathDraftHistory, fixtures.Outcome(err), err)
	_, err = client.Articles(ctx)
	report.add(fixtures.PathArticles, fixtures.Outcome(err), err)
}

// Pairs returns every unordered pair of owner ids, lower id first.
func Pairs(idx model.ManagerIndex) [][2]int {
	ids := idx.IDs()
	slices.Sort(ids)
	ids = slices.Compact(ids)

	pairs := make([][2]int, 0, len(ids)*(len(ids)-1)/2)
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, [2]int{ids[i], ids[j]})
		}
	}
	return pairs
}

func auditPairs(ctx context.Context, client *fixtures.Client, cfg Config, idx model.ManagerIndex, report *Report, log logger.Logger) error {
	pairs := Pairs(idx)
	report.Pairs = len(pairs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resource := rivalry.ComparisonPath(p[0], p[1])
			err := checkPair(gctx, client, p[0], p[1])
			outcome := fixtures.Outcome(err)
			report.add(resource, outcome, err)
			switch {
			case err != nil && outcome != metrics.OutcomeNoHistory:
				log.Warn(gctx, "comparison fixture failed",
					logger.String("resource", resource),
					logger.String("outcome", outcome),
					logger.Error(err))
			case cfg.Verbose:
				log.Info(gctx, "comparison checked",
					logger.String("resource", resource),
					logger.String("outcome", outcome))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("audit interrupted: %w", err)
	}
	return ctx.Err()
}

// checkPair loads the comparison of lo and hi and reconciles it with lo
// as owner 1, then back with hi, and expects the orientation to match.
func checkPair(ctx context.Context, client *fixtures.Client, lo, hi int) error {
	rec, err := client.Comparison(ctx, lo, hi)
	if err != nil {
		return err
	}
	first, err := rivalry.Reconcile(rec, lo)
	if err != nil {
		return err
	}
	second, err := rivalry.Reconcile(first, hi)
	if err != nil {
		return err
	}
	if second.Owner1Info.OwnerID != hi || second.Owner2Info.OwnerID != lo {
		return &rivalry.DataIntegrityError{
			Requested: []int{hi, lo},
			Found:     [2]int{second.Owner1Info.OwnerID, second.Owner2Info.OwnerID},
		}
	}
	return nil
}
