package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bytethoughts/internal/domain"
	"bytethoughts/pkg/log"
)

// Section sizes of the home page.
const (
	HomeTopCount      = 5
	HomeTrendingCount = 4
	HomeLatestCount   = 6
)

// HomeCounts overrides the default section sizes. Zero fields keep the
// defaults.
type HomeCounts struct {
	Top      int
	Trending int
	Latest   int
}

// HomePage holds the three sections. Each one fails on its own: a failed
// section is an empty batch carrying its error.
type HomePage struct {
	Top      domain.Batch
	Trending domain.Batch
	Latest   domain.Batch
}

// GetHome loads the home page sections.
type GetHome struct {
	source HomeSource
	counts HomeCounts
}

func NewGetHome(source HomeSource, counts HomeCounts) *GetHome {
	if counts.Top <= 0 {
		counts.Top = HomeTopCount
	}
	if counts.Trending <= 0 {
		counts.Trending = HomeTrendingCount
	}
	if counts.Latest <= 0 {
		counts.Latest = HomeLatestCount
	}
	return &GetHome{source: source, counts: counts}
}

// Execute issues the three fetches concurrently and returns once all of them
// have resolved.
func (uc *GetHome) Execute(ctx context.Context) HomePage {
	var page HomePage

	// Sources never return an error from the goroutines; failures travel in
	// the batches, so one section cannot cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		page.Top = uc.source.TopArticles(ctx, uc.counts.Top)
		return nil
	})
	g.Go(func() error {
		page.Trending = uc.source.TrendingArticles(ctx, uc.counts.Trending)
		return nil
	})
	g.Go(func() error {
		page.Latest = uc.source.Articles(ctx, 1, uc.counts.Latest)
		return nil
	})
	_ = g.Wait()

	for name, b := range map[string]domain.Batch{"top": page.Top, "trending": page.Trending, "latest": page.Latest} {
		if b.Err != nil {
			log.GlobalWarnCtx(ctx, "home section unavailable", "section", name, "error", b.Err)
		}
	}

	return page
}
