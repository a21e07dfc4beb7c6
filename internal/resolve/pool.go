package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lyricsync/internal/segment"
)

// ResolveBatch resolves several clips concurrently, bounded by limit so the
// aggregate call rate stays within provider limits. Results are returned in
// request order; individual failures surface as UNRESOLVED entries, never as
// an error.
func (r *Resolver) ResolveBatch(ctx context.Context, reqs []Request, limit int) []segment.SegmentResolution {
	if limit <= 0 {
		limit = 1
	}

	results := make([]segment.SegmentResolution, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = r.Resolve(gctx, req)
			return nil
		})
	}
	// Workers never return errors; Resolve reports failure through status.
	_ = g.Wait()
	return results
}
