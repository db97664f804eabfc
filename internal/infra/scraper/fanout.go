package scraper

import (
	"context"
	"log/slog"

	"hynews/internal/domain/entity"
	"hynews/internal/usecase/normalize"

	"golang.org/x/sync/errgroup"
)

// detailFunc fetches the detail-page fields of one article as a raw record
// keyed like the source's translation table.
type detailFunc func(ctx context.Context, a *entity.Article) (normalize.RawRecord, error)

// enrichAll runs fetch for every article with bounded parallelism and merges
// each result into the article at the same index, so listing order survives.
// Failures are logged and leave the article's detail fields empty.
func (b *base) enrichAll(ctx context.Context, articles []entity.Article, fetch detailFunc) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Parallelism)

	for i := range articles {
		g.Go(func() error {
			a := &articles[i]
			if err := b.http.wait(gctx); err != nil {
				b.logDetailFailure(gctx, a, err)
				return nil
			}
			raw, err := fetch(gctx, a)
			if err != nil {
				b.logDetailFailure(gctx, a, err)
				return nil
			}
			b.opts.Normalizer.Enrich(a, raw, b.desc.ID)
			return nil
		})
	}

	_ = g.Wait()
}

func (b *base) logDetailFailure(ctx context.Context, a *entity.Article, err error) {
	b.opts.Logger.WarnContext(ctx, "article detail fetch failed",
		slog.String("source", string(b.desc.ID)),
		slog.String("url", a.URL),
		slog.Any("error", err))
}

// base carries what every adapter shares.
type base struct {
	desc entity.SourceDescriptor
	http *upstream
	opts Options
}

func newBase(desc entity.SourceDescriptor, opts Options) base {
	opts = opts.withDefaults()
	return base{
		desc: desc,
		http: newUpstream(desc.ID, opts),
		opts: opts,
	}
}

// Source returns the adapter's descriptor.
func (b *base) Source() entity.SourceDescriptor {
	return b.desc
}
