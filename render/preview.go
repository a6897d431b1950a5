package render

import (
	"context"
	"image"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/layout"
	"github.com/hauspek/reportkit/observability"
)

// Preview holds asynchronously rasterized pages. Pages land keyed by
// index, so completion order never matters; Rendered only ever counts up
// and reaching Total signals full readiness.
type Preview struct {
	pages    []*image.RGBA
	rendered atomic.Int64
}

// Total returns the page count.
func (p *Preview) Total() int { return len(p.pages) }

// Rendered returns how many pages have finished rasterizing.
func (p *Preview) Rendered() int { return int(p.rendered.Load()) }

// Ready reports whether every page has been rasterized.
func (p *Preview) Ready() bool { return p.Rendered() == p.Total() }

// Page returns the rasterized page at the given index, or nil while it is
// still in flight.
func (p *Preview) Page(i int) *image.RGBA {
	if i < 0 || i >= len(p.pages) {
		return nil
	}
	return p.pages[i]
}

// RenderPreview rasterizes every page concurrently. Pages are independent,
// so each runs in its own task; the returned Preview is complete when the
// call returns without error.
func (r *Renderer) RenderPreview(ctx context.Context, res *layout.Result, marks doc.MarkState) (*Preview, error) {
	p := &Preview{pages: make([]*image.RGBA, len(res.Pages))}

	g, ctx := errgroup.WithContext(ctx)
	for _, page := range res.Pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.pages[page.Index] = r.RenderPage(res, page, marks)
			p.rendered.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Debug("preview rendered", observability.Int(observability.MetricPageCount, p.Total()))
	return p, nil
}

// RenderAll rasterizes every page sequentially in page order, for the
// final output path where the writer consumes pages in order anyway.
func (r *Renderer) RenderAll(res *layout.Result, marks doc.MarkState) []*image.RGBA {
	pages := make([]*image.RGBA, len(res.Pages))
	for _, page := range res.Pages {
		pages[page.Index] = r.RenderPage(res, page, marks)
	}
	return pages
}
