// Package generate orchestrates one full generation pass: layout, final
// rendering with marks burned in, annotation compositing, serialization
// and best-effort delivery to registered save listeners.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hauspek/reportkit/composite"
	"github.com/hauspek/reportkit/content"
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/layout"
	"github.com/hauspek/reportkit/observability"
	"github.com/hauspek/reportkit/render"
	"github.com/hauspek/reportkit/writer"
)

// Request is the input for one generation pass. Marks and Strokes are
// caller-owned, loaded from the host's persistence, and are consumed, not
// retained. Exactly one of Snapshot or (Strokes and Surface) may carry
// annotations; Snapshot wins when both are present.
type Request struct {
	Content  *content.Content
	Kind     doc.Kind
	Marks    doc.MarkState
	Strokes  *doc.StrokeLog
	Surface  *composite.Surface
	Snapshot *composite.Snapshot
	Version  int64
}

// Artifact is the output of a successful pass.
type Artifact struct {
	Bytes    []byte
	Filename string
	Version  int64
	Pages    int
	Regions  *doc.Registry
}

// Generator runs generation passes. A single Generator may serve many
// passes, but no two passes run concurrently against the same Request
// content; the caller serializes per document.
type Generator struct {
	layout   *layout.Engine
	renderer *render.Renderer
	writer   *writer.Writer
	logger   observability.Logger
	now      func() time.Time
	validate bool

	listeners *ListenerRegistry
}

// Option configures a Generator.
type Option func(*Generator)

// WithLayoutEngine overrides the default layout engine.
func WithLayoutEngine(e *layout.Engine) Option {
	return func(g *Generator) { g.layout = e }
}

// WithLogger installs a logger.
func WithLogger(l observability.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithClock overrides the timestamp source used for filenames.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithValidation toggles post-build PDF validation (default on).
func WithValidation(v bool) Option {
	return func(g *Generator) { g.validate = v }
}

// NewGenerator builds a Generator around the given renderer.
func NewGenerator(r *render.Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer:  r,
		writer:    writer.NewWriter(writer.Config{}),
		logger:    observability.NopLogger{},
		now:       time.Now,
		validate:  true,
		listeners: NewListenerRegistry(observability.NopLogger{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.layout == nil {
		g.layout = layout.NewEngine(r.Measurer())
	}
	g.listeners.logger = g.logger
	return g
}

// Listeners exposes the save-listener registry.
func (g *Generator) Listeners() *ListenerRegistry { return g.listeners }

// Generate runs one pass: layout, render with marks burned in, composite
// annotations, serialize, validate, then notify listeners best-effort.
func (g *Generator) Generate(ctx context.Context, req Request) (*Artifact, error) {
	if req.Content == nil {
		return nil, fmt.Errorf("generate: nil content")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := g.now()

	res := g.layout.Compose(req.Content, req.Kind)
	g.logger.Debug("layout composed",
		observability.Int(observability.MetricPageCount, len(res.Pages)),
		observability.Int(observability.MetricRegionCount, res.Regions.Len()))

	// Marks referring to content that no longer exists are dropped before
	// burn-in; stale ids must never produce orphan glyphs.
	if req.Marks != nil {
		req.Marks.Prune(res.Regions)
	}

	pages := g.renderer.RenderAll(res, req.Marks)

	switch {
	case req.Snapshot != nil:
		composite.FromSnapshot(pages, *req.Snapshot)
	case req.Strokes != nil && req.Surface != nil:
		composite.Strokes(pages, req.Strokes, *req.Surface, res.PageW, g.renderer.Scale(), g.logger)
	}

	b, err := g.writer.Bytes(&writer.Document{
		Title: req.Content.Project,
		PageW: res.PageW,
		PageH: res.PageH,
		Pages: pages,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: serialize: %w", err)
	}

	if g.validate {
		conf := model.NewDefaultConfiguration()
		conf.ValidationMode = model.ValidationRelaxed
		if err := api.Validate(bytes.NewReader(b), conf); err != nil {
			return nil, fmt.Errorf("generate: output failed validation: %w", err)
		}
	}

	art := &Artifact{
		Bytes:    b,
		Filename: Filename(req.Content.Project, req.Kind, g.now()),
		Version:  req.Version,
		Pages:    len(pages),
		Regions:  res.Regions,
	}
	g.logger.Info("document generated",
		observability.String("filename", art.Filename),
		observability.Int(observability.MetricPageCount, art.Pages),
		observability.Float64(observability.MetricWriteTime, g.now().Sub(started).Seconds()))

	g.listeners.Notify(art.Bytes, art.Filename)
	return art, nil
}
