package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Import reads a table file, reporting the import to the pipeline hooks.
func (r *Runner) Import(ctx context.Context, path string) (*table.Table, error) {
	hooks := observability.Pipeline()
	hooks.OnImportStart(ctx, path)
	start := time.Now()

	t, err := table.ImportFile(path)
	rows := 0
	if t != nil {
		rows = len(t.Rows)
	}
	hooks.OnImportComplete(ctx, path, rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("imported table", "path", path, "rows", rows, "stages", t.Stages())
	return t, nil
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, t *table.Table, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if len(opts.Titles) == 0 {
		opts.Titles = t.Titles
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	hash, err := t.Hash()
	if err != nil {
		return nil, err
	}
	result := &Result{
		TableHash: hash,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.RowCount = len(t.Rows)

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.layoutWithCacheInfo(ctx, t, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.StageCount = l.Stages
	result.Stats.NodeCount = l.NodeCount()
	result.Stats.RibbonCount = len(l.Ribbons)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"stages", l.Stages,
		"nodes", l.NodeCount(),
		"ribbons", len(l.Ribbons),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *table.Table, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}
	if err := t.Validate(); err != nil {
		return layout.Layout{}, false, err
	}
	hash, err := t.Hash()
	if err != nil {
		return layout.Layout{}, false, err
	}
	return r.layoutWithCacheInfo(ctx, t, hash, opts)
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, t *table.Table, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

func (r *Runner) layoutWithCacheInfo(ctx context.Context, t *table.Table, tableHash string, opts Options) (layout.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(tableHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := decodeLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	l, err := ComputeLayout(ctx, t, opts)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := encodeLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// ComputeLayout builds the layout of t without caching.
func ComputeLayout(ctx context.Context, t *table.Table, opts Options) (layout.Layout, error) {
	layoutOpts, err := opts.LayoutOptions()
	if err != nil {
		return layout.Layout{}, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(t.Rows))
	start := time.Now()

	l, err := layout.Build(t, layoutOpts...)
	hooks.OnLayoutComplete(ctx, opts.VizType, l.NodeCount(), time.Since(start), err)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Reuse what is cached, render the rest
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, l, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
