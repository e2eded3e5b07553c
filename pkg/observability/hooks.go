// Package observability lets a program watch sankeyflow at work without the
// libraries depending on any metrics or tracing backend.
//
// Three hook sets cover the events worth watching: [PipelineHooks] for table
// import, layout and rendering, [CacheHooks] for cache lookups and writes,
// and [HTTPHooks] for API requests. Each starts as a no-op. A program swaps
// in its own implementation once, before work begins:
//
//	observability.SetPipelineHooks(myHooks)
//
// and library code reports through the accessors:
//
//	start := time.Now()
//	observability.Pipeline().OnLayoutStart(ctx, "sankey", len(t.Rows))
//	l, err := layout.Build(t, opts...)
//	observability.Pipeline().OnLayoutComplete(ctx, "sankey", l.NodeCount(), time.Since(start), err)
//
// [NewLogHooks] adapts all three hook sets to a structured logger; the
// serve command installs it.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// PipelineHooks receives import, layout and render events. vizType is
// "sankey" or "nodelink".
type PipelineHooks interface {
	OnImportStart(ctx context.Context, source string)
	OnImportComplete(ctx context.Context, source string, rows int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, vizType string, rows int)
	OnLayoutComplete(ctx context.Context, vizType string, nodeCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives API request events. OnError fires for every error
// response, before OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, requestID, method, path string, err error)
}

// =============================================================================
// No-op Defaults
// =============================================================================

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnImportStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnImportComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.pipeline, hooks.cache, hooks.http = fresh.pipeline, fresh.cache, fresh.http
	hooks.mu.Unlock()
}
