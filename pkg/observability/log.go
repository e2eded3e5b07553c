package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every hook event to a structured logger. Successful
// events are logged at debug level, failures at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// Register installs h for pipeline, cache and HTTP events.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.Logger.Error(msg, append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

func (h *LogHooks) OnImportStart(_ context.Context, source string) {
	h.Logger.Debug("import", "source", source)
}

func (h *LogHooks) OnImportComplete(_ context.Context, source string, rows int, d time.Duration, err error) {
	h.done("imported", err, "source", source, "rows", rows, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, rows int) {
	h.Logger.Debug("layout", "viz", vizType, "rows", rows)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, nodes int, d time.Duration, err error) {
	h.done("layout done", err, "viz", vizType, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render done", err, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, id, method, path string) {
	h.Logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "id", id, "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, id, method, path string, err error) {
	h.Logger.Warn("request failed", "id", id, "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
