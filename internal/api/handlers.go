package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/config"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/sink"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// request is a decoded render or layout request body.
type request struct {
	Table   *table.Table
	Options pipeline.Options
}

// envelope picks the options object out of a request body. The table is
// decoded from the same bytes by [table.Table.UnmarshalJSON].
type envelope struct {
	Rows    json.RawMessage `json:"rows"`
	Options json.RawMessage `json:"options"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
		if len(req.Options.Formats) > 0 {
			format = req.Options.Formats[0]
		}
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Options.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), req.Table, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Table, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	titles := req.Options.Titles
	if len(titles) == 0 {
		titles = req.Table.Titles
	}
	jsonOpts := []sink.JSONOption{sink.WithJSONTitles(titles...)}
	if curves, _ := strconv.ParseBool(r.URL.Query().Get("curves")); curves {
		jsonOpts = append(jsonOpts, sink.WithJSONCurves())
	}
	data, err := sink.RenderJSON(l, jsonOpts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decode reads and parses the request body. Unknown option keys are rejected.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		return request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if len(env.Rows) == 0 {
		return request{}, errors.New(errors.ErrCodeInvalidInput, "request body has no rows")
	}

	var t table.Table
	if err := json.Unmarshal(body, &t); err != nil {
		return request{}, err
	}

	var opts pipeline.Options
	if len(env.Options) > 0 && string(env.Options) != "null" {
		if err := config.Decode(env.Options, ".json", &opts); err != nil {
			return request{}, err
		}
	}
	opts.Logger = s.logger
	return request{Table: &t, Options: opts}, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
