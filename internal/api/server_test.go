package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

const fruitBody = `{
	"titles": ["2023", "2024"],
	"rows": [
		["apple", 3, "apple", 3],
		["pear", 2, "apple", 2],
		["pear", 1, "plum", 1]
	]
}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	srv := httptest.NewServer(New(runner, log.New(io.Discard), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRenderID) == "" {
		t.Error("missing X-Render-ID")
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestRenderSVG(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv.URL+"/v1/render?format=svg", fruitBody)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", resp.Header.Get("X-Cache"))
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("body = %.40q", data)
	}
	if !bytes.Contains(data, []byte(">2024</tspan>")) {
		t.Error("titles from the request table not drawn")
	}

	again := post(t, srv.URL+"/v1/render?format=svg", fruitBody)
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", again.Header.Get("X-Cache"))
	}
}

func TestRenderPNG(t *testing.T) {
	srv := newTestServer(t)
	body := `{"rows": [["a", 1, "b", 1]], "options": {"width": 300, "scale": 1}}`
	resp := post(t, srv.URL+"/v1/render?format=png", body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if w := img.Bounds().Dx(); w != 300 {
		t.Errorf("png width = %d, want 300", w)
	}
}

func TestRenderDefaultsToOptionFormat(t *testing.T) {
	srv := newTestServer(t)
	body := `{"rows": [["a", 1, "b", 1]], "options": {"formats": ["json"]}}`
	resp := post(t, srv.URL+"/v1/render", body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv.URL+"/v1/layout?curves=true", fruitBody)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Stages  int               `json:"stages"`
		Titles  []string          `json:"titles"`
		Nodes   []json.RawMessage `json:"nodes"`
		Ribbons []struct {
			X []float64 `json:"x"`
		} `json:"ribbons"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Stages != 2 || len(out.Nodes) != 4 || len(out.Ribbons) != 3 {
		t.Errorf("stages=%d nodes=%d ribbons=%d", out.Stages, len(out.Nodes), len(out.Ribbons))
	}
	if len(out.Titles) != 2 || out.Titles[1] != "2024" {
		t.Errorf("titles = %v", out.Titles)
	}
	if len(out.Ribbons) > 0 && len(out.Ribbons[0].X) == 0 {
		t.Error("curves requested but ribbons carry no samples")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode errors.Code
		status   int
	}{
		{
			name:     "null weight",
			path:     "/v1/render",
			body:     `{"rows": [["a", null, "b", 1]]}`,
			wantCode: errors.ErrCodeNullsPresent,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "label order mismatch",
			path:     "/v1/layout",
			body:     `{"rows": [["a", 1, "b", 1]], "options": {"label_order": [["a", "z"], ["b"]]}}`,
			wantCode: errors.ErrCodeLabelMismatch,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "missing colour",
			path:     "/v1/render",
			body:     `{"rows": [["a", 1, "b", 1]], "options": {"colormap": "none", "colors": {"a": "red"}}}`,
			wantCode: errors.ErrCodeMissingColor,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "empty stage",
			path:     "/v1/render",
			body:     `{"rows": [["a", 1, "b", 0]]}`,
			wantCode: errors.ErrCodeEmptyStage,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "bad format",
			path:     "/v1/render?format=gif",
			body:     fruitBody,
			wantCode: errors.ErrCodeInvalidFormat,
			status:   http.StatusBadRequest,
		},
		{
			name:     "unknown option",
			path:     "/v1/render",
			body:     `{"rows": [["a", 1, "b", 1]], "options": {"sortt": "top"}}`,
			wantCode: errors.ErrCodeInvalidOption,
			status:   http.StatusBadRequest,
		},
		{
			name:     "invalid option value",
			path:     "/v1/render",
			body:     `{"rows": [["a", 1, "b", 1]], "options": {"sort": "sideways"}}`,
			wantCode: errors.ErrCodeInvalidOption,
			status:   http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			path:     "/v1/render",
			body:     `{"rows": [`,
			wantCode: errors.ErrCodeInvalidInput,
			status:   http.StatusBadRequest,
		},
		{
			name:     "no rows",
			path:     "/v1/layout",
			body:     `{"options": {}}`,
			wantCode: errors.ErrCodeInvalidInput,
			status:   http.StatusBadRequest,
		},
		{
			name:     "ragged row",
			path:     "/v1/render",
			body:     `{"rows": [["a", 1, "b", 1], ["a", 1]]}`,
			wantCode: errors.ErrCodeInvalidTable,
			status:   http.StatusBadRequest,
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.Header.Get(HeaderRenderID) == "" {
				t.Error("missing X-Render-ID on error response")
			}
			if got := decodeError(t, resp); got.Code != tt.wantCode {
				t.Errorf("code = %q (%s), want %q", got.Code, got.Message, tt.wantCode)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, WithMaxBodyBytes(16))
	resp := post(t, srv.URL+"/v1/render", fruitBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if got := decodeError(t, resp); got.Code != errors.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", got.Code, errors.ErrCodeInvalidInput)
	}
}

func TestRenderIDsAreUnique(t *testing.T) {
	srv := newTestServer(t)
	seen := make(map[string]bool)
	for range 3 {
		resp, err := http.Get(srv.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		id := resp.Header.Get(HeaderRenderID)
		if seen[id] {
			t.Errorf("duplicate render id %q", id)
		}
		seen[id] = true
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeEmptyStage, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInvalidColor, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
