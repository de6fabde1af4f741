package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/pipeline"
	_ "github.com/matzehuels/chartpack/pkg/visual/all"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Config{Runner: pipeline.NewRunner(fc, nil, nil)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func body(t *testing.T) *bytes.Reader {
	t.Helper()
	dv := dataview.NewBuilder().
		Category("Region", "North", "South").
		Measure("Sales", 30.0, 70.0).
		Build()
	data, err := json.Marshal(RenderRequest{DataView: dv})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)
	const id = "0b9d6a52-9b7e-4f39-8a4b-0a63d1c1e7a1"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestVisuals(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/visuals")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var infos []VisualInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 5 {
		t.Fatalf("got %d visuals, want 5", len(infos))
	}
	if infos[0].Name != "aster" || len(infos[0].Objects) == 0 {
		t.Errorf("first visual = %+v", infos[0])
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)
	for _, want := range []string{"miss", "hit"} {
		resp, err := http.Post(ts.URL+"/v1/visuals/donut/render", "application/json", body(t))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, buf.String())
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("Content-Type = %q", ct)
		}
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Errorf("X-Cache = %q, want %q", got, want)
		}
		if !strings.Contains(buf.String(), "<svg") {
			t.Errorf("body is not SVG: %.60s", buf.String())
		}
	}
}

func TestRenderJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/visuals/donut/render?format=json", "application/json", body(t))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out RenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Visual != "donut" || len(out.Legend) != 2 || out.DataHash == "" {
		t.Errorf("response = %+v", out)
	}
}

func TestObjects(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/visuals/aster/objects/centerLabel", "application/json", body(t))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out []struct {
		ObjectName string         `json:"objectName"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ObjectName != "centerLabel" {
		t.Errorf("instances = %+v", out)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown visual", "/v1/visuals/pie/render", `{"dataView":{}}`, http.StatusNotFound, errors.ErrCodeInvalidVisual},
		{"bad json", "/v1/visuals/donut/render", `{`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing data view", "/v1/visuals/donut/render", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidDataView},
		{"bad format", "/v1/visuals/donut/render?format=gif", `{"dataView":{}}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown object", "/v1/visuals/donut/objects/nope", `{"dataView":{}}`, http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestStats(t *testing.T) {
	counters := &observability.Counters{}
	observability.Register(counters)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(New(Config{Runner: pipeline.NewRunner(fc, nil, nil), Stats: counters}).Handler())
	defer ts.Close()

	for range 2 {
		resp, err := http.Post(ts.URL+"/v1/visuals/donut/render", "application/json", body(t))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got observability.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Renders == 0 || got.CacheMisses != 1 || got.CacheHits != 1 {
		t.Errorf("stats = %+v, want renders, one miss and one hit", got)
	}
}
