package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/adapters/httpapi"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/aretw0/espalier/pkg/resolve"
	"github.com/aretw0/espalier/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mgr := session.NewManager(memory.NewStore())
	handler := httpapi.NewHandler(mgr, func() *espalier.Engine {
		return espalier.New(dsl.NewRegistry(),
			espalier.WithResolver(resolve.NewConjunction()),
		)
	}, httpapi.WithLogger(logging.NewNop()))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestBuild_Endpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{
		"session_id": "web-1",
		"phrases": []map[string]any{
			{"name": "match", "params": map[string]any{"field": "title", "query": "trellis"}},
			{"name": "paginate", "params": map[string]any{"page": 2, "size": 10}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[httpapi.BuildResponse](t, resp)
	assert.Equal(t, "web-1", body.SessionID)
	assert.NotEmpty(t, body.BuildID)
	assert.Equal(t, float64(10), body.Query["size"])
	assert.Equal(t, float64(10), body.Query["from"])
}

func TestBuild_GeneratesSessionID(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{
		"phrases": []map[string]any{
			{"name": "paginate", "params": map[string]any{"page": 1}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[httpapi.BuildResponse](t, resp)
	assert.NotEmpty(t, body.SessionID)
}

func TestBuild_RejectsEmptyAndInvalid(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{"phrases": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp2, err := http.Post(srv.URL+"/build", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	resp2.Body.Close()
}

func TestBuild_PhraseErrorIs500(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{
		"phrases": []map[string]any{
			{"name": "match", "params": map[string]any{"query": "missing field"}},
		},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()
}

func TestDescribe_Endpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/describe", map[string]any{
		"phrases": []map[string]any{
			{"name": "sort", "params": map[string]any{"field": "created_at", "order": "desc"}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[httpapi.DescribeResponse](t, resp)
	require.Len(t, body.Descriptions, 1)
	assert.Contains(t, body.Descriptions[0], "created_at")
}

func TestSessions_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{
		"session_id": "life-1",
		"phrases": []map[string]any{
			{"name": "term", "params": map[string]any{"field": "status", "value": "published"}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// List
	listResp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	list := decode[map[string][]string](t, listResp)
	assert.Contains(t, list["sessions"], "life-1")

	// History
	histResp, err := http.Get(srv.URL + "/sessions/life-1/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	hist := decode[map[string]any](t, histResp)
	entries := hist["history"].([]any)
	// One phrase entry plus the resolve entry.
	assert.Len(t, entries, 2)

	// Delete
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/life-1", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	// Gone
	goneResp, err := http.Get(srv.URL + "/sessions/life-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
	goneResp.Body.Close()
}

func TestHistory_AnnotatesEntriesWithDiffs(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/build", map[string]any{
		"session_id": "diffed",
		"phrases": []map[string]any{
			{"name": "paginate", "params": map[string]any{"page": 2, "size": 5}},
			{"name": "term", "params": map[string]any{"field": "status", "value": "published"}},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	histResp, err := http.Get(srv.URL + "/sessions/diffed/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, histResp.StatusCode)

	body := decode[struct {
		History []httpapi.HistoryEntryResponse `json:"history"`
	}](t, histResp)
	require.Len(t, body.History, 3)

	// paginate mutates the document directly, so its entry carries the
	// changed keys.
	paginate := body.History[0]
	require.NotNil(t, paginate.Diff)
	assert.Contains(t, paginate.Diff.Changed, "size")
	assert.Contains(t, paginate.Diff.Changed, "from")

	// term only records a deferred filter; the document is untouched until
	// resolve, so no diff is reported for the phrase itself.
	assert.Nil(t, body.History[1].Diff)

	// The resolve entry reports the merged filter group.
	resolveEntry := body.History[2]
	require.NotNil(t, resolveEntry.Diff)
	assert.Contains(t, resolveEntry.Diff.Changed, "query")
}

func TestHealthAndInfo(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	health := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", health["status"])

	infoResp, err := http.Get(srv.URL + "/info")
	require.NoError(t, err)
	info := decode[map[string]string](t, infoResp)
	assert.Equal(t, "espalier-http", info["app"])
	assert.NotEmpty(t, info["version"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/build", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
