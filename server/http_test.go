package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/memberqa"
	"github.com/poiesic/memberqa/core"
)

func newTestServer(t *testing.T, engine Engine) http.Handler {
	t.Helper()
	s, err := NewHTTPServer(engine)
	require.NoError(t, err)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestNewHTTPServer(t *testing.T) {
	_, err := NewHTTPServer(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)

	_, err = NewHTTPServer(&mockEngine{}, WithMaxConns(0))
	assert.ErrorIs(t, err, ErrInvalidMaxConns)
}

func TestAsk(t *testing.T) {
	engine := &mockEngine{answer: "June 12, 2025 — found in member messages."}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodGet, "/ask?q=when+is+Layla+traveling", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "June 12, 2025 — found in member messages.", body["answer"])
	assert.Equal(t, "when is Layla traveling", engine.lastQuestion)
}

func TestAsk_MissingQuery(t *testing.T) {
	h := newTestServer(t, &mockEngine{})

	for _, target := range []string{"/ask", "/ask?q=", "/ask?q=%20%20"} {
		rec, body := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestAsk_WrongMethod(t *testing.T) {
	h := newTestServer(t, &mockEngine{})
	req := httptest.NewRequest(http.MethodPost, "/ask?q=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReindex_FromSources(t *testing.T) {
	engine := &mockEngine{refreshN: 3349}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodPost, "/reindex", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3349), body["total_docs"])
	assert.Equal(t, 1, engine.refreshes)
}

func TestReindex_FromBody(t *testing.T) {
	engine := &mockEngine{}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodPost, "/reindex", `{"items":[{"text":"a"},{"text":"b"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["total_docs"])
	assert.Len(t, engine.reindexed, 2)
	assert.Zero(t, engine.refreshes)

	rec, body = do(t, h, http.MethodPost, "/reindex", `{"status":"nothing here"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestReindex_SourceFailure(t *testing.T) {
	engine := &mockEngine{refreshErr: errors.New("messages API down")}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodPost, "/reindex", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["error"], "messages API down")
}

func TestDebugSample(t *testing.T) {
	engine := &mockEngine{sample: core.Sample{
		TotalDocs: 10,
		Sample:    []core.SampleEntry{{Member: "Amira Khan", Text: "hi", Timestamp: "2025-01-01"}},
	}}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodGet, "/debug/sample?n=1&raw=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), body["total_docs"])
	assert.Len(t, body["sample"], 1)
	assert.Equal(t, 1, engine.sampleN)
	assert.True(t, engine.sampleRaw)

	rec, _ = do(t, h, http.MethodGet, "/debug/sample", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, engine.sampleN)
	assert.False(t, engine.sampleRaw)

	rec, _ = do(t, h, http.MethodGet, "/debug/sample?n=five", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, h, http.MethodGet, "/debug/sample?raw=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	engine := &mockEngine{stats: memberqa.Stats{TotalDocs: 4, Generation: 2, AnswerMode: "rules"}}
	h := newTestServer(t, engine)

	rec, body := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(4), body["total_docs"])
	assert.Equal(t, float64(2), body["generation"])
	assert.Equal(t, "rules", body["answer_mode"])
	assert.Equal(t, false, body["llm_enabled"])
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, &mockEngine{})

	rec, _ := do(t, h, http.MethodGet, "/health", "")
	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	h := newTestServer(t, &mockEngine{panicOnAsk: true})

	rec, body := do(t, h, http.MethodGet, "/ask?q=anything", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, err := NewHTTPServer(&mockEngine{answer: "ok"}, WithMaxConns(2), WithShutdownTimeout(time.Second))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ask?q=hello")
	require.NoError(t, err)
	var body answerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "ok", body.Answer)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
