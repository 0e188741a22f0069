package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestConnector(t *testing.T, url string) *Connector {
	t.Helper()
	return NewConnector(
		&ConnectorConfig{Logger: zaptest.NewLogger(t), BaseURL: url},
		WithRequestLogging(),
		WithClientHeaders("examprep-test", "secret"),
	)
}

func TestDoRequestSendsHeadersAndDecodes(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/evaluate", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "examprep-test", req.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feedback":"ok"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var resp struct {
		Feedback string `json:"feedback"`
	}
	err := newTestConnector(t, srv.URL).DoRequest(context.Background(), http.MethodPost, "/evaluate",
		map[string]string{"text": "hello"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Feedback)
}

func TestDoRequestErrorBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/evaluate", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid API key"}`))
	})
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := newTestConnector(t, srv.URL)

	err := conn.DoRequest(context.Background(), http.MethodPost, "/evaluate", map[string]string{}, nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "Invalid API key", httpErr.Message)
	assert.Equal(t, "HTTP 401: Invalid API key", err.Error())

	_, _, err = conn.Download(context.Background(), "/plain")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "boom")
}

func TestDownloadReturnsContentType(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/task/4/audio/{file}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "lecture.mp3", chi.URLParam(req, "file"))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3"))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	data, contentType, err := newTestConnector(t, srv.URL).Download(context.Background(), "/api/task/4/audio/lecture.mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), data)
	assert.Equal(t, "audio/mpeg", contentType)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestConnector(t, url).DoRequest(context.Background(), http.MethodGet, "/save_config", nil, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestRedact(t *testing.T) {
	out := redact([]byte(`{"api_key":"sk-123","text":"hi","audio":"AAAA"}`))

	var obj map[string]string
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.Equal(t, "***", obj["api_key"])
	assert.Equal(t, "***", obj["audio"])
	assert.Equal(t, "hi", obj["text"])

	plain := []byte(`{"text":"hi"}`)
	assert.Equal(t, plain, redact(plain))

	notJSON := []byte("--boundary")
	assert.Equal(t, notJSON, redact(notJSON))
}
