package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCMS answers every POST with body and records the queries it received.
type fakeCMS struct {
	mu      sync.Mutex
	queries []string
	headers []http.Header
	body    string
	status  int
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var req struct {
		Query string `json:"query"`
	}
	json.Unmarshal(b, &req)

	f.mu.Lock()
	f.queries = append(f.queries, req.Query)
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	io.WriteString(w, f.body)
}

func (f *fakeCMS) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func newTestClient(t *testing.T, body string, opts ...Option) (*Client, *fakeCMS, *bytes.Buffer) {
	t.Helper()
	fake := &fakeCMS{body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(srv.URL, opts...), fake, &logs
}

func TestQuery_ReturnsData(t *testing.T) {
	c, fake, _ := newTestClient(t, `{"data": {"x": 1}}`)

	data, err := c.Query(context.Background(), "{ x }")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1}`, string(data))
	assert.Equal(t, "{ x }", fake.lastQuery())
}

func TestQuery_RequestShape(t *testing.T) {
	var gotMethod, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Query(context.Background(), "{ a }")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"query": "{ a }"}`, gotBody)
}

func TestQuery_LogsAndSwallowsCMSError(t *testing.T) {
	c, _, logs := newTestClient(t, `{"data": null, "error": "boom"}`)

	data, err := c.Query(context.Background(), "{ x }")
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Contains(t, logs.String(), "boom")
}

func TestQuery_PartialDataWithGraphQLErrors(t *testing.T) {
	body := `{"data": {"x": 1}, "errors": [{"message": "field y is gone"}]}`
	c, _, logs := newTestClient(t, body)

	data, err := c.Query(context.Background(), "{ x y }")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1}`, string(data))
	assert.Contains(t, logs.String(), "field y is gone")
}

func TestQuery_FalsyErrorIsNotLogged(t *testing.T) {
	for _, body := range []string{
		`{"data": {}, "error": null}`,
		`{"data": {}, "error": false}`,
		`{"data": {}, "error": ""}`,
		`{"data": {}, "error": 0}`,
		`{"data": {}}`,
	} {
		t.Run(body, func(t *testing.T) {
			c, _, logs := newTestClient(t, body)
			_, err := c.Query(context.Background(), "{ x }")
			require.NoError(t, err)
			assert.Empty(t, logs.String())
		})
	}
}

func TestQuery_MissingData(t *testing.T) {
	c, _, _ := newTestClient(t, `{}`)

	data, err := c.Query(context.Background(), "{ x }")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestQuery_NonJSONBody(t *testing.T) {
	c, fake, _ := newTestClient(t, `<html>bad gateway</html>`)
	fake.status = http.StatusBadGateway

	_, err := c.Query(context.Background(), "{ x }")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "502")
}

func TestQuery_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Query(context.Background(), "{ x }")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestQuery_CanceledContext(t *testing.T) {
	c, _, _ := newTestClient(t, `{"data":{}}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Query(ctx, "{ x }")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuery_BearerToken(t *testing.T) {
	c, fake, _ := newTestClient(t, `{"data":{}}`, WithToken("secret"))

	_, err := c.Query(context.Background(), "{ x }")
	require.NoError(t, err)
	require.Len(t, fake.headers, 1)
	assert.Equal(t, "Bearer secret", fake.headers[0].Get("Authorization"))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{``, false},
		{`null`, false},
		{`false`, false},
		{`0`, false},
		{`""`, false},
		{`true`, true},
		{`1`, true},
		{`"boom"`, true},
		{`{}`, true},
		{`[]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, truthy(json.RawMessage(tt.raw)))
		})
	}
}
