package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"ratemyclass/internal/components/telemetry"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method  string
	headers http.Header
	body    string
}

func newUpstream(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		captured.method = r.Method
		captured.headers = r.Header.Clone()
		captured.body = string(body)

		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func graphqlRequest(url string) Request {
	return Request{
		URL: url,
		Options: &Options{
			Method: http.MethodPost,
			Headers: map[string]string{
				"Content-Type":    "application/json",
				"Authorization":   "Basic dGVzdDp0ZXN0",
				"Content-Length":  "3000",
				"Accept-Encoding": "gzip, deflate, br",
				"Connection":      "keep-alive",
				"Host":            "www.ratemyprofessor.com",
			},
			Body: `{"query":"{}"}`,
		},
	}
}

func TestDirectSend(t *testing.T) {
	upstream, captured := newUpstream(t, http.StatusOK, `{"data":{"ok":true}}`)

	direct := NewDirect(DirectOptions{Timeout: time.Second * 5}, telemetry.NewRecorder())
	body, err := direct.Send(context.Background(), graphqlRequest(upstream.URL))
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"ok":true}}`, string(body))

	require.Equal(t, http.MethodPost, captured.method)
	require.Equal(t, `{"query":"{}"}`, captured.body)
	require.Equal(t, "Basic dGVzdDp0ZXN0", captured.headers.Get("Authorization"))
	require.Equal(t, "application/json", captured.headers.Get("Content-Type"))
}

func TestDirectSendInvalidJSON(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusForbidden, `<html>blocked</html>`)

	direct := NewDirect(DirectOptions{}, telemetry.NewRecorder())
	_, err := direct.Send(context.Background(), graphqlRequest(upstream.URL))

	var relayErr *Error
	require.True(t, errors.As(err, &relayErr))
	require.Contains(t, relayErr.Message, "failed to parse JSON")
	require.Contains(t, relayErr.Message, "blocked")
}

func TestDirectSendMissingOptions(t *testing.T) {
	direct := NewDirect(DirectOptions{}, telemetry.NewRecorder())
	_, err := direct.Send(context.Background(), Request{URL: "http://localhost"})
	var relayErr *Error
	require.True(t, errors.As(err, &relayErr))
}

type fakeRelay struct {
	body json.RawMessage
	err  error
	got  Request
}

func (f *fakeRelay) Send(_ context.Context, req Request) (json.RawMessage, error) {
	f.got = req
	return f.body, f.err
}

func TestRemoteThroughHandler(t *testing.T) {
	inner := &fakeRelay{body: json.RawMessage(`{"data":{"newSearch":null}}`)}
	server := httptest.NewServer(NewHandler(inner, telemetry.NewRecorder()))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second*5, telemetry.NewRecorder())
	req := graphqlRequest("https://www.ratemyprofessors.com/graphql")
	body, err := remote.Send(context.Background(), req)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"newSearch":null}}`, string(body))

	require.Equal(t, req.URL, inner.got.URL)
	require.Equal(t, req.Options.Body, inner.got.Options.Body)
	require.Equal(t, req.Options.Headers, inner.got.Options.Headers)
}

func TestRemoteReceivesRelayError(t *testing.T) {
	inner := &fakeRelay{err: &Error{Message: "connection refused"}}
	server := httptest.NewServer(NewHandler(inner, telemetry.NewRecorder()))
	defer server.Close()

	remote := NewRemote(server.URL, time.Second*5, telemetry.NewRecorder())
	_, err := remote.Send(context.Background(), graphqlRequest("https://example.com"))

	var relayErr *Error
	require.True(t, errors.As(err, &relayErr))
	require.Equal(t, "connection refused", relayErr.Message)
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	handler := NewHandler(&fakeRelay{}, telemetry.NewRecorder())

	testCases := []struct {
		method string
		body   string
		status int
	}{
		{method: http.MethodGet, body: "", status: http.StatusMethodNotAllowed},
		{method: http.MethodPost, body: "not json", status: http.StatusBadRequest},
		{method: http.MethodPost, body: `{"url":"https://example.com"}`, status: http.StatusBadRequest},
	}

	for _, test := range testCases {
		req := httptest.NewRequest(test.method, "/relay", strings.NewReader(test.body))
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		require.Equal(t, test.status, res.Code)
		var failure Error
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &failure))
		require.NotEmpty(t, failure.Message)
	}
}
