package watsonx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trustbridge/pkg/config"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// newTestClient wires a client against a test server. The server's mux must
// also serve POST /token, which the token source is pointed at.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","expires_in":3600}`))
	})
	mux.Handle("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tokens := NewTokenSource("test-api-key", srv.Client(), testLogger())
	tokens.authURL = srv.URL + "/token"

	client := NewClient(
		&config.WatsonxConfig{
			URL:       srv.URL,
			ProjectID: "proj-123",
			ModelID:   "ibm/granite-3-8b-instruct",
		},
		&config.PipelineConfig{PollInterval: time.Millisecond, MaxPolls: 5},
		"test-bucket",
		tokens,
		testLogger(),
	)
	client.httpClient = srv.Client()
	return client, srv
}
