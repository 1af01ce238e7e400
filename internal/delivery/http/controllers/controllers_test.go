package controllers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	userActor  = domain.Actor{ID: "user-1", Email: "alice@example.com", Role: domain.RoleUser}
	adminActor = domain.Actor{ID: "adm-1", Email: "root@example.com", Role: domain.RoleAdmin}
)

// envelope mirrors helpers.APIResponse with raw data for typed decoding.
type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// serve runs handler for a request built from method, target and body. Path values
// are registered through a ServeMux pattern so r.PathValue works as in production.
func serve(t *testing.T, pattern string, handler http.HandlerFunc, method, target, body string, actor domain.Actor) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(domain.WithActor(req.Context(), actor))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	env := decode(t, rr)
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func requireError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) *helpers.APIError {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	env := decode(t, rr)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env.Error
}
