package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("e0000000-0000-4000-8000-000000000001"))
	assert.True(t, IsUUID("E0000000-0000-4000-8000-00000000ABCD"))
	assert.False(t, IsUUID(""))
	assert.False(t, IsUUID("42"))
	assert.False(t, IsUUID("e0000000000040008000000000000001"))
	assert.False(t, IsUUID("e0000000-0000-4000-8000-000000000001 "))
}

func TestPathID(t *testing.T) {
	var got string
	var called bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r)
		if !ok {
			return
		}
		called, got = true, id
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/e0000000-0000-4000-8000-000000000001", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, called)
	assert.Equal(t, "e0000000-0000-4000-8000-000000000001", got)

	called = false
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/things/abc'%3B--", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrCodeNotFound)
	assert.False(t, called)
}
