package cities

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/skyfare/pkg/logger"
)

func newTestLookup(baseURL string) *HTTPLookup {
	return NewHTTPLookup(baseURL, 5*time.Second, logger.Nop())
}

func TestHTTPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "faketownburgh", r.URL.Query().Get("q"))
		w.Write([]byte(`{"results": [
			{"name": "Nowhere", "country": "US", "airport_code": ""},
			{"name": "Faketownburgh", "country": "US", "airport_code": "FKT"}
		]}`))
	}))
	defer srv.Close()

	match, err := newTestLookup(srv.URL).Lookup(context.Background(), "faketownburgh")
	require.NoError(t, err)
	require.NotNil(t, match)

	// Candidates without a code are skipped.
	assert.Equal(t, "FKT", match.AirportCode)
	assert.Equal(t, "Faketownburgh", match.City)
	assert.Equal(t, "US", match.Country)
}

func TestHTTPLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	match, err := newTestLookup(srv.URL).Lookup(context.Background(), "faketownburgh")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestHTTPLookupEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	match, err := newTestLookup(srv.URL).Lookup(context.Background(), "faketownburgh")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestHTTPLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestLookup(srv.URL).Lookup(context.Background(), "faketownburgh")
	assert.Error(t, err)
}

func TestHTTPLookupBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestLookup(srv.URL).Lookup(context.Background(), "faketownburgh")
	assert.Error(t, err)
}
