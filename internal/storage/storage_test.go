package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"radarbr/internal/apperr"
)

func TestSitemapPinger(t *testing.T) {
	t.Run("pings every endpoint with the sitemap url", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "https://radarbr.com/sitemap.xml", r.URL.Query().Get("sitemap"))
			hits.Add(1)
		}))
		defer srv.Close()

		orig := pingEndpoints
		pingEndpoints = []string{srv.URL + "/ping", srv.URL + "/ping2"}
		defer func() { pingEndpoints = orig }()

		p := NewSitemapPinger("https://radarbr.com/sitemap.xml", srv.Client(), nil)
		p.Ping(context.Background())

		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("no sitemap url means no requests", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("unexpected request")
		}))
		defer srv.Close()

		orig := pingEndpoints
		pingEndpoints = []string{srv.URL}
		defer func() { pingEndpoints = orig }()

		NewSitemapPinger("", srv.Client(), nil).Ping(context.Background())
	})

	t.Run("endpoint failure does not panic or propagate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		orig := pingEndpoints
		pingEndpoints = []string{srv.URL}
		defer func() { pingEndpoints = orig }()

		NewSitemapPinger("https://radarbr.com/sitemap.xml", srv.Client(), nil).Ping(context.Background())
	})
}

func TestDeleteByScope_UnknownScope(t *testing.T) {
	s := NewStore(nil, "", nil, nil)

	_, err := s.DeleteByScope(context.Background(), "everything", false)
	assert.True(t, apperr.IsKind(err, apperr.ConfigurationError))
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "", "media", nil, nil)
	assert.True(t, apperr.IsKind(err, apperr.ConfigurationError))
}
