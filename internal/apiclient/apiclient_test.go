package apiclient_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/cobaltwing/phishguard/internal/apiclient"
	"github.com/cobaltwing/phishguard/internal/dataset"
	"github.com/cobaltwing/phishguard/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns an *apiclient.Client pointed at srv.
func newTestClient(t *testing.T, srv *httptest.Server) (c *apiclient.Client) {
	t.Helper()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return apiclient.New(&apiclient.Config{
		Logger:  slogutil.NewDiscardLogger(),
		HTTP:    httpclient.NewClient(&httpclient.ClientConfig{Timeout: 1 * time.Second}),
		BaseURL: u,
	})
}

func TestClient_GetFilterSet(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/filterSet", r.URL.Path)
			assert.Equal(t, "5", r.URL.Query().Get("revision"))

			_, err := w.Write([]byte(
				`{"insert":[{"hash":"aa","regex":"^x$"}],"delete":[],"revision":6,"replace":false}`,
			))
			require.NoError(t, err)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		d := c.GetFilterSet(t.Context(), 5)

		assert.Equal(t, dataset.Delta[dataset.Filter]{
			Insert:   []dataset.Filter{{Hash: "aa", Regex: "^x$"}},
			Delete:   []dataset.Filter{},
			Revision: 6,
			Replace:  false,
		}, d)
	})

	t.Run("no revision query when zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.Query().Get("revision"))

			_, err := w.Write([]byte(`{"insert":[],"delete":[],"revision":1,"replace":true}`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		c.GetFilterSet(t.Context(), 0)
	})

	t.Run("non-2xx collapses to empty", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		d := c.GetFilterSet(t.Context(), 5)

		assert.Equal(t, dataset.Delta[dataset.Filter]{
			Insert:   []dataset.Filter{},
			Delete:   []dataset.Filter{},
			Revision: 5,
			Replace:  false,
		}, d)
	})

	t.Run("bad json collapses to empty", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, err := w.Write([]byte(`not json`))
			require.NoError(t, err)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		d := c.GetFilterSet(t.Context(), 3)

		assert.Equal(t, 3, d.Revision)
		assert.Empty(t, d.Insert)
	})

	t.Run("transport error collapses to empty", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		u, err := url.Parse(srv.URL)
		require.NoError(t, err)
		srv.Close()

		c := apiclient.New(&apiclient.Config{
			Logger:  slogutil.NewDiscardLogger(),
			HTTP:    httpclient.NewClient(&httpclient.ClientConfig{Timeout: 1 * time.Second}),
			BaseURL: u,
		})

		d := c.GetFilterSet(t.Context(), 7)
		assert.Equal(t, 7, d.Revision)
		assert.Empty(t, d.Insert)
	})
}

func TestClient_GetHashPrefixes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hashPrefix", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("revision"))

		_, err := w.Write([]byte(`{"insert":["11112222"],"delete":[],"revision":2,"replace":false}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	d := c.GetHashPrefixes(t.Context(), 1)

	assert.Equal(t, dataset.Delta[dataset.HashPrefix]{
		Insert:   []dataset.HashPrefix{"11112222"},
		Delete:   []dataset.HashPrefix{},
		Revision: 2,
		Replace:  false,
	}, d)
}

func TestClient_GetMatches(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/matches", r.URL.Path)
			assert.Equal(t, "aabb", r.URL.Query().Get("hashPrefix"))

			_, err := w.Write([]byte(
				`{"matches":[{"hostname":"evil.test","url":"https://evil.test/","regex":"^x$","hash":"aa"}]}`,
			))
			require.NoError(t, err)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		matches := c.GetMatches(t.Context(), "aabb")

		assert.Equal(t, []dataset.MatchRecord{
			{Hostname: "evil.test", URL: "https://evil.test/", Regex: "^x$", Hash: "aa"},
		}, matches)
	})

	t.Run("failure returns empty slice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := newTestClient(t, srv)
		matches := c.GetMatches(t.Context(), "aabb")

		assert.Empty(t, matches)
	})
}
