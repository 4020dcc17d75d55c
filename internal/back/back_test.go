package back_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"skillboard/internal/back"
	"skillboard/pkg/barapi"

	_ "github.com/mattn/go-sqlite3"
)

// statsFixture is the canned upstream response for one username. A zero
// status means 200, an empty body means "user not found".
type statsFixture struct {
	status int
	body   string
}

func newFakeBarServer(t *testing.T, fixtures map[string]statsFixture) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimPrefix(r.URL.Path, "/")

		fixture, ok := fixtures[username]
		if !ok {
			if _, err := w.Write([]byte("[]")); err != nil {
				t.Error(err)
			}
			return
		}

		if fixture.status != 0 {
			w.WriteHeader(fixture.status)
			return
		}

		if _, err := w.Write([]byte(fixture.body)); err != nil {
			t.Error(err)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestBack(t *testing.T, apiBase string) *back.Back {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "skillboard.db") + "?_busy_timeout=5000"
	b, err := back.New("sqlite3", dsn, barapi.New(apiBase), 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Error(err)
		}
	})

	return b
}
