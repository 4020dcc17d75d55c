package web

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

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "skillboard.db") + "?_busy_timeout=5000"
	b, err := back.New("sqlite3", dsn, barapi.New("http://127.0.0.1:0"), 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Error(err)
		}
	})

	return NewServer(b, "127.0.0.1:0")
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.back.RegisterPlayer("1000000000000000001", "alpha", "AlphaCommander", "", nil); err != nil {
		t.Fatal(err)
	}

	router := s.setupRouter()

	for _, v := range []struct {
		path string
		code int
	}{
		{"/", http.StatusNoContent},
		{"/v1/leaderboard", http.StatusOK},
		{"/v1/players", http.StatusOK},
		{"/v1/nope", http.StatusNotFound},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, v.path, nil))
		if rr.Code != v.code {
			t.Errorf("%s: expected status %d, got %d", v.path, v.code, rr.Code)
		}
	}
}

func TestPlayersHideMemberIDs(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.back.RegisterPlayer("1000000000000000001", "alpha", "AlphaCommander", "", nil); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	s.setupRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/players", nil))

	body := rr.Body.String()
	if !strings.Contains(body, "AlphaCommander") {
		t.Errorf("expected the player username in the response, got %s", body)
	}
	if strings.Contains(body, "1000000000000000001") {
		t.Errorf("expected the member ID to be hidden, got %s", body)
	}
}
