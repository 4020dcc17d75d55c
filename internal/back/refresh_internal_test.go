package back

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"skillboard/pkg/barapi"

	_ "github.com/mattn/go-sqlite3"
)

func TestRunOnceCountsOnlyPersistedUpdates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"userID":1,"username":"AlphaCommander","skill":[
			{"gamemode":3,"skill":30.0,"skillUncertainty":3.0}]}]`))
	}))
	t.Cleanup(server.Close)

	dsn := filepath.Join(t.TempDir(), "skillboard.db") + "?_busy_timeout=5000"
	b, err := New("sqlite3", dsn, barapi.New(server.URL), 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Error(err)
		}
	})

	if _, err := b.RegisterPlayer("1000000000000000001", "alpha", "AlphaCommander", "", nil); err != nil {
		t.Fatal(err)
	}
	players, err := b.GetPlayers()
	if err != nil {
		t.Fatal(err)
	}

	// Nuke the table so the successfully fetched rating cannot be stored,
	// Updated must only ever count rows that made it to disk.
	if _, err := b.db.Exec(`DROP TABLE "Player"`); err != nil {
		t.Fatal(err)
	}

	summary, err := b.RunOnce(context.Background(), players)
	if err == nil {
		t.Fatal("expected an error when the store fails")
	}
	if expected := (RefreshSummary{Total: 1, Updated: 0, Failed: 1}); summary != expected {
		t.Fatalf("expected summary %+v, got %+v", expected, summary)
	}
}
