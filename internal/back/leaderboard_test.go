package back_test

import (
	"testing"

	"skillboard/pkg/barapi"

	"gopkg.in/guregu/null.v4"
)

func TestLeaderboardTiesKeepRegistrationOrder(t *testing.T) {
	server := newFakeBarServer(t, nil)
	b := newTestBack(t, server.URL)

	tied := &barapi.UserStats{
		Skill:            null.FloatFrom(20.0),
		SkillUncertainty: null.FloatFrom(3.0),
	}

	for _, v := range []struct {
		memberID, username string
		stats              *barapi.UserStats
	}{
		{"1000000000000000001", "AlphaCommander", tied},
		{"1000000000000000002", "BetaFlank", nil},
		{"1000000000000000003", "GammaEco", tied},
		{"1000000000000000004", "DeltaFront", nil},
	} {
		if _, err := b.RegisterPlayer(v.memberID, v.username, v.username, "", v.stats); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := b.GetLeaderboard()
	if err != nil {
		t.Fatal(err)
	}

	// Tied ranked players keep registration order, so do the unranked ones
	// trailing behind them.
	expected := []string{"AlphaCommander", "GammaEco", "BetaFlank", "DeltaFront"}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}
	for k, username := range expected {
		if entries[k].BarUsername != username {
			t.Errorf("expected %s at rank %d, got %s", username, k+1, entries[k].BarUsername)
		}
		if entries[k].Rank != k+1 {
			t.Errorf("expected rank %d, got %d", k+1, entries[k].Rank)
		}
	}
}
