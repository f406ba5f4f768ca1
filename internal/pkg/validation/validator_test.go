package validation

import (
	"testing"

	"github.com/akarpenko/propline/internal/pkg/models"
)

func TestCleanString(t *testing.T) {
	got := CleanString("  Sentinels\x00 \t Esports  ")
	if got != "Sentinels Esports" {
		t.Fatalf("CleanString = %q", got)
	}
}

func TestValidateMeta(t *testing.T) {
	tests := []struct {
		name    string
		meta    models.MatchMeta
		wantErr bool
	}{
		{"ok", models.MatchMeta{MatchID: "458127", TeamA: "Sentinels", TeamB: "Fnatic"}, false},
		{"no id", models.MatchMeta{TeamA: "Sentinels", TeamB: "Fnatic"}, true},
		{"one team", models.MatchMeta{MatchID: "458127", TeamA: "Sentinels"}, true},
		{"same teams", models.MatchMeta{MatchID: "458127", TeamA: "Sentinels", TeamB: "Sentinels"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMeta(&tt.meta)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlayerRecordClampsStats(t *testing.T) {
	r := models.PlayerMapRecord{
		MatchID: "458127", MapNum: 1, Player: "TenZ",
		Kills: 24, Deaths: 15, Assists: 6,
		ACS: 99999, RoundsPlayed: 21,
	}
	if err := ValidatePlayerRecord(&r); err != nil {
		t.Fatal(err)
	}
	if !models.IsMissing(r.ACS) {
		t.Fatalf("out-of-range acs should become missing, got %v", r.ACS)
	}
	if r.RoundsPlayed != 21 {
		t.Fatalf("valid rounds should survive, got %v", r.RoundsPlayed)
	}
}

func TestValidatePlayerRecordRejectsBogusKDA(t *testing.T) {
	r := models.PlayerMapRecord{MatchID: "458127", MapNum: 1, Player: "TenZ", Kills: 26724}
	if err := ValidatePlayerRecord(&r); err == nil {
		t.Fatal("expected error for implausible kill count")
	}
}
