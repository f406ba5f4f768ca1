package vlr

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		in       string
		a, b     int
		ok       bool
	}{
		{"13-7", 13, 7, true},
		{"13 - 7", 13, 7, true},
		{"13:11", 13, 11, true},
		{"2–1", 2, 1, true}, // en dash
		{"Ascent 13-7 48:02", 13, 7, true},
		{"no score here", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		a, b, ok := parseScore(tt.in)
		if a != tt.a || b != tt.b || ok != tt.ok {
			t.Errorf("parseScore(%q) = (%d, %d, %v), want (%d, %d, %v)", tt.in, a, b, ok, tt.a, tt.b, tt.ok)
		}
	}
}

func TestParseKDA(t *testing.T) {
	tests := []struct {
		in      string
		k, d, a int
		ok      bool
	}{
		{"24/15/6", 24, 15, 6, true},
		{"24 / 15 / 6", 24, 15, 6, true},
		{"TenZ 267 24/15/6 +9", 24, 15, 6, true},
		{"24/15", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, tt := range tests {
		k, d, a, ok := parseKDA(tt.in)
		if k != tt.k || d != tt.d || a != tt.a || ok != tt.ok {
			t.Errorf("parseKDA(%q) = (%d, %d, %d, %v), want (%d, %d, %d, %v)",
				tt.in, k, d, a, ok, tt.k, tt.d, tt.a, tt.ok)
		}
	}
}

func TestParseACS(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		// KDA triple is consumed first; 267 is the first standalone token left.
		{"24/15/6 267", 267, true},
		{"267 24/15/6", 267, true},
		{"TenZ 198", 198, true},
		{"24/15/6", 0, false},
		{"7", 0, false},    // single digit is not a combat score
		{"1234", 0, false}, // four digits is not a combat score
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseACS(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseACS(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseBoFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bo3", "bo3"},
		{"bo 5", "bo5"},
		{"Best of luck", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseBoFormat(tt.in); got != tt.want {
			t.Errorf("parseBoFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferPickedBy(t *testing.T) {
	notes := []string{"SEN ban Icebox; FNC pick Haven; SEN pick Ascent; Bind remains"}
	tests := []struct {
		mapName string
		want    string
	}{
		{"Ascent", "Sentinels"}, // "sen" is a prefix of "sentinels"
		{"Haven", "Fnatic"},
		{"Bind", ""},   // leftover map, nobody picked it
		{"Icebox", ""}, // banned, not picked
		{"", ""},
	}
	for _, tt := range tests {
		got := inferPickedBy(notes, tt.mapName, "Sentinels", "Fnatic")
		if got != tt.want {
			t.Errorf("inferPickedBy(%q) = %q, want %q", tt.mapName, got, tt.want)
		}
	}
}

func TestInferWinner(t *testing.T) {
	tests := []struct {
		score string
		want  string
	}{
		{"13-7", "Sentinels"},
		{"7-13", "Fnatic"},
		{"13-13", ""}, // tie never names a winner
		{"", ""},
	}
	for _, tt := range tests {
		if got := inferWinner(tt.score, "Sentinels", "Fnatic"); got != tt.want {
			t.Errorf("inferWinner(%q) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestMatchID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"458127", "458127"},
		{"https://www.vlr.gg/458127/sentinels-vs-fnatic", "458127"},
		{"https://www.vlr.gg/no-digits-here", ""},
		{"  458127  ", "458127"},
	}
	for _, tt := range tests {
		if got := MatchID(tt.in); got != tt.want {
			t.Errorf("MatchID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
