package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("640", 7); got != 640 {
		t.Fatalf("expected 640, got %d", got)
	}
}

func TestHumanizeSymbol(t *testing.T) {
	cases := map[string]string{
		"rebar_uae_import":        "Rebar Uae Import",
		"brent_crude_oil":         "Brent Crude Oil",
		"iron_ore_62fe_cfr_china": "Iron Ore 62Fe Cfr China",
		"HRC":                     "Hrc",
	}
	for in, want := range cases {
		if got := HumanizeSymbol(in); got != want {
			t.Fatalf("HumanizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
