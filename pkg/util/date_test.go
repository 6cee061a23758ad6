package util

import (
	"testing"
	"time"
)

func TestParseDateISO(t *testing.T) {
	got, err := ParseDate("2024-10-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateVariants(t *testing.T) {
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-10-10 00:00:00", "2024-10-10T00:00:00Z", "2024/10/10", "10/10/2024", " 2024-10-10 "} {
		got, err := ParseDate(s)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", s, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: unexpected time %v", s, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2024-13-45"} {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestAddDaysAndFormat(t *testing.T) {
	d := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(AddDays(d, 1)); got != "2025-01-01" {
		t.Fatalf("unexpected date %s", got)
	}
	if got := FormatDate(AddDays(d, 30)); got != "2025-01-30" {
		t.Fatalf("unexpected date %s", got)
	}
}
