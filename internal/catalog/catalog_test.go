package catalog_test

import (
	"testing"

	"curator/internal/catalog"
)

func TestRecordEligible(t *testing.T) {
	tests := []struct {
		name  string
		state catalog.State
		want  bool
	}{
		{"awaiting categorization", catalog.StateAwaitingCategorization, true},
		{"already submitted", catalog.StateSubmitted, false},
		{"already categorized", catalog.StateCategorized, false},
		{"operator ignored", catalog.StateIgnored, false},
		{"unknown state", catalog.State("quarantined"), false},
		{"empty state", catalog.State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := catalog.Record{Key: "app-1", State: tt.state}
			if got := rec.Eligible(); got != tt.want {
				t.Fatalf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordLabel(t *testing.T) {
	rec := catalog.Record{Key: "pkg:7-zip", DisplayName: "7-Zip 23.01"}
	if got := rec.Label(); got != "7-Zip 23.01" {
		t.Fatalf("Label() = %q, want display name", got)
	}

	rec.DisplayName = "   "
	if got := rec.Label(); got != "pkg:7-zip" {
		t.Fatalf("Label() = %q, want key fallback", got)
	}
}
