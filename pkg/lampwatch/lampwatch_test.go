package lampwatch

import "testing"

var light = Light{ID: "l1", DisplayID: "SL-001", Lat: 35.68, Lng: 139.76}

func TestLastFixedMergesSources(t *testing.T) {
	fixed := LastFixed(
		[]FixEvent{{LightID: "l1", FixedAt: 100}},
		[]Action{
			{LightID: "l1", Kind: "fix", CreatedAt: 150},
			{LightID: "l1", Kind: "inspect", CreatedAt: 999},
		},
	)
	if fixed["l1"] != 150 {
		t.Fatalf("expected 150, got %d", fixed["l1"])
	}
}

func TestClassifyEndToEnd(t *testing.T) {
	fixed := LastFixed(
		[]FixEvent{{LightID: "l1", FixedAt: 100}},
		[]Action{{LightID: "l1", Kind: "fix", CreatedAt: 150}},
	)
	reports := []Report{
		{ID: "r1", LightID: "l1", Type: "out", CreatedAt: 120},
		{ID: "r2", LightID: "l1", Type: "out", CreatedAt: 200},
	}

	st := Classify(light, fixed, reports)
	if st.ReportsSinceFix != 1 {
		t.Fatalf("expected 1 report since fix, got %d", st.ReportsSinceFix)
	}
	if st.Tier != TierReported {
		t.Fatalf("expected reported tier, got %q", st.Tier)
	}
	if st.Color != "#f6c343" {
		t.Fatalf("expected yellow, got %q", st.Color)
	}
	if st.Label != "Light out" {
		t.Fatalf("expected 'Light out', got %q", st.Label)
	}
}

func TestClassifyOperational(t *testing.T) {
	st := Classify(light, nil, nil)
	if st.Tier != TierOperational || st.Label != "Operational" || st.Color != "#111" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestReportTypeLabel(t *testing.T) {
	if got := ReportTypeLabel("broken"); got != "Light out" {
		t.Fatalf("expected legacy alias fold, got %q", got)
	}
	if got := ReportTypeLabel("vandalized"); got != "vandalized" {
		t.Fatalf("expected raw key fallback, got %q", got)
	}
}
