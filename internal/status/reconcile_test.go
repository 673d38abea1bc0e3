package status

import (
	"testing"

	"github.com/crimson-sun/lampwatch/internal/model"
)

func TestLastFixed_MaxAcrossBothSources(t *testing.T) {
	fixes := []model.FixEvent{
		{LightID: "l1", FixedAt: 100},
		{LightID: "l2", FixedAt: 500},
	}
	actions := []model.LightAction{
		{LightID: "l1", Action: "fix", CreatedAt: 150},
		{LightID: "l2", Action: "fix", CreatedAt: 300},
	}

	got := LastFixed(fixes, actions)
	if got["l1"] != 150 {
		t.Fatalf("l1: expected 150, got %d", got["l1"])
	}
	if got["l2"] != 500 {
		t.Fatalf("l2: expected 500, got %d", got["l2"])
	}
}

func TestLastFixed_IgnoresNonFixActions(t *testing.T) {
	actions := []model.LightAction{
		{LightID: "l1", Action: "inspect", CreatedAt: 900},
		{LightID: "l1", Action: "fix", CreatedAt: 200},
	}
	got := LastFixed(nil, actions)
	if got["l1"] != 200 {
		t.Fatalf("expected 200 (inspect ignored), got %d", got["l1"])
	}
}

func TestLastFixed_AbsentWhenNoEvents(t *testing.T) {
	got := LastFixed(nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	// Absence reads as the zero value: never fixed.
	if got["l1"] != 0 {
		t.Fatalf("expected 0 for absent light, got %d", got["l1"])
	}
}

func TestLastFixed_ZeroTimestampEventStillAppears(t *testing.T) {
	got := LastFixed([]model.FixEvent{{LightID: "l1", FixedAt: 0}}, nil)
	if _, ok := got["l1"]; !ok {
		t.Fatal("expected l1 present with value 0")
	}
}

func TestLastFixed_OrderIndependent(t *testing.T) {
	fixes := []model.FixEvent{
		{LightID: "a", FixedAt: 10},
		{LightID: "b", FixedAt: 40},
		{LightID: "a", FixedAt: 30},
	}
	actions := []model.LightAction{
		{LightID: "a", Action: "fix", CreatedAt: 20},
		{LightID: "b", Action: "fix", CreatedAt: 50},
	}

	want := LastFixed(fixes, actions)

	// Reversed inputs.
	revFixes := []model.FixEvent{fixes[2], fixes[1], fixes[0]}
	revActions := []model.LightAction{actions[1], actions[0]}
	got := LastFixed(revFixes, revActions)

	if len(got) != len(want) {
		t.Fatalf("result size changed under reordering: %v vs %v", got, want)
	}
	for id, ts := range want {
		if got[id] != ts {
			t.Fatalf("%s: reordering changed result: %d vs %d", id, got[id], ts)
		}
	}
}

func TestLastFixed_IdempotentUnderDuplication(t *testing.T) {
	fixes := []model.FixEvent{{LightID: "a", FixedAt: 10}}
	actions := []model.LightAction{{LightID: "a", Action: "fix", CreatedAt: 20}}

	once := LastFixed(fixes, actions)
	doubled := LastFixed(
		append(append([]model.FixEvent{}, fixes...), fixes...),
		append(append([]model.LightAction{}, actions...), actions...),
	)
	if once["a"] != doubled["a"] {
		t.Fatalf("duplication changed result: %d vs %d", doubled["a"], once["a"])
	}
}
