package services

import (
	"testing"

	"nagar-connect/models"
)

func TestNormalizer_Category(t *testing.T) {
	n := DefaultNormalizer()
	tests := map[string]models.IssueCategory{
		"pothole":      models.Pothole,
		" Streetlight": models.Streetlight,
		"water":        models.WaterLeak,
		"road":         models.RoadDamage,
		"traffic":      models.Other,
		"safety":       models.Other,
		"":             models.Other,
	}
	for token, want := range tests {
		if got := n.Category(token); got != want {
			t.Errorf("Category(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestNormalizer_Priority(t *testing.T) {
	n := DefaultNormalizer()
	tests := map[string]models.IssuePriority{
		"low":    models.PriorityLow,
		"HIGH":   models.PriorityHigh,
		"urgent": models.PriorityCritical,
		"":       models.PriorityMedium,
		"asap":   models.PriorityMedium,
	}
	for token, want := range tests {
		if got := n.Priority(token); got != want {
			t.Errorf("Priority(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := DefaultNormalizer()
	for _, token := range []string{"pothole", "water", "road", "traffic", "unknown"} {
		once := n.Category(token)
		if twice := n.Category(string(once)); twice != once {
			t.Errorf("Category not idempotent for %q: %q then %q", token, once, twice)
		}
	}
	for _, token := range []string{"urgent", "low", ""} {
		once := n.Priority(token)
		if twice := n.Priority(string(once)); twice != once {
			t.Errorf("Priority not idempotent for %q: %q then %q", token, once, twice)
		}
	}
}
