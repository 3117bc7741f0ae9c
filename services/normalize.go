package services

import (
	"strings"

	"nagar-connect/models"
)

// Normalizer maps free-form client tokens onto the persisted enumerations.
// Both tables are read-only after construction.
type Normalizer struct {
	categories map[string]models.IssueCategory
	priorities map[string]models.IssuePriority
}

func NewNormalizer(categories map[string]models.IssueCategory, priorities map[string]models.IssuePriority) Normalizer {
	n := Normalizer{
		categories: make(map[string]models.IssueCategory, len(categories)),
		priorities: make(map[string]models.IssuePriority, len(priorities)),
	}
	for k, v := range categories {
		n.categories[strings.ToLower(k)] = v
	}
	for k, v := range priorities {
		n.priorities[strings.ToLower(k)] = v
	}
	// Canonical values normalize to themselves.
	for _, v := range categories {
		if _, ok := n.categories[strings.ToLower(string(v))]; !ok {
			n.categories[strings.ToLower(string(v))] = v
		}
	}
	for _, v := range priorities {
		if _, ok := n.priorities[strings.ToLower(string(v))]; !ok {
			n.priorities[strings.ToLower(string(v))] = v
		}
	}
	return n
}

// DefaultNormalizer returns the standard token tables. "traffic" has no
// persisted slot and lands in Other.
func DefaultNormalizer() Normalizer {
	return NewNormalizer(
		map[string]models.IssueCategory{
			"pothole":      models.Pothole,
			"streetlight":  models.Streetlight,
			"garbage":      models.Garbage,
			"water":        models.WaterLeak,
			"road":         models.RoadDamage,
			"drainage":     models.Drainage,
			"encroachment": models.Encroachment,
			"other":        models.Other,
			"traffic":      models.Other,
		},
		map[string]models.IssuePriority{
			"low":      models.PriorityLow,
			"medium":   models.PriorityMedium,
			"high":     models.PriorityHigh,
			"urgent":   models.PriorityCritical,
			"critical": models.PriorityCritical,
		},
	)
}

// Category is total: unknown tokens map to Other.
func (n Normalizer) Category(token string) models.IssueCategory {
	if c, ok := n.categories[strings.ToLower(strings.TrimSpace(token))]; ok {
		return c
	}
	return models.Other
}

// Priority is total: unknown or absent tokens map to medium.
func (n Normalizer) Priority(token string) models.IssuePriority {
	if p, ok := n.priorities[strings.ToLower(strings.TrimSpace(token))]; ok {
		return p
	}
	return models.PriorityMedium
}
