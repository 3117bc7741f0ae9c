package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NearFilter restricts results to issues within RadiusMeters of a point.
type NearFilter struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// IssueFilter is the set of exact-match and geospatial constraints for issue lookups.
type IssueFilter struct {
	ReporterID *primitive.ObjectID
	Status     string
	Category   string
	Priority   string
	Near       *NearFilter
}

// FindOptions controls paging and ordering. An empty SortBy with a Near
// filter leaves results in nearest-first order.
type FindOptions struct {
	Skip      int64
	Limit     int64
	SortBy    string
	SortOrder int
}
