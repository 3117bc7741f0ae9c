package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Pothole      IssueCategory = "Pothole"
	Streetlight  IssueCategory = "Streetlight"
	Garbage      IssueCategory = "Garbage"
	WaterLeak    IssueCategory = "Water Leak"
	RoadDamage   IssueCategory = "Road Damage"
	Drainage     IssueCategory = "Drainage"
	Encroachment IssueCategory = "Encroachment"
	Other        IssueCategory = "Other"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusReported     IssueStatus = "reported"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusAssigned     IssueStatus = "assigned"
	StatusInProgress   IssueStatus = "in_progress"
	StatusResolved     IssueStatus = "resolved"
	StatusRejected     IssueStatus = "rejected"
	StatusReopened     IssueStatus = "reopened"
)

// MediaType enum
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Field limits enforced on submission.
const (
	MaxTitleLength       = 150
	MaxDescriptionLength = 1000
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

type Media struct {
	URL          string    `bson:"url" json:"url"`
	Type         MediaType `bson:"type" json:"type"`
	ThumbnailURL string    `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
}

// Assignment routes an issue to a department and optionally a staff member.
type Assignment struct {
	Department   primitive.ObjectID  `bson:"department" json:"department"`
	StaffID      *primitive.ObjectID `bson:"staffId,omitempty" json:"staffId,omitempty"`
	AssignedDate *time.Time          `bson:"assignedDate,omitempty" json:"assignedDate,omitempty"`
}

type TimelineEntry struct {
	Status    IssueStatus         `bson:"status" json:"status"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
	By        *primitive.ObjectID `bson:"by,omitempty" json:"by,omitempty"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Resolution struct {
	ResolvedBy        *primitive.ObjectID `bson:"resolvedBy,omitempty" json:"resolvedBy,omitempty"`
	ResolvedDate      *time.Time          `bson:"resolvedDate,omitempty" json:"resolvedDate,omitempty"`
	ResolutionSummary string              `bson:"resolutionSummary,omitempty" json:"resolutionSummary,omitempty"`
	ResolutionMedia   []Media             `bson:"resolutionMedia,omitempty" json:"resolutionMedia,omitempty"`
}

type Feedback struct {
	Rating    int        `bson:"rating,omitempty" json:"rating,omitempty"`
	Comment   string     `bson:"comment,omitempty" json:"comment,omitempty"`
	Timestamp *time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID             primitive.ObjectID `bson:"reporterId" json:"reporterId"`
	Title                  string             `bson:"title" json:"title"`
	Description            string             `bson:"description" json:"description"`
	Category               IssueCategory      `bson:"category" json:"category"`
	SubCategory            string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Status                 IssueStatus        `bson:"status" json:"status"`
	Priority               IssuePriority      `bson:"priority" json:"priority"`
	Location               GeoPoint           `bson:"location" json:"location"`
	Address                string             `bson:"address" json:"address"`
	Media                  []Media            `bson:"media" json:"media"`
	AssignedTo             *Assignment        `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	ResolutionDetails      *Resolution        `bson:"resolutionDetails,omitempty" json:"resolutionDetails,omitempty"`
	Timeline               []TimelineEntry    `bson:"timeline" json:"timeline"`
	Feedback               *Feedback          `bson:"feedback,omitempty" json:"feedback,omitempty"`
	ExpectedResolutionDate *time.Time         `bson:"expectedResolutionDate,omitempty" json:"expectedResolutionDate,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IssueSummary is the display-safe projection used for dashboard "recent" lists.
type IssueSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Status    IssueStatus        `bson:"status" json:"status"`
	Priority  IssuePriority      `bson:"priority" json:"priority"`
	Category  IssueCategory      `bson:"category" json:"category"`
	Address   string             `bson:"address" json:"address"`
	Media     []Media            `bson:"media" json:"media"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SummaryProjection selects the IssueSummary fields.
var SummaryProjection = bson.M{
	"_id":       1,
	"title":     1,
	"status":    1,
	"priority":  1,
	"category":  1,
	"address":   1,
	"media":     1,
	"createdAt": 1,
	"updatedAt": 1,
}
