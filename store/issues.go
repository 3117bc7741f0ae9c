package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nagar-connect/models"
)

// earthRadiusMeters converts a radius to radians for $centerSphere.
const earthRadiusMeters = 6378100.0

// unknownGroup labels aggregation buckets whose field is absent.
const unknownGroup = "Unknown"

func (s *Store) InsertIssue(ctx context.Context, issue *models.Issue) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.issues.InsertOne(ctx, issue)
	if err != nil {
		return translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		issue.ID = oid
	}
	return nil
}

func (s *Store) FindIssueByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var issue models.Issue
	if err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return nil, translate(err)
	}
	return &issue, nil
}

// FindIssues returns one page of matching issues. A Near filter uses $near,
// so results come back nearest-first unless a sort field is given.
func (s *Store) FindIssues(ctx context.Context, f models.IssueFilter, opts models.FindOptions) ([]models.Issue, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := findFilter(f)

	findOpts := options.Find().SetSkip(opts.Skip).SetLimit(opts.Limit)
	if opts.SortBy != "" {
		order := opts.SortOrder
		if order == 0 {
			order = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortBy, Value: order}})
	}

	cursor, err := s.issues.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

// CountIssues counts matches. $near is not allowed in counts, so the geo
// constraint is expressed with $geoWithin over the same radius.
func (s *Store) CountIssues(ctx context.Context, f models.IssueFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := s.issues.CountDocuments(ctx, countFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return n, nil
}

// CountIssuesBy groups a reporter's issues by field.
func (s *Store) CountIssuesBy(ctx context.Context, reporter primitive.ObjectID, field string) (map[string]int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$match": bson.M{"reporterId": reporter}},
		bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
	}
	cursor, err := s.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   *string `bson:"_id"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s groups: %w", field, err)
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		key := unknownGroup
		if r.Key != nil && *r.Key != "" {
			key = *r.Key
		}
		out[key] += r.Count
	}
	return out, nil
}

// RecentIssues returns a reporter's newest issues in summary form.
func (s *Store) RecentIssues(ctx context.Context, reporter primitive.ObjectID, n int64) ([]models.IssueSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(n).
		SetProjection(models.SummaryProjection)
	cursor, err := s.issues.Find(ctx, bson.M{"reporterId": reporter}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent issues: %w", err)
	}
	defer cursor.Close(ctx)

	recent := []models.IssueSummary{}
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("decode recent issues: %w", err)
	}
	return recent, nil
}

// findFilter constrains location with $near, in metres, nearest-first.
func findFilter(f models.IssueFilter) bson.M {
	filter := matchFilter(f)
	if f.Near != nil {
		filter["location"] = bson.M{
			"$near": bson.M{
				"$geometry":    models.NewGeoPoint(f.Near.Longitude, f.Near.Latitude),
				"$maxDistance": f.Near.RadiusMeters,
			},
		}
	}
	return filter
}

// countFilter selects the same disc as findFilter. $centerSphere takes
// [lon, lat] and a radius in radians.
func countFilter(f models.IssueFilter) bson.M {
	filter := matchFilter(f)
	if f.Near != nil {
		filter["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{f.Near.Longitude, f.Near.Latitude},
					f.Near.RadiusMeters / earthRadiusMeters,
				},
			},
		}
	}
	return filter
}

func matchFilter(f models.IssueFilter) bson.M {
	filter := bson.M{}
	if f.ReporterID != nil {
		filter["reporterId"] = *f.ReporterID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	return filter
}
