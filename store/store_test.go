package store

import (
	"errors"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nagar-connect/models"
)

func TestMatchFilter(t *testing.T) {
	reporter := primitive.NewObjectID()
	got := matchFilter(models.IssueFilter{ReporterID: &reporter, Status: "reported", Priority: "high"})
	want := bson.M{"reporterId": reporter, "status": "reported", "priority": "high"}
	if len(got) != len(want) {
		t.Fatalf("unexpected filter %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("filter[%s] = %v, want %v", k, got[k], v)
		}
	}
	if len(matchFilter(models.IssueFilter{})) != 0 {
		t.Fatal("empty filter should match everything")
	}
}

func TestGeoFilters(t *testing.T) {
	near := &models.NearFilter{Longitude: 73.87, Latitude: 18.52, RadiusMeters: 5000}
	f := models.IssueFilter{Status: "reported", Category: "Road", Near: near}

	find := findFilter(f)
	count := countFilter(f)
	for name, filter := range map[string]bson.M{"find": find, "count": count} {
		if filter["status"] != "reported" || filter["category"] != "Road" || len(filter) != 3 {
			t.Fatalf("%s filter lost exact-match keys: %v", name, filter)
		}
	}

	nearOp := find["location"].(bson.M)["$near"].(bson.M)
	point := nearOp["$geometry"].(models.GeoPoint)
	if point.Type != "Point" || point.Coordinates[0] != 73.87 || point.Coordinates[1] != 18.52 {
		t.Fatalf("$geometry = %+v, want Point [lon, lat]", point)
	}
	if nearOp["$maxDistance"] != 5000.0 {
		t.Fatalf("$maxDistance = %v, want 5000 metres", nearOp["$maxDistance"])
	}

	sphere := count["location"].(bson.M)["$geoWithin"].(bson.M)["$centerSphere"].(bson.A)
	center := sphere[0].(bson.A)
	if center[0] != 73.87 || center[1] != 18.52 {
		t.Fatalf("$centerSphere center = %v, want [lon, lat]", center)
	}
	radians := sphere[1].(float64)
	if math.Abs(radians*earthRadiusMeters-5000) > 1e-6 {
		t.Fatalf("$centerSphere radius = %v rad, does not match 5000 m", radians)
	}

	plain := models.IssueFilter{Priority: "high"}
	for name, filter := range map[string]bson.M{"find": findFilter(plain), "count": countFilter(plain)} {
		if _, ok := filter["location"]; ok || len(filter) != 1 {
			t.Fatalf("%s filter without Near = %v", name, filter)
		}
	}
}

func TestTranslate(t *testing.T) {
	if !errors.Is(translate(mongo.ErrNoDocuments), models.ErrNotFound) {
		t.Fatal("ErrNoDocuments should map to ErrNotFound")
	}
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	if !errors.Is(translate(dup), models.ErrDuplicate) {
		t.Fatal("duplicate key should map to ErrDuplicate")
	}
	if translate(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestUnique(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	got := unique([]primitive.ObjectID{a, b, a, a})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected ids %v", got)
	}
}
