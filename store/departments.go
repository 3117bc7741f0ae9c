package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nagar-connect/models"
)

func (s *Store) DepartmentRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.DepartmentRef, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	cursor, err := s.departments.Find(ctx, bson.M{"_id": bson.M{"$in": unique(ids)}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find departments: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []models.DepartmentRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, fmt.Errorf("decode departments: %w", err)
	}
	out := make(map[primitive.ObjectID]models.DepartmentRef, len(refs))
	for _, r := range refs {
		out[r.ID] = r
	}
	return out, nil
}
