package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nagar-connect/models"
)

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// DeleteUser removes a user; used to roll back a half-finished registration.
func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	return translate(err)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UserExists reports whether email or phone is already registered.
func (s *Store) UserExists(ctx context.Context, email, phone string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	or := bson.A{bson.M{"email": email}}
	if phone != "" {
		or = append(or, bson.M{"phoneNumber": phone})
	}
	n, err := s.users.CountDocuments(ctx, bson.M{"$or": or}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check existing user: %w", err)
	}
	return n > 0, nil
}

func (s *Store) InsertProfile(ctx context.Context, profile *models.CitizenProfile) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.profiles.InsertOne(ctx, profile)
	return translate(err)
}

// UserRefs loads display references for the given users.
func (s *Store) UserRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1, "fullName": 1, "email": 1})
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": unique(ids)}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var refs []models.UserRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, r := range refs {
		out[r.ID] = r
	}
	return out, nil
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
