// Package store persists issues, users, profiles and departments in MongoDB.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"nagar-connect/models"
)

const (
	IssuesCollection      = "issues"
	UsersCollection       = "users"
	ProfilesCollection    = "citizen_profiles"
	DepartmentsCollection = "departments"

	opTimeout = 10 * time.Second
)

// Store wraps the application database.
type Store struct {
	db          *mongo.Database
	issues      *mongo.Collection
	users       *mongo.Collection
	profiles    *mongo.Collection
	departments *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		issues:      db.Collection(IssuesCollection),
		users:       db.Collection(UsersCollection),
		profiles:    db.Collection(ProfilesCollection),
		departments: db.Collection(DepartmentsCollection),
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// translate maps driver errors onto the model sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(models.ErrDuplicate, err)
	}
	return err
}
