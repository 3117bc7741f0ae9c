package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CitizenProfile carries citizen-only settings, one per user.
type CitizenProfile struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID      `bson:"userId" json:"userId"`
	Address     *PostalAddress          `bson:"address,omitempty" json:"address,omitempty"`
	Location    *GeoPoint               `bson:"location,omitempty" json:"location,omitempty"`
	Preferences NotificationPreferences `bson:"preferences" json:"preferences"`
	CreatedAt   time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time               `bson:"updatedAt" json:"updatedAt"`
}
