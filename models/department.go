package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DepartmentRef is the populated form of a department reference. Department
// documents are owned by the admin side; this service only reads _id and name.
type DepartmentRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}
