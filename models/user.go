package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserType enum
type UserType string

const (
	UserCitizen    UserType = "citizen"
	UserAdmin      UserType = "admin"
	UserFieldStaff UserType = "field_staff"
	UserNGO        UserType = "ngo"
)

type PostalAddress struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type NotificationPreferences struct {
	EmailNotifications    bool `bson:"emailNotifications" json:"emailNotifications"`
	PushNotifications     bool `bson:"pushNotifications" json:"pushNotifications"`
	WhatsappNotifications bool `bson:"whatsappNotifications" json:"whatsappNotifications"`
}

func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{EmailNotifications: true, PushNotifications: true, WhatsappNotifications: true}
}

type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName       string              `bson:"fullName" json:"fullName"`
	Email          string              `bson:"email" json:"email"`
	PasswordHash   string              `bson:"passwordHash" json:"-"`
	UserType       UserType            `bson:"userType" json:"userType"`
	PhoneNumber    string              `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	ProfilePicture string              `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Department     *primitive.ObjectID `bson:"department,omitempty" json:"department,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetPassword hashes plain and stores the result.
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate))
	return err == nil
}

// UserRef is the populated form of a user reference.
type UserRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"fullName" json:"name"`
	Email string             `bson:"email" json:"email"`
}
