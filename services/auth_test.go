package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nagar-connect/models"
)

type memUsers struct {
	byID       map[primitive.ObjectID]*models.User
	profiles   []*models.CitizenProfile
	profileErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[primitive.ObjectID]*models.User{}}
}

func (m *memUsers) UserExists(_ context.Context, email, phone string) (bool, error) {
	for _, u := range m.byID {
		if u.Email == email || (phone != "" && u.PhoneNumber == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) InsertUser(_ context.Context, u *models.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	delete(m.byID, id)
	return nil
}

func (m *memUsers) InsertProfile(_ context.Context, p *models.CitizenProfile) error {
	if m.profileErr != nil {
		return m.profileErr
	}
	m.profiles = append(m.profiles, p)
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memUsers) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func validRegistration() Registration {
	return Registration{
		FirstName: "Asha", LastName: "Patil", Email: "Asha@Example.com", Phone: "9876543210",
		Password: "s3cretpass", ConfirmPassword: "s3cretpass", Role: "citizen",
	}
}

func TestRegister_CreatesCitizenWithProfile(t *testing.T) {
	users := newMemUsers()
	a := NewAccounts(users, zerolog.Nop())

	u, err := a.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "asha@example.com" || u.FullName != "Asha Patil" || u.UserType != models.UserCitizen {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cretpass" || !u.ComparePassword("s3cretpass") {
		t.Fatal("password not hashed")
	}
	if len(users.profiles) != 1 || users.profiles[0].UserID != u.ID {
		t.Fatalf("expected citizen profile, got %+v", users.profiles)
	}

	if _, err := a.Register(context.Background(), validRegistration()); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegister_RoleMapping(t *testing.T) {
	users := newMemUsers()
	a := NewAccounts(users, zerolog.Nop())
	r := validRegistration()
	r.Role = "worker"

	u, err := a.Register(context.Background(), r)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.UserType != models.UserFieldStaff || len(users.profiles) != 0 {
		t.Fatalf("expected field staff without profile, got %s / %d profiles", u.UserType, len(users.profiles))
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Registration)
		field string
	}{
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "different1" }, "confirmPassword"},
		{"short password", func(r *Registration) { r.Password, r.ConfirmPassword = "short", "short" }, "password"},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email"},
		{"bad phone", func(r *Registration) { r.Phone = "12345" }, "phn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegistration()
			tt.edit(&r)
			_, err := NewAccounts(newMemUsers(), zerolog.Nop()).Register(context.Background(), r)
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Fatalf("expected FieldError on %s, got %v", tt.field, err)
			}
		})
	}

	r := validRegistration()
	r.FirstName, r.Role = "", ""
	_, err := NewAccounts(newMemUsers(), zerolog.Nop()).Register(context.Background(), r)
	var missing *MissingFieldsError
	if !errors.As(err, &missing) || len(missing.Fields) != 2 || missing.Fields[0] != "fname" {
		t.Fatalf("expected missing fname and role, got %v", err)
	}
}

func TestRegister_ProfileFailureRollsBack(t *testing.T) {
	users := newMemUsers()
	users.profileErr = errors.New("profiles unavailable")

	if _, err := NewAccounts(users, zerolog.Nop()).Register(context.Background(), validRegistration()); err == nil {
		t.Fatal("expected error")
	}
	if len(users.byID) != 0 {
		t.Fatal("user should be removed when the profile cannot be created")
	}
}

func TestLoginAndMe(t *testing.T) {
	users := newMemUsers()
	a := NewAccounts(users, zerolog.Nop())
	u, err := a.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := a.Login(context.Background(), "asha@example.com", "wrong-pass"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := a.Login(context.Background(), "nobody@example.com", "s3cretpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	got, err := a.Login(context.Background(), " ASHA@example.com ", "s3cretpass")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Login: %v", err)
	}

	me, err := a.Me(context.Background(), u.ID.Hex())
	if err != nil || me.Email != u.Email {
		t.Fatalf("Me: %v", err)
	}
	if _, err := a.Me(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
