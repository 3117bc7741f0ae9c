package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nagar-connect/models"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrAlreadyRegistered  = fmt.Errorf("%w: user with this email or phone already exists", ErrInvalidInput)
)

// UserStore is the persistence the account service needs.
type UserStore interface {
	UserExists(ctx context.Context, email, phone string) (bool, error)
	InsertUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	InsertProfile(ctx context.Context, profile *models.CitizenProfile) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Registration is the sign-up form.
type Registration struct {
	FirstName       string `json:"fname" validate:"required"`
	LastName        string `json:"lname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phn" validate:"required,len=10,numeric"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required"`
}

// roles maps sign-up roles to user types; anything else is a citizen.
var roles = map[string]models.UserType{
	"citizen": models.UserCitizen,
	"worker":  models.UserFieldStaff,
	"ngo":     models.UserNGO,
}

type Accounts struct {
	users    UserStore
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccounts(users UserStore, log zerolog.Logger) *Accounts {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Accounts{
		users:    users,
		validate: v,
		now:      time.Now,
		log:      log.With().Str("service", "accounts").Logger(),
	}
}

// Register creates a user and, for citizens, their profile.
func (a *Accounts) Register(ctx context.Context, in Registration) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := a.validateRegistration(in); err != nil {
		return nil, err
	}

	exists, err := a.users.UserExists(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	userType, ok := roles[strings.ToLower(strings.TrimSpace(in.Role))]
	if !ok {
		userType = models.UserCitizen
	}

	now := a.now().UTC()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		FullName:    in.FirstName + " " + in.LastName,
		Email:       in.Email,
		UserType:    userType,
		PhoneNumber: in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := a.users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if userType == models.UserCitizen {
		profile := &models.CitizenProfile{
			ID:          primitive.NewObjectID(),
			UserID:      user.ID,
			Preferences: models.DefaultPreferences(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := a.users.InsertProfile(ctx, profile); err != nil {
			if derr := a.users.DeleteUser(ctx, user.ID); derr != nil {
				a.log.Error().Err(derr).Str("user_id", user.ID.Hex()).Msg("rollback user after profile failure")
			}
			return nil, fmt.Errorf("insert profile: %w", err)
		}
	}

	a.log.Info().Str("user_id", user.ID.Hex()).Str("role", string(userType)).Msg("user registered")
	return user, nil
}

func (a *Accounts) validateRegistration(in Registration) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return &FieldError{Field: fe.Field(), Message: "invalid email format"}
	case "len", "numeric":
		return &FieldError{Field: fe.Field(), Message: "phone number must be 10 digits"}
	case "min":
		return &FieldError{Field: fe.Field(), Message: "password must be at least 8 characters"}
	case "eqfield":
		return &FieldError{Field: fe.Field(), Message: "passwords do not match"}
	}
	return &FieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()}
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &MissingFieldsError{Fields: missingOf(map[string]string{"email": email, "password": password}, "email", "password")}
	}
	user, err := a.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Me returns the caller's account.
func (a *Accounts) Me(ctx context.Context, caller string) (*models.User, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	user, err := a.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func missingOf(values map[string]string, order ...string) []string {
	var out []string
	for _, k := range order {
		if values[k] == "" {
			out = append(out, k)
		}
	}
	return out
}
