package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nagar-connect/models"
	"nagar-connect/services"
	authUtils "nagar-connect/utils"
)

type fakeAccounts struct {
	user *models.User
}

func (f *fakeAccounts) Register(_ context.Context, in services.Registration) (*models.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, &services.FieldError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return f.user, nil
}

func (f *fakeAccounts) Login(_ context.Context, email, password string) (*models.User, error) {
	if email != f.user.Email || password != "s3cretpass" {
		return nil, services.ErrInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeAccounts) Me(_ context.Context, caller string) (*models.User, error) {
	if caller != f.user.ID.Hex() {
		return nil, services.ErrNotFound
	}
	return f.user, nil
}

func newAuthRouter() (*gin.Engine, *fakeAccounts) {
	gin.SetMode(gin.TestMode)
	accounts := &fakeAccounts{user: &models.User{
		ID: primitive.NewObjectID(), FullName: "Asha Patil", Email: "asha@example.com", UserType: models.UserCitizen,
	}}
	ac := NewAuthController(accounts, SessionConfig{Secret: "secret", TTL: time.Hour}, zerolog.Nop())
	r := gin.New()
	r.POST("/api/auth/register", ac.RegisterUser)
	r.POST("/api/auth/login", ac.LoginUser)
	r.POST("/api/auth/logout", ac.LogoutUser)
	r.GET("/api/auth/me", func(c *gin.Context) { c.Set("user_id", accounts.user.ID.Hex()) }, ac.GetMe)
	return r, accounts
}

func TestLoginUser_IssuesTokenAndCookie(t *testing.T) {
	r, accounts := newAuthRouter()

	w := postJSON(r, "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "s3cretpass"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := authUtils.ParseToken("secret", body.Token)
	if err != nil || claims.UserID != accounts.user.ID.Hex() || claims.Role != "citizen" {
		t.Fatalf("unexpected token claims %+v (%v)", claims, err)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "auth_token="+body.Token) || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("unexpected cookie %q", cookie)
	}

	w = postJSON(r, "/api/auth/login", map[string]string{"email": "asha@example.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRegisterUser(t *testing.T) {
	r, _ := newAuthRouter()
	w := postJSON(r, "/api/auth/register", map[string]string{"password": "a", "confirmPassword": "b"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	w = postJSON(r, "/api/auth/register", map[string]string{"password": "same", "confirmPassword": "same"})
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), "asha@example.com") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestLogoutAndMe(t *testing.T) {
	r, _ := newAuthRouter()

	w := postJSON(r, "/api/auth/logout", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected cookie cleared, got %d %q", w.Code, w.Header().Get("Set-Cookie"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"role":"citizen"`) {
		t.Fatalf("unexpected me response %d %s", w.Code, w.Body.String())
	}
}
