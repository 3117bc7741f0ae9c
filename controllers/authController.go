package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/middlewares"
	"nagar-connect/models"
	"nagar-connect/services"
	authUtils "nagar-connect/utils"
)

// AccountService manages sign-up and sign-in.
type AccountService interface {
	Register(ctx context.Context, in services.Registration) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Me(ctx context.Context, caller string) (*models.User, error)
}

// SessionConfig controls token signing and the session cookie.
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	Production bool
	Domain     string
}

type AuthController struct {
	accounts AccountService
	session  SessionConfig
	log      zerolog.Logger
}

func NewAuthController(accounts AccountService, session SessionConfig, log zerolog.Logger) *AuthController {
	return &AuthController{accounts: accounts, session: session, log: log}
}

// RegisterUser handles user registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input services.Registration
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.accounts.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    userBody(user),
	})
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.accounts.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	token, err := authUtils.GenerateToken(ac.session.Secret, user.ID.Hex(), string(user.UserType), ac.session.TTL)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.setSessionCookie(c, token, int(ac.session.TTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    userBody(user),
	})
}

// LogoutUser clears the session cookie.
func (ac *AuthController) LogoutUser(c *gin.Context) {
	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetMe retrieves the authenticated user's information
func (ac *AuthController) GetMe(c *gin.Context) {
	user, err := ac.accounts.Me(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, userBody(user))
}

// setSessionCookie writes auth_token. Cross-site cookies need SameSite=None,
// which browsers only accept over HTTPS.
func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   ac.session.Production,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ac.session.Production {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.Domain = ac.session.Domain
	}
	http.SetCookie(c.Writer, cookie)
}

func userBody(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.FullName,
		"email": u.Email,
		"role":  u.UserType,
	}
}
