package routes

import (
	"github.com/gin-gonic/gin"

	"nagar-connect/controllers"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(api *gin.RouterGroup, ac *controllers.AuthController, auth gin.HandlerFunc) {
	group := api.Group("/auth")
	{
		group.POST("/register", ac.RegisterUser)
		group.POST("/login", ac.LoginUser)
		group.POST("/logout", ac.LogoutUser)
		group.GET("/me", auth, ac.GetMe)
	}
}
