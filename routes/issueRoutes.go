package routes

import (
	"github.com/gin-gonic/gin"

	"nagar-connect/controllers"
)

// IssueRoutes sets up the issue routes. Listing is public; everything else
// needs a session.
func IssueRoutes(api *gin.RouterGroup, ic *controllers.IssueController, auth, limit gin.HandlerFunc) {
	group := api.Group("/issues")
	{
		group.POST("", auth, limit, ic.CreateIssue)
		group.GET("", ic.GetIssues)
		group.GET("/mine", auth, ic.GetMyIssues)
		group.GET("/overview", auth, ic.GetOverview)
		group.GET("/:id", auth, ic.GetIssue)
	}
}
