package routes

import (
	"github.com/gin-gonic/gin"

	"nagar-connect/controllers"
)

// MediaRoutes mounts uploads, image classification and reverse geocoding.
func MediaRoutes(api *gin.RouterGroup, mc *controllers.MediaController, cc *controllers.ClassifyController, gc *controllers.GeocodeController, auth gin.HandlerFunc) {
	files := api.Group("/media", auth)
	{
		files.POST("", mc.UploadFile)
		files.GET("", mc.GetFile)
		files.DELETE("", mc.DeleteFile)
	}
	api.POST("/classify", auth, cc.ClassifyImage)
	api.GET("/geocode/reverse", auth, gc.ReverseGeocode)
}
