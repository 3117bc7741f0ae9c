package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/geocoding"
)

type ReverseGeocoder interface {
	Reverse(ctx context.Context, lon, lat float64) (string, error)
}

type GeocodeController struct {
	geocoder ReverseGeocoder
	log      zerolog.Logger
}

func NewGeocodeController(g ReverseGeocoder, log zerolog.Logger) *GeocodeController {
	return &GeocodeController{geocoder: g, log: log}
}

// ReverseGeocode handles GET /api/geocode/reverse?lat=&lon=.
func (gc *GeocodeController) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid lat and lon are required"})
		return
	}

	address, err := gc.geocoder.Reverse(c.Request.Context(), lon, lat)
	if err != nil {
		if errors.Is(err, geocoding.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no address found for location"})
			return
		}
		gc.log.Warn().Err(err).Msg("reverse geocode")
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoding service unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}
