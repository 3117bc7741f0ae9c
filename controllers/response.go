package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/geocoding"
	"nagar-connect/media"
	"nagar-connect/middlewares"
	"nagar-connect/services"
)

// respondError writes the status and body for err. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var missing *services.MissingFieldsError
	var field *services.FieldError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error(), "missing": missing.Fields})
	case errors.As(err, &field):
		c.JSON(http.StatusBadRequest, gin.H{"error": field.Error(), "field": field.Field})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, media.ErrNotFound), errors.Is(err, geocoding.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrGeocodeFailed),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrInvalidCoordinates),
		errors.Is(err, media.ErrUnsupportedMediaType),
		errors.Is(err, media.ErrFileTooLarge),
		errors.Is(err, media.ErrMissingID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPersistence), errors.Is(err, media.ErrStorage):
		log.Error().Err(err).Str("p", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("p", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func userID(c *gin.Context) string {
	return c.GetString(middlewares.UserIDKey)
}
