package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/classifier"
)

type ImageClassifier interface {
	Classify(ctx context.Context, imageURL string) classifier.Analysis
}

type ClassifyController struct {
	classifier ImageClassifier
	log        zerolog.Logger
}

func NewClassifyController(c ImageClassifier, log zerolog.Logger) *ClassifyController {
	return &ClassifyController{classifier: c, log: log}
}

// ClassifyImage handles POST /api/classify. Classification never fails;
// only a missing or non-http(s) imageUrl is rejected.
func (cc *ClassifyController) ClassifyImage(c *gin.Context) {
	var input struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl is required"})
		return
	}
	imageURL := strings.TrimSpace(input.ImageURL)
	if !httpURL(imageURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image URL"})
		return
	}
	analysis := cc.classifier.Classify(c.Request.Context(), imageURL)
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func httpURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
