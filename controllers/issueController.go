package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/models"
	"nagar-connect/services"
)

// IssueSubmitter creates issues.
type IssueSubmitter interface {
	Submit(ctx context.Context, reporterID string, in services.Submission) (*models.Issue, error)
}

// IssueQuerier serves issue reads.
type IssueQuerier interface {
	List(ctx context.Context, params services.ListParams) (*services.Page, error)
	ListMine(ctx context.Context, caller string, params services.ListParams) (*services.Page, error)
	Overview(ctx context.Context, caller string) (*services.Overview, error)
	Get(ctx context.Context, id string) (*services.IssueView, error)
}

type IssueController struct {
	intake IssueSubmitter
	query  IssueQuerier
	log    zerolog.Logger
}

func NewIssueController(intake IssueSubmitter, query IssueQuerier, log zerolog.Logger) *IssueController {
	return &IssueController{intake: intake, query: query, log: log}
}

// CreateIssue handles POST /api/issues.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input services.Submission
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	issue, err := ic.intake.Submit(c.Request.Context(), userID(c), input)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"issue": gin.H{
			"id":        issue.ID,
			"title":     issue.Title,
			"status":    issue.Status,
			"createdAt": issue.CreatedAt,
		},
	})
}

// GetIssues handles GET /api/issues.
func (ic *IssueController) GetIssues(c *gin.Context) {
	params, err := listParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := ic.query.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMyIssues handles GET /api/issues/mine.
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	params, err := listParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := ic.query.ListMine(c.Request.Context(), userID(c), params)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetOverview handles GET /api/issues/overview.
func (ic *IssueController) GetOverview(c *gin.Context) {
	overview, err := ic.query.Overview(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// GetIssue handles GET /api/issues/:id.
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, err := ic.query.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// listParams reads the listing query string. Malformed page/limit values
// fall back to defaults; malformed coordinates are rejected.
func listParams(c *gin.Context) (services.ListParams, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageLimit)))

	params := services.ListParams{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		Priority:  c.Query("priority"),
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	var err error
	if params.Latitude, err = optionalFloat(c, "lat"); err != nil {
		return params, err
	}
	if params.Longitude, err = optionalFloat(c, "lon"); err != nil {
		return params, err
	}
	if params.Radius, err = optionalFloat(c, "radius"); err != nil {
		return params, err
	}
	return params, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &services.FieldError{Field: key, Message: "must be a number"}
	}
	return &v, nil
}
