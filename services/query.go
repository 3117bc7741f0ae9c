package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"nagar-connect/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	RecentLimit      = 5
	defaultSortField = "createdAt"
)

var sortFieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// IssueReader is the read side of the issue store.
type IssueReader interface {
	FindIssues(ctx context.Context, filter models.IssueFilter, opts models.FindOptions) ([]models.Issue, error)
	CountIssues(ctx context.Context, filter models.IssueFilter) (int64, error)
	FindIssueByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	CountIssuesBy(ctx context.Context, reporter primitive.ObjectID, field string) (map[string]int64, error)
	RecentIssues(ctx context.Context, reporter primitive.ObjectID, n int64) ([]models.IssueSummary, error)
}

// Directory resolves user and department references for display.
type Directory interface {
	UserRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
	DepartmentRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.DepartmentRef, error)
}

// ListParams are the raw query-string parameters of an issue listing.
type ListParams struct {
	Status    string
	Category  string
	Priority  string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// AssignmentView is an Assignment with its department populated.
type AssignmentView struct {
	Department   models.DepartmentRef `json:"department"`
	StaffID      *primitive.ObjectID  `json:"staffId,omitempty"`
	AssignedDate *time.Time           `json:"assignedDate,omitempty"`
}

// IssueView is an issue with reporter and department references populated.
type IssueView struct {
	models.Issue
	Reporter   models.UserRef  `json:"reporterId"`
	Assignment *AssignmentView `json:"assignedTo,omitempty"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type Page struct {
	Data       []IssueView `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// Overview is a citizen's dashboard.
type Overview struct {
	Totals     map[string]int64      `json:"totals"`
	ByCategory map[string]int64      `json:"byCategory"`
	ByPriority map[string]int64      `json:"byPriority"`
	Recent     []models.IssueSummary `json:"recent"`
}

// Query serves the read-only issue endpoints.
type Query struct {
	issues    IssueReader
	directory Directory
	log       zerolog.Logger
}

func NewQuery(issues IssueReader, directory Directory, log zerolog.Logger) *Query {
	return &Query{
		issues:    issues,
		directory: directory,
		log:       log.With().Str("service", "query").Logger(),
	}
}

// List returns one page of issues matching params.
func (q *Query) List(ctx context.Context, params ListParams) (*Page, error) {
	return q.list(ctx, nil, params)
}

// ListMine is List restricted to the caller's own issues.
func (q *Query) ListMine(ctx context.Context, caller string, params ListParams) (*Page, error) {
	reporter, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	return q.list(ctx, &reporter, params)
}

func (q *Query) list(ctx context.Context, reporter *primitive.ObjectID, params ListParams) (*Page, error) {
	filter, err := BuildFilter(params)
	if err != nil {
		return nil, err
	}
	filter.ReporterID = reporter

	page, limit := ClampPage(params.Page, params.Limit)
	opts := models.FindOptions{
		Skip:      int64((page - 1) * limit),
		Limit:     int64(limit),
		SortBy:    SortField(params.SortBy, filter.Near != nil),
		SortOrder: SortDirection(params.SortOrder),
	}

	var (
		issues []models.Issue
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = q.issues.FindIssues(gctx, filter, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = q.issues.CountIssues(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		q.log.Error().Err(err).Msg("list issues")
		return nil, fmt.Errorf("list issues: %w", err)
	}

	views, err := q.populate(ctx, issues)
	if err != nil {
		return nil, err
	}
	return &Page{
		Data: views,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: TotalPages(total, limit),
		},
	}, nil
}

// Get returns a single populated issue.
func (q *Query) Get(ctx context.Context, id string) (*IssueView, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed issue id", ErrInvalidInput)
	}
	issue, err := q.issues.FindIssueByID(ctx, oid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	views, err := q.populate(ctx, []models.Issue{*issue})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Overview aggregates the caller's issues by status, category and priority
// and lists the five most recent.
func (q *Query) Overview(ctx context.Context, caller string) (*Overview, error) {
	reporter, err := callerID(caller)
	if err != nil {
		return nil, err
	}

	var (
		byStatus, byCategory, byPriority map[string]int64
		recent                           []models.IssueSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = q.issues.CountIssuesBy(gctx, reporter, "status")
		return err
	})
	g.Go(func() (err error) {
		byCategory, err = q.issues.CountIssuesBy(gctx, reporter, "category")
		return err
	})
	g.Go(func() (err error) {
		byPriority, err = q.issues.CountIssuesBy(gctx, reporter, "priority")
		return err
	})
	g.Go(func() (err error) {
		recent, err = q.issues.RecentIssues(gctx, reporter, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		q.log.Error().Err(err).Str("reporter_id", reporter.Hex()).Msg("overview")
		return nil, fmt.Errorf("overview: %w", err)
	}

	totals := map[string]int64{"all": 0}
	for status, n := range byStatus {
		totals[status] = n
		totals["all"] += n
	}
	if recent == nil {
		recent = []models.IssueSummary{}
	}
	return &Overview{
		Totals:     totals,
		ByCategory: nonNil(byCategory),
		ByPriority: nonNil(byPriority),
		Recent:     recent,
	}, nil
}

// BuildFilter turns query parameters into a store filter. A geo constraint
// needs all of latitude, longitude and radius; a partial one is ignored.
func BuildFilter(params ListParams) (models.IssueFilter, error) {
	filter := models.IssueFilter{
		Status:   strings.TrimSpace(params.Status),
		Category: strings.TrimSpace(params.Category),
		Priority: strings.TrimSpace(params.Priority),
	}
	if params.Latitude == nil || params.Longitude == nil || params.Radius == nil {
		return filter, nil
	}
	lat, lon, radius := *params.Latitude, *params.Longitude, *params.Radius
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return filter, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radius <= 0 {
		return filter, fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
	}
	filter.Near = &models.NearFilter{Latitude: lat, Longitude: lon, RadiusMeters: radius}
	return filter, nil
}

// ClampPage applies defaults and bounds to page and limit.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// SortField validates the requested sort key. With a geo filter and no
// explicit key the result is empty, keeping nearest-first order.
func SortField(requested string, near bool) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if near {
			return ""
		}
		return defaultSortField
	}
	if !sortFieldPattern.MatchString(requested) {
		return defaultSortField
	}
	return requested
}

// SortDirection is ascending only for "asc".
func SortDirection(order string) int {
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		return 1
	}
	return -1
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (q *Query) populate(ctx context.Context, issues []models.Issue) ([]IssueView, error) {
	views := make([]IssueView, 0, len(issues))
	if len(issues) == 0 {
		return views, nil
	}

	var userIDs, deptIDs []primitive.ObjectID
	for _, is := range issues {
		userIDs = append(userIDs, is.ReporterID)
		if is.AssignedTo != nil {
			deptIDs = append(deptIDs, is.AssignedTo.Department)
		}
	}

	users, err := q.directory.UserRefs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("populate reporters: %w", err)
	}
	depts := map[primitive.ObjectID]models.DepartmentRef{}
	if len(deptIDs) > 0 {
		if depts, err = q.directory.DepartmentRefs(ctx, deptIDs); err != nil {
			return nil, fmt.Errorf("populate departments: %w", err)
		}
	}

	for _, is := range issues {
		view := IssueView{Issue: is}
		if ref, ok := users[is.ReporterID]; ok {
			view.Reporter = ref
		} else {
			view.Reporter = models.UserRef{ID: is.ReporterID}
		}
		if is.AssignedTo != nil {
			dept, ok := depts[is.AssignedTo.Department]
			if !ok {
				dept = models.DepartmentRef{ID: is.AssignedTo.Department}
			}
			view.Assignment = &AssignmentView{
				Department:   dept,
				StaffID:      is.AssignedTo.StaffID,
				AssignedDate: is.AssignedTo.AssignedDate,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func nonNil(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
