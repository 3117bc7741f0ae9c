package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nagar-connect/geocoding"
	"nagar-connect/media"
	"nagar-connect/models"
)

//go:generate mockgen -destination=mock_deps_test.go -package=services . Geocoder,IssueWriter

// Geocoder resolves an address to a point.
type Geocoder interface {
	Forward(ctx context.Context, address string) (geocoding.Coordinates, error)
}

// IssueWriter persists a new issue.
type IssueWriter interface {
	InsertIssue(ctx context.Context, issue *models.Issue) error
}

// placeholder shown by the client while browser geolocation is still resolving
const detectingPlaceholder = "detecting..."

// Attachment is a client-side reference to an already uploaded file.
type Attachment struct {
	URL          string `json:"url"`
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
}

// Submission is the raw issue draft sent by a citizen.
type Submission struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Category    string       `json:"category"`
	Priority    string       `json:"priority"`
	Attachments []Attachment `json:"attachments"`
	// AutoClassify merges confident image suggestions into the draft
	// before validation.
	AutoClassify bool `json:"autoClassify"`
}

type issueText struct {
	Title       string `validate:"max=150"`
	Description string `validate:"max=1000"`
}

// Intake turns a submission into exactly one persisted Issue, or none.
type Intake struct {
	geocoder   Geocoder
	issues     IssueWriter
	normalizer Normalizer
	suggester  ImageClassifier
	validate   *validator.Validate
	now        func() time.Time
	log        zerolog.Logger
}

func NewIntake(geocoder Geocoder, issues IssueWriter, normalizer Normalizer, log zerolog.Logger) *Intake {
	return &Intake{
		geocoder:   geocoder,
		issues:     issues,
		normalizer: normalizer,
		validate:   validator.New(),
		now:        time.Now,
		log:        log.With().Str("service", "intake").Logger(),
	}
}

// WithClassifier enables auto-classification of submissions that ask for it.
func (p *Intake) WithClassifier(c ImageClassifier) *Intake {
	p.suggester = c
	return p
}

// Submit validates, normalizes, geocodes and stores a new issue for reporterID.
func (p *Intake) Submit(ctx context.Context, reporterID string, in Submission) (*models.Issue, error) {
	reporter, err := callerID(reporterID)
	if err != nil {
		return nil, err
	}

	if in.AutoClassify && p.suggester != nil {
		analyses := ClassifyAttachments(ctx, p.suggester, &in)
		p.log.Debug().Int("analyses", len(analyses)).Str("category", in.Category).Msg("auto-classified")
	}

	if missing := MissingFields(in); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	attachments := AssembleMedia(in.Attachments)
	if len(attachments) > media.MaxFilesPerIssue {
		return nil, &FieldError{Field: "attachments", Message: fmt.Sprintf("at most %d files per issue", media.MaxFilesPerIssue)}
	}

	text := issueText{Title: strings.TrimSpace(in.Title), Description: strings.TrimSpace(in.Description)}
	if err := p.validate.Struct(text); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &FieldError{
				Field:   strings.ToLower(verrs[0].Field()),
				Message: fmt.Sprintf("cannot exceed %s characters", verrs[0].Param()),
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	category := p.normalizer.Category(in.Category)
	priority := p.normalizer.Priority(in.Priority)
	address := strings.TrimSpace(in.Location)

	coords, err := p.geocoder.Forward(ctx, address)
	if err != nil {
		p.log.Warn().Err(err).Msg("geocoding failed")
		switch {
		case errors.Is(err, geocoding.ErrNotFound):
			return nil, ErrAddressNotFound
		case errors.Is(err, geocoding.ErrMalformed):
			return nil, ErrInvalidCoordinates
		default:
			return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
		}
	}
	if !validCoordinates(coords) {
		return nil, ErrInvalidCoordinates
	}

	now := p.now().UTC()
	issue := &models.Issue{
		ID:          primitive.NewObjectID(),
		ReporterID:  reporter,
		Title:       text.Title,
		Description: text.Description,
		Category:    category,
		Priority:    priority,
		Status:      models.StatusReported,
		Location:    models.NewGeoPoint(coords.Longitude, coords.Latitude),
		Address:     address,
		Media:       attachments,
		Timeline: []models.TimelineEntry{
			{Status: models.StatusReported, Timestamp: now, By: &reporter},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := p.issues.InsertIssue(ctx, issue); err != nil {
		p.log.Error().Err(err).Msg("insert issue")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	p.log.Info().
		Str("issue_id", issue.ID.Hex()).
		Str("reporter_id", reporter.Hex()).
		Str("category", string(category)).
		Msg("issue reported")
	return issue, nil
}

// MissingFields returns the names of every blank required field, in form order.
func MissingFields(in Submission) []string {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	loc := strings.TrimSpace(in.Location)
	if loc == "" || strings.EqualFold(loc, detectingPlaceholder) {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(in.Category) == "" {
		missing = append(missing, "category")
	}
	return missing
}

var (
	videoPattern = regexp.MustCompile(`\.mp4|\.mov|\.webm|video`)
	audioPattern = regexp.MustCompile(`\.mp3|\.wav|audio`)
)

// InferMediaType classifies an attachment URL; anything unrecognized is an image.
func InferMediaType(url string) models.MediaType {
	lower := strings.ToLower(url)
	switch {
	case videoPattern.MatchString(lower):
		return models.MediaVideo
	case audioPattern.MatchString(lower):
		return models.MediaAudio
	default:
		return models.MediaImage
	}
}

// AssembleMedia keeps attachments with a URL, in order.
func AssembleMedia(attachments []Attachment) []models.Media {
	out := make([]models.Media, 0, len(attachments))
	for _, a := range attachments {
		url := strings.TrimSpace(a.URL)
		if url == "" {
			continue
		}
		out = append(out, models.Media{URL: url, Type: InferMediaType(url)})
	}
	return out
}

func validCoordinates(c geocoding.Coordinates) bool {
	for _, v := range []float64{c.Longitude, c.Latitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.Longitude >= -180 && c.Longitude <= 180 && c.Latitude >= -90 && c.Latitude <= 90
}

func callerID(id string) (primitive.ObjectID, error) {
	if strings.TrimSpace(id) == "" {
		return primitive.NilObjectID, ErrUnauthorized
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthorized
	}
	return oid, nil
}
