// Package classifier suggests a civic-issue category for an uploaded image.
//
// Two modes exist and are picked at construction time: "gemini" sends the
// image to a Gemini vision model, "heuristic" looks only at the image URL.
// Classify never fails; any unexpected error degrades to a low-confidence
// "other" result.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nagar-connect/config"
)

// Suggested categories. These are client tokens, not the persisted enum.
const (
	CategoryPothole     = "pothole"
	CategoryStreetlight = "streetlight"
	CategoryRoad        = "road"
	CategoryTraffic     = "traffic"
	CategoryWater       = "water"
	CategoryGarbage     = "garbage"
	CategoryDrainage    = "drainage"
	CategorySafety      = "safety"
	CategoryOther       = "other"
)

// Categories lists the tokens a model reply is matched against.
var Categories = []string{
	CategoryPothole, CategoryStreetlight, CategoryRoad, CategoryTraffic,
	CategoryWater, CategoryGarbage, CategoryDrainage, CategorySafety, CategoryOther,
}

// Analysis sources.
const (
	SourceGemini    = "gemini"
	SourceHeuristic = "heuristic"
	SourceNone      = "none"
)

// Analysis is a best-effort suggestion. Confidence is a rule-derived score in [0,1].
type Analysis struct {
	Category    string   `json:"suggestedCategory"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Source      string   `json:"source"`
}

// Unavailable is returned when classification fails outright.
func Unavailable() Analysis {
	return Analysis{
		Category:    CategoryOther,
		Confidence:  0.1,
		Description: "unable to analyze",
		Tags:        []string{},
		Source:      SourceNone,
	}
}

type Config struct {
	Mode    string
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Classifier struct {
	mode   string
	gemini *geminiClient
	log    zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Classifier, error) {
	log = log.With().Str("adapter", "classifier").Logger()
	switch cfg.Mode {
	case config.ClassifierHeuristic:
		return &Classifier{mode: cfg.Mode, log: log}, nil
	case config.ClassifierGemini:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("%w: gemini api key is required in gemini mode", config.ErrMisconfigured)
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.0-flash"
		}
		base := strings.TrimRight(cfg.BaseURL, "/")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
		return &Classifier{
			mode: cfg.Mode,
			gemini: &geminiClient{
				key:     cfg.APIKey,
				model:   model,
				baseURL: base,
				http:    &http.Client{Timeout: timeout},
			},
			log: log,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown classifier mode %q", config.ErrMisconfigured, cfg.Mode)
	}
}

func (c *Classifier) Mode() string { return c.mode }

// Classify suggests a category for the image at imageURL.
func (c *Classifier) Classify(ctx context.Context, imageURL string) (a Analysis) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("url", imageURL).Msg("classification panicked")
			a = Unavailable()
		}
	}()

	if c.mode == config.ClassifierHeuristic {
		return FromFilename(imageURL)
	}

	reply, err := c.gemini.describe(ctx, imageURL)
	if err != nil {
		if errors.Is(err, errModelNotFound) {
			c.log.Warn().Msg("gemini endpoint not found, using filename heuristic")
			return FromFilename(imageURL)
		}
		c.log.Error().Err(err).Msg("image analysis failed")
		return Unavailable()
	}
	return FromReply(reply)
}

type rule struct {
	keywords   []string
	category   string
	confidence float64
}

// Order matters: the first matching rule wins.
var replyRules = []rule{
	{[]string{"pothole", "hole"}, CategoryPothole, 0.8},
	{[]string{"streetlight", "light"}, CategoryStreetlight, 0.8},
	{[]string{"road", "street"}, CategoryRoad, 0.7},
	{[]string{"traffic", "signal"}, CategoryTraffic, 0.8},
	{[]string{"water", "leak"}, CategoryWater, 0.8},
	{[]string{"garbage", "trash"}, CategoryGarbage, 0.8},
	{[]string{"drainage", "drain"}, CategoryDrainage, 0.8},
	{[]string{"safety", "hazard"}, CategorySafety, 0.7},
	{[]string{"other"}, CategoryOther, 0.6},
}

var filenameRules = []rule{
	{[]string{"pothole", "hole"}, CategoryPothole, 0.6},
	{[]string{"light", "lamp"}, CategoryStreetlight, 0.6},
	{[]string{"water", "leak"}, CategoryWater, 0.6},
	{[]string{"garbage", "trash"}, CategoryGarbage, 0.6},
	{[]string{"road", "street"}, CategoryRoad, 0.5},
}

func match(text string, rules []rule) (string, float64, bool) {
	text = strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category, r.confidence, true
			}
		}
	}
	return "", 0, false
}

// FromReply maps a free-text model reply onto a category.
func FromReply(reply string) Analysis {
	category, confidence, ok := match(strings.TrimSpace(reply), replyRules)
	if !ok {
		category, confidence = CategoryOther, 0.5
	}
	return Analysis{
		Category:    category,
		Confidence:  confidence,
		Description: "Detected: " + category,
		Tags:        []string{category},
		Source:      SourceGemini,
	}
}

// FromFilename guesses a category from keywords in the image URL.
func FromFilename(imageURL string) Analysis {
	category, confidence, ok := match(imageURL, filenameRules)
	if !ok {
		category, confidence = CategoryOther, 0.3
	}
	return Analysis{
		Category:    category,
		Confidence:  confidence,
		Description: "Fallback: " + category,
		Tags:        []string{category},
		Source:      SourceHeuristic,
	}
}
