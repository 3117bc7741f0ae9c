package services

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"nagar-connect/classifier"
	"nagar-connect/models"
)

// AutoFillThreshold is the minimum confidence at which a suggestion
// overwrites the draft category.
const AutoFillThreshold = 0.7

// ImageClassifier suggests a category for a single image URL.
type ImageClassifier interface {
	Classify(ctx context.Context, imageURL string) classifier.Analysis
}

// ApplySuggestion merges a into draft when it clears the threshold. The
// description is only filled when the citizen left it blank.
func ApplySuggestion(draft *Submission, a classifier.Analysis) bool {
	if a.Confidence < AutoFillThreshold {
		return false
	}
	draft.Category = a.Category
	if strings.TrimSpace(draft.Description) == "" {
		draft.Description = a.Description
	}
	return true
}

// ClassifyAttachments classifies every image attachment of draft
// concurrently. Results are merged as they complete, so with several
// confident suggestions the last one to finish wins.
func ClassifyAttachments(ctx context.Context, c ImageClassifier, draft *Submission) []classifier.Analysis {
	var (
		mu      sync.Mutex
		results []classifier.Analysis
		g       errgroup.Group
	)
	for _, a := range draft.Attachments {
		url := strings.TrimSpace(a.URL)
		if url == "" || InferMediaType(url) != models.MediaImage {
			continue
		}
		g.Go(func() error {
			analysis := c.Classify(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			ApplySuggestion(draft, analysis)
			results = append(results, analysis)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
