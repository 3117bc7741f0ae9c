// Package media validates uploaded files and forwards them to object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// MaxFileSize is the per-file upload limit.
const MaxFileSize = 10 << 20

// MaxFilesPerIssue caps attachments on a single submission.
const MaxFilesPerIssue = 5

var (
	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrFileTooLarge         = errors.New("file too large, maximum size is 10MB")
	ErrStorage              = errors.New("storage service error")
	ErrNotFound             = errors.New("file not found")
	ErrMissingID            = errors.New("file id is required")
)

// AllowedTypes is the MIME allow-list.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ObjectStore is the external object storage the intake forwards to.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (url string, err error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// File is an upload as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Stored describes a file after upload.
type Stored struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadedBy   string    `json:"uploadedBy"`
}

// Namer builds the object name for an upload.
type Namer func(owner, originalName, contentType string) string

// Intake is stateless per call; the attachment cap is enforced by callers.
type Intake struct {
	store ObjectStore
	name  Namer
	now   func() time.Time
	log   zerolog.Logger
}

func NewIntake(store ObjectStore, name Namer, log zerolog.Logger) *Intake {
	return &Intake{
		store: store,
		name:  name,
		now:   time.Now,
		log:   log.With().Str("adapter", "media").Logger(),
	}
}

// Upload validates f and forwards it to object storage.
func (in *Intake) Upload(ctx context.Context, owner string, f File) (*Stored, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(f.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := resolveType(f.ContentType, head)
	if !Allowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}
	if f.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	name := in.name(owner, f.Name, contentType)
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), f.Reader), MaxFileSize)
	url, err := in.store.Put(ctx, name, contentType, body)
	if err != nil {
		in.log.Error().Err(err).Str("object", name).Msg("upload failed")
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	in.log.Info().Str("object", name).Int64("size", f.Size).Msg("file uploaded")
	return &Stored{
		ID:           name,
		URL:          url,
		OriginalName: f.Name,
		Size:         f.Size,
		Type:         contentType,
		UploadedAt:   in.now().UTC(),
		UploadedBy:   owner,
	}, nil
}

// Delete removes a stored object by id.
func (in *Intake) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := in.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// URL returns the public URL for a stored object id.
func (in *Intake) URL(id string) string {
	return in.store.URL(id)
}

// Allowed reports whether contentType is on the allow-list.
func Allowed(contentType string) bool {
	for _, t := range AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// resolveType trusts the declared type unless it is absent or generic, in
// which case the content is sniffed.
func resolveType(declared string, head []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = mt
		}
	}
	if declared != "" && declared != "application/octet-stream" {
		return strings.ToLower(declared)
	}
	detected := mimetype.Detect(head)
	for _, t := range AllowedTypes {
		if detected.Is(t) {
			return t
		}
	}
	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String()
	}
	return mt
}
