package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"nagar-connect/classifier"
)

type fakeStore struct {
	puts      map[string][]byte
	types     map[string]string
	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Put(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.puts[name] = b
	s.types[name] = contentType
	return s.URL(name), nil
}

func (s *fakeStore) Delete(_ context.Context, name string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *fakeStore) URL(name string) string { return "https://objects.test/" + name }

func fixedName(owner, original, _ string) string { return owner + "/" + original }

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUpload_Succeeds(t *testing.T) {
	store := newFakeStore()
	in := NewIntake(store, fixedName, zerolog.Nop())

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 5000)...)
	got, err := in.Upload(context.Background(), "u1", File{
		Name: "pothole.png", ContentType: "image/png", Size: int64(len(content)), Reader: bytes.NewReader(content),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got.ID != "u1/pothole.png" || got.URL != "https://objects.test/u1/pothole.png" || got.OriginalName != "pothole.png" {
		t.Fatalf("unexpected result %+v", got)
	}
	if !bytes.Equal(store.puts[got.ID], content) {
		t.Fatalf("stored bytes differ: got %d bytes, want %d", len(store.puts[got.ID]), len(content))
	}
}

func TestUpload_RejectsBeforeStorage(t *testing.T) {
	tests := []struct {
		name string
		file File
		want error
	}{
		{
			name: "disallowed type",
			file: File{Name: "run.sh", ContentType: "application/x-sh", Size: 10, Reader: strings.NewReader("#!/bin/sh")},
			want: ErrUnsupportedMediaType,
		},
		{
			name: "video not allowed",
			file: File{Name: "clip.mp4", ContentType: "video/mp4", Size: 10, Reader: strings.NewReader("....")},
			want: ErrUnsupportedMediaType,
		},
		{
			name: "too large",
			file: File{Name: "big.png", ContentType: "image/png", Size: MaxFileSize + 1, Reader: bytes.NewReader(pngHeader)},
			want: ErrFileTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			in := NewIntake(store, fixedName, zerolog.Nop())
			_, err := in.Upload(context.Background(), "u1", tt.file)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(store.puts) != 0 {
				t.Fatal("store must not be called for rejected files")
			}
		})
	}
}

func TestUpload_SniffsGenericType(t *testing.T) {
	store := newFakeStore()
	in := NewIntake(store, fixedName, zerolog.Nop())

	got, err := in.Upload(context.Background(), "u1", File{
		Name: "photo", ContentType: "application/octet-stream", Size: int64(len(pngHeader)), Reader: bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got.Type != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", got.Type)
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("bucket unavailable")
	in := NewIntake(store, fixedName, zerolog.Nop())

	_, err := in.Upload(context.Background(), "u1", File{
		Name: "a.png", ContentType: "image/png", Size: int64(len(pngHeader)), Reader: bytes.NewReader(pngHeader),
	})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	in := NewIntake(store, fixedName, zerolog.Nop())

	if err := in.Delete(context.Background(), ""); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if err := in.Delete(context.Background(), "u1/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	store.deleteErr = ErrNotFound
	if err := in.Delete(context.Background(), "u1/a.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	store.deleteErr = errors.New("boom")
	if err := in.Delete(context.Background(), "u1/a.png"); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestObjectName(t *testing.T) {
	name := ObjectName("abc", "Photo.JPG", "image/png")
	if !strings.HasPrefix(name, "nagar-connect/abc/") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("unexpected object name %q", name)
	}
	if ObjectName("abc", "x.png", "image/png") == ObjectName("abc", "x.png", "image/png") {
		t.Fatal("object names must be unique")
	}
}

func TestObjectName_KeepsOriginalSlug(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"pothole_on_main.jpg", "-pothole-on-main.jpg"},
		{"C:\\Users\\me\\Broken Lamp!!.JPG", "-broken-lamp.jpg"},
		{"???.jpg", ".jpg"},
		{"", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			name := ObjectName("u", tt.original, "image/jpeg")
			if !strings.HasSuffix(name, tt.want) {
				t.Fatalf("ObjectName(%q) = %q, want suffix %q", tt.original, name, tt.want)
			}
		})
	}

	long := ObjectName("u", strings.Repeat("a", 200)+".png", "image/png")
	if len(path.Base(long)) > 36+1+maxSlugLen+len(".png") {
		t.Fatalf("slug not truncated: %q", long)
	}
}

func TestObjectName_FeedsFilenameClassifier(t *testing.T) {
	url := "https://storage.googleapis.com/nagar-bucket/" + ObjectName("u", "pothole_on_main.jpg", "image/jpeg")
	got := classifier.FromFilename(url)
	if got.Category != classifier.CategoryPothole || got.Confidence != 0.6 {
		t.Fatalf("FromFilename(%q) = %s/%v, want pothole/0.6", url, got.Category, got.Confidence)
	}
}
