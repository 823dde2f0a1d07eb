package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Akhalfstar/Realeaste-bakend/models"
)

type mockUploader struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
	failOn  string
	delErr  error
}

func (m *mockUploader) Upload(ctx context.Context, localPath string) (models.ImageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && strings.Contains(localPath, m.failOn) {
		return models.ImageRef{}, errors.New("upload failed")
	}
	m.uploads = append(m.uploads, localPath)
	key := "properties/" + filepath.Base(localPath)
	return models.ImageRef{PublicID: key, URL: "https://cdn.example.com/" + key}, nil
}

func (m *mockUploader) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, publicID)
	return m.delErr
}

func stageTempFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("image-bytes"), 0644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestUploadAll(t *testing.T) {
	t.Run("empty batch is a no-op", func(t *testing.T) {
		c := NewCoordinator(&mockUploader{}, zerolog.Nop())
		refs, err := c.UploadAll(context.Background(), nil)
		if err != nil || refs != nil {
			t.Fatalf("expected nil/nil, got %v/%v", refs, err)
		}
	})

	t.Run("uploads all files and preserves order", func(t *testing.T) {
		mock := &mockUploader{}
		c := NewCoordinator(mock, zerolog.Nop())
		paths := stageTempFiles(t, "a.jpg", "b.jpg", "c.jpg")

		refs, err := c.UploadAll(context.Background(), paths)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(refs) != 3 {
			t.Fatalf("expected 3 refs, got %d", len(refs))
		}
		for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
			if refs[i].PublicID != "properties/"+name {
				t.Fatalf("refs out of order: %v", refs)
			}
			if refs[i].URL == "" {
				t.Fatalf("ref %d missing URL", i)
			}
		}
	})

	t.Run("removes staged files after success", func(t *testing.T) {
		c := NewCoordinator(&mockUploader{}, zerolog.Nop())
		paths := stageTempFiles(t, "a.jpg", "b.jpg")

		if _, err := c.UploadAll(context.Background(), paths); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range paths {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Fatalf("staged file %s was not removed", p)
			}
		}
	})

	t.Run("one failure fails the whole batch", func(t *testing.T) {
		mock := &mockUploader{failOn: "b.jpg"}
		c := NewCoordinator(mock, zerolog.Nop())
		paths := stageTempFiles(t, "a.jpg", "b.jpg", "c.jpg")

		refs, err := c.UploadAll(context.Background(), paths)
		if err == nil {
			t.Fatal("expected batch error")
		}
		if refs != nil {
			t.Fatalf("expected no refs on failure, got %v", refs)
		}
	})

	t.Run("removes staged files after failure too", func(t *testing.T) {
		mock := &mockUploader{failOn: "b.jpg"}
		c := NewCoordinator(mock, zerolog.Nop())
		paths := stageTempFiles(t, "a.jpg", "b.jpg", "c.jpg")

		c.UploadAll(context.Background(), paths)
		for _, p := range paths {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Fatalf("staged file %s was not removed", p)
			}
		}
	})

	t.Run("rolls back uploads that landed before the failure", func(t *testing.T) {
		mock := &mockUploader{failOn: "b.jpg"}
		c := NewCoordinator(mock, zerolog.Nop())
		paths := stageTempFiles(t, "a.jpg", "b.jpg", "c.jpg")

		c.UploadAll(context.Background(), paths)

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if len(mock.deletes) != len(mock.uploads) {
			t.Fatalf("expected %d rollback deletes, got %d", len(mock.uploads), len(mock.deletes))
		}
	})
}

func TestDeleteAll(t *testing.T) {
	t.Run("issues one delete per ref", func(t *testing.T) {
		mock := &mockUploader{}
		c := NewCoordinator(mock, zerolog.Nop())

		refs := []models.ImageRef{
			{PublicID: "properties/a.jpg"},
			{PublicID: "properties/b.jpg"},
			{PublicID: "properties/c.jpg"},
		}
		c.DeleteAll(context.Background(), refs)
		if len(mock.deletes) != 3 {
			t.Fatalf("expected 3 deletes, got %d", len(mock.deletes))
		}
	})

	t.Run("a failing delete does not stop the rest", func(t *testing.T) {
		mock := &mockUploader{delErr: errors.New("storage down")}
		c := NewCoordinator(mock, zerolog.Nop())

		refs := []models.ImageRef{
			{PublicID: "properties/a.jpg"},
			{PublicID: "properties/b.jpg"},
		}
		c.DeleteAll(context.Background(), refs)
		if len(mock.deletes) != 2 {
			t.Fatalf("expected both deletes attempted, got %d", len(mock.deletes))
		}
	})

	t.Run("skips refs without a public id", func(t *testing.T) {
		mock := &mockUploader{}
		c := NewCoordinator(mock, zerolog.Nop())

		c.DeleteAll(context.Background(), []models.ImageRef{{URL: "https://cdn.example.com/x"}})
		if len(mock.deletes) != 0 {
			t.Fatalf("expected no deletes, got %d", len(mock.deletes))
		}
	})
}
