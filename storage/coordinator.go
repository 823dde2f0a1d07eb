package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Akhalfstar/Realeaste-bakend/models"
)

// Uploader is the slice of the image store the coordinator needs; it is
// an interface so handler tests can substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (models.ImageRef, error)
	Delete(ctx context.Context, publicID string) error
}

// Coordinator runs image batches against external storage. Upload batches
// are all-or-nothing: one failed upload fails the batch and the uploads
// that did land are deleted again best-effort. Deletions of stored images
// are always best-effort — a dead object in the bucket must never block a
// property mutation.
type Coordinator struct {
	uploader Uploader
	log      zerolog.Logger
}

func NewCoordinator(u Uploader, log zerolog.Logger) *Coordinator {
	return &Coordinator{uploader: u, log: log}
}

// UploadAll uploads every staged file concurrently and waits for the
// whole batch. Each local file is removed after its attempt, success or
// not. The returned refs preserve the order of paths.
func (c *Coordinator) UploadAll(ctx context.Context, paths []string) ([]models.ImageRef, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	refs := make([]models.ImageRef, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			defer os.Remove(path)
			ref, err := c.uploader.Upload(gctx, path)
			if err != nil {
				return fmt.Errorf("upload %s: %w", path, err)
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// The request context may already be cancelled; rollback runs
		// detached so partial uploads do not leak into the bucket.
		var uploaded []models.ImageRef
		for _, ref := range refs {
			if ref.PublicID != "" {
				uploaded = append(uploaded, ref)
			}
		}
		c.DeleteAll(context.Background(), uploaded)
		return nil, err
	}

	return refs, nil
}

// DeleteAll removes stored images best-effort, logging failures.
func (c *Coordinator) DeleteAll(ctx context.Context, refs []models.ImageRef) {
	for _, ref := range refs {
		if ref.PublicID == "" {
			continue
		}
		if err := c.uploader.Delete(ctx, ref.PublicID); err != nil {
			c.log.Warn().Err(err).Str("public_id", ref.PublicID).Msg("image delete failed")
		}
	}
}
