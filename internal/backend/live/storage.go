package live

import (
	"context"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Storage signs V4 download URLs for "bucket:path" references.
type Storage struct {
	client *fbstorage.Client
	now    func() time.Time
}

var _ backend.Storage = (*Storage)(nil)

func NewStorage(client *fbstorage.Client) *Storage {
	return &Storage{client: client, now: time.Now}
}

// SignedURL rejects malformed references with models.ErrMalformedFileRef
// before contacting storage.
func (s *Storage) SignedURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error) {
	ref, err := models.ParseFileRef(fileURL)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	bucket, err := s.client.Bucket(ref.Bucket)
	if err != nil {
		return "", backend.Wrap("storage.bucket", err)
	}
	url, err := bucket.SignedURL(ref.Path, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: s.now().Add(ttl),
	})
	if err != nil {
		return "", backend.Wrap("storage.createSignedUrl", err)
	}
	return url, nil
}
