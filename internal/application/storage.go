package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/eventnest/identity-service/pkg/helpers"
)

// ImageStore abstracts the binary object store for profile images.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// MailQueue abstracts the queue that carries challenge mail jobs.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// GCSImageStore stores profile images in a Google Cloud Storage bucket.
type GCSImageStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{Client: client, Bucket: bucket}
}

func (s *GCSImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", uuid.NewString()+ext))
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}
