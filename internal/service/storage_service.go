package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"mls_backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where uploaded lesson resources land.
type StorageProvider interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// NewStorageProvider picks the provider from config: "minio" for the object
// store, anything else falls back to local disk.
func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	if cfg.Storage.Type == "minio" {
		client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
			Creds: credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
		})
		if err != nil {
			return nil, err
		}
		return &MinioStorage{Client: client, Bucket: cfg.Storage.MinioBucket, Endpoint: cfg.Storage.MinioEndpoint}, nil
	}
	return &LocalStorage{BasePath: cfg.Storage.LocalPath}, nil
}

// objectName gives every upload a collision-free name, keeping the original
// extension so content types stay guessable.
func objectName(original string) string {
	return uuid.NewString() + filepath.Ext(original)
}

type LocalStorage struct {
	BasePath string
}

func (s *LocalStorage) Upload(_ context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(file.Filename)
	path := filepath.Join(s.BasePath, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return "/uploads/" + name, nil
}

func (s *LocalStorage) Delete(_ context.Context, objectURL string) error {
	return os.Remove(filepath.Join(s.BasePath, filepath.Base(objectURL)))
}

type MinioStorage struct {
	Client   *minio.Client
	Bucket   string
	Endpoint string
}

func (s *MinioStorage) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(file.Filename)
	_, err = s.Client.PutObject(ctx, s.Bucket, name, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s/%s", s.Endpoint, s.Bucket, name), nil
}

func (s *MinioStorage) Delete(ctx context.Context, objectURL string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, filepath.Base(objectURL), minio.RemoveObjectOptions{})
}
