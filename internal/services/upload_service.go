package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pareto_backend/internal/config"
	"pareto_backend/internal/imageprocessor"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/storage"
	"pareto_backend/pkg/apperrors"
)

// UploadService validates files against the per-kind rules and writes them to storage
type UploadService interface {
	// StoreDocument writes into the private documents bucket and returns the object key
	StoreDocument(ctx context.Context, kind config.FileKind, sessionID string, file *dto.FileUpload) (string, error)
	// StoreImage normalizes an image into a public bucket and returns its public URL
	StoreImage(ctx context.Context, kind config.FileKind, bucket, owner string, file *dto.FileUpload) (string, error)
	SignedURL(ctx context.Context, bucket, key string) (string, time.Time, error)
	RemoveDocument(ctx context.Context, key string)
	CreateBucket(ctx context.Context, name string, public bool) error
}

type uploadService struct {
	storage         storage.Storage
	processor       *imageprocessor.Processor
	rules           map[config.FileKind]config.FileRule
	documentsBucket string
	signedURLTTL    time.Duration
	now             func() time.Time
}

func NewUploadService(store storage.Storage, processor *imageprocessor.Processor, cfg *config.Config) UploadService {
	return &uploadService{
		storage:         store,
		processor:       processor,
		rules:           cfg.FileRules(),
		documentsBucket: cfg.Storage.Buckets.Documents,
		signedURLTTL:    cfg.SignedURLTTL(),
		now:             time.Now,
	}
}

func (s *uploadService) validate(kind config.FileKind, file *dto.FileUpload) (config.FileRule, error) {
	rule, ok := s.rules[kind]
	if !ok {
		return rule, apperrors.NewBadRequestError(fmt.Sprintf("unknown file kind: %s", kind))
	}
	if !rule.Allows(file.Filename) {
		return rule, apperrors.ErrInvalidFileType.WithDetails(map[string]string{
			string(kind): "Allowed types: " + strings.Join(rule.AllowedExtensions, ", "),
		})
	}
	if rule.MaxSize > 0 && file.Size > rule.MaxSize {
		return rule, apperrors.ErrFileTooLarge.WithDetails(map[string]string{
			string(kind): fmt.Sprintf("Maximum size is %d MB", rule.MaxSize/(1024*1024)),
		})
	}
	return rule, nil
}

func (s *uploadService) StoreDocument(ctx context.Context, kind config.FileKind, sessionID string, file *dto.FileUpload) (string, error) {
	if _, err := s.validate(kind, file); err != nil {
		return "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer reader.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := storage.ObjectKey([]string{"applications", sessionID}, string(kind), ext)
	if err := s.storage.Save(ctx, s.documentsBucket, key, reader, contentTypeFor(ext, file.ContentType)); err != nil {
		logger.CtxError(ctx, "Document upload failed", "kind", kind, "error", err)
		return "", apperrors.ExternalServiceError(err, "storage", fmt.Sprintf("Failed to upload %s", kind))
	}
	return key, nil
}

func (s *uploadService) StoreImage(ctx context.Context, kind config.FileKind, bucket, owner string, file *dto.FileUpload) (string, error) {
	if _, err := s.validate(kind, file); err != nil {
		return "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer reader.Close()

	normalized, err := s.processor.Normalize(reader)
	if err != nil {
		return "", apperrors.ErrInvalidFileType.WithError(err)
	}

	key := storage.ObjectKey([]string{owner}, "", ".jpg")
	if err := s.storage.Save(ctx, bucket, key, bytes.NewReader(normalized.Bytes()), "image/jpeg"); err != nil {
		logger.CtxError(ctx, "Image upload failed", "kind", kind, "error", err)
		return "", apperrors.ExternalServiceError(err, "storage", fmt.Sprintf("Failed to upload %s", kind))
	}

	url, err := s.storage.GetURL(ctx, bucket, key)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

func (s *uploadService) SignedURL(ctx context.Context, bucket, key string) (string, time.Time, error) {
	expiresAt := s.now().Add(s.signedURLTTL)
	url, err := s.storage.GetSignedURL(ctx, bucket, key, s.signedURLTTL)
	if err != nil {
		return "", time.Time{}, apperrors.ExternalServiceError(err, "storage", "Failed to sign document URL")
	}
	return url, expiresAt, nil
}

// RemoveDocument is best effort; failures are only logged
func (s *uploadService) RemoveDocument(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.documentsBucket, key); err != nil {
		logger.CtxWarn(ctx, "Failed to remove orphaned document", "key", key, "error", err)
	}
}

func (s *uploadService) CreateBucket(ctx context.Context, name string, public bool) error {
	if err := s.storage.CreateBucket(ctx, name, public); err != nil {
		return apperrors.ExternalServiceError(err, "storage", "Failed to create bucket")
	}
	return nil
}

func contentTypeFor(ext, declared string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".ppt":
		return "application/vnd.ms-powerpoint"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}
