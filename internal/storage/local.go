package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const publicMarker = ".public"

// LocalStorage keeps buckets as directories under basePath. Private objects are
// served through HMAC-signed URLs verified by VerifySignature.
type LocalStorage struct {
	basePath   string
	baseURL    string
	signingKey []byte
	now        func() time.Time
}

func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./uploads"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/uploads"
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	key := cfg.SigningKey
	if key == "" {
		key = "local-storage"
	}

	return &LocalStorage{
		basePath:   cfg.BasePath,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		signingKey: []byte(key),
		now:        time.Now,
	}, nil
}

// resolve keeps every path inside basePath
func (s *LocalStorage) resolve(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || strings.HasPrefix(bucket, ".") {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.HasPrefix(filepath.Base(clean), ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.basePath, bucket, clean), nil
}

func (s *LocalStorage) Save(ctx context.Context, bucket, key string, reader io.Reader, contentType string) error {
	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, bucket, key string) error {
	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LocalStorage) GetURL(ctx context.Context, bucket, key string) (string, error) {
	if _, err := s.resolve(bucket, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, strings.TrimLeft(key, "/")), nil
}

func (s *LocalStorage) GetSignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	base, err := s.GetURL(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	expires := s.now().Add(expiry).Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.sign(bucket, key, expires))
	return base + "?" + q.Encode(), nil
}

func (s *LocalStorage) GetSize(ctx context.Context, bucket, key string) (int64, error) {
	fullPath, err := s.resolve(bucket, key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get file info: %w", err)
	}
	return info.Size(), nil
}

func (s *LocalStorage) CreateBucket(ctx context.Context, name string, public bool) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid bucket %q", name)
	}
	dir := filepath.Join(s.basePath, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	marker := filepath.Join(dir, publicMarker)
	if public {
		return os.WriteFile(marker, nil, 0o644)
	}
	if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsPublic reports whether the bucket was created public
func (s *LocalStorage) IsPublic(bucket string) bool {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.basePath, bucket, publicMarker))
	return err == nil
}

// VerifySignature checks a signed URL's parameters
func (s *LocalStorage) VerifySignature(bucket, key, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || s.now().Unix() > exp {
		return false
	}
	want := s.sign(bucket, key, exp)
	return hmac.Equal([]byte(want), []byte(signature))
}

// Path returns the filesystem path of an object
func (s *LocalStorage) Path(bucket, key string) (string, error) {
	return s.resolve(bucket, key)
}

func (s *LocalStorage) sign(bucket, key string, expires int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	fmt.Fprintf(mac, "%s\n%s\n%d", bucket, strings.TrimLeft(key, "/"), expires)
	return hex.EncodeToString(mac.Sum(nil))
}
