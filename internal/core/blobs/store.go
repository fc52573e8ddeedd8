// Package blobs is the object storage gateway. Media bytes go to an
// S3-compatible bucket (Backblaze B2) and are addressed afterwards by their
// public URL of the form {downloadBase}/file/{bucket}/{key}.
package blobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	gobreaker "github.com/sony/gobreaker/v2"

	"Vidora/internal/metrics"
)

// DefaultDownloadHost is used to build public URLs when no base URL is configured
const DefaultDownloadHost = "https://f000.backblazeb2.com"

// Store is the capability passed to services that persist media
type Store interface {
	// Upload stores data under key and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// SignURL returns a time-limited URL for a public file URL of this bucket.
	// A ttl <= 0 selects the configured default.
	SignURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error)
}

// ObjectClient is the subset of *minio.Client used by the gateway
type ObjectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Config configures the gateway. PublicBaseURL defaults to the bucket's B2
// download host, SignedURLTTL to one hour. A CacheSize of 0 disables the
// signed URL cache.
type Config struct {
	Bucket        string
	PublicBaseURL string
	SignedURLTTL  time.Duration
	CacheSize     int
}

// ClientConfig holds the connection settings for NewMinioClient
type ClientConfig struct {
	Endpoint string
	Region   string
	KeyID    string
	AppKey   string
	UseSSL   bool
}

// NewMinioClient creates an S3 client for the B2 S3-compatible endpoint
func NewMinioClient(cfg ClientConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.KeyID, cfg.AppKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return client, nil
}

// Gateway implements Store on top of an ObjectClient. Remote calls run behind a
// circuit breaker, and signed URLs are cached for half their lifetime.
type Gateway struct {
	client     ObjectClient
	cb         *gobreaker.CircuitBreaker[string]
	signed     *expirable.LRU[string, string]
	logger     *slog.Logger
	bucket     string
	publicBase string
	defaultTTL time.Duration
}

const breakerName = "object-storage"

// NewGateway wires the gateway. A nil client yields a gateway whose calls all
// fail with ErrStorageUnavailable, which keeps the server usable without B2.
func NewGateway(client ObjectClient, cfg Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = time.Hour
	}

	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = DefaultDownloadHost + "/file/" + cfg.Bucket
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	g := &Gateway{
		client:     client,
		logger:     logger,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
		defaultTTL: cfg.SignedURLTTL,
	}

	g.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	if cfg.CacheSize > 0 {
		g.signed = expirable.NewLRU[string, string](cfg.CacheSize, nil, cfg.SignedURLTTL/2)
	}

	return g
}

// Upload stores data under key and returns {publicBase}/{key}
func (g *Gateway) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := g.execute("upload", func() (string, error) {
		if g.client == nil {
			return "", errors.New("object storage client not configured")
		}
		info, err := g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return "", err
		}
		return info.Key, nil
	})
	if err != nil {
		g.logger.Error("object upload failed", "key", key, "size", len(data), "error", err)
		return "", fmt.Errorf("%w: upload %s: %v", ErrStorageUnavailable, key, err)
	}

	publicURL := g.PublicURL(key)
	g.logger.Debug("object uploaded", "key", key, "size", len(data), "url", publicURL)
	return publicURL, nil
}

// SignURL validates that fileURL is under /file/{bucket}/ and returns a presigned GET URL
func (g *Gateway) SignURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error) {
	key, err := g.KeyFromURL(fileURL)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = g.defaultTTL
	}

	cacheKey := key + "|" + ttl.String()
	if g.signed != nil && ttl == g.defaultTTL {
		if cached, ok := g.signed.Get(cacheKey); ok {
			metrics.StorageOperations.WithLabelValues("sign", "cache_hit").Inc()
			return cached, nil
		}
	}

	signed, err := g.execute("sign", func() (string, error) {
		if g.client == nil {
			return "", errors.New("object storage client not configured")
		}
		u, err := g.client.PresignedGetObject(ctx, g.bucket, key, ttl, nil)
		if err != nil {
			return "", err
		}
		return u.String(), nil
	})
	if err != nil {
		g.logger.Error("failed to sign object url", "key", key, "error", err)
		return "", fmt.Errorf("%w: sign %s: %v", ErrStorageUnavailable, key, err)
	}

	if g.signed != nil && ttl == g.defaultTTL {
		g.signed.Add(cacheKey, signed)
	}
	return signed, nil
}

// PublicURL builds the public URL of an object key
func (g *Gateway) PublicURL(key string) string {
	return g.publicBase + "/" + key
}

// KeyFromURL extracts the object key from a public file URL of this bucket
func (g *Gateway) KeyFromURL(fileURL string) (string, error) {
	if fileURL == "" {
		return "", ErrInvalidFileURL
	}
	u, err := url.Parse(fileURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidFileURL
	}

	prefix := "/file/" + g.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileURL, u.Path)
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", ErrInvalidFileURL
	}
	return key, nil
}

func (g *Gateway) execute(op string, fn func() (string, error)) (string, error) {
	result, err := g.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.StorageOperations.WithLabelValues(op, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.StorageOperations.WithLabelValues(op, "rejected").Inc()
	default:
		metrics.StorageOperations.WithLabelValues(op, "failure").Inc()
	}
	return result, err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
