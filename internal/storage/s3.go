package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds the configuration for S3 asset storage.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// Compile-time check that S3Store implements Store.
var _ Store = (*S3Store)(nil)

// S3Store keeps assets in an S3 bucket with a local write-through cache,
// so the analysis pipeline always has a file it can hand to ffmpeg.
type S3Store struct {
	cache  *LocalStore
	client *s3.Client
	bucket string
	region string
}

// NewS3Store creates a new S3Store instance.
// The cacheDir parameter specifies where downloaded copies are kept.
func NewS3Store(cacheDir string, cfg S3Config) (*S3Store, error) {
	cache, err := NewLocalStore(cacheDir)
	if err != nil {
		return nil, err
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	return &S3Store{
		cache:  cache,
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Save writes the asset to the local cache and uploads it to S3 under the
// generated id.
func (s *S3Store) Save(ctx context.Context, name string, data io.Reader) (Asset, error) {
	asset, err := s.cache.Save(ctx, name, data)
	if err != nil {
		return Asset{}, err
	}

	path, err := s.cache.LocalPath(ctx, asset.ID)
	if err != nil {
		return Asset{}, err
	}
	f, err := os.Open(path) // #nosec G304 - path comes from the cache, not user input
	if err != nil {
		return Asset{}, fmt.Errorf("open cached asset: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(asset.ID),
		Body:   f,
	})
	if err != nil {
		_ = s.cache.Delete(ctx, asset.ID)
		return Asset{}, fmt.Errorf("upload to S3: %w", err)
	}

	asset.URL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, asset.ID)
	return asset, nil
}

// Open returns a reader for the asset, downloading it into the cache first
// when needed.
func (s *S3Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	path, err := s.LocalPath(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 - path comes from the cache, not user input
	if err != nil {
		return nil, fmt.Errorf("open cached asset: %w", err)
	}
	return f, nil
}

// LocalPath returns the cached location of the asset, fetching it from S3
// on a cache miss.
func (s *S3Store) LocalPath(ctx context.Context, id string) (string, error) {
	if path, err := s.cache.LocalPath(ctx, id); err == nil {
		return path, nil
	} else if !errors.Is(err, ErrAssetNotFound) {
		return "", err
	}

	if !validAssetID(id) {
		return "", ErrAssetNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", ErrAssetNotFound
		}
		return "", fmt.Errorf("download from S3: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	path := filepath.Join(s.cache.Dir(), id)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640) // #nosec G304 - id is validated above
	if err != nil {
		return "", fmt.Errorf("create cache file: %w", err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close cache file: %w", err)
	}
	return path, nil
}

// Delete removes the asset from the bucket and the cache.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if !validAssetID(id) {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return s.cache.Delete(ctx, id)
}
