// Package storage writes public assets (brand logos, product images) to an
// S3 compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client     objectAPI
	bucket     string
	publicBase string
}

func New(ctx context.Context, cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Storage(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newS3Storage(client objectAPI, bucket, publicBase string) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *S3Storage) Bucket() string { return s.bucket }

// Put uploads data to path, replacing any existing object.
func (s *S3Storage) Put(ctx context.Context, path, contentType string, data []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(cleanPath(s.bucket, path)),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", path, err)
	}
	return nil
}

// Remove deletes every path and reports the first failure.
func (s *S3Storage) Remove(ctx context.Context, paths ...string) error {
	var firstErr error
	for _, p := range paths {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(cleanPath(s.bucket, p)),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("storage: remove %s: %w", p, err)
		}
	}
	return firstErr
}

// PublicURL resolves a stored path to its public address. Full URLs are
// returned untouched; without a configured base the result is empty.
func (s *S3Storage) PublicURL(path string) string {
	v := strings.TrimSpace(path)
	if v == "" {
		return ""
	}
	if absoluteURL.MatchString(v) {
		return v
	}
	if s.publicBase == "" {
		return ""
	}
	return s.publicBase + "/" + url.PathEscape(s.bucket) + "/" + encodePath(cleanPath(s.bucket, v))
}

var (
	absoluteURL = regexp.MustCompile(`(?i)^https?://`)
	controls    = regexp.MustCompile(`[\r\n\t]+`)
)

// cleanPath drops control characters, leading slashes and a leading
// "<bucket>/" so callers may pass either form.
func cleanPath(bucket, p string) string {
	p = controls.ReplaceAllString(strings.TrimSpace(p), "")
	p = strings.TrimLeft(p, "/")
	if prefix := bucket + "/"; len(p) >= len(prefix) && strings.EqualFold(p[:len(prefix)], prefix) {
		p = p[len(prefix):]
	}
	return p
}

func encodePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
