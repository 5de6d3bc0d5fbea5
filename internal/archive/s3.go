// Package archive copies finished downloads to S3.
package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const partSize = 16 * 1024 * 1024

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Archiver struct {
	uploader uploader
	bucket   string
	prefix   string
}

// ParseS3URL splits "s3://bucket/prefix" (the scheme is optional) into bucket and key prefix.
func ParseS3URL(url string) (string, string, error) {
	url = strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(url, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URL format")
	}
	prefix := ""
	if len(parts) > 1 {
		prefix = strings.Trim(parts[1], "/")
	}
	return parts[0], prefix, nil
}

func NewS3Archiver(ctx context.Context, profile, dest string) (*S3Archiver, error) {
	bucket, prefix, err := ParseS3URL(dest)
	if err != nil {
		return nil, err
	}
	opts := []func(*config.LoadOptions) error{config.WithRetryMode("adaptive")}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	up := manager.NewUploader(s3.NewFromConfig(cfg), func(u *manager.Uploader) {
		u.PartSize = partSize
	})
	return newArchiver(up, bucket, prefix), nil
}

func newArchiver(up uploader, bucket, prefix string) *S3Archiver {
	return &S3Archiver{uploader: up, bucket: bucket, prefix: prefix}
}

func (a *S3Archiver) Key(localPath string) string {
	return path.Join(a.prefix, filepath.Base(localPath))
}

// Archive uploads localPath and returns its s3:// location. The local file is left in place.
func (a *S3Archiver) Archive(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %v", localPath, err)
	}
	defer f.Close()
	key := a.Key(localPath)
	log.Debug().Str("op", "archive/s3").Msgf("Uploading %s to s3://%s/%s", localPath, a.bucket, key)
	if _, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	}); err != nil {
		return "", fmt.Errorf("error uploading to s3://%s/%s: %w", a.bucket, key, err)
	}
	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	log.Info().Str("op", "archive/s3").Msgf("Archived %s to %s", localPath, location)
	return location, nil
}
