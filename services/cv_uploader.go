package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

var allowedCVExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// CVUploader stores an uploaded CV and returns the public URL it can be fetched from.
type CVUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader, size int64) (string, error)
}

// ObjectPutter is the part of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3CVUploader struct {
	client        ObjectPutter
	bucket        string
	keyPrefix     string
	publicBaseURL string
	breaker       *gobreaker.CircuitBreaker[*s3.PutObjectOutput]
	logger        zerolog.Logger
}

// NewS3CVUploaderFromConfig builds an uploader from CV_BUCKET, CV_KEY_PREFIX, CV_PUBLIC_BASE_URL
// and AWS_REGION. It returns nil when CV_BUCKET is unset.
func NewS3CVUploaderFromConfig(ctx context.Context, cfg map[string]string) (*S3CVUploader, error) {
	bucket := config.GetString(cfg, "CV_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	region := config.GetString(cfg, "AWS_REGION", "")
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}

	baseURL := config.GetString(cfg, "CV_PUBLIC_BASE_URL", "")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}

	return NewS3CVUploader(s3.NewFromConfig(awsCfg), bucket, config.GetString(cfg, "CV_KEY_PREFIX", "cv/"), baseURL), nil
}

func NewS3CVUploader(client ObjectPutter, bucket, keyPrefix, publicBaseURL string) *S3CVUploader {
	logger := log.With().Str("component", "cvUploader").Logger()
	settings := gobreaker.Settings{
		Name:        "s3-cv-upload",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &S3CVUploader{
		client:        client,
		bucket:        bucket,
		keyPrefix:     keyPrefix,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		breaker:       gobreaker.NewCircuitBreaker[*s3.PutObjectOutput](settings),
		logger:        logger,
	}
}

// Upload stores body under a fresh key and returns its public URL.
func (u *S3CVUploader) Upload(ctx context.Context, filename string, body io.Reader, size int64) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedCVExtensions[ext]
	if !ok {
		metrics.RecordCVUpload("rejected")
		return "", errs.NewInvalidFieldError("cv", "file must be a .pdf, .doc or .docx document")
	}

	key := u.keyPrefix + uuid.NewString() + ext
	_, err := u.breaker.Execute(func() (*s3.PutObjectOutput, error) {
		return u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(u.bucket),
			Key:           aws.String(key),
			Body:          body,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(contentType),
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordCVUpload("breaker_open")
		return "", errs.NewCircuitBreakerOpenError("object storage")
	}
	if err != nil {
		metrics.RecordCVUpload("error")
		u.logger.Error().Err(err).Str("key", key).Msg("CV upload failed")
		return "", errs.NewServiceUnavailableError("object storage", err)
	}

	metrics.RecordCVUpload("success")
	u.logger.Info().Str("key", key).Int64("size", size).Msg("CV uploaded")
	return u.publicBaseURL + "/" + key, nil
}
