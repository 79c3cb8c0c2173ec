package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
)

const storageRoot = "property_images"

// ImageStorage pushes encoded images to the external image host and hands
// back their public URLs. Calls to the host go through a circuit breaker so
// a flapping host fails fast instead of holding upload requests open.
type ImageStorage struct {
	client  *s3.Client
	bucket  string
	region  string
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func New(ctx context.Context, region, bucket string, logger *logrus.Logger, tracer trace.Tracer) (domain.ImageStorage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "image-host",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &ImageStorage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		breaker: breaker,
		logger:  logger,
		tracer:  tracer,
	}, nil
}

func (fs *ImageStorage) SaveImage(ctx context.Context, folder, name, contentType string, content []byte) (string, error) {
	ctx, span := fs.tracer.Start(ctx, "ImageStorage.SaveImage")
	defer span.End()

	key := path.Join(storageRoot, folder, name)

	_, err := fs.breaker.Execute(func() (interface{}, error) {
		return fs.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(fs.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(content),
			ContentType: aws.String(contentType),
		})
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Printf("Error uploading image %s: %v", key, err)
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", fs.bucket, fs.region, key), nil
}
