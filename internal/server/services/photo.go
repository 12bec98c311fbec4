package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// StorageConfig locates the S3 compatible bucket holding diary photos.
type StorageConfig struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	Expiry       time.Duration
}

// PhotoService hands out presigned URLs so clients move photo bytes
// directly to and from object storage.
type PhotoService struct {
	cfg StorageConfig
	log logging.Logger
}

func NewPhotoService(cfg StorageConfig, log logging.Logger) *PhotoService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}
	return &PhotoService{cfg: cfg, log: log.With("module", "photos")}
}

// PhotoKeyPrefix is the object key prefix owned by userID.
func PhotoKeyPrefix(userID string) string {
	return "photos/" + userID + "/"
}

func newPhotoKey(userID string) string {
	return PhotoKeyPrefix(userID) + uuid.NewString()
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			// minio and friends serve buckets under the path
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignUpload reserves a fresh key for userID and signs a PUT for it.
func (s *PhotoService) PresignUpload(ctx context.Context, userID string) (key, url string, err error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("presign client: %w", err)
	}

	key = newPhotoKey(userID)
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.cfg.Expiry))
	if err != nil {
		s.log.Error(ctx, "presign put failed", "user", userID, "error", err)
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload signs a GET for key. Keys outside the caller's prefix
// are reported as not found.
func (s *PhotoService) PresignDownload(ctx context.Context, userID, key string) (string, error) {
	if !strings.HasPrefix(key, PhotoKeyPrefix(userID)) || strings.Contains(key, "..") {
		return "", common.ErrorNotFound
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.cfg.Expiry))
	if err != nil {
		s.log.Error(ctx, "presign get failed", "user", userID, "error", err)
		return "", err
	}

	return req.URL, nil
}
