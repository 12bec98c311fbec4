package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotoSvc() *PhotoService {
	return NewPhotoService(StorageConfig{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "sumdays",
		Expiry:       5 * time.Minute,
	}, logging.Nop{})
}

// stubS3 replaces the AWS constructors with offline fakes.
func stubS3(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestPhotoService_GetPresignClient(t *testing.T) {
	stubS3(t)
	svc := newPhotoSvc()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	pc, err := svc.getPresignClient(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = svc.getPresignClient(context.Background())
	assert.EqualError(t, err, "load-fail")
}

func TestPhotoService_PresignUpload(t *testing.T) {
	stubS3(t)
	svc := newPhotoSvc()

	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 5*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "https://s3/put/" + *in.Key}, nil
	}

	key, url, err := svc.PresignUpload(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "sumdays", gotBucket)
	assert.Equal(t, key, gotKey)
	assert.True(t, strings.HasPrefix(key, "photos/u1/"), key)
	assert.Equal(t, "https://s3/put/"+key, url)

	key2, _, err := svc.PresignUpload(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
}

func TestPhotoService_PresignUpload_Errors(t *testing.T) {
	stubS3(t)
	svc := newPhotoSvc()

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}
	_, _, err := svc.PresignUpload(context.Background(), "u1")
	assert.EqualError(t, err, "presign-put-fail")

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, _, err = svc.PresignUpload(context.Background(), "u1")
	assert.ErrorContains(t, err, "load-fail")
}

func TestPhotoService_PresignDownload(t *testing.T) {
	stubS3(t)
	svc := newPhotoSvc()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3/get/" + *in.Key}, nil
	}

	url, err := svc.PresignDownload(context.Background(), "u1", "photos/u1/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://s3/get/photos/u1/abc", url)

	for _, key := range []string{"photos/u2/abc", "photos/u1/../u2/abc", "other", ""} {
		_, err = svc.PresignDownload(context.Background(), "u1", key)
		assert.ErrorIs(t, err, common.ErrorNotFound, key)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-get-fail")
	}
	_, err = svc.PresignDownload(context.Background(), "u1", "photos/u1/abc")
	assert.EqualError(t, err, "presign-get-fail")
}

func TestNewPhotoService_DefaultExpiry(t *testing.T) {
	svc := NewPhotoService(StorageConfig{}, logging.Nop{})
	assert.Equal(t, 15*time.Minute, svc.cfg.Expiry)
}
