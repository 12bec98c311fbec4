// Package netx moves photo bytes to and from presigned object storage URLs.
package netx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var transferTimeout = 60 * time.Second

func newClient() *resty.Client {
	return resty.New().SetTimeout(transferTimeout)
}

// UploadToPresignedURL PUTs body to a presigned URL.
func UploadToPresignedURL(ctx context.Context, url string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	resp, err := newClient().R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Put(url)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status(), resp.String())
	}
	return nil
}

// DownloadFromPresignedURL GETs the object behind a presigned URL.
func DownloadFromPresignedURL(ctx context.Context, url string) ([]byte, error) {
	resp, err := newClient().R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("download failed: %s", resp.Status())
	}
	return resp.Body(), nil
}
