package client

import (
	"context"

	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type Client interface {
	Sync(ctx context.Context, token string, req *wire.SyncRequest) error
	Fetch(ctx context.Context, token string) (*wire.FetchResponse, error)
	PresignPhotoUpload(ctx context.Context, token string) (*wire.PresignResponse, error)
	PresignPhotoDownload(ctx context.Context, token, key string) (*wire.PresignResponse, error)
	Ping(ctx context.Context) error
	Close() error
}
