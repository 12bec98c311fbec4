package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/wire"
	"github.com/go-resty/resty/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Options configures HTTPClient.
type Options struct {
	BaseURL    string
	HealthAddr string
	Timeout    time.Duration
}

type HTTPClient struct {
	rc     *resty.Client
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	c := &HTTPClient{rc: rc}

	if opts.HealthAddr != "" {
		conn, err := grpc.NewClient(opts.HealthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("health client: %w", err)
		}
		c.conn = conn
		c.health = healthpb.NewHealthClient(conn)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *HTTPClient) request(ctx context.Context, token string) *resty.Request {
	r := c.rc.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// Sync uploads a delta. Only a 2xx answer whose status is "success" counts
// as an acknowledgement.
func (c *HTTPClient) Sync(ctx context.Context, token string, req *wire.SyncRequest) error {
	var ack, failure wire.SyncResponse
	resp, err := c.request(ctx, token).
		SetBody(req).
		SetResult(&ack).
		SetError(&failure).
		Post(common.APIPrefix + "/sync")
	if err := mapResponse(resp, err, failure.Message); err != nil {
		return err
	}
	if ack.Status != wire.StatusSuccess {
		return fmt.Errorf("%w: status %q: %s", ErrRejected, ack.Status, ack.Message)
	}
	return nil
}

func (c *HTTPClient) Fetch(ctx context.Context, token string) (*wire.FetchResponse, error) {
	var (
		data    wire.FetchResponse
		failure wire.SyncResponse
	)
	resp, err := c.request(ctx, token).
		SetResult(&data).
		SetError(&failure).
		Get(common.APIPrefix + "/sync")
	if err := mapResponse(resp, err, failure.Message); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *HTTPClient) PresignPhotoUpload(ctx context.Context, token string) (*wire.PresignResponse, error) {
	var (
		out     wire.PresignResponse
		failure wire.SyncResponse
	)
	resp, err := c.request(ctx, token).
		SetResult(&out).
		SetError(&failure).
		Post(common.APIPrefix + "/photos/presign")
	if err := mapResponse(resp, err, failure.Message); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PresignPhotoDownload(ctx context.Context, token, key string) (*wire.PresignResponse, error) {
	var (
		out     wire.PresignResponse
		failure wire.SyncResponse
	)
	resp, err := c.request(ctx, token).
		SetPathParam("key", key).
		SetResult(&out).
		SetError(&failure).
		Get(common.APIPrefix + "/photos/presign/{key}")
	if err := mapResponse(resp, err, failure.Message); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the server is reachable and serving.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.health == nil {
		resp, err := c.request(ctx, "").Get(common.APIPrefix + "/healthz")
		return mapResponse(resp, err, "")
	}

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapRPCError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func mapResponse(resp *resty.Response, err error, message string) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code < 200 || code > 299:
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("%w: %d %s", ErrRejected, code, message)
	}
	return nil
}
