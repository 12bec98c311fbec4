// Package client is the transport of the Sumdays sync client.
//
// HTTPClient talks to the REST endpoints of the server with resty: the delta
// upload (POST /api/v1/sync), the full fetch (GET /api/v1/sync) and the photo
// presign calls. Connectivity is probed through the gRPC health service of
// the server, falling back to GET /api/v1/healthz when no gRPC address is
// configured.
//
// # Error Handling
//
// Failures map to sentinel errors that callers match with errors.Is:
//   - ErrUnavailable: the request did not reach the server or timed out.
//   - ErrUnauthorized: the server answered 401 or 403.
//   - ErrRejected: any other non-2xx answer, or a body whose status is not
//     "success".
//
// The client never retries on its own; retry policy belongs to the caller.
package client
