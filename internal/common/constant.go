// Package common contains constants and sentinel errors shared by the
// Sumdays client and server. Callers should match errors with errors.Is.
package common

// AuthorizationHeader carries the bearer credential on sync requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the authorization scheme prefix.
const BearerScheme = "Bearer"

// APIPrefix is the path prefix of every HTTP endpoint.
const APIPrefix = "/api/v1"

// DateLayout is the layout of natural-key dates (diary day, week start).
const DateLayout = "2006-01-02"
