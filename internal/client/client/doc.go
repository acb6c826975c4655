// Package client is the gRPC client of the account service used by the CLI.
//
// GRPCClient keeps the current access/refresh token pair in memory, attaches
// the access token to every call and, when the server answers
// Unauthenticated with "token expired", rotates the pair once through
// RefreshToken and retries the call. Status codes are mapped to the sentinel
// errors in errors.go.
package client
