// Package cli provides the interactive account command-line client.
//
// The REPL is started via App.Run(ctx) and supports register, login,
// refresh, whoami, passwd, update, logout and ping. The session lives in
// memory only; an expired access token is refreshed by the gRPC client
// without user interaction.
package cli
