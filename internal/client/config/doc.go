// Package config loads runtime configuration for the account CLI.
//
// Sources, later ones winning: built-in defaults, an optional JSON file
// selected with -c or -config, then command-line flags.
//
//	-a string   address:port of the account gRPC endpoint
//	-t int      per-request timeout in seconds
//
// JSON durations accept "10s" style strings or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
