package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   HTTP bind address (e.g., ":8080"), empty disables HTTP
//	-d string   PostgreSQL DSN or "memory"
//	-s string   access token secret
//	-f string   refresh token secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-w int      bcrypt cost
//	-o int      operation timeout, seconds
//	-k          secure cookies (use -k=false to disable)
//	-m string   comma-separated CORS origins
//	-v string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-i string   public base URL for uploaded assets
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-l", "-d", "-s", "-f", "-t", "-r", "-w", "-o", "-k", "-m", "-v", "-u", "-p", "-b", "-g", "-e", "-i"},
		"-k")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessSecret, "s", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "f", config.RefreshSecret, "refresh token secret")

	accessTTL := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt cost")
	timeout := fs.Int("o", int(config.OperationTimeout.Seconds()), "operation timeout (in seconds)")

	fs.BoolVar(&config.SecureCookies, "k", config.SecureCookies, "secure cookies")
	origins := fs.String("m", strings.Join(config.CORSOrigins, ","), "CORS origins, comma separated")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "i", config.S3PublicURL, "public base URL for uploaded assets")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// whole-unit flags only replace values that were given explicitly, so a
	// "90s" from the environment is not rounded away
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTTL) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTTL) * time.Minute
		case "o":
			config.OperationTimeout = time.Duration(*timeout) * time.Second
		case "m":
			config.CORSOrigins = splitList(*origins)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
