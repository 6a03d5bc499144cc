// Package version exposes build metadata and the User-Agent string sent by
// typedhttp clients.
//
// Version and GitCommit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/typedhttp/version.Version=1.4.0"
package version
