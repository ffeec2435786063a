// Package version holds the build version, set at link time with
// -ldflags "-X github.com/basewarphq/bwstage/cmd/internal/version.Version=...".
package version

var Version = "dev"
