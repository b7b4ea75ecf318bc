// Package env holds build-time metadata, overridden via -ldflags at build
// time (e.g. -X github.com/ecs150fs/ecs150fs/internal/env.Version=v1.2.3).
package env

// AppName identifies this tool in dfxml Creator metadata.
const AppName = "ecs150fs"

var (
	Version    = "dev"
	CommitHash = "none"
	BuildTime  = "unknown"
)
