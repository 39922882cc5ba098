package types

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/electron/electron-website-updater/pkg/domain/types.Version=...".
var Version = "dev"

// ServiceName identifies this service in health responses and logs.
const ServiceName = "electron-website-updater"
