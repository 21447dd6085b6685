package version

// Version is the staffdir version. It is overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/staffdir/internal/version.Version=...".
var Version = "0.1.0-dev"
