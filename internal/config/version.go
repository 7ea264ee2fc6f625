package config

// Version is the atlas binary version.
// Set at build time via: -ldflags "-X github.com/3GHCRE/atlas-sub000/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
