package internal

// Version is the mangatl release version, overridden at build time via
// -ldflags "-X codeberg.org/snonux/mangatl/internal.Version=..."
var Version = "0.3.0"
