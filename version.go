package canopy

import _ "embed"

// Version is the canopy release, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string
