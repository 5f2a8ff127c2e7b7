package app

// Service metadata
const (
	ServiceName = "plataforma-ensino-api"
	// APIVersion is the version reported by GET /api.
	APIVersion = "1.0.0"
)

// Build-time injection variables
// These are set via -ldflags during build:
//
//	go build -ldflags="-X 'github.com/GustavoMarques22/plataforma-ensino-api/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
