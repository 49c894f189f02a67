package app

const ServiceName = "colabsphere"

// Set via -ldflags during build:
//
//	go build -ldflags="-X 'github.com/nagumeena22/ColabSphere/internal/app.Version=1.0.0'" ./cmd/server
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
