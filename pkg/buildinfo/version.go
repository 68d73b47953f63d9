// Package buildinfo holds the version stamped into penplot at build time.
//
// Set the variables with ldflags:
//
//	go build -ldflags "-X github.com/sdjayna/penplot/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/sdjayna/penplot/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/sdjayna/penplot/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/penplot
package buildinfo

import "fmt"

// Stamped by the linker; the defaults mark a development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns the version with the commit appended for development
// builds, e.g. "dev+1a2b3c4". The plotter server reports it on /status.
func Short() string {
	if Version == "dev" && Commit != "none" {
		return Version + "+" + Commit
	}
	return Version
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Short(), Commit, Date)
}

// UserAgent identifies penplot in outgoing HTTP requests.
func UserAgent() string {
	return "penplot/" + Short()
}
