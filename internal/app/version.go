package app

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/heartmarshall/wordbook/internal/app.Version=1.0.0 -X github.com/heartmarshall/wordbook/internal/app.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is the one-line version shown in startup logs and by
// "wordbook --version".
func BuildVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}
