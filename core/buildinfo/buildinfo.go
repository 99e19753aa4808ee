// Package buildinfo carries version stamps injected at link time:
//
//	go build -ldflags "-X github.com/aura650/anon-go-bot/core/buildinfo.Version=v0.3.0 \
//	  -X github.com/aura650/anon-go-bot/core/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/aura650/anon-go-bot/core/buildinfo.Date=$(date -u +%FT%TZ)"
package buildinfo

var (
	Version = "dev"
	Commit  = "local"
	// Date is RFC3339; empty for local builds.
	Date = ""
)

// String renders the stamps for the version command.
func String() string {
	s := Version + " (" + Commit
	if Date != "" {
		s += ", " + Date
	}
	return s + ")"
}
