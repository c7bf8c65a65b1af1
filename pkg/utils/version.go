// Package utils holds small helpers shared by the character's commands and
// servers, and the build information stamped in at link time.
package utils

// Set with -ldflags "-X github.com/Gorgooo61/AI-character/pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies the character to the HTTP services it calls.
func UserAgent() string {
	return "character/" + Version
}
