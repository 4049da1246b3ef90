package version

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = ""
)

// Short returns a compact "version (commit)" string for startup logs.
func Short() string {
	return Version + " (" + Commit + ")"
}
