package version

// Build information, set via -ldflags at release time
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

// UserAgent is sent on every outgoing API request
func UserAgent() string {
	return "testagent-cli/" + Version
}
