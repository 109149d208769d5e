package version

// Set via -ldflags "-X github.com/keshon/ctf-scheduler/internal/version.Version=..."
var (
	AppName = "CTF Scheduler"
	Version = "dev"
)
