package utils

// Set at build time via ldflags.
var (
	Tag        = "dev"
	GitHash    string
	BuildStamp string
)
