package version

import "fmt"

var (
	// RELEASE returns the release version
	RELEASE = "UNKNOWN"
	// COMMIT returns the short sha from git
	COMMIT = "UNKNOWN"

	Short = fmt.Sprintf("go-echo %s", RELEASE)
	Long  = fmt.Sprintf("go-echo release: %s, commit: %s", RELEASE, COMMIT)
)
