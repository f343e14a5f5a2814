package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/doeshing/margit/internal/version"
)

// VersionInfo renders the build metadata shown by --version.
func VersionInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "margit version %s\n", version.Version)

	if version.Commit != "" {
		fmt.Fprintf(&b, "Commit: %s\n", version.Commit)
	}

	if version.BuildDate != "" {
		fmt.Fprintf(&b, "Built: %s\n", version.BuildDate)
	}

	fmt.Fprintf(&b, "Go version: %s\n", runtime.Version())
	return b.String()
}
