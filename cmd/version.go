package cmd

import (
	"fmt"
	"runtime"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// RunVersion prints build information.
func RunVersion() {
	fmt.Printf("serac %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
