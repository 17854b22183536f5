package testutil

import (
	"os"
	"testing"
)

// RequireVM skips the test if the SERAC_VM_TEST environment variable is
// not set. Tests that need real kernel capabilities (netlink, network
// interfaces) only run in the VM harness.
func RequireVM(t *testing.T) {
	t.Helper()
	if os.Getenv("SERAC_VM_TEST") == "" {
		t.Skip("Skipping test: requires SERAC_VM_TEST environment")
	}
}
