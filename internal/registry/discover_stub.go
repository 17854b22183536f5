//go:build !linux

package registry

// DiscoverLinkNames is a no-op on non-Linux platforms; netlink is
// Linux-only. The registry starts empty and fills from uplink updates.
func DiscoverLinkNames() ([]string, error) {
	return nil, nil
}
