//go:build linux

package registry

import (
	"github.com/vishvananda/netlink"
)

// DiscoverLinkNames lists the names of network links present on the
// system, excluding loopback. Used to seed the registry on startup so
// operators see real interfaces before any uplink is configured.
func DiscoverLinkNames() ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Name == "lo" {
			continue
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
