package uplink

import (
	"fmt"

	"grimm.is/serac/internal/validation"
)

// DefaultKeyMgmt is applied to networks submitted without a key_mgmt
// value before validation.
const DefaultKeyMgmt = "WPA-PSK WPA-PSK-SHA256"

// ValidateWifiNetwork checks the credential fields of one WiFi network.
// SSID and Password end up quoted inside a generated wpa_supplicant
// config, so newlines are rejected outright.
func ValidateWifiNetwork(n WifiNetwork) error {
	if err := validation.ValidateNoNewlines("Password", n.Password); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateNoNewlines("SSID", n.SSID); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateNumeric("Priority", n.Priority); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateMAC("BSSID", n.BSSID); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateKeyMgmt(n.KeyMgmt); err != nil {
		return invalidFieldErr(err)
	}
	return nil
}

// ValidatePPPRecord checks a PPP uplink record. Username and Secret are
// embedded in the generated chap-secrets file.
func ValidatePPPRecord(p PPPRecord) error {
	if p.Iface == "" {
		return invalidFieldErr(fmt.Errorf("Iface field empty"))
	}
	if p.Username == "" {
		return invalidFieldErr(fmt.Errorf("Username field empty"))
	}
	if err := validation.ValidateNoNewlines("Username", p.Username); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateNoNewlines("Secret", p.Secret); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateNumeric("VLAN", p.VLAN); err != nil {
		return invalidFieldErr(err)
	}
	if err := validation.ValidateNonNegativeNumeric("MTU", p.MTU); err != nil {
		return invalidFieldErr(err)
	}
	return nil
}
