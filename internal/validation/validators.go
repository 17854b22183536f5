// Package validation provides pure field validators for user-supplied
// network credential data. No function here performs I/O or mutates state.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Uplink interface name: alphanumeric segments, dot-separated (VLAN tags).
	uplinkIfaceRegex = regexp.MustCompile(`^[a-zA-Z0-9]*(\.[a-zA-Z0-9]*)*$`)

	// Colon or hyphen delimited 6-octet MAC address.
	macRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)
)

// KeyMgmtAllowed is the set of accepted wpa_supplicant key_mgmt tokens.
var KeyMgmtAllowed = []string{"WPA-PSK", "WPA-PSK-SHA256", "SAE"}

// ValidateUplinkIfaceName validates an uplink interface identifier.
func ValidateUplinkIfaceName(name string) error {
	if !uplinkIfaceRegex.MatchString(name) {
		return fmt.Errorf("invalid iface name")
	}
	return nil
}

// ValidateNoNewlines fails if value contains a newline. Fields checked
// with this are embedded in generated daemon configs where a newline
// would inject a new directive.
func ValidateNoNewlines(field, value string) error {
	if strings.Contains(value, "\n") {
		return fmt.Errorf("%s field contains newline characters", field)
	}
	return nil
}

// ValidateNumeric fails if value is non-empty and not an integer.
func ValidateNumeric(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := strconv.Atoi(value); err != nil {
		return fmt.Errorf("%s field must contain numeric value", field)
	}
	return nil
}

// ValidateNonNegativeNumeric fails if value is non-empty and not a
// non-negative integer.
func ValidateNonNegativeNumeric(field, value string) error {
	if value == "" {
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil || v < 0 {
		return fmt.Errorf("%s field must contain numeric positive value", field)
	}
	return nil
}

// ValidateMAC fails if value is non-empty and not a MAC address.
func ValidateMAC(field, value string) error {
	if value == "" {
		return nil
	}
	if !macRegex.MatchString(value) {
		return fmt.Errorf("%s field must be a valid MAC address", field)
	}
	return nil
}

// ValidateKeyMgmt validates a space-separated list of key_mgmt tokens.
// Empty input is rejected; callers should apply their default first.
func ValidateKeyMgmt(value string) error {
	if value == "" {
		return fmt.Errorf("KeyMgmt field must be set (%s)", strings.Join(KeyMgmtAllowed, " or "))
	}
	for _, part := range strings.Split(value, " ") {
		if !keyMgmtToken(part) {
			return fmt.Errorf("KeyMgmt field has invalid token %s", part)
		}
	}
	return nil
}

func keyMgmtToken(tok string) bool {
	for _, allowed := range KeyMgmtAllowed {
		if tok == allowed {
			return true
		}
	}
	return false
}
