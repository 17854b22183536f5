package uplink

import (
	"errors"
	"testing"
)

func TestValidateWifiNetwork(t *testing.T) {
	tests := []struct {
		name    string
		network WifiNetwork
		wantErr bool
	}{
		{
			name:    "minimal valid",
			network: WifiNetwork{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt},
		},
		{
			name:    "all fields valid",
			network: WifiNetwork{SSID: "Home", Password: "secret123", KeyMgmt: "SAE", Priority: "5", BSSID: "aa:bb:cc:dd:ee:ff"},
		},
		{
			name:    "newline in password",
			network: WifiNetwork{SSID: "Home", Password: "bad\npsk", KeyMgmt: DefaultKeyMgmt},
			wantErr: true,
		},
		{
			name:    "newline in ssid",
			network: WifiNetwork{SSID: "Ho\nme", Password: "secret123", KeyMgmt: DefaultKeyMgmt},
			wantErr: true,
		},
		{
			name:    "non-numeric priority",
			network: WifiNetwork{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt, Priority: "high"},
			wantErr: true,
		},
		{
			name:    "malformed bssid",
			network: WifiNetwork{SSID: "Home", Password: "secret123", KeyMgmt: DefaultKeyMgmt, BSSID: "not-a-mac"},
			wantErr: true,
		},
		{
			name:    "unknown key management",
			network: WifiNetwork{SSID: "Home", Password: "secret123", KeyMgmt: "WEP"},
			wantErr: true,
		},
		{
			name:    "empty key management",
			network: WifiNetwork{SSID: "Home", Password: "secret123"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWifiNetwork(tt.network)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidField) {
					t.Fatalf("expected ErrInvalidField, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePPPRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  PPPRecord
		wantErr bool
	}{
		{
			name:   "minimal valid",
			record: PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1"},
		},
		{
			name:   "vlan and mtu",
			record: PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1", VLAN: "7", MTU: "1492"},
		},
		{
			name:    "empty iface",
			record:  PPPRecord{Username: "alice@isp", Secret: "pw1"},
			wantErr: true,
		},
		{
			name:    "empty username",
			record:  PPPRecord{Iface: "eth0", Secret: "pw1"},
			wantErr: true,
		},
		{
			name:    "newline in secret",
			record:  PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw\n1"},
			wantErr: true,
		},
		{
			name:    "non-numeric vlan",
			record:  PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1", VLAN: "seven"},
			wantErr: true,
		},
		{
			name:    "negative mtu",
			record:  PPPRecord{Iface: "eth0", Username: "alice@isp", Secret: "pw1", MTU: "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePPPRecord(tt.record)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidField) {
					t.Fatalf("expected ErrInvalidField, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
