package uplink

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Artifact is one generated daemon-facing file. Renderers are pure: they
// produce artifacts from a collection and leave the writing to the store,
// which holds the lock.
type Artifact struct {
	Path string
	Data []byte
}

var wpaTemplate = template.Must(template.New("wpa_supplicant.conf").Parse(
	`# Note this is an autogenerated file
ctrl_interface=DIR=/var/run/wpa_supplicant_{{.Iface}}
{{range .Networks}}{{if not .Disabled}}
network={
	ssid="{{.SSID}}"
	psk="{{.Password}}"
{{- if .Priority}}
	priority={{.Priority}}
{{- end}}
{{- if .BSSID}}
	bssid={{.BSSID}}
{{- end}}
	key_mgmt={{.KeyMgmt}}
}
{{end}}{{end}}`))

// RenderWPA generates one wpa_supplicant config per enabled record.
// Disabled records and disabled networks within a record contribute no
// output. Fields are pre-validated; the templates assume clean input.
func RenderWPA(confDir string, col WifiCollection) ([]Artifact, error) {
	var artifacts []Artifact

	for _, wpa := range col.WPAs {
		if !wpa.Enabled {
			continue
		}

		var buf bytes.Buffer
		if err := wpaTemplate.Execute(&buf, wpa); err != nil {
			return nil, fmt.Errorf("wpa template for %s: %w", wpa.Iface, err)
		}
		artifacts = append(artifacts, Artifact{
			Path: filepath.Join(confDir, "wpa_"+wpa.Iface+".conf"),
			Data: buf.Bytes(),
		})
	}

	return artifacts, nil
}

var chapSecretsTemplate = template.Must(template.New("chap-secrets").Parse(
	`# Note this is an autogenerated file
# Secrets for authentication using CHAP
# client        server  secret                  IP addresses
{{range .PPPs}}"{{.Username}}" * "{{.Secret}}"
{{end}}`))

var providerTemplate = template.Must(template.New("provider").Parse(
	`# Note this is an autogenerated file
# Minimalistic default options file for DSL/PPPoE connections
noipdefault
defaultroute
replacedefaultroute
persist
{{- if .MTU}}
mtu {{.MTU}}
{{- end}}
plugin rp-pppoe.so {{.Iface}}{{if .VLAN}}.{{.VLAN}}{{end}}
user "{{.Username}}"
`))

// RenderPPP generates the shared chap-secrets file plus one provider
// options file per record. Unlike the WPA renderer, records are rendered
// regardless of Enabled: pppd is only pointed at providers whose plugin
// is started, and credentials for disabled links stay staged.
func RenderPPP(etcDir string, col PPPCollection) ([]Artifact, error) {
	var buf bytes.Buffer
	if err := chapSecretsTemplate.Execute(&buf, col); err != nil {
		return nil, fmt.Errorf("chap-secrets template: %w", err)
	}
	artifacts := []Artifact{{
		Path: filepath.Join(etcDir, "chap-secrets"),
		Data: buf.Bytes(),
	}}

	for _, ppp := range col.PPPs {
		var pbuf bytes.Buffer
		if err := providerTemplate.Execute(&pbuf, ppp); err != nil {
			return nil, fmt.Errorf("provider template for %s: %w", ppp.Iface, err)
		}
		artifacts = append(artifacts, Artifact{
			Path: filepath.Join(etcDir, "provider_"+ppp.Iface),
			Data: pbuf.Bytes(),
		})
	}

	return artifacts, nil
}

// writeArtifacts writes each artifact with owner-only permissions,
// aborting on the first failure.
func writeArtifacts(artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := os.MkdirAll(filepath.Dir(a.Path), 0700); err != nil {
			return err
		}
		if err := os.WriteFile(a.Path, a.Data, 0600); err != nil {
			return err
		}
	}
	return nil
}
