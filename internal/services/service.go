// Package services manages the external daemons that consume generated
// uplink configuration, principally wpa_supplicant and pppd. Services
// are registered with an Orchestrator which the uplink controller uses
// to start or bounce them after a configuration change.
package services

import "context"

// ServiceStatus represents the current state of a service.
type ServiceStatus struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

// Service defines the standard lifecycle methods for all services.
type Service interface {
	// Name returns the unique name of the service.
	Name() string

	// Start starts the service. Starting an already-running service is
	// a no-op.
	Start(ctx context.Context) error

	// Stop stops the service.
	Stop(ctx context.Context) error

	// Status returns the current status of the service.
	Status() ServiceStatus
}
