// SPDX-License-Identifier: Apache-2.0

// Package workload provides access to the process supervisor running
// inside the gNB workload container.
package workload

import (
	"context"

	"gopkg.in/yaml.v3"
)

// Supervisor is the set of operations the operator needs from the
// workload container's service manager.
type Supervisor interface {
	// CanConnect returns true if the supervisor is reachable.
	CanConnect(ctx context.Context) bool
	// Exists returns true if path exists in the workload filesystem.
	Exists(ctx context.Context, path string) (bool, error)
	// Pull returns the content of the file at path.
	Pull(ctx context.Context, path string) (string, error)
	// Push writes content to the file at path, creating parent
	// directories as needed.
	Push(ctx context.Context, path, content string) error
	// AddLayer installs a service layer under the given label.
	AddLayer(ctx context.Context, label string, layer *Layer, combine bool) error
	Start(ctx context.Context, service string) error
	Stop(ctx context.Context, service string) error
	Restart(ctx context.Context, service string) error
}

// Layer is a service configuration layer.
type Layer struct {
	Summary     string             `yaml:"summary,omitempty"`
	Description string             `yaml:"description,omitempty"`
	Services    map[string]Service `yaml:"services,omitempty"`
}

// Service describes one supervised process within a Layer.
type Service struct {
	Override string `yaml:"override"`
	Summary  string `yaml:"summary,omitempty"`
	Command  string `yaml:"command"`
	Startup  string `yaml:"startup,omitempty"`
}

// Marshal returns the yaml form of the layer.
func (l *Layer) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
