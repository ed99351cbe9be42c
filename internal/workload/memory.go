// SPDX-License-Identifier: Apache-2.0

package workload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrUnreachable is returned by MemSupervisor when it is marked as
// unreachable.
var ErrUnreachable = errors.New("workload supervisor is unreachable")

// MemSupervisor is an in-memory Supervisor. Files live on an afero
// memory filesystem and service operations are only recorded.
type MemSupervisor struct {
	Fs        afero.Fs
	Reachable bool
	Layers    map[string]*Layer
	Running   map[string]bool
	// Calls records every mutating operation, in order, as
	// "<op> <target>" strings.
	Calls []string
}

// NewMemSupervisor returns a reachable MemSupervisor with the given
// directories already present.
func NewMemSupervisor(dirs ...string) *MemSupervisor {
	fs := afero.NewMemMapFs()
	for _, d := range dirs {
		_ = fs.MkdirAll(d, 0o755)
	}
	return &MemSupervisor{
		Fs:        fs,
		Reachable: true,
		Layers:    map[string]*Layer{},
		Running:   map[string]bool{},
	}
}

// CanConnect returns the Reachable flag.
func (m *MemSupervisor) CanConnect(_ context.Context) bool {
	return m.Reachable
}

// Exists returns true if path exists.
func (m *MemSupervisor) Exists(_ context.Context, path string) (bool, error) {
	if !m.Reachable {
		return false, ErrUnreachable
	}
	return afero.Exists(m.Fs, path)
}

// Pull returns the content of path.
func (m *MemSupervisor) Pull(_ context.Context, path string) (string, error) {
	if !m.Reachable {
		return "", ErrUnreachable
	}
	b, err := afero.ReadFile(m.Fs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Push writes content to path.
func (m *MemSupervisor) Push(_ context.Context, path, content string) error {
	if !m.Reachable {
		return ErrUnreachable
	}
	if err := m.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	m.Calls = append(m.Calls, "push "+path)
	return afero.WriteFile(m.Fs, path, []byte(content), 0o644)
}

// AddLayer stores the layer under label. Combining replaces the
// services named in layer; otherwise the label must be new.
func (m *MemSupervisor) AddLayer(
	_ context.Context, label string, layer *Layer, combine bool) error {
	// ---
	if !m.Reachable {
		return ErrUnreachable
	}
	existing, found := m.Layers[label]
	switch {
	case found && !combine:
		return fmt.Errorf("layer %q already exists", label)
	case found:
		for name, svc := range layer.Services {
			existing.Services[name] = svc
		}
	default:
		services := map[string]Service{}
		for name, svc := range layer.Services {
			services[name] = svc
		}
		m.Layers[label] = &Layer{
			Summary:     layer.Summary,
			Description: layer.Description,
			Services:    services,
		}
	}
	m.Calls = append(m.Calls, "add-layer "+label)
	return nil
}

// Start marks the service as running.
func (m *MemSupervisor) Start(_ context.Context, service string) error {
	return m.setRunning("start", service, true)
}

// Stop marks the service as stopped.
func (m *MemSupervisor) Stop(_ context.Context, service string) error {
	return m.setRunning("stop", service, false)
}

// Restart marks the service as running.
func (m *MemSupervisor) Restart(_ context.Context, service string) error {
	return m.setRunning("restart", service, true)
}

func (m *MemSupervisor) setRunning(op, service string, running bool) error {
	if !m.Reachable {
		return ErrUnreachable
	}
	if !m.hasService(service) {
		return fmt.Errorf("%w: service %q", os.ErrNotExist, service)
	}
	m.Running[service] = running
	m.Calls = append(m.Calls, op+" "+service)
	return nil
}

func (m *MemSupervisor) hasService(service string) bool {
	for _, l := range m.Layers {
		if _, ok := l.Services[service]; ok {
			return true
		}
	}
	return false
}

// CountCalls returns how many recorded calls equal op.
func (m *MemSupervisor) CountCalls(op string) int {
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}
