// SPDX-License-Identifier: Apache-2.0

package workload

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/canonical/pebble/client"
	"github.com/go-logr/logr"
	perrors "github.com/pkg/errors"
)

// PebbleSupervisor is a Supervisor backed by a Pebble daemon reached
// over its unix socket.
type PebbleSupervisor struct {
	client *client.Client
	log    logr.Logger
}

// NewPebbleSupervisor creates a PebbleSupervisor talking to the
// Pebble socket at the given path.
func NewPebbleSupervisor(socket string, log logr.Logger) (*PebbleSupervisor, error) {
	c, err := client.New(&client.Config{Socket: socket})
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to create pebble client for %s", socket)
	}
	return &PebbleSupervisor{client: c, log: log}, nil
}

// CanConnect returns true if the Pebble daemon answers.
func (p *PebbleSupervisor) CanConnect(_ context.Context) bool {
	if _, err := p.client.SysInfo(); err != nil {
		p.log.Info("Pebble is not reachable", "error", err.Error())
		return false
	}
	return true
}

// Exists returns true if path exists in the workload filesystem.
func (p *PebbleSupervisor) Exists(_ context.Context, fpath string) (bool, error) {
	_, err := p.client.ListFiles(&client.ListFilesOptions{
		Path:   fpath,
		Itself: true,
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, perrors.Wrapf(err, "failed to stat %s", fpath)
}

// Pull returns the content of the file at path.
func (p *PebbleSupervisor) Pull(_ context.Context, fpath string) (string, error) {
	var buf bytes.Buffer
	err := p.client.Pull(&client.PullOptions{
		Path:   fpath,
		Target: &buf,
	})
	if err != nil {
		return "", perrors.Wrapf(err, "failed to pull %s", fpath)
	}
	return buf.String(), nil
}

// Push writes content to the file at path.
func (p *PebbleSupervisor) Push(_ context.Context, fpath, content string) error {
	err := p.client.Push(&client.PushOptions{
		Source:   strings.NewReader(content),
		Path:     fpath,
		MakeDirs: true,
	})
	if err != nil {
		return perrors.Wrapf(err, "failed to push %s", fpath)
	}
	return nil
}

// AddLayer installs a service layer under the given label.
func (p *PebbleSupervisor) AddLayer(
	_ context.Context, label string, layer *Layer, combine bool) error {
	// ---
	data, err := layer.Marshal()
	if err != nil {
		return err
	}
	err = p.client.AddLayer(&client.AddLayerOptions{
		Combine:   combine,
		Label:     label,
		LayerData: data,
	})
	if err != nil {
		return perrors.Wrapf(err, "failed to add layer %s", label)
	}
	return nil
}

// Start the named service and wait for the change to complete.
func (p *PebbleSupervisor) Start(_ context.Context, service string) error {
	return p.serviceChange("start", service, p.client.Start)
}

// Stop the named service and wait for the change to complete.
func (p *PebbleSupervisor) Stop(_ context.Context, service string) error {
	return p.serviceChange("stop", service, p.client.Stop)
}

// Restart the named service and wait for the change to complete.
func (p *PebbleSupervisor) Restart(_ context.Context, service string) error {
	return p.serviceChange("restart", service, p.client.Restart)
}

func (p *PebbleSupervisor) serviceChange(
	verb, service string,
	fn func(*client.ServiceOptions) (string, error)) error {
	// ---
	changeID, err := fn(&client.ServiceOptions{Names: []string{service}})
	if err != nil {
		return perrors.Wrapf(err, "failed to %s service %s", verb, service)
	}
	change, err := p.client.WaitChange(changeID, &client.WaitChangeOptions{})
	if err != nil {
		return perrors.Wrapf(err, "failed waiting to %s service %s", verb, service)
	}
	if change.Err != "" {
		return perrors.Errorf("failed to %s service %s: %s", verb, service, change.Err)
	}
	p.log.Info("Service change complete", "action", verb, "service", service)
	return nil
}

func isNotFound(err error) bool {
	var perr *client.Error
	if errors.As(err, &perr) {
		return perr.StatusCode == http.StatusNotFound || perr.Kind == "not-found"
	}
	return false
}
