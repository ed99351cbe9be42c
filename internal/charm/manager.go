/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package charm drives the gNB simulator workload in response to
// lifecycle events.
package charm

import (
	"context"
	"fmt"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
	"github.com/canonical/ueransim-k8s-operator/internal/metrics"
	"github.com/canonical/ueransim-k8s-operator/internal/nad"
	"github.com/canonical/ueransim-k8s-operator/internal/relations"
	"github.com/canonical/ueransim-k8s-operator/internal/state"
	"github.com/canonical/ueransim-k8s-operator/internal/workload"
)

const (
	// LayerLabel is the label of the workload service layer.
	LayerLabel = "ueransim"
	// RunningKey is the state key recording whether the radio should
	// be running.
	RunningKey = "gnb-running"

	layerSummary     = "ueransim simulator layer"
	layerDescription = "pebble config layer for gnb simulator"
)

// Leadership reports whether this unit leads its application.
type Leadership interface {
	IsLeader(ctx context.Context) (bool, error)
}

// StatusSetter publishes the unit status.
type StatusSetter interface {
	SetStatus(ctx context.Context, kind, message string) error
}

// ActionReporter records the results of the running action.
type ActionReporter interface {
	SetActionResults(ctx context.Context, results map[string]string) error
}

// ExternalService manages the service exposing the gNB outside of the
// cluster.
type ExternalService interface {
	Apply(ctx context.Context) error
	Delete(ctx context.Context) error
}

// Unit identifies the unit being driven.
type Unit struct {
	Model string
	App   string
	// Service is the name of the supervised workload service.
	Service string
	// BindAddress is the address the gNB binds its N2 and link
	// sockets to.
	BindAddress string
}

// GnbName returns the name published as the gNB identity.
func (u Unit) GnbName() string {
	return fmt.Sprintf("%s-ueransim-%s", u.Model, u.App)
}

// Deps are the collaborators of a GnbManager.
type Deps struct {
	Config    gnb.ConfigStore
	Relations relations.Store
	Leader    Leadership
	Status    StatusSetter
	Actions   ActionReporter
	Workload  workload.Supervisor
	Networks  nad.Service
	External  ExternalService
	State     state.Store
	Metrics   *metrics.Recorder
}

// GnbManager reconciles the gNB workload.
type GnbManager struct {
	unit     Unit
	deps     Deps
	n2       *relations.N2Requirer
	identity *relations.GnbIdentityProvider
	logger   Logger
}

// NewGnbManager creates a GnbManager.
func NewGnbManager(unit Unit, deps Deps, logger Logger) *GnbManager {
	return &GnbManager{
		unit:     unit,
		deps:     deps,
		n2:       relations.NewN2Requirer(deps.Relations),
		identity: relations.NewGnbIdentityProvider(deps.Relations),
		logger:   logger,
	}
}

// Configure brings the workload in line with the current configuration
// and relation data. Each precondition that is not met ends the pass
// with a status explaining what is missing.
func (m *GnbManager) Configure(ctx context.Context) Result {
	snap, err := gnb.Load(ctx, m.deps.Config)
	if err != nil {
		return failed(err)
	}
	if invalid := snap.Invalid(); len(invalid) > 0 {
		return m.setStatus(ctx,
			Blocked(fmt.Sprintf("Configurations are invalid: %v", invalid)))
	}

	defs, err := nad.FromSnapshot(snap)
	if err != nil {
		return failed(err)
	}
	if err := m.deps.Networks.Declare(ctx, defs); err != nil {
		return failed(err)
	}

	created, err := m.n2.Created(ctx)
	if err != nil {
		return failed(err)
	}
	if !created {
		return m.setStatus(ctx, Blocked("Waiting for N2 relation to be created"))
	}
	if !m.deps.Workload.CanConnect(ctx) {
		return m.setStatus(ctx, Waiting("Waiting for container to be ready"))
	}
	found, err := m.deps.Workload.Exists(ctx, gnb.BaseConfigPath)
	if err != nil {
		return failed(err)
	}
	if !found {
		return m.setStatus(ctx, Waiting("Waiting for storage to be attached"))
	}
	ready, err := m.deps.Networks.IsReady(ctx)
	if err != nil {
		return failed(err)
	}
	if !ready {
		return m.setStatus(ctx, Waiting("Waiting for Multus to be ready"))
	}
	info, err := m.n2.Info(ctx)
	if err != nil {
		return failed(err)
	}
	if !info.Complete() {
		return m.setStatus(ctx, Waiting("Waiting for N2 information"))
	}

	content, err := gnb.Render(snap, gnb.Endpoint{
		AMFHostname: info.AMFHostname,
		AMFPort:     info.AMFPort,
		LinkAddress: m.unit.BindAddress,
		NGAPAddress: m.unit.BindAddress,
	})
	if err != nil {
		return failed(err)
	}
	changed, err := m.writeConfig(ctx, content)
	if err != nil {
		return failed(err)
	}
	if changed {
		if err := m.configureWorkload(ctx); err != nil {
			return failed(err)
		}
	}

	if err := m.publishIdentity(ctx, snap); err != nil {
		return failed(err)
	}
	return m.setStatus(ctx, Active())
}

// writeConfig pushes content to the workload unless the file already
// holds exactly that content. It returns true if the file was written.
func (m *GnbManager) writeConfig(ctx context.Context, content string) (bool, error) {
	found, err := m.deps.Workload.Exists(ctx, gnb.ConfigFilePath)
	if err != nil {
		return false, err
	}
	if found {
		current, err := m.deps.Workload.Pull(ctx, gnb.ConfigFilePath)
		if err != nil {
			return false, err
		}
		if current == content {
			return false, nil
		}
	}
	if err := m.deps.Workload.Push(ctx, gnb.ConfigFilePath, content); err != nil {
		return false, err
	}
	m.logger.Info("Pushed gNB configuration file", "path", gnb.ConfigFilePath)
	m.deps.Metrics.ConfigWritten()
	return true, nil
}

// configureWorkload installs the service layer and restarts the
// simulator if it is supposed to be running.
func (m *GnbManager) configureWorkload(ctx context.Context) error {
	err := m.deps.Workload.AddLayer(ctx, LayerLabel, m.layer(), true)
	if err != nil {
		return err
	}
	running, err := m.radioRunning(ctx)
	if err != nil || !running {
		return err
	}
	if err := m.deps.Workload.Restart(ctx, m.unit.Service); err != nil {
		return err
	}
	m.logger.Info("Restarted gNB service", "service", m.unit.Service)
	m.deps.Metrics.Restarted()
	return nil
}

func (m *GnbManager) layer() *workload.Layer {
	return &workload.Layer{
		Summary:     layerSummary,
		Description: layerDescription,
		Services: map[string]workload.Service{
			m.unit.Service: {
				Override: "replace",
				Startup:  "enabled",
				Command:  "nr-gnb -c " + gnb.ConfigFilePath,
			},
		},
	}
}

func (m *GnbManager) radioRunning(ctx context.Context) (bool, error) {
	return state.GetBool(ctx, m.deps.State, RunningKey, false)
}

func (m *GnbManager) setStatus(ctx context.Context, s Status) Result {
	m.deps.Metrics.Reconciled(string(s.Kind))
	if m.deps.Status == nil {
		return withStatus(s)
	}
	if err := m.deps.Status.SetStatus(ctx, string(s.Kind), s.Message); err != nil {
		return Result{status: s, err: err}
	}
	return withStatus(s)
}
