// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"

	"github.com/canonical/ueransim-k8s-operator/internal/state"
)

const (
	resultKey = "result"

	radioStarted        = "gnb service started"
	radioAlreadyRunning = "gnb service already running"
	radioStopped        = "gnb service stopped"
	radioAlreadyStopped = "gnb service already stopped"
)

// StartRadio reconciles the workload and then starts the simulator if
// it is not marked as running.
func (m *GnbManager) StartRadio(ctx context.Context) Result {
	return m.toggleRadio(ctx, true)
}

// StopRadio reconciles the workload and then stops the simulator if it
// is marked as running.
func (m *GnbManager) StopRadio(ctx context.Context) Result {
	return m.toggleRadio(ctx, false)
}

func (m *GnbManager) toggleRadio(ctx context.Context, want bool) Result {
	if want {
		m.logger.Info("Starting radio service")
	} else {
		m.logger.Info("Stopping radio service")
	}
	res := m.Configure(ctx)
	if res.Err() != nil {
		return res
	}
	running, err := m.radioRunning(ctx)
	if err != nil {
		return Result{status: res.status, err: err}
	}
	if running == want {
		msg := radioAlreadyStopped
		if want {
			msg = radioAlreadyRunning
		}
		m.logger.Info("Radio already in requested state", "running", running)
		return m.report(ctx, res, msg)
	}

	if want {
		err = m.deps.Workload.Start(ctx, m.unit.Service)
	} else {
		err = m.deps.Workload.Stop(ctx, m.unit.Service)
	}
	if err != nil {
		return Result{status: res.status, err: err}
	}
	if err := state.SetBool(ctx, m.deps.State, RunningKey, want); err != nil {
		return Result{status: res.status, err: err}
	}
	m.deps.Metrics.SetRadioRunning(want)

	msg := radioStopped
	if want {
		msg = radioStarted
	}
	m.logger.Info(msg, "service", m.unit.Service)
	return m.report(ctx, res, msg)
}

func (m *GnbManager) report(ctx context.Context, res Result, msg string) Result {
	if m.deps.Actions == nil {
		return res
	}
	err := m.deps.Actions.SetActionResults(ctx, map[string]string{resultKey: msg})
	if err != nil {
		return Result{status: res.status, err: err}
	}
	return res
}
