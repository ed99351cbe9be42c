// SPDX-License-Identifier: Apache-2.0

// Package metrics records what the operator did while handling an
// event and exports it for the node's textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects operator metrics on a private registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	reg               *prometheus.Registry
	reconciles        *prometheus.CounterVec
	configWrites      prometheus.Counter
	restarts          prometheus.Counter
	identityPublishes prometheus.Counter
	radioRunning      prometheus.Gauge
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		reg:               prometheus.NewRegistry(),
		reconciles:        newReconcilesCollector(),
		configWrites:      newConfigWritesCollector(),
		restarts:          newRestartsCollector(),
		identityPublishes: newIdentityPublishesCollector(),
		radioRunning:      newRadioRunningCollector(),
	}
	if err := r.register(); err != nil {
		return nil, err
	}
	return r, nil
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Reconciled counts a reconciliation ending in the given status.
func (r *Recorder) Reconciled(status string) {
	if r == nil {
		return
	}
	r.reconciles.WithLabelValues(status).Inc()
}

// ConfigWritten counts a write of the configuration file.
func (r *Recorder) ConfigWritten() {
	if r == nil {
		return
	}
	r.configWrites.Inc()
}

// Restarted counts a restart of the workload service.
func (r *Recorder) Restarted() {
	if r == nil {
		return
	}
	r.restarts.Inc()
}

// IdentityPublished counts identity publications.
func (r *Recorder) IdentityPublished(n int) {
	if r == nil {
		return
	}
	r.identityPublishes.Add(float64(n))
}

// SetRadioRunning records the persisted radio state.
func (r *Recorder) SetRadioRunning(running bool) {
	if r == nil {
		return
	}
	if running {
		r.radioRunning.Set(1)
	} else {
		r.radioRunning.Set(0)
	}
}

// WriteTextfile writes all metrics to path in the text exposition
// format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
