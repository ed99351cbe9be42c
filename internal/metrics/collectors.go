// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	collectorsNamespace = "gnb_operator"
)

func (r *Recorder) register() error {
	cols := []prometheus.Collector{
		r.reconciles,
		r.configWrites,
		r.restarts,
		r.identityPublishes,
		r.radioRunning,
	}
	for _, c := range cols {
		if err := r.reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func newReconcilesCollector() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: collectorName("reconcile", "total"),
			Help: "Number of reconciliations by resulting unit status",
		},
		[]string{"status"})
}

func newConfigWritesCollector() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: collectorName("config", "writes_total"),
		Help: "Number of times the gNB configuration file was written",
	})
}

func newRestartsCollector() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: collectorName("workload", "restarts_total"),
		Help: "Number of gNB service restarts requested",
	})
}

func newIdentityPublishesCollector() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: collectorName("identity", "publishes_total"),
		Help: "Number of gNB identity facts published to relations",
	})
}

func newRadioRunningCollector() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: collectorName("radio", "running"),
		Help: "Whether the radio is marked as running (1) or stopped (0)",
	})
}

func collectorName(subsystem, name string) string {
	return prometheus.BuildFQName(collectorsNamespace, subsystem, name)
}
