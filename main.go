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

// Command to handle a single dispatched event for the gNB operator.
package main

import (
	"context"
	"os"
	goruntime "runtime"

	"github.com/gruyaume/goops"
	flag "github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	cniv1 "github.com/canonical/ueransim-k8s-operator/api/cni/v1"
	"github.com/canonical/ueransim-k8s-operator/internal/charm"
	"github.com/canonical/ueransim-k8s-operator/internal/conf"
	"github.com/canonical/ueransim-k8s-operator/internal/juju"
	"github.com/canonical/ueransim-k8s-operator/internal/metrics"
	"github.com/canonical/ueransim-k8s-operator/internal/nad"
	"github.com/canonical/ueransim-k8s-operator/internal/relations"
	"github.com/canonical/ueransim-k8s-operator/internal/resources"
	"github.com/canonical/ueransim-k8s-operator/internal/state"
	"github.com/canonical/ueransim-k8s-operator/internal/workload"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")

	// Version of the software at compile time.
	Version = "(unset)"
	// CommitID of the revision used to compile the software.
	CommitID = "(unset)"
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(cniv1.AddToScheme(scheme))
}

func main() {
	confSource := conf.NewSource()
	var dispatchPath string
	flag.StringVar(
		&dispatchPath,
		"dispatch-path",
		os.Getenv("JUJU_DISPATCH_PATH"),
		"The hook or action being dispatched, e.g. hooks/config-changed.")
	flag.CommandLine.AddFlagSet(confSource.Flags())
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseDevMode(true)))

	setupLog.Info("Initializing gNB operator",
		"ProgramName", os.Args[0],
		"Version", Version,
		"CommitID", CommitID,
		"GoVersion", goruntime.Version(),
		"DispatchPath", dispatchPath,
	)

	ev, ok := charm.ParseEvent(dispatchPath)
	if !ok {
		setupLog.Info("Ignoring unhandled event", "DispatchPath", dispatchPath)
		return
	}

	cfg, err := conf.Load(confSource)
	if err != nil {
		setupLog.Error(err, "invalid configuration", "config", cfg)
		goops.LogErrorf("could not load operator configuration: %v", err)
		os.Exit(1)
	}
	setupLog.Info("loaded configuration successfully", "config", cfg)

	if err := run(context.Background(), cfg, ev); err != nil {
		goops.LogErrorf("could not handle %s: %v", ev, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *conf.OperatorConfig, ev charm.Event) error {
	tools := juju.NewHookTools(juju.GoopsBackend{}, ctrl.Log.WithName("juju"))

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		setupLog.Error(err, "unable to get kubernetes config")
		return err
	}
	cl, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		setupLog.Error(err, "unable to create kubernetes client")
		return err
	}

	bindAddress := cfg.BindAddress
	if bindAddress == "" {
		bindAddress, err = tools.BindAddress(ctx, relations.N2RelationName)
		if err != nil {
			setupLog.Error(err, "unable to get bind address",
				"endpoint", relations.N2RelationName)
			return err
		}
	}

	supervisor, err := workload.NewPebbleSupervisor(
		cfg.PebbleSocket, ctrl.Log.WithName("pebble"))
	if err != nil {
		setupLog.Error(err, "unable to create workload supervisor")
		return err
	}

	recorder, err := metrics.NewRecorder()
	if err != nil {
		setupLog.Error(err, "unable to register metrics")
		return err
	}

	mgr := charm.NewGnbManager(
		charm.Unit{
			Model:       cfg.ModelName,
			App:         cfg.AppName,
			Service:     cfg.ServiceName,
			BindAddress: bindAddress,
		},
		charm.Deps{
			Config:    tools,
			Relations: tools,
			Leader:    tools,
			Status:    tools,
			Actions:   tools,
			Workload:  supervisor,
			Networks: nad.NewMultusService(
				cl, cfg.ModelName, cfg.AppName, cfg.ContainerName,
				cfg.FieldManager, ctrl.Log.WithName("multus")),
			External: resources.NewExternalServiceManager(
				cl, cfg.ModelName, cfg.AppName, cfg.FieldManager,
				ctrl.Log.WithName("resources")),
			State: state.NewConfigMapStore(
				cl, cfg.StateConfigMapName(), cfg.ModelName, cfg.FieldManager,
				ctrl.Log.WithName("state")),
			Metrics: recorder,
		},
		tools.Logger(ctrl.Log.WithName("charm")))

	res := mgr.Handle(ctx, ev)
	if res.Err() != nil {
		setupLog.Error(res.Err(), "failed to handle event", "event", ev)
		if ev.IsAction() {
			if err := tools.FailAction(ctx, res.Err().Error()); err != nil {
				setupLog.Error(err, "unable to mark action as failed", "event", ev)
			}
		}
	} else if !res.Status().IsZero() {
		setupLog.Info("handled event", "event", ev, "status", res.Status().String())
	}

	if cfg.MetricsTextfile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			setupLog.Error(err, "unable to write metrics",
				"path", cfg.MetricsTextfile)
		}
	}
	return res.Err()
}
