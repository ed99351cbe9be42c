// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"
	"fmt"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
	"github.com/canonical/ueransim-k8s-operator/internal/nad"
	"github.com/canonical/ueransim-k8s-operator/internal/relations"
	"github.com/canonical/ueransim-k8s-operator/internal/state"
	"github.com/canonical/ueransim-k8s-operator/internal/workload"
)

type fakeLogger struct {
	infos  []string
	errors []string
}

func (fl *fakeLogger) Info(msg string, _ ...interface{}) {
	fl.infos = append(fl.infos, msg)
}

func (fl *fakeLogger) Error(err error, msg string, _ ...interface{}) {
	fl.errors = append(fl.errors, fmt.Sprintf("%s: %v", msg, err))
}

type fakeLeader struct {
	leader bool
	err    error
}

func (fl *fakeLeader) IsLeader(_ context.Context) (bool, error) {
	return fl.leader, fl.err
}

type fakeStatus struct {
	history []Status
}

func (fs *fakeStatus) SetStatus(_ context.Context, kind, message string) error {
	fs.history = append(fs.history, Status{Kind: StatusKind(kind), Message: message})
	return nil
}

func (fs *fakeStatus) last() Status {
	if len(fs.history) == 0 {
		return Status{}
	}
	return fs.history[len(fs.history)-1]
}

type fakeActions struct {
	results []map[string]string
}

func (fa *fakeActions) SetActionResults(_ context.Context, r map[string]string) error {
	fa.results = append(fa.results, r)
	return nil
}

type fakeNetworks struct {
	ready    bool
	declared [][]nad.Definition
	err      error
}

func (fn *fakeNetworks) Declare(_ context.Context, defs []nad.Definition) error {
	if fn.err != nil {
		return fn.err
	}
	fn.declared = append(fn.declared, defs)
	return nil
}

func (fn *fakeNetworks) IsReady(_ context.Context) (bool, error) {
	return fn.ready, fn.err
}

type fakeExternal struct {
	applied int
	deleted int
	err     error
}

func (fe *fakeExternal) Apply(_ context.Context) error {
	if fe.err != nil {
		return fe.err
	}
	fe.applied++
	return nil
}

func (fe *fakeExternal) Delete(_ context.Context) error {
	if fe.err != nil {
		return fe.err
	}
	fe.deleted++
	return nil
}

const (
	testN2Relation = "fiveg-n2:1"
	testBindAddr   = "192.168.70.2"
)

type testEnv struct {
	mgr       *GnbManager
	config    gnb.StaticConfig
	relations *relations.MemStore
	leader    *fakeLeader
	status    *fakeStatus
	actions   *fakeActions
	workload  *workload.MemSupervisor
	networks  *fakeNetworks
	external  *fakeExternal
	state     state.MemStore
	logger    *fakeLogger
}

func validConfig() gnb.StaticConfig {
	return gnb.StaticConfig{
		gnb.AddressKey:  "192.168.251.5/24",
		gnb.IDLengthKey: "32",
		gnb.MCCKey:      "208",
		gnb.MNCKey:      "93",
		gnb.NCIKey:      "0x000000010",
		gnb.SDKey:       "010203",
		gnb.SSTKey:      "1",
		gnb.TACKey:      "1",
	}
}

// newTestEnv returns an environment in which every precondition of a
// configuration pass is met.
func newTestEnv() *testEnv {
	env := &testEnv{
		config:    validConfig(),
		relations: relations.NewMemStore(),
		leader:    &fakeLeader{leader: true},
		status:    &fakeStatus{},
		actions:   &fakeActions{},
		workload:  workload.NewMemSupervisor(gnb.BaseConfigPath),
		networks:  &fakeNetworks{ready: true},
		external:  &fakeExternal{},
		state:     state.MemStore{},
		logger:    &fakeLogger{},
	}
	env.relations.AddRelation(relations.N2RelationName, testN2Relation)
	env.relations.Remote[testN2Relation] = map[string]string{
		"amf_hostname": "amf.example.com",
		"amf_port":     "38412",
	}
	env.mgr = NewGnbManager(
		Unit{
			Model:       "mymodel",
			App:         "gnb",
			Service:     "ueransim",
			BindAddress: testBindAddr,
		},
		Deps{
			Config:    env.config,
			Relations: env.relations,
			Leader:    env.leader,
			Status:    env.status,
			Actions:   env.actions,
			Workload:  env.workload,
			Networks:  env.networks,
			External:  env.external,
			State:     env.state,
		},
		env.logger)
	return env
}

func (env *testEnv) configFile() string {
	b, err := env.workload.Pull(context.Background(), gnb.ConfigFilePath)
	if err != nil {
		return ""
	}
	return b
}
