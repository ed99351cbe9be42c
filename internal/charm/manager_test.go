// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
	"github.com/canonical/ueransim-k8s-operator/internal/metrics"
	"github.com/canonical/ueransim-k8s-operator/internal/nad"
	"github.com/canonical/ueransim-k8s-operator/internal/workload"
)

func TestConfigureInvalidConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	delete(env.config, gnb.TACKey)
	env.config[gnb.MCCKey] = ""
	env.config[gnb.SSTKey] = "0"

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t,
		Blocked("Configurations are invalid: [mcc sst tac]"),
		res.Status())
	assert.Equal(t, res.Status(), env.status.last())
	assert.Empty(t, env.networks.declared)
	assert.Empty(t, env.workload.Calls)
}

func TestConfigureWaitsForN2Relation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	delete(env.relations.Relations, "fiveg-n2")

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Blocked("Waiting for N2 relation to be created"), res.Status())
	// network definitions are declared before the relation exists
	require.Len(t, env.networks.declared, 1)
	assert.Equal(t, nad.DefinitionName, env.networks.declared[0][0].Name)
	assert.Empty(t, env.workload.Calls)
}

func TestConfigureWaitsForContainer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.workload.Reachable = false

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Waiting("Waiting for container to be ready"), res.Status())
}

func TestConfigureWaitsForStorage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.workload.Fs = workload.NewMemSupervisor().Fs

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Waiting("Waiting for storage to be attached"), res.Status())
	assert.Empty(t, env.workload.Calls)
}

func TestConfigureWaitsForMultus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.networks.ready = false

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Waiting("Waiting for Multus to be ready"), res.Status())
	assert.Empty(t, env.workload.Calls)
}

func TestConfigureWaitsForN2Information(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	t.Run("noData", func(t *testing.T) {
		env.relations.Remote[testN2Relation] = map[string]string{}
		res := env.mgr.Configure(ctx)
		require.NoError(t, res.Err())
		assert.Equal(t, Waiting("Waiting for N2 information"), res.Status())
	})
	t.Run("hostnameOnly", func(t *testing.T) {
		env.relations.Remote[testN2Relation] = map[string]string{
			"amf_hostname": "amf.example.com",
		}
		res := env.mgr.Configure(ctx)
		require.NoError(t, res.Err())
		assert.Equal(t, Waiting("Waiting for N2 information"), res.Status())
	})
	assert.Empty(t, env.workload.Calls)
}

func TestConfigureWritesConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Active(), res.Status())
	assert.Equal(t, Active(), env.status.last())

	expected, err := gnb.Render(gnb.NewSnapshot(validConfig()), gnb.Endpoint{
		AMFHostname: "amf.example.com",
		AMFPort:     38412,
		LinkAddress: testBindAddr,
		NGAPAddress: testBindAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, expected, env.configFile())
	assert.Contains(t, env.configFile(), "gtpIp: 192.168.251.5\n")

	layer := env.workload.Layers[LayerLabel]
	require.NotNil(t, layer)
	assert.Equal(t, "ueransim simulator layer", layer.Summary)
	assert.Equal(t, "pebble config layer for gnb simulator", layer.Description)
	assert.Equal(t, workload.Service{
		Override: "replace",
		Startup:  "enabled",
		Command:  "nr-gnb -c /etc/gnb.yaml",
	}, layer.Services["ueransim"])

	// the radio is not marked running so no restart happens
	assert.Equal(t, []string{"push /etc/gnb.yaml", "add-layer ueransim"},
		env.workload.Calls)
}

func TestConfigureEndToEnd(t *testing.T) {
	cases := []struct {
		name     string
		nci      string
		tac      string
		expected []string
	}{
		{
			name: "hexWithoutPrefix",
			nci:  "0x1",
			tac:  "1",
			expected: []string{
				"nci: \"0x1\"\n",
				"tac: 0x1\n",
			},
		},
		{
			name: "hexWithPrefix",
			nci:  "0x000000010",
			tac:  "0x1",
			expected: []string{
				"nci: \"0x000000010\"\n",
				"tac: 0x1\n",
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv()
			env.config[gnb.AddressKey] = "10.0.0.1/24"
			env.config[gnb.IDLengthKey] = "32"
			env.config[gnb.MCCKey] = "208"
			env.config[gnb.MNCKey] = "93"
			env.config[gnb.NCIKey] = c.nci
			env.config[gnb.SDKey] = "1"
			env.config[gnb.SSTKey] = "1"
			env.config[gnb.TACKey] = c.tac
			env.relations.Remote[testN2Relation] = map[string]string{
				"amf_hostname": "amf",
				"amf_port":     "38412",
			}

			res := env.mgr.Configure(ctx)
			require.NoError(t, res.Err())
			assert.Equal(t, Active(), res.Status())

			out := env.configFile()
			for _, line := range append([]string{
				"gtpIp: 10.0.0.1\n",
				"linkIp: " + testBindAddr + "\n",
				"ngapIp: " + testBindAddr + "\n",
				"address: amf\n",
				"port: 38412\n",
				"idLength: 32\n",
			}, c.expected...) {
				assert.Contains(t, out, line)
			}
		})
	}
}

func TestConfigureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	for i := 0; i < 3; i++ {
		res := env.mgr.Configure(ctx)
		require.NoError(t, res.Err())
		assert.Equal(t, Active(), res.Status())
	}
	assert.Equal(t, 1, env.workload.CountCalls("push /etc/gnb.yaml"))
	assert.Equal(t, 1, env.workload.CountCalls("add-layer ueransim"))
	assert.Equal(t, 0, env.workload.CountCalls("restart ueransim"))
}

func TestConfigureRestartsRunningRadio(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	res := env.mgr.StartRadio(ctx)
	require.NoError(t, res.Err())
	assert.True(t, env.workload.Running["ueransim"])

	env.config[gnb.MCCKey] = "001"
	res = env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Active(), res.Status())
	assert.Contains(t, env.configFile(), "mcc: \"001\"")
	assert.Equal(t, 2, env.workload.CountCalls("push /etc/gnb.yaml"))
	assert.Equal(t, 1, env.workload.CountCalls("restart ueransim"))
}

func TestConfigureRewritesChangedFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	require.NoError(t, env.workload.Push(ctx, gnb.ConfigFilePath, "stale"))

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.NotEqual(t, "stale", env.configFile())
	assert.Equal(t, 2, env.workload.CountCalls("push /etc/gnb.yaml"))
	assert.Equal(t, 1, env.workload.CountCalls("add-layer ueransim"))
}

func TestConfigureErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("networks", func(t *testing.T) {
		env := newTestEnv()
		env.networks.err = errors.New("no api")
		res := env.mgr.Configure(ctx)
		assert.Error(t, res.Err())
		assert.True(t, res.Status().IsZero())
		assert.Empty(t, env.status.history)
	})
	t.Run("leadership", func(t *testing.T) {
		env := newTestEnv()
		env.leader.err = errors.New("no agent")
		res := env.mgr.Configure(ctx)
		assert.Error(t, res.Err())
	})
}

func TestConfigureRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	rec, err := metrics.NewRecorder()
	require.NoError(t, err)
	env.mgr.deps.Metrics = rec

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}
