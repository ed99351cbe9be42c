// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
	"github.com/canonical/ueransim-k8s-operator/internal/relations"
)

func TestPublishIdentity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.config[gnb.TACKey] = "1a"
	env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:7")
	env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:8")

	res := env.mgr.PublishIdentity(ctx)
	require.NoError(t, res.Err())
	expected := map[string]string{
		"gnb_name": "mymodel-ueransim-gnb",
		"tac":      "26",
	}
	assert.Equal(t, expected, env.relations.Local["fiveg_gnb_identity:7"])
	assert.Equal(t, expected, env.relations.Local["fiveg_gnb_identity:8"])
	assert.Equal(t, 2, env.relations.Writes)
}

func TestPublishIdentityTACForms(t *testing.T) {
	cases := []struct {
		tac      string
		expected string
	}{
		{"1", "1"},
		{"0x1", "1"},
		{"0X1A", "26"},
		{"0", "0"},
	}
	for _, c := range cases {
		t.Run(c.tac, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv()
			env.config[gnb.TACKey] = c.tac
			env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:7")

			res := env.mgr.Configure(ctx)
			require.NoError(t, res.Err())
			assert.Equal(t, Active(), res.Status())
			assert.Empty(t, env.logger.errors)
			assert.Equal(t, c.expected, env.relations.Local["fiveg_gnb_identity:7"]["tac"])
		})
	}
}

func TestPublishIdentityOnConfigure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:7")

	res := env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Active(), res.Status())
	assert.Equal(t, "1", env.relations.Local["fiveg_gnb_identity:7"]["tac"])
}

func TestPublishIdentityNotLeader(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.leader.leader = false
	env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:7")

	res := env.mgr.PublishIdentity(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, 0, env.relations.Writes)

	res = env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Active(), res.Status())
	assert.Equal(t, 0, env.relations.Writes)
}

func TestPublishIdentityNoRelations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	res := env.mgr.PublishIdentity(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, 0, env.relations.Writes)
	assert.Contains(t, env.logger.infos, "No fiveg_gnb_identity relations found")
}

func TestPublishIdentityInvalidTAC(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.config[gnb.TACKey] = "xyz"
	env.relations.AddRelation(relations.GnbIdentityRelationName, "fiveg_gnb_identity:7")

	res := env.mgr.PublishIdentity(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, 0, env.relations.Writes)
	require.Len(t, env.logger.errors, 1)
	assert.Contains(t, env.logger.errors[0], "TAC value cannot be converted to integer")

	// the configuration pass still completes
	res = env.mgr.Configure(ctx)
	require.NoError(t, res.Err())
	assert.Equal(t, Active(), res.Status())
	assert.Equal(t, 0, env.relations.Writes)
}
