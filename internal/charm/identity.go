// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
	"github.com/canonical/ueransim-k8s-operator/internal/relations"
)

// PublishIdentity answers a gNB identity request from a related
// application.
func (m *GnbManager) PublishIdentity(ctx context.Context) Result {
	snap, err := gnb.Load(ctx, m.deps.Config)
	if err != nil {
		return failed(err)
	}
	if err := m.publishIdentity(ctx, snap); err != nil {
		return failed(err)
	}
	return Done
}

// publishIdentity writes the gNB name and TAC to every identity
// relation. Only the leader publishes. A TAC that is not hexadecimal is
// logged and nothing is published.
func (m *GnbManager) publishIdentity(ctx context.Context, snap *gnb.Snapshot) error {
	leader, err := m.deps.Leader.IsLeader(ctx)
	if err != nil {
		return err
	}
	if !leader {
		return nil
	}
	ids, err := m.identity.RelationIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		m.logger.Info("No fiveg_gnb_identity relations found")
		return nil
	}
	tac, err := snap.TACValue()
	if err != nil {
		m.logger.Error(err, "TAC value cannot be converted to integer",
			"tac", snap.TAC)
		return nil
	}
	id := relations.GnbIdentity{Name: m.unit.GnbName(), TAC: tac}
	for _, rid := range ids {
		if err := m.identity.Publish(ctx, rid, id); err != nil {
			return err
		}
	}
	m.logger.Info("Published gNB identity",
		"gnb_name", id.Name,
		"tac", id.TAC,
		"relations", len(ids))
	m.deps.Metrics.IdentityPublished(len(ids))
	return nil
}
