// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"
)

// Install exposes the gNB outside of the cluster.
func (m *GnbManager) Install(ctx context.Context) Result {
	if err := m.deps.External.Apply(ctx); err != nil {
		return failed(err)
	}
	return Done
}

// Remove deletes the external service created on install.
func (m *GnbManager) Remove(ctx context.Context) Result {
	if err := m.deps.External.Delete(ctx); err != nil {
		return failed(err)
	}
	return Done
}
