// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"

	rtclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// These objects wrap a working client so that individual calls can be
// made to fail.

// failingClient passes calls through to the embedded client unless an
// error has been set for that operation.
type failingClient struct {
	rtclient.Client
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	updates   int
}

func (c *failingClient) Get(
	ctx context.Context,
	key rtclient.ObjectKey,
	obj rtclient.Object,
	opts ...rtclient.GetOption) error {
	if c.getErr != nil {
		return c.getErr
	}
	return c.Client.Get(ctx, key, obj, opts...)
}

func (c *failingClient) Create(
	ctx context.Context,
	obj rtclient.Object,
	opts ...rtclient.CreateOption) error {
	if c.createErr != nil {
		return c.createErr
	}
	return c.Client.Create(ctx, obj, opts...)
}

func (c *failingClient) Update(
	ctx context.Context,
	obj rtclient.Object,
	opts ...rtclient.UpdateOption) error {
	c.updates++
	if c.updateErr != nil {
		return c.updateErr
	}
	return c.Client.Update(ctx, obj, opts...)
}

func (c *failingClient) Delete(
	ctx context.Context,
	obj rtclient.Object,
	opts ...rtclient.DeleteOption) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	return c.Client.Delete(ctx, obj, opts...)
}
