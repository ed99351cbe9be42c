// SPDX-License-Identifier: Apache-2.0

package relations

import (
	"context"
	"strconv"
)

const (
	amfHostnameKey = "amf_hostname"
	amfPortKey     = "amf_port"
)

// N2Info holds the AMF endpoint published over the fiveg-n2 relation.
// Zero values mean the value has not been published yet.
type N2Info struct {
	AMFHostname string
	AMFPort     int
}

// Complete returns true if both hostname and port are known.
func (i N2Info) Complete() bool {
	return i.AMFHostname != "" && i.AMFPort != 0
}

// N2Requirer consumes the fiveg-n2 relation.
type N2Requirer struct {
	store Store
	name  string
}

// NewN2Requirer returns an N2Requirer for the default relation name.
func NewN2Requirer(store Store) *N2Requirer {
	return &N2Requirer{store: store, name: N2RelationName}
}

// Created returns true if at least one fiveg-n2 relation exists.
func (r *N2Requirer) Created(ctx context.Context) (bool, error) {
	ids, err := r.store.RelationIDs(ctx, r.name)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// Info returns the AMF endpoint published on the first fiveg-n2
// relation. Values that are absent or can not be parsed are left zero.
func (r *N2Requirer) Info(ctx context.Context) (N2Info, error) {
	info := N2Info{}
	ids, err := r.store.RelationIDs(ctx, r.name)
	if err != nil || len(ids) == 0 {
		return info, err
	}
	data, err := r.store.RemoteAppData(ctx, ids[0])
	if err != nil {
		return info, err
	}
	info.AMFHostname = data[amfHostnameKey]
	if p, err := strconv.Atoi(data[amfPortKey]); err == nil {
		info.AMFPort = p
	}
	return info, nil
}
