// SPDX-License-Identifier: Apache-2.0

// Package relations implements the two relation interfaces of the gNB:
// the fiveg-n2 requirer and the fiveg_gnb_identity provider.
package relations

import (
	"context"
	"sort"
)

const (
	// N2RelationName is the relation carrying the AMF N2 endpoint.
	N2RelationName = "fiveg-n2"
	// GnbIdentityRelationName is the relation the gNB identity is
	// published on.
	GnbIdentityRelationName = "fiveg_gnb_identity"
)

// Store reads and writes relation data bags.
type Store interface {
	// RelationIDs returns the ids of the established relations with
	// the given name.
	RelationIDs(ctx context.Context, name string) ([]string, error)
	// RemoteAppData returns the application data bag of the remote
	// side of a relation.
	RemoteAppData(ctx context.Context, relationID string) (map[string]string, error)
	// SetAppData merges data into the local application data bag of
	// a relation.
	SetAppData(ctx context.Context, relationID string, data map[string]string) error
}

// MemStore is a Store held in memory.
type MemStore struct {
	// Relations maps relation names to relation ids.
	Relations map[string][]string
	Remote    map[string]map[string]string
	Local     map[string]map[string]string
	// Writes counts SetAppData calls.
	Writes int
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		Relations: map[string][]string{},
		Remote:    map[string]map[string]string{},
		Local:     map[string]map[string]string{},
	}
}

// AddRelation registers a relation and returns its id.
func (ms *MemStore) AddRelation(name, id string) string {
	ms.Relations[name] = append(ms.Relations[name], id)
	sort.Strings(ms.Relations[name])
	return id
}

// RelationIDs returns the ids registered for name.
func (ms *MemStore) RelationIDs(_ context.Context, name string) ([]string, error) {
	return append([]string{}, ms.Relations[name]...), nil
}

// RemoteAppData returns a copy of the remote data bag.
func (ms *MemStore) RemoteAppData(_ context.Context, relationID string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range ms.Remote[relationID] {
		out[k] = v
	}
	return out, nil
}

// SetAppData merges data into the local data bag.
func (ms *MemStore) SetAppData(_ context.Context, relationID string, data map[string]string) error {
	bag, found := ms.Local[relationID]
	if !found {
		bag = map[string]string{}
		ms.Local[relationID] = bag
	}
	for k, v := range data {
		bag[k] = v
	}
	ms.Writes++
	return nil
}
