// SPDX-License-Identifier: Apache-2.0

package relations

import (
	"context"
	"errors"
	"strconv"
)

const (
	gnbNameKey = "gnb_name"
	tacKey     = "tac"
)

var (
	// ErrInvalidGnbName is returned when publishing an empty gNB name.
	ErrInvalidGnbName = errors.New("gnb name must not be empty")
	// ErrInvalidTAC is returned when publishing a TAC outside the
	// 24 bit range.
	ErrInvalidTAC = errors.New("tac must be between 0 and 16777215")
)

// GnbIdentity is the fact published to identity requirers.
type GnbIdentity struct {
	Name string
	TAC  int
}

// GnbIdentityProvider publishes the gNB identity on the
// fiveg_gnb_identity relation.
type GnbIdentityProvider struct {
	store Store
	name  string
}

// NewGnbIdentityProvider returns a provider for the default relation
// name.
func NewGnbIdentityProvider(store Store) *GnbIdentityProvider {
	return &GnbIdentityProvider{store: store, name: GnbIdentityRelationName}
}

// RelationIDs returns the ids of the established identity relations.
func (p *GnbIdentityProvider) RelationIDs(ctx context.Context) ([]string, error) {
	return p.store.RelationIDs(ctx, p.name)
}

// Publish writes the identity into the given relation's application
// data bag.
func (p *GnbIdentityProvider) Publish(
	ctx context.Context, relationID string, id GnbIdentity) error {
	// ---
	if id.Name == "" {
		return ErrInvalidGnbName
	}
	if id.TAC < 0 || id.TAC > 0xffffff {
		return ErrInvalidTAC
	}
	return p.store.SetAppData(ctx, relationID, map[string]string{
		gnbNameKey: id.Name,
		tacKey:     strconv.Itoa(id.TAC),
	})
}
