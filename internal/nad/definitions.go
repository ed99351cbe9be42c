// SPDX-License-Identifier: Apache-2.0

// Package nad declares the additional network interfaces of the gNB
// pod and manages them as Multus NetworkAttachmentDefinitions.
package nad

import (
	"context"
	"encoding/json"

	"github.com/canonical/ueransim-k8s-operator/internal/gnb"
)

const (
	// DefinitionName is the name of the gNB network attachment.
	DefinitionName = "gnb-net"
	// InterfaceName is the name of the interface inside the pod.
	InterfaceName = "gnb"
	// BridgeName is the bridge used when no host interface is configured.
	BridgeName = "ran-br"

	cniVersion = "0.3.1"
)

// Definition is one desired network attachment.
type Definition struct {
	Name string
	// Config is the CNI configuration as a JSON document.
	Config string
}

// Annotation binds a Definition to an interface inside the pod.
type Annotation struct {
	Name      string `json:"name"`
	Interface string `json:"interface"`
}

// Service applies network attachment definitions to the workload pod.
type Service interface {
	// Declare the desired set of definitions.
	Declare(ctx context.Context, defs []Definition) error
	// IsReady returns true once the most recently declared definitions
	// are in place.
	IsReady(ctx context.Context) (bool, error)
}

type ipamAddress struct {
	Address string `json:"address"`
}

type ipam struct {
	Type      string        `json:"type"`
	Addresses []ipamAddress `json:"addresses"`
}

type cniConfig struct {
	CNIVersion   string          `json:"cniVersion"`
	IPAM         ipam            `json:"ipam"`
	Capabilities map[string]bool `json:"capabilities"`
	Type         string          `json:"type"`
	Master       string          `json:"master,omitempty"`
	Bridge       string          `json:"bridge,omitempty"`
}

// FromSnapshot returns the network attachment definitions required by
// the given configuration.
func FromSnapshot(s *gnb.Snapshot) ([]Definition, error) {
	cc := cniConfig{
		CNIVersion: cniVersion,
		IPAM: ipam{
			Type:      "static",
			Addresses: []ipamAddress{{Address: s.Address}},
		},
		Capabilities: map[string]bool{"mac": true},
	}
	if s.HasInterface() {
		cc.Type = "macvlan"
		cc.Master = s.Interface
	} else {
		cc.Type = "bridge"
		cc.Bridge = BridgeName
	}
	b, err := json.Marshal(cc)
	if err != nil {
		return nil, err
	}
	return []Definition{{Name: DefinitionName, Config: string(b)}}, nil
}

// DefaultAnnotations returns the pod network annotations for the gNB.
func DefaultAnnotations() []Annotation {
	return []Annotation{{Name: DefinitionName, Interface: InterfaceName}}
}
