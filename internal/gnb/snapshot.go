// SPDX-License-Identifier: Apache-2.0

package gnb

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// Configuration option names as exposed to the operator's users.
const (
	AddressKey   = "gnb-address"
	InterfaceKey = "gnb-interface"
	IDLengthKey  = "id-length"
	MCCKey       = "mcc"
	MNCKey       = "mnc"
	NCIKey       = "nci"
	SDKey        = "sd"
	SSTKey       = "sst"
	TACKey       = "tac"
)

// ConfigStore supplies the unit's current configuration values. Values
// are rendered as strings regardless of their declared option type.
type ConfigStore interface {
	ConfigValues(ctx context.Context) (map[string]string, error)
}

// StaticConfig is a ConfigStore over a fixed set of values.
type StaticConfig map[string]string

// ConfigValues returns a copy of the static values.
func (sc StaticConfig) ConfigValues(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(sc))
	for k, v := range sc {
		out[k] = v
	}
	return out, nil
}

// Snapshot is the set of configuration values used to drive a single
// reconciliation pass.
type Snapshot struct {
	Address   string
	Interface string
	IDLength  string
	MCC       string
	MNC       string
	NCI       string
	SD        string
	SST       string
	TAC       string
}

// NewSnapshot builds a Snapshot from raw configuration values.
// Surrounding whitespace is ignored.
func NewSnapshot(values map[string]string) *Snapshot {
	get := func(k string) string {
		return strings.TrimSpace(values[k])
	}
	return &Snapshot{
		Address:   get(AddressKey),
		Interface: get(InterfaceKey),
		IDLength:  get(IDLengthKey),
		MCC:       get(MCCKey),
		MNC:       get(MNCKey),
		NCI:       get(NCIKey),
		SD:        get(SDKey),
		SST:       get(SSTKey),
		TAC:       get(TACKey),
	}
}

// Load a fresh Snapshot from the given store.
func Load(ctx context.Context, store ConfigStore) (*Snapshot, error) {
	values, err := store.ConfigValues(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(values), nil
}

// Invalid returns the sorted names of all required options that are
// missing or can not be used. An empty result means the snapshot is
// usable for rendering.
func (s *Snapshot) Invalid() []string {
	invalid := []string{}
	required := map[string]string{
		AddressKey:  s.Address,
		IDLengthKey: s.IDLength,
		MCCKey:      s.MCC,
		MNCKey:      s.MNC,
		NCIKey:      s.NCI,
		SDKey:       s.SD,
		SSTKey:      s.SST,
		TACKey:      s.TAC,
	}
	for k, v := range required {
		if v == "" {
			invalid = append(invalid, k)
		}
	}
	if s.IDLength != "" {
		if _, err := strconv.Atoi(s.IDLength); err != nil {
			invalid = append(invalid, IDLengthKey)
		}
	}
	if s.SST != "" {
		if n, err := strconv.Atoi(s.SST); err != nil || n == 0 {
			invalid = append(invalid, SSTKey)
		}
	}
	sort.Strings(invalid)
	return invalid
}

// HasInterface returns true if a host network interface is configured.
func (s *Snapshot) HasInterface() bool {
	return s.Interface != ""
}

// GTPAddress returns the radio address without any CIDR suffix.
func (s *Snapshot) GTPAddress() string {
	addr, _, _ := strings.Cut(s.Address, "/")
	return addr
}

// TACValue parses the tracking area code as a base-16 integer. A 0x
// prefix is accepted.
func (s *Snapshot) TACValue() (int, error) {
	v, err := strconv.ParseInt(trimHexPrefix(s.TAC), 16, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return s[2:]
	}
	return s
}
