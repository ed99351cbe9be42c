// SPDX-License-Identifier: Apache-2.0

package juju

import (
	"github.com/gruyaume/goops"
)

// GoopsBackend is the Backend talking to the Juju agent through goops.
type GoopsBackend struct{}

// Config decodes the charm configuration into out.
func (GoopsBackend) Config(out interface{}) error {
	return goops.GetConfig(out)
}

// IsLeader returns true if this unit leads its application.
func (GoopsBackend) IsLeader() (bool, error) {
	return goops.IsLeader()
}

// SetUnitStatus sets the unit workload status.
func (GoopsBackend) SetUnitStatus(kind, message string) error {
	return goops.SetUnitStatus(unitStatus(kind), message)
}

// IngressAddress returns the first ingress address of the binding.
func (GoopsBackend) IngressAddress(binding string) (string, error) {
	network, err := goops.GetNetworkConfig(binding)
	if err != nil {
		return "", err
	}
	if network == nil || len(network.IngressAddresses) == 0 {
		return "", nil
	}
	return network.IngressAddresses[0], nil
}

// RelationIDs returns the ids of the relations with the given name.
func (GoopsBackend) RelationIDs(name string) ([]string, error) {
	return goops.GetRelationIDs(name)
}

// RelationUnits returns the remote units of a relation.
func (GoopsBackend) RelationUnits(relationID string) ([]string, error) {
	return goops.ListRelationUnits(relationID)
}

// AppRelationData returns the application data bag of unit's
// application on a relation.
func (GoopsBackend) AppRelationData(relationID, unit string) (map[string]string, error) {
	return goops.GetAppRelationData(relationID, unit)
}

// SetAppRelationData writes this application's data bag.
func (GoopsBackend) SetAppRelationData(relationID string, data map[string]string) error {
	return goops.SetAppRelationData(relationID, data)
}

// SetActionResults reports results of the running action.
func (GoopsBackend) SetActionResults(results map[string]string) error {
	return goops.SetActionResults(results)
}

// FailAction marks the running action as failed.
func (GoopsBackend) FailAction(message string) error {
	return goops.FailActionf("%s", message)
}

// LogInfo sends an info message to juju-log.
func (GoopsBackend) LogInfo(message string) {
	goops.LogInfof("%s", message)
}

// LogError sends an error message to juju-log.
func (GoopsBackend) LogError(message string) {
	goops.LogErrorf("%s", message)
}

func unitStatus(kind string) goops.StatusName {
	switch kind {
	case "active":
		return goops.StatusActive
	case "blocked":
		return goops.StatusBlocked
	case "waiting":
		return goops.StatusWaiting
	}
	return goops.StatusMaintenance
}
