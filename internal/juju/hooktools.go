// SPDX-License-Identifier: Apache-2.0

// Package juju gives the operator its view of the Juju model: config,
// leadership, status, relation data and action results.
package juju

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	perrors "github.com/pkg/errors"
)

// Backend is the set of hook tool calls the operator makes.
// GoopsBackend implements it against the Juju agent.
type Backend interface {
	Config(out interface{}) error
	IsLeader() (bool, error)
	SetUnitStatus(kind, message string) error
	IngressAddress(binding string) (string, error)
	RelationIDs(name string) ([]string, error)
	RelationUnits(relationID string) ([]string, error)
	AppRelationData(relationID, unit string) (map[string]string, error)
	SetAppRelationData(relationID string, data map[string]string) error
	SetActionResults(results map[string]string) error
	FailAction(message string) error
	LogInfo(message string)
	LogError(message string)
}

// HookTools adapts a Backend to the interfaces used by the reconciler.
type HookTools struct {
	backend Backend
	log     logr.Logger
}

// NewHookTools creates a HookTools using the given backend.
func NewHookTools(backend Backend, log logr.Logger) *HookTools {
	return &HookTools{backend: backend, log: log}
}

// ConfigValues returns the charm configuration with every set value
// rendered as a string. Unset options are omitted.
func (h *HookTools) ConfigValues(_ context.Context) (map[string]string, error) {
	raw := map[string]interface{}{}
	if err := h.backend.Config(&raw); err != nil {
		return nil, perrors.Wrap(err, "failed to get charm config")
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[k] = configString(v)
	}
	return out, nil
}

// configString renders a decoded JSON value. Whole numbers never use
// exponent notation.
func configString(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case json.Number:
		return n.String()
	}
	return fmt.Sprint(v)
}

// IsLeader returns true if this unit is the application leader.
func (h *HookTools) IsLeader(_ context.Context) (bool, error) {
	leader, err := h.backend.IsLeader()
	return leader, perrors.Wrap(err, "failed to check leadership")
}

// SetStatus sets the unit workload status.
func (h *HookTools) SetStatus(_ context.Context, kind, message string) error {
	return perrors.Wrapf(h.backend.SetUnitStatus(kind, message),
		"failed to set %s status", kind)
}

// BindAddress returns the address the unit uses on the given endpoint.
func (h *HookTools) BindAddress(_ context.Context, endpoint string) (string, error) {
	addr, err := h.backend.IngressAddress(endpoint)
	if err != nil {
		return "", perrors.Wrapf(err, "failed to get network config for %s", endpoint)
	}
	if addr == "" {
		return "", perrors.Errorf("no address bound to %s", endpoint)
	}
	return addr, nil
}

// RelationIDs returns the ids of the relations with the given name.
func (h *HookTools) RelationIDs(_ context.Context, name string) ([]string, error) {
	ids, err := h.backend.RelationIDs(name)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to list %s relations", name)
	}
	return ids, nil
}

// RemoteAppData returns the remote application's data bag. It is empty
// while no remote unit has joined.
func (h *HookTools) RemoteAppData(_ context.Context, relationID string) (map[string]string, error) {
	units, err := h.backend.RelationUnits(relationID)
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to list units of %s", relationID)
	}
	if len(units) == 0 {
		return map[string]string{}, nil
	}
	data, err := h.backend.AppRelationData(relationID, units[0])
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to get app data of %s", relationID)
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

// SetAppData merges data into this application's data bag.
func (h *HookTools) SetAppData(_ context.Context, relationID string, data map[string]string) error {
	return perrors.Wrapf(h.backend.SetAppRelationData(relationID, data),
		"failed to set app data of %s", relationID)
}

// SetActionResults reports results of the running action.
func (h *HookTools) SetActionResults(_ context.Context, results map[string]string) error {
	if len(results) == 0 {
		return nil
	}
	return perrors.Wrap(h.backend.SetActionResults(results),
		"failed to set action results")
}

// FailAction marks the running action as failed.
func (h *HookTools) FailAction(_ context.Context, message string) error {
	return perrors.Wrap(h.backend.FailAction(message), "failed to fail action")
}

// Logger returns a logger that writes to log and also copies every
// message to the unit's Juju debug log.
func (h *HookTools) Logger(log logr.Logger) *Logger {
	return &Logger{backend: h.backend, log: log}
}

// Logger mirrors messages into juju-log.
type Logger struct {
	backend Backend
	log     logr.Logger
}

// Info logs a message and sends it to juju-log.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
	l.backend.LogInfo(logLine(msg, nil, keysAndValues))
}

// Error logs an error and sends it to juju-log.
func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, msg, keysAndValues...)
	l.backend.LogError(logLine(msg, err, keysAndValues))
}

func logLine(msg string, err error, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	return b.String()
}
