// SPDX-License-Identifier: Apache-2.0

package charm

import (
	"context"
	"path"
	"strings"
)

// Event is a lifecycle event the operator reacts to.
type Event string

const (
	EventInstall                Event = "install"
	EventRemove                 Event = "remove"
	EventConfigChanged          Event = "config-changed"
	EventPebbleReady            Event = "ueransim-pebble-ready"
	EventN2RelationJoined       Event = "fiveg-n2-relation-joined"
	EventN2InformationAvailable Event = "n2-information-available"
	EventGnbIdentityRequest     Event = "fiveg-gnb-identity-request"
	EventStartRadio             Event = "start-radio"
	EventStopRadio              Event = "stop-radio"
)

// dispatchNames maps the hook and action names Juju dispatches to the
// events they raise.
var dispatchNames = map[string]Event{
	"hooks/install":                            EventInstall,
	"hooks/remove":                             EventRemove,
	"hooks/config-changed":                     EventConfigChanged,
	"hooks/ueransim-pebble-ready":              EventPebbleReady,
	"hooks/fiveg-n2-relation-joined":           EventN2RelationJoined,
	"hooks/fiveg-n2-relation-changed":          EventN2InformationAvailable,
	"hooks/fiveg_gnb_identity-relation-joined": EventGnbIdentityRequest,
	"actions/start-radio":                      EventStartRadio,
	"actions/stop-radio":                       EventStopRadio,
}

type handler func(*GnbManager, context.Context) Result

var handlers = map[Event]handler{
	EventInstall:                (*GnbManager).Install,
	EventRemove:                 (*GnbManager).Remove,
	EventConfigChanged:          (*GnbManager).Configure,
	EventPebbleReady:            (*GnbManager).Configure,
	EventN2RelationJoined:       (*GnbManager).Configure,
	EventN2InformationAvailable: (*GnbManager).Configure,
	EventGnbIdentityRequest:     (*GnbManager).PublishIdentity,
	EventStartRadio:             (*GnbManager).StartRadio,
	EventStopRadio:              (*GnbManager).StopRadio,
}

// ParseEvent returns the event for a dispatch path such as
// "hooks/config-changed" or a bare event name. It returns false for
// anything the operator does not handle.
func ParseEvent(dispatchPath string) (Event, bool) {
	p := path.Clean(strings.TrimSpace(dispatchPath))
	if ev, found := dispatchNames[p]; found {
		return ev, true
	}
	ev := Event(p)
	if _, found := handlers[ev]; found {
		return ev, true
	}
	return "", false
}

// IsAction returns true if the event was raised by an action.
func (e Event) IsAction() bool {
	return e == EventStartRadio || e == EventStopRadio
}

// Handle runs the handler registered for ev.
func (m *GnbManager) Handle(ctx context.Context, ev Event) Result {
	h, found := handlers[ev]
	if !found {
		m.logger.Info("Ignoring unhandled event", "event", ev)
		return Done
	}
	m.logger.Info("Handling event", "event", ev)
	res := h(m, ctx)
	if m.deps.Metrics != nil {
		if running, err := m.radioRunning(ctx); err == nil {
			m.deps.Metrics.SetRadioRunning(running)
		}
	}
	return res
}
