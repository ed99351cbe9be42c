/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package resources manages the Kubernetes objects owned by the gNB
// operator outside of its own pod.
package resources

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ExternalServiceManager creates and removes the LoadBalancer service
// exposing the gNB's GTP-U port outside of the cluster.
type ExternalServiceManager struct {
	client       client.Client
	namespace    string
	app          string
	fieldManager string
	logger       logr.Logger
}

// NewExternalServiceManager creates an ExternalServiceManager for the
// given application.
func NewExternalServiceManager(
	cl client.Client, ns, app, fieldManager string,
	logger logr.Logger) *ExternalServiceManager {
	// ---
	return &ExternalServiceManager{
		client:       cl,
		namespace:    ns,
		app:          app,
		fieldManager: fieldManager,
		logger:       logger,
	}
}

// Apply creates the external service or brings an existing one in line
// with the desired definition.
func (m *ExternalServiceManager) Apply(ctx context.Context) error {
	desired := newExternalService(m.app, m.namespace)
	found := &corev1.Service{}
	err := m.client.Get(
		ctx,
		types.NamespacedName{Name: desired.Name, Namespace: m.namespace},
		found)
	if err != nil && !errors.IsNotFound(err) {
		m.logger.Error(err, "Failed to get Service",
			"Service.Namespace", m.namespace,
			"Service.Name", desired.Name)
		return err
	}

	if errors.IsNotFound(err) {
		m.logger.Info("Creating a new Service",
			"Service.Namespace", desired.Namespace,
			"Service.Name", desired.Name)
		err = m.client.Create(ctx, desired, client.FieldOwner(m.fieldManager))
		if err != nil {
			m.logger.Error(err, "Failed to create new Service",
				"Service.Namespace", desired.Namespace,
				"Service.Name", desired.Name)
			return err
		}
		m.logger.Info("Created/asserted existence of external gNB service")
		return nil
	}

	if !mergeServiceSpec(found, desired) {
		m.logger.Info("Created/asserted existence of external gNB service")
		return nil
	}
	err = m.client.Update(ctx, found, client.FieldOwner(m.fieldManager))
	if err != nil {
		m.logger.Error(err, "Failed to update Service",
			"Service.Namespace", found.Namespace,
			"Service.Name", found.Name)
		return err
	}
	m.logger.Info("Created/asserted existence of external gNB service")
	return nil
}

// Delete removes the external service. A missing service is not an
// error.
func (m *ExternalServiceManager) Delete(ctx context.Context) error {
	svc := newExternalService(m.app, m.namespace)
	err := client.IgnoreNotFound(m.client.Delete(ctx, svc))
	if err != nil {
		m.logger.Error(err, "Failed to delete Service",
			"Service.Namespace", svc.Namespace,
			"Service.Name", svc.Name)
		return err
	}
	m.logger.Info("Removed external gNB service")
	return nil
}

// mergeServiceSpec copies the fields owned by the operator from desired
// into found and reports whether anything changed. Fields defaulted by
// the API server, like node ports and cluster IPs, are kept.
func mergeServiceSpec(found, desired *corev1.Service) bool {
	changed := false
	if found.Labels == nil {
		found.Labels = map[string]string{}
	}
	for k, v := range desired.Labels {
		if found.Labels[k] != v {
			found.Labels[k] = v
			changed = true
		}
	}
	if found.Spec.Type != desired.Spec.Type {
		found.Spec.Type = desired.Spec.Type
		changed = true
	}
	if !cmp.Equal(found.Spec.Selector, desired.Spec.Selector) {
		found.Spec.Selector = desired.Spec.Selector
		changed = true
	}
	if !portsMatch(found.Spec.Ports, desired.Spec.Ports) {
		found.Spec.Ports = desired.Spec.Ports
		changed = true
	}
	return changed
}

func portsMatch(found, desired []corev1.ServicePort) bool {
	if len(found) != len(desired) {
		return false
	}
	for i := range desired {
		f, d := found[i], desired[i]
		if f.Name != d.Name || f.Port != d.Port || f.Protocol != d.Protocol {
			return false
		}
	}
	return true
}
