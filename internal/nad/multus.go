// SPDX-License-Identifier: Apache-2.0

package nad

import (
	"context"
	"encoding/json"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	perrors "github.com/pkg/errors"
	"github.com/samber/lo"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	cniv1 "github.com/canonical/ueransim-k8s-operator/api/cni/v1"
)

const (
	// NetworksAnnotation is the pod annotation read by Multus.
	NetworksAnnotation = "k8s.v1.cni.cncf.io/networks"

	// ManagedByLabel marks definitions created by the operator.
	ManagedByLabel = "app.kubernetes.io/managed-by"

	netAdmin = corev1.Capability("NET_ADMIN")
)

// MultusService manages network attachment definitions and the pod
// template of the workload's StatefulSet.
type MultusService struct {
	client       client.Client
	namespace    string
	statefulSet  string
	container    string
	fieldManager string
	annotations  []Annotation
	log          logr.Logger

	declared []Definition
}

// NewMultusService creates a MultusService for the named StatefulSet
// and container.
func NewMultusService(
	cl client.Client,
	namespace, statefulSet, container, fieldManager string,
	log logr.Logger) *MultusService {
	// ---
	return &MultusService{
		client:       cl,
		namespace:    namespace,
		statefulSet:  statefulSet,
		container:    container,
		fieldManager: fieldManager,
		annotations:  DefaultAnnotations(),
		log:          log,
	}
}

// Declare creates or updates the given definitions, removes the ones
// previously created by the operator that are no longer wanted and
// makes sure the pod template requests them.
func (m *MultusService) Declare(ctx context.Context, defs []Definition) error {
	m.declared = defs
	for _, d := range defs {
		if err := m.applyDefinition(ctx, d); err != nil {
			return err
		}
	}
	if err := m.pruneDefinitions(ctx, defs); err != nil {
		return err
	}
	return m.patchStatefulSet(ctx)
}

// IsReady returns true if the declared definitions exist with the
// expected configuration and the pod template references them.
func (m *MultusService) IsReady(ctx context.Context) (bool, error) {
	if len(m.declared) == 0 {
		return false, nil
	}
	for _, d := range m.declared {
		existing, err := m.getDefinition(ctx, d.Name)
		if err != nil {
			return false, err
		}
		if existing == nil {
			m.log.Info("Network attachment definition missing",
				"name", d.Name)
			return false, nil
		}
		if !sameConfig(existing.Spec.Config, d.Config) {
			m.log.Info("Network attachment definition out of date",
				"name", d.Name)
			return false, nil
		}
	}

	sts, err := m.getStatefulSet(ctx)
	if err != nil {
		return false, err
	}
	if sts == nil {
		return false, nil
	}
	if !m.annotationsApplied(sts) {
		m.log.Info("StatefulSet is missing network annotations",
			"StatefulSet.Name", sts.Name)
		return false, nil
	}
	return hasNetAdmin(sts, m.container), nil
}

func (m *MultusService) applyDefinition(ctx context.Context, d Definition) error {
	existing, err := m.getDefinition(ctx, d.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		obj := m.newDefinitionObject(d)
		m.log.Info("Creating network attachment definition",
			"Namespace", m.namespace,
			"Name", d.Name)
		err = m.client.Create(ctx, obj, client.FieldOwner(m.fieldManager))
		return perrors.Wrapf(err, "failed to create network attachment definition %s", d.Name)
	}
	if sameConfig(existing.Spec.Config, d.Config) {
		return nil
	}
	existing.Spec.Config = d.Config
	m.log.Info("Updating network attachment definition",
		"Namespace", m.namespace,
		"Name", d.Name)
	err = m.client.Update(ctx, existing, client.FieldOwner(m.fieldManager))
	return perrors.Wrapf(err, "failed to update network attachment definition %s", d.Name)
}

func (m *MultusService) pruneDefinitions(ctx context.Context, defs []Definition) error {
	l := &cniv1.NetworkAttachmentDefinitionList{}
	err := m.client.List(ctx, l,
		client.InNamespace(m.namespace),
		client.MatchingLabels{ManagedByLabel: m.statefulSet})
	if err != nil {
		return perrors.Wrap(err, "failed to list network attachment definitions")
	}
	wanted := lo.Map(defs, func(d Definition, _ int) string { return d.Name })
	for i := range l.Items {
		nad := &l.Items[i]
		if lo.Contains(wanted, nad.Name) {
			continue
		}
		m.log.Info("Deleting network attachment definition",
			"Namespace", nad.Namespace,
			"Name", nad.Name)
		err := m.client.Delete(ctx, nad)
		if client.IgnoreNotFound(err) != nil {
			return perrors.Wrapf(err, "failed to delete network attachment definition %s", nad.Name)
		}
	}
	return nil
}

func (m *MultusService) getDefinition(
	ctx context.Context, name string) (*cniv1.NetworkAttachmentDefinition, error) {
	// ---
	obj := &cniv1.NetworkAttachmentDefinition{}
	key := types.NamespacedName{Namespace: m.namespace, Name: name}
	err := m.client.Get(ctx, key, obj)
	if err == nil {
		return obj, nil
	}
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return nil, perrors.Wrapf(err, "failed to get network attachment definition %s", name)
}

func (m *MultusService) getStatefulSet(ctx context.Context) (*appsv1.StatefulSet, error) {
	sts := &appsv1.StatefulSet{}
	key := types.NamespacedName{Namespace: m.namespace, Name: m.statefulSet}
	err := m.client.Get(ctx, key, sts)
	if err == nil {
		return sts, nil
	}
	if errors.IsNotFound(err) {
		m.log.Info("StatefulSet not found", "StatefulSet.Name", m.statefulSet)
		return nil, nil
	}
	return nil, perrors.Wrapf(err, "failed to get statefulset %s", m.statefulSet)
}

func (m *MultusService) patchStatefulSet(ctx context.Context) error {
	sts, err := m.getStatefulSet(ctx)
	if err != nil || sts == nil {
		return err
	}
	changed := false
	if !m.annotationsApplied(sts) {
		b, err := json.Marshal(m.annotations)
		if err != nil {
			return err
		}
		if sts.Spec.Template.Annotations == nil {
			sts.Spec.Template.Annotations = map[string]string{}
		}
		sts.Spec.Template.Annotations[NetworksAnnotation] = string(b)
		changed = true
	}
	if !hasNetAdmin(sts, m.container) {
		changed = addNetAdmin(sts, m.container) || changed
	}
	if !changed {
		return nil
	}
	m.log.Info("Updating StatefulSet pod template for network attachments",
		"StatefulSet.Namespace", sts.Namespace,
		"StatefulSet.Name", sts.Name)
	err = m.client.Update(ctx, sts, client.FieldOwner(m.fieldManager))
	return perrors.Wrapf(err, "failed to update statefulset %s", sts.Name)
}

func (m *MultusService) annotationsApplied(sts *appsv1.StatefulSet) bool {
	raw, found := sts.Spec.Template.Annotations[NetworksAnnotation]
	if !found {
		return false
	}
	current := []Annotation{}
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return false
	}
	return cmp.Equal(current, m.annotations)
}

func (m *MultusService) newDefinitionObject(d Definition) *cniv1.NetworkAttachmentDefinition {
	return &cniv1.NetworkAttachmentDefinition{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.Name,
			Namespace: m.namespace,
			Labels: map[string]string{
				ManagedByLabel: m.statefulSet,
			},
		},
		Spec: cniv1.NetworkAttachmentDefinitionSpec{
			Config: d.Config,
		},
	}
}

// sameConfig compares two CNI configurations as JSON documents.
func sameConfig(a, b string) bool {
	var va, vb interface{}
	if err := json.Unmarshal([]byte(a), &va); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b), &vb); err != nil {
		return false
	}
	return cmp.Equal(va, vb)
}

func findContainer(sts *appsv1.StatefulSet, name string) *corev1.Container {
	for i := range sts.Spec.Template.Spec.Containers {
		if sts.Spec.Template.Spec.Containers[i].Name == name {
			return &sts.Spec.Template.Spec.Containers[i]
		}
	}
	return nil
}

func hasNetAdmin(sts *appsv1.StatefulSet, container string) bool {
	c := findContainer(sts, container)
	if c == nil {
		return false
	}
	if c.SecurityContext == nil || c.SecurityContext.Capabilities == nil {
		return false
	}
	return lo.Contains(c.SecurityContext.Capabilities.Add, netAdmin)
}

func addNetAdmin(sts *appsv1.StatefulSet, container string) bool {
	c := findContainer(sts, container)
	if c == nil {
		return false
	}
	if c.SecurityContext == nil {
		c.SecurityContext = &corev1.SecurityContext{}
	}
	if c.SecurityContext.Capabilities == nil {
		c.SecurityContext.Capabilities = &corev1.Capabilities{}
	}
	c.SecurityContext.Capabilities.Add = append(
		c.SecurityContext.Capabilities.Add, netAdmin)
	return true
}
