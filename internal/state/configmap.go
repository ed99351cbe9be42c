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

package state

import (
	"context"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ConfigMapStore keeps state in the data of a single ConfigMap.
type ConfigMapStore struct {
	client       client.Client
	key          types.NamespacedName
	fieldManager string
	log          logr.Logger
}

// NewConfigMapStore creates a ConfigMapStore backed by the named
// ConfigMap. The ConfigMap is created on first write.
func NewConfigMapStore(
	cl client.Client, name, ns, fieldManager string, log logr.Logger) *ConfigMapStore {
	// ---
	return &ConfigMapStore{
		client:       cl,
		key:          types.NamespacedName{Name: name, Namespace: ns},
		fieldManager: fieldManager,
		log:          log,
	}
}

// Get returns the value stored under key.
func (s *ConfigMapStore) Get(ctx context.Context, key string) (string, bool, error) {
	cm, err := s.getConfigMap(ctx)
	if err != nil || cm == nil {
		return "", false, err
	}
	v, found := cm.Data[key]
	return v, found, nil
}

// Set stores value under key.
func (s *ConfigMapStore) Set(ctx context.Context, key, value string) error {
	cm, created, err := s.getOrCreateConfigMap(ctx)
	if err != nil {
		return err
	}
	if !created && cm.Data[key] == value {
		return nil
	}
	if cm.Data == nil {
		cm.Data = map[string]string{}
	}
	cm.Data[key] = value
	if err := s.client.Update(ctx, cm, client.FieldOwner(s.fieldManager)); err != nil {
		s.log.Error(err, "failed to update state config map",
			"ConfigMap.Namespace", cm.Namespace,
			"ConfigMap.Name", cm.Name)
		return err
	}
	return nil
}

func (s *ConfigMapStore) getConfigMap(ctx context.Context) (*corev1.ConfigMap, error) {
	cm := &corev1.ConfigMap{}
	err := s.client.Get(ctx, s.key, cm)
	if err == nil {
		return cm, nil
	}
	if errors.IsNotFound(err) {
		return nil, nil
	}
	s.log.Error(err, "failed to get state config map",
		"ConfigMap.Namespace", s.key.Namespace,
		"ConfigMap.Name", s.key.Name)
	return nil, err
}

func (s *ConfigMapStore) getOrCreateConfigMap(
	ctx context.Context) (*corev1.ConfigMap, bool, error) {
	// ---
	cm, err := s.getConfigMap(ctx)
	if err != nil {
		return nil, false, err
	}
	if cm != nil {
		return cm, false, nil
	}
	cm = &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.key.Name,
			Namespace: s.key.Namespace,
		},
		Data: map[string]string{},
	}
	s.log.Info("Creating state config map",
		"ConfigMap.Namespace", cm.Namespace,
		"ConfigMap.Name", cm.Name)
	if err := s.client.Create(ctx, cm, client.FieldOwner(s.fieldManager)); err != nil {
		s.log.Error(err, "failed to create state config map",
			"ConfigMap.Namespace", cm.Namespace,
			"ConfigMap.Name", cm.Name)
		return nil, false, err
	}
	return cm, true, nil
}
