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

package resources

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// AppNameLabel selects the pods of the application.
	AppNameLabel = "app.kubernetes.io/name"
	// GTPPort is the UDP port of the gNB's GTP-U interface.
	GTPPort = 4997

	gtpPortName = "gnb-gtp"
)

func externalServiceName(app string) string {
	return app + "-external"
}

func newExternalService(app, ns string) *corev1.Service {
	labels := map[string]string{AppNameLabel: app}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      externalServiceName(app),
			Namespace: ns,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Type: corev1.ServiceTypeLoadBalancer,
			Ports: []corev1.ServicePort{{
				Name:     gtpPortName,
				Protocol: corev1.ProtocolUDP,
				Port:     GTPPort,
			}},
			Selector: map[string]string{
				AppNameLabel: app,
			},
		},
	}
}
