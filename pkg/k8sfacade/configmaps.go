package k8sfacade

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigMapsFacade is the config-map sub-facade. It satisfies
// pkg/storage.ConfigMapClient, making it the Cluster config-map backend's
// production client (spec §4.B).
type ConfigMapsFacade struct{ f *Facade }

// GetData returns a config-map's data map, or found=false if it does not
// exist.
func (c *ConfigMapsFacade) GetData(ctx context.Context, namespace, name string) (map[string]string, bool, error) {
	cm, err := c.f.clientSet.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapRead("configmap", namespace, name, err)
	}
	return cm.Data, true, nil
}

// PutData creates the config-map if absent, else replaces its data.
func (c *ConfigMapsFacade) PutData(ctx context.Context, namespace, name string, data map[string]string) error {
	client := c.f.clientSet.CoreV1().ConfigMaps(namespace)
	existing, err := client.Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
			Data:       data,
		}
		_, createErr := client.Create(ctx, cm, metav1.CreateOptions{})
		return wrapCreate("configmap", namespace, name, createErr)
	}
	if err != nil {
		return wrapRead("configmap", namespace, name, err)
	}
	existing.Data = data
	_, err = client.Update(ctx, existing, metav1.UpdateOptions{})
	return wrapUpdate("configmap", namespace, name, err)
}

// DeleteData deletes the config-map, ignoring not-found.
func (c *ConfigMapsFacade) DeleteData(ctx context.Context, namespace, name string) error {
	err := c.f.clientSet.CoreV1().ConfigMaps(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	return wrapDelete("configmap", namespace, name, err)
}

// ListNames lists config-map names in namespace.
func (c *ConfigMapsFacade) ListNames(ctx context.Context, namespace string) ([]string, error) {
	list, err := c.f.clientSet.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("configmap", namespace, "", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, cm := range list.Items {
		names = append(names, cm.Name)
	}
	return names, nil
}
