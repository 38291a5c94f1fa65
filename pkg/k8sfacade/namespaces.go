package k8sfacade

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NamespacesFacade is the minimum namespace surface Solo needs.
type NamespacesFacade struct{ f *Facade }

func (n *NamespacesFacade) Create(ctx context.Context, name string) (*corev1.Namespace, error) {
	if err := validateLabel("namespace", name); err != nil {
		return nil, err
	}
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
	created, err := n.f.clientSet.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	return created, wrapCreate("namespace", "", name, err)
}

func (n *NamespacesFacade) Get(ctx context.Context, name string) (*corev1.Namespace, error) {
	ns, err := n.f.clientSet.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
	return ns, wrapRead("namespace", "", name, err)
}

func (n *NamespacesFacade) Delete(ctx context.Context, name string) error {
	err := n.f.clientSet.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	return wrapDelete("namespace", "", name, err)
}

func (n *NamespacesFacade) List(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := n.f.clientSet.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("namespace", "", "", err)
	}
	return list.Items, nil
}
