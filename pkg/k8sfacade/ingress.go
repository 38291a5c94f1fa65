package k8sfacade

import (
	"context"

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// IngressesFacade is the minimum Ingress surface Solo needs.
type IngressesFacade struct{ f *Facade }

func (i *IngressesFacade) Get(ctx context.Context, ref Ref) (*networkingv1.Ingress, error) {
	ing, err := i.f.clientSet.NetworkingV1().Ingresses(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return ing, wrapRead("ingress", ref.Namespace, ref.Name, err)
}

func (i *IngressesFacade) List(ctx context.Context, namespace string) ([]networkingv1.Ingress, error) {
	list, err := i.f.clientSet.NetworkingV1().Ingresses(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("ingress", namespace, "", err)
	}
	return list.Items, nil
}

func (i *IngressesFacade) Create(ctx context.Context, namespace string, ing *networkingv1.Ingress) (*networkingv1.Ingress, error) {
	created, err := i.f.clientSet.NetworkingV1().Ingresses(namespace).Create(ctx, ing, metav1.CreateOptions{})
	return created, wrapCreate("ingress", namespace, ing.Name, err)
}

func (i *IngressesFacade) Delete(ctx context.Context, ref Ref) error {
	err := i.f.clientSet.NetworkingV1().Ingresses(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete("ingress", ref.Namespace, ref.Name, err)
}

// IngressClassesFacade is the minimum IngressClass surface Solo needs
// (cluster-scoped, so it takes bare names rather than Refs).
type IngressClassesFacade struct{ f *Facade }

func (i *IngressClassesFacade) Get(ctx context.Context, name string) (*networkingv1.IngressClass, error) {
	class, err := i.f.clientSet.NetworkingV1().IngressClasses().Get(ctx, name, metav1.GetOptions{})
	return class, wrapRead("ingressclass", "", name, err)
}

func (i *IngressClassesFacade) List(ctx context.Context) ([]networkingv1.IngressClass, error) {
	list, err := i.f.clientSet.NetworkingV1().IngressClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("ingressclass", "", "", err)
	}
	return list.Items, nil
}
