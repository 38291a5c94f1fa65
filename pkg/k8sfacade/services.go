package k8sfacade

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ServicesFacade is the minimum service surface Solo needs.
type ServicesFacade struct{ f *Facade }

func (s *ServicesFacade) Get(ctx context.Context, ref Ref) (*corev1.Service, error) {
	svc, err := s.f.clientSet.CoreV1().Services(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return svc, wrapRead("service", ref.Namespace, ref.Name, err)
}

func (s *ServicesFacade) List(ctx context.Context, namespace string) ([]corev1.Service, error) {
	list, err := s.f.clientSet.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("service", namespace, "", err)
	}
	return list.Items, nil
}

func (s *ServicesFacade) Create(ctx context.Context, namespace string, svc *corev1.Service) (*corev1.Service, error) {
	created, err := s.f.clientSet.CoreV1().Services(namespace).Create(ctx, svc, metav1.CreateOptions{})
	return created, wrapCreate("service", namespace, svc.Name, err)
}

func (s *ServicesFacade) Delete(ctx context.Context, ref Ref) error {
	err := s.f.clientSet.CoreV1().Services(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete("service", ref.Namespace, ref.Name, err)
}

// SecretsFacade is the minimum secret surface Solo needs.
type SecretsFacade struct{ f *Facade }

func (s *SecretsFacade) Get(ctx context.Context, ref Ref) (*corev1.Secret, error) {
	secret, err := s.f.clientSet.CoreV1().Secrets(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return secret, wrapRead("secret", ref.Namespace, ref.Name, err)
}

func (s *SecretsFacade) Create(ctx context.Context, namespace string, secret *corev1.Secret) (*corev1.Secret, error) {
	created, err := s.f.clientSet.CoreV1().Secrets(namespace).Create(ctx, secret, metav1.CreateOptions{})
	return created, wrapCreate("secret", namespace, secret.Name, err)
}

func (s *SecretsFacade) Update(ctx context.Context, namespace string, secret *corev1.Secret) (*corev1.Secret, error) {
	updated, err := s.f.clientSet.CoreV1().Secrets(namespace).Update(ctx, secret, metav1.UpdateOptions{})
	return updated, wrapUpdate("secret", namespace, secret.Name, err)
}

func (s *SecretsFacade) Delete(ctx context.Context, ref Ref) error {
	err := s.f.clientSet.CoreV1().Secrets(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete("secret", ref.Namespace, ref.Name, err)
}

// PVCsFacade is the minimum PersistentVolumeClaim surface Solo needs.
type PVCsFacade struct{ f *Facade }

func (p *PVCsFacade) Get(ctx context.Context, ref Ref) (*corev1.PersistentVolumeClaim, error) {
	pvc, err := p.f.clientSet.CoreV1().PersistentVolumeClaims(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return pvc, wrapRead("persistentvolumeclaim", ref.Namespace, ref.Name, err)
}

func (p *PVCsFacade) List(ctx context.Context, namespace string) ([]corev1.PersistentVolumeClaim, error) {
	list, err := p.f.clientSet.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("persistentvolumeclaim", namespace, "", err)
	}
	return list.Items, nil
}

func (p *PVCsFacade) Delete(ctx context.Context, ref Ref) error {
	err := p.f.clientSet.CoreV1().PersistentVolumeClaims(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete("persistentvolumeclaim", ref.Namespace, ref.Name, err)
}
