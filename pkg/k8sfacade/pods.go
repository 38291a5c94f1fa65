package k8sfacade

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodsFacade is the minimum pod surface Solo needs: read/list plus the
// create/delete pair used by idempotent preflight probes (spec §4.F).
type PodsFacade struct{ f *Facade }

func (p *PodsFacade) Get(ctx context.Context, ref Ref) (*corev1.Pod, error) {
	pod, err := p.f.clientSet.CoreV1().Pods(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return pod, wrapRead("pod", ref.Namespace, ref.Name, err)
}

func (p *PodsFacade) List(ctx context.Context, namespace string, labelSelector string) ([]corev1.Pod, error) {
	list, err := p.f.clientSet.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return nil, wrapRead("pod", namespace, "", err)
	}
	return list.Items, nil
}

func (p *PodsFacade) Create(ctx context.Context, namespace string, pod *corev1.Pod) (*corev1.Pod, error) {
	created, err := p.f.clientSet.CoreV1().Pods(namespace).Create(ctx, pod, metav1.CreateOptions{})
	return created, wrapCreate("pod", namespace, pod.Name, err)
}

func (p *PodsFacade) Delete(ctx context.Context, ref Ref) error {
	err := p.f.clientSet.CoreV1().Pods(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete("pod", ref.Namespace, ref.Name, err)
}
