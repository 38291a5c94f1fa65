package k8sfacade

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/rest"
)

// ClustersFacade surfaces cluster-level node inventory — the closest
// client-go analog to "cluster" in a context without a dedicated Cluster
// API object (the teacher's resourceMap maps "cluster" to the node
// resource for the same reason).
type ClustersFacade struct{ f *Facade }

func (c *ClustersFacade) Nodes(ctx context.Context) ([]corev1.Node, error) {
	list, err := c.f.clientSet.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead("node", "", "", err)
	}
	return list.Items, nil
}

// ContainersFacade exposes container-scoped operations (logs, exec) that
// key off a ContainerRef rather than a bare Ref.
type ContainersFacade struct{ f *Facade }

// Logs returns the raw container log stream request for ref — callers
// call Stream(ctx) or DoRaw(ctx) on it, mirroring client-go's REST-request
// idiom.
func (c *ContainersFacade) Logs(ref ContainerRef, opts *corev1.PodLogOptions) *rest.Request {
	if opts == nil {
		opts = &corev1.PodLogOptions{}
	}
	opts.Container = ref.Name
	return c.f.clientSet.CoreV1().Pods(ref.ParentRef.Namespace).GetLogs(ref.ParentRef.Name, opts)
}
