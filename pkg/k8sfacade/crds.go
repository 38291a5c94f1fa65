package k8sfacade

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// crdResourceMap names the custom-resource kinds Solo drives (block nodes,
// mirror nodes) by their GroupVersionResource, the same dispatch-table
// shape the teacher's utils.go uses for its resourceMap.
var crdResourceMap = map[string]schema.GroupVersionResource{
	"blocknode":  {Group: "solo.hedera.com", Version: "v1alpha1", Resource: "blocknodes"},
	"mirrornode": {Group: "solo.hedera.com", Version: "v1alpha1", Resource: "mirrornodes"},
}

// CRDsFacade drives arbitrary custom resources via the dynamic client.
type CRDsFacade struct{ f *Facade }

func gvrFor(kind string) (schema.GroupVersionResource, error) {
	gvr, ok := crdResourceMap[kind]
	if !ok {
		return schema.GroupVersionResource{}, soloerr.IllegalArgument("unknown custom resource kind %q", kind)
	}
	return gvr, nil
}

func (c *CRDsFacade) Get(ctx context.Context, kind string, ref Ref) (*unstructured.Unstructured, error) {
	gvr, err := gvrFor(kind)
	if err != nil {
		return nil, err
	}
	obj, err := c.f.dynamicClient.Resource(gvr).Namespace(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	return obj, wrapRead(kind, ref.Namespace, ref.Name, err)
}

func (c *CRDsFacade) Create(ctx context.Context, kind, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	gvr, err := gvrFor(kind)
	if err != nil {
		return nil, err
	}
	created, err := c.f.dynamicClient.Resource(gvr).Namespace(namespace).Create(ctx, obj, metav1.CreateOptions{})
	return created, wrapCreate(kind, namespace, obj.GetName(), err)
}

func (c *CRDsFacade) Update(ctx context.Context, kind, namespace string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	gvr, err := gvrFor(kind)
	if err != nil {
		return nil, err
	}
	updated, err := c.f.dynamicClient.Resource(gvr).Namespace(namespace).Update(ctx, obj, metav1.UpdateOptions{})
	return updated, wrapUpdate(kind, namespace, obj.GetName(), err)
}

func (c *CRDsFacade) Delete(ctx context.Context, kind string, ref Ref) error {
	gvr, err := gvrFor(kind)
	if err != nil {
		return err
	}
	err = c.f.dynamicClient.Resource(gvr).Namespace(ref.Namespace).Delete(ctx, ref.Name, metav1.DeleteOptions{})
	return wrapDelete(kind, ref.Namespace, ref.Name, err)
}

func (c *CRDsFacade) List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	gvr, err := gvrFor(kind)
	if err != nil {
		return nil, err
	}
	list, err := c.f.dynamicClient.Resource(gvr).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, wrapRead(kind, namespace, "", err)
	}
	return list.Items, nil
}
