package storage

import (
	"context"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// ConfigMapClient is the minimal cluster config-map surface the Cluster
// config-map backend needs. pkg/k8sfacade's ConfigMaps sub-facade
// satisfies this interface; storage does not import k8sfacade directly to
// avoid a package cycle (App wiring supplies the concrete client).
type ConfigMapClient interface {
	GetData(ctx context.Context, namespace, name string) (map[string]string, bool, error)
	PutData(ctx context.Context, namespace, name string, data map[string]string) error
	DeleteData(ctx context.Context, namespace, name string) error
	ListNames(ctx context.Context, namespace string) ([]string, error)
}

// ClusterConfigMapBackend reads/writes a named config-map in a known
// namespace+context; a single "data" entry carries the serialized blob.
type ClusterConfigMapBackend struct {
	client    ConfigMapClient
	namespace string
	dataKey   string
}

// NewClusterConfigMapBackend constructs a backend bound to namespace,
// storing its blob under dataKey (e.g. "remote.yaml") inside each
// config-map's data map. The backend's List/ReadBytes/WriteBytes/Delete
// "key" argument is the config-map name.
func NewClusterConfigMapBackend(client ConfigMapClient, namespace, dataKey string) *ClusterConfigMapBackend {
	return &ClusterConfigMapBackend{client: client, namespace: namespace, dataKey: dataKey}
}

func (b *ClusterConfigMapBackend) Name() string { return "cluster-configmap" }

func (b *ClusterConfigMapBackend) Capabilities() CapabilitySet {
	return CapabilitySet(CapList | CapReadBytes | CapWriteBytes | CapDelete)
}

func (b *ClusterConfigMapBackend) List(ctx context.Context) ([]string, error) {
	names, err := b.client.ListNames(ctx, b.namespace)
	if err != nil {
		return nil, soloerr.StorageBackend(b.Name(), err)
	}
	return names, nil
}

func (b *ClusterConfigMapBackend) ReadBytes(ctx context.Context, key string) ([]byte, error) {
	data, found, err := b.client.GetData(ctx, b.namespace, key)
	if err != nil {
		return nil, soloerr.StorageBackend(b.Name(), err)
	}
	if !found {
		return nil, soloerr.ResourceNotFound("configmap", b.namespace, key)
	}
	blob, ok := data[b.dataKey]
	if !ok || len(blob) == 0 {
		return nil, soloerr.StorageBackend(b.Name(), errEmptyContent(key))
	}
	return []byte(blob), nil
}

func (b *ClusterConfigMapBackend) WriteBytes(ctx context.Context, key string, data []byte) error {
	if err := b.client.PutData(ctx, b.namespace, key, map[string]string{b.dataKey: string(data)}); err != nil {
		return soloerr.StorageBackend(b.Name(), err)
	}
	return nil
}

func (b *ClusterConfigMapBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.DeleteData(ctx, b.namespace, key); err != nil {
		return soloerr.StorageBackend(b.Name(), err)
	}
	return nil
}
