package storage_test

import (
	"context"
	"testing"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendCapabilities(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := storage.NewFileBackend(fs, "/home/.solo")
	ctx := context.Background()

	require.NoError(t, b.WriteBytes(ctx, "local-config.yaml", []byte("a: 1\n")))
	data, err := b.ReadBytes(ctx, "local-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	names, err := b.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "local-config.yaml")

	require.NoError(t, b.Delete(ctx, "local-config.yaml"))
	_, err = b.ReadBytes(ctx, "local-config.yaml")
	require.True(t, soloerr.Is(err, soloerr.KindResourceNotFound))
}

func TestFileBackendMissingKeyIsResourceNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := storage.NewFileBackend(fs, "/home/.solo")
	_, err := b.ReadBytes(context.Background(), "missing.yaml")
	require.True(t, soloerr.Is(err, soloerr.KindResourceNotFound))
}

func TestEnvBackendUnsupportedWrites(t *testing.T) {
	b := storage.NewEnvBackend("SOLO_")
	ctx := context.Background()

	err := b.WriteBytes(ctx, "HOME_DIR", []byte("x"))
	require.True(t, soloerr.Is(err, soloerr.KindUnsupportedOperation))

	err = b.Delete(ctx, "HOME_DIR")
	require.True(t, soloerr.Is(err, soloerr.KindUnsupportedOperation))
}

func TestCapabilityEnforcementForEveryBackend(t *testing.T) {
	fs := afero.NewMemMapFs()
	backends := []storage.Backend{
		storage.NewFileBackend(fs, "/home/.solo"),
		storage.NewEnvBackend(""),
	}
	ctx := context.Background()

	for _, b := range backends {
		caps := b.Capabilities()
		if !caps.Has(storage.CapWriteBytes) {
			err := b.WriteBytes(ctx, "k", []byte("v"))
			assert.True(t, soloerr.Is(err, soloerr.KindUnsupportedOperation), "backend %s should refuse WriteBytes", b.Name())
		}
		if !caps.Has(storage.CapDelete) {
			err := b.Delete(ctx, "k")
			assert.True(t, soloerr.Is(err, soloerr.KindUnsupportedOperation), "backend %s should refuse Delete", b.Name())
		}
	}
}

type fakeConfigMapClient struct {
	data map[string]map[string]string
}

func newFakeConfigMapClient() *fakeConfigMapClient {
	return &fakeConfigMapClient{data: map[string]map[string]string{}}
}

func (f *fakeConfigMapClient) GetData(ctx context.Context, namespace, name string) (map[string]string, bool, error) {
	d, ok := f.data[name]
	return d, ok, nil
}

func (f *fakeConfigMapClient) PutData(ctx context.Context, namespace, name string, data map[string]string) error {
	f.data[name] = data
	return nil
}

func (f *fakeConfigMapClient) DeleteData(ctx context.Context, namespace, name string) error {
	delete(f.data, name)
	return nil
}

func (f *fakeConfigMapClient) ListNames(ctx context.Context, namespace string) ([]string, error) {
	names := make([]string, 0, len(f.data))
	for k := range f.data {
		names = append(names, k)
	}
	return names, nil
}

func TestClusterConfigMapBackendRoundTrip(t *testing.T) {
	client := newFakeConfigMapClient()
	b := storage.NewClusterConfigMapBackend(client, "solo-ns", "remote.yaml")
	ctx := context.Background()

	require.NoError(t, b.WriteBytes(ctx, "deployment-a", []byte("schemaVersion: 1\n")))
	data, err := b.ReadBytes(ctx, "deployment-a")
	require.NoError(t, err)
	assert.Equal(t, "schemaVersion: 1\n", string(data))

	_, err = b.ReadBytes(ctx, "missing")
	require.True(t, soloerr.Is(err, soloerr.KindResourceNotFound))
}

type sampleDoc struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

func TestObjectBackendRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	ob := storage.NewObjectBackend(storage.NewFileBackend(fs, "/home/.solo"))
	ctx := context.Background()

	in := sampleDoc{Name: "a", Version: 2}
	require.NoError(t, ob.WriteObject(ctx, "doc.yaml", &in))

	var out sampleDoc
	require.NoError(t, ob.ReadObject(ctx, "doc.yaml", &out))
	assert.Equal(t, in, out)
}
