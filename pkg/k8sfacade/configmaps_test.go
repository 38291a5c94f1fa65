package k8sfacade_test

import (
	"context"
	"testing"

	"k8s.io/client-go/kubernetes/fake"

	"github.com/hashgraph/solo-sub009/pkg/k8sfacade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMapsFacadeGetDataNotFound(t *testing.T) {
	facade := k8sfacade.NewForTesting("test-ctx", fake.NewSimpleClientset(), nil)
	_, found, err := facade.ConfigMaps.GetData(context.Background(), "solo", "remote-state")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConfigMapsFacadePutThenGetData(t *testing.T) {
	facade := k8sfacade.NewForTesting("test-ctx", fake.NewSimpleClientset(), nil)
	ctx := context.Background()

	require.NoError(t, facade.ConfigMaps.PutData(ctx, "solo", "remote-state", map[string]string{"data": "payload-1"}))

	data, found, err := facade.ConfigMaps.GetData(ctx, "solo", "remote-state")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "payload-1", data["data"])

	require.NoError(t, facade.ConfigMaps.PutData(ctx, "solo", "remote-state", map[string]string{"data": "payload-2"}))
	data, found, err = facade.ConfigMaps.GetData(ctx, "solo", "remote-state")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "payload-2", data["data"])
}

func TestConfigMapsFacadeDeleteIsIdempotent(t *testing.T) {
	facade := k8sfacade.NewForTesting("test-ctx", fake.NewSimpleClientset(), nil)
	ctx := context.Background()
	require.NoError(t, facade.ConfigMaps.DeleteData(ctx, "solo", "does-not-exist"))
}

func TestConfigMapsFacadeListNames(t *testing.T) {
	facade := k8sfacade.NewForTesting("test-ctx", fake.NewSimpleClientset(), nil)
	ctx := context.Background()
	require.NoError(t, facade.ConfigMaps.PutData(ctx, "solo", "cm1", map[string]string{"data": "x"}))
	require.NoError(t, facade.ConfigMaps.PutData(ctx, "solo", "cm2", map[string]string{"data": "y"}))

	names, err := facade.ConfigMaps.ListNames(ctx, "solo")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cm1", "cm2"}, names)
}

func TestLeasesFacadeGetNotFound(t *testing.T) {
	facade := k8sfacade.NewForTesting("test-ctx", fake.NewSimpleClientset(), nil)
	_, found, err := facade.Leases.Get(context.Background(), "solo", "mydeploy")
	require.NoError(t, err)
	assert.False(t, found)
}
