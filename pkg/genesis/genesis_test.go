package genesis_test

import (
	"context"
	"testing"

	"github.com/hashgraph/solo-sub009/internal/keys"
	"github.com/hashgraph/solo-sub009/pkg/genesis"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceMap(aliases ...string) map[string]genesis.ServiceEndpoint {
	out := map[string]genesis.ServiceEndpoint{}
	for i, alias := range aliases {
		out[alias] = genesis.ServiceEndpoint{Hostname: alias + ".svc.cluster.local", Port: 50211 + i}
	}
	return out
}

func TestBuildOrdersByAliasAndDerivesAdminKeysFromGenesis(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:    []string{"node2", "node1"},
		KeyManager:     keys.NewStubKeyManager(),
		ServiceByAlias: serviceMap("node1", "node2"),
		ClusterRef:     state.ClusterRef{Name: "cluster1", DNSConsensusNodePattern: "{{.NodeAlias}}.cluster1.local"},
		Weights:        map[string]int{"node1": 40, "node2": 60},
	}

	net, err := genesis.Build(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, net.NodeMetadata, 2)

	assert.Equal(t, 0, net.NodeMetadata[0].Node.NodeID)
	assert.Equal(t, "node1.cluster1.local", net.NodeMetadata[0].Node.GossipEndpoint)
	assert.Equal(t, 40, net.NodeMetadata[0].Node.Weight)
	assert.Equal(t, "stub-pubkey-node1", net.NodeMetadata[0].Node.AdminPublicKey)

	assert.Equal(t, 1, net.NodeMetadata[1].Node.NodeID)
	assert.Equal(t, 60, net.NodeMetadata[1].Node.Weight)
}

func TestBuildUsesSuppliedAdminPublicKeysWhenPresent(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:     []string{"node1"},
		KeyManager:      keys.NewStubKeyManager(),
		ServiceByAlias:  serviceMap("node1"),
		AdminPublicKeys: []string{"explicit-admin-key"},
		ClusterRef:      state.ClusterRef{DNSConsensusNodePattern: "{{.NodeAlias}}.local"},
	}

	net, err := genesis.Build(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "explicit-admin-key", net.NodeMetadata[0].Node.AdminPublicKey)
}

func TestBuildRejectsMismatchedAdminKeyCount(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:     []string{"node1", "node2"},
		KeyManager:      keys.NewStubKeyManager(),
		ServiceByAlias:  serviceMap("node1", "node2"),
		AdminPublicKeys: []string{"only-one"},
		ClusterRef:      state.ClusterRef{DNSConsensusNodePattern: "{{.NodeAlias}}.local"},
	}

	_, err := genesis.Build(context.Background(), in)
	require.Error(t, err)
}

func TestBuildRejectsMissingServiceEndpoint(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:    []string{"node1"},
		KeyManager:     keys.NewStubKeyManager(),
		ServiceByAlias: map[string]genesis.ServiceEndpoint{},
		ClusterRef:     state.ClusterRef{DNSConsensusNodePattern: "{{.NodeAlias}}.local"},
	}

	_, err := genesis.Build(context.Background(), in)
	require.Error(t, err)
}

func TestBuildSplitsUnweightedAliasesEvenly(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:    []string{"node1", "node2", "node3"},
		KeyManager:     keys.NewStubKeyManager(),
		ServiceByAlias: serviceMap("node1", "node2", "node3"),
		ClusterRef:     state.ClusterRef{DNSConsensusNodePattern: "{{.NodeAlias}}.local"},
	}

	net, err := genesis.Build(context.Background(), in)
	require.NoError(t, err)

	total := 0
	for _, entry := range net.NodeMetadata {
		total += entry.Node.Weight
	}
	assert.Equal(t, 100, total)
}

func TestBuildNodeOverridesEncodesOneEntryPerNode(t *testing.T) {
	in := genesis.BuildInput{
		NodeAliases:    []string{"node1", "node2"},
		KeyManager:     keys.NewStubKeyManager(),
		ServiceByAlias: serviceMap("node1", "node2"),
		ClusterRef:     state.ClusterRef{DNSConsensusNodePattern: "{{.NodeAlias}}.local"},
		Weights:        map[string]int{"node1": 50, "node2": 50},
	}
	net, err := genesis.Build(context.Background(), in)
	require.NoError(t, err)

	raw, err := genesis.BuildNodeOverrides(net, "0.0.0.0")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "interfaceBindings")
	assert.Contains(t, string(raw), "endpointOverrides")
}
