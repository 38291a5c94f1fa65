package orchestrator_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	coordinationv1 "k8s.io/api/coordination/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/hashgraph/solo-sub009/pkg/lease"
	"github.com/hashgraph/solo-sub009/pkg/orchestrator"
	"github.com/hashgraph/solo-sub009/pkg/resolve"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"github.com/hashgraph/solo-sub009/pkg/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLeaseClient is a minimal in-memory lease.Client double, grounded on
// pkg/lease's own test fixture.
type fakeLeaseClient struct {
	mu      sync.Mutex
	leases  map[string]*coordinationv1.Lease
	version int
}

func newFakeLeaseClient() *fakeLeaseClient {
	return &fakeLeaseClient{leases: map[string]*coordinationv1.Lease{}}
}

func leaseKey(namespace, name string) string { return namespace + "/" + name }

func (f *fakeLeaseClient) Get(ctx context.Context, namespace, name string) (*coordinationv1.Lease, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leases[leaseKey(namespace, name)]
	if !ok {
		return nil, false, nil
	}
	cp := *l
	return &cp, true, nil
}

func (f *fakeLeaseClient) Create(ctx context.Context, namespace string, l *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := leaseKey(namespace, l.Name)
	if _, exists := f.leases[k]; exists {
		return nil, apierrors.NewAlreadyExists(schema.GroupResource{Resource: "leases"}, l.Name)
	}
	f.version++
	l.ResourceVersion = itoaFake(f.version)
	f.leases[k] = l
	return l, nil
}

func (f *fakeLeaseClient) Replace(ctx context.Context, namespace string, l *coordinationv1.Lease) (*coordinationv1.Lease, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version++
	l.ResourceVersion = itoaFake(f.version)
	f.leases[leaseKey(namespace, l.Name)] = l
	return l, nil
}

func (f *fakeLeaseClient) Delete(ctx context.Context, namespace, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.leases, leaseKey(namespace, name))
	return nil
}

func itoaFake(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// TestNodeAddScenario implements spec §8's end-to-end scenario 6: given a
// deployment with two STARTED consensus nodes, "node add --node-aliases
// node3" leaves remote state with a third STARTED consensus node carrying
// the selected cluster, and a commandHistory entry beginning "node add".
func TestNodeAddScenario(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "remote"))
	leaseClient := newFakeLeaseClient()
	renewer := lease.NewRenewer()
	leaseManager := lease.NewManager(leaseClient, renewer)

	remote := state.NewRemoteState(backend, "mydeploy", leaseManager)

	const holder = "holder-a"
	_, err := leaseManager.Acquire(ctx, "solo", "mydeploy", holder, 20, 0, 0)
	require.NoError(t, err)

	seed := &state.RemoteDocument{
		Clusters: []state.ClusterRef{{Name: "cluster1"}},
		State: state.DeploymentState{
			ConsensusNodes: []state.Component{
				{ID: 1, Name: "node1", Cluster: "cluster1", Phase: state.PhaseStarted},
				{ID: 2, Name: "node2", Cluster: "cluster1", Phase: state.PhaseStarted},
			},
		},
	}
	require.NoError(t, remote.Save(ctx, seed, state.UpdatedBy{Name: holder}))

	local := &state.LocalDocument{
		Deployments: map[string]state.DeploymentConfig{
			"mydeploy": {Clusters: []string{"cluster1"}, Namespace: "solo"},
		},
		ClusterRefs: map[string]string{"cluster1": "kube-context-1"},
	}

	orch := orchestrator.New(leaseManager, holder, nil, nil)

	cmd := orchestrator.NewNodeAddCommand(orchestrator.NodeAddInput{
		Deployment:     "mydeploy",
		LeaseNamespace: "solo",
		NodeAliases:    []string{"node3"},
		Flags:          resolve.Flags{Deployment: "mydeploy", Quiet: true},
		Local:          local,
		RemoteFor:      func(string) *state.RemoteState { return remote },
	})

	argv := []string{"node", "add", "--node-aliases", "node3"}
	err = orch.Run(ctx, cmd, argv)
	require.NoError(t, err)

	final, err := remote.Load(ctx)
	require.NoError(t, err)
	require.Len(t, final.State.ConsensusNodes, 3)

	third := final.State.ConsensusNodes[2]
	assert.Equal(t, "node3", third.Name)
	assert.Equal(t, 3, third.ID)
	assert.Equal(t, state.PhaseStarted, third.Phase)
	assert.Equal(t, "cluster1", third.Cluster)

	require.NotEmpty(t, final.History.Commands)
	last := final.History.Commands[len(final.History.Commands)-1]
	assert.True(t, strings.HasPrefix(last, "node add"), "got %q", last)
	assert.Equal(t, last, final.History.LastExecutedCommand)
}

// TestNodeAddRecordsConsensusNodeChartVersion covers the DOMAIN STACK's
// version-parse-and-compare contract: a valid ChartVersion is recorded
// into remote state's versions.consensusNode field.
func TestNodeAddRecordsConsensusNodeChartVersion(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "remote"))
	leaseClient := newFakeLeaseClient()
	leaseManager := lease.NewManager(leaseClient, lease.NewRenewer())
	remote := state.NewRemoteState(backend, "mydeploy", leaseManager)

	const holder = "holder-a"
	_, err := leaseManager.Acquire(ctx, "solo", "mydeploy", holder, 20, 0, 0)
	require.NoError(t, err)

	seed := &state.RemoteDocument{
		Clusters: []state.ClusterRef{{Name: "cluster1"}},
		Versions: state.Versions{ConsensusNode: "0.60.0"},
	}
	require.NoError(t, remote.Save(ctx, seed, state.UpdatedBy{Name: holder}))

	local := &state.LocalDocument{
		Deployments: map[string]state.DeploymentConfig{
			"mydeploy": {Clusters: []string{"cluster1"}, Namespace: "solo"},
		},
		ClusterRefs: map[string]string{"cluster1": "kube-context-1"},
	}

	orch := orchestrator.New(leaseManager, holder, nil, nil)
	cmd := orchestrator.NewNodeAddCommand(orchestrator.NodeAddInput{
		Deployment:     "mydeploy",
		LeaseNamespace: "solo",
		NodeAliases:    []string{"node3"},
		Flags:          resolve.Flags{Deployment: "mydeploy", Quiet: true},
		Local:          local,
		RemoteFor:      func(string) *state.RemoteState { return remote },
		ChartVersion:   "0.61.0",
	})

	require.NoError(t, orch.Run(ctx, cmd, []string{"node", "add", "--node-aliases", "node3"}))

	final, err := remote.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.61.0", final.Versions.ConsensusNode)
}

// TestNodeAddRejectsChartVersionDowngrade: an older ChartVersion than the
// one already recorded aborts the command without mutating state.
func TestNodeAddRejectsChartVersionDowngrade(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "remote"))
	leaseClient := newFakeLeaseClient()
	leaseManager := lease.NewManager(leaseClient, lease.NewRenewer())
	remote := state.NewRemoteState(backend, "mydeploy", leaseManager)

	const holder = "holder-a"
	_, err := leaseManager.Acquire(ctx, "solo", "mydeploy", holder, 20, 0, 0)
	require.NoError(t, err)

	seed := &state.RemoteDocument{
		Clusters: []state.ClusterRef{{Name: "cluster1"}},
		Versions: state.Versions{ConsensusNode: "0.60.0"},
	}
	require.NoError(t, remote.Save(ctx, seed, state.UpdatedBy{Name: holder}))

	local := &state.LocalDocument{
		Deployments: map[string]state.DeploymentConfig{
			"mydeploy": {Clusters: []string{"cluster1"}, Namespace: "solo"},
		},
		ClusterRefs: map[string]string{"cluster1": "kube-context-1"},
	}

	orch := orchestrator.New(leaseManager, holder, nil, nil)
	cmd := orchestrator.NewNodeAddCommand(orchestrator.NodeAddInput{
		Deployment:     "mydeploy",
		LeaseNamespace: "solo",
		NodeAliases:    []string{"node3"},
		Flags:          resolve.Flags{Deployment: "mydeploy", Quiet: true},
		Local:          local,
		RemoteFor:      func(string) *state.RemoteState { return remote },
		ChartVersion:   "0.59.0",
	})

	err = orch.Run(ctx, cmd, []string{"node", "add", "--node-aliases", "node3"})
	require.Error(t, err)

	final, err := remote.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.60.0", final.Versions.ConsensusNode)
	assert.Empty(t, final.State.ConsensusNodes)
}

// TestNodeAddPreparationFailureReleasesLeaseWithoutMutating covers spec
// §4.I's "Preparation failure" semantics: an unresolvable deployment
// leaves remote state untouched and still releases the lease.
func TestNodeAddPreparationFailureReleasesLeaseWithoutMutating(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()
	backend := storage.NewObjectBackend(storage.NewFileBackend(fs, "remote"))
	leaseClient := newFakeLeaseClient()
	renewer := lease.NewRenewer()
	leaseManager := lease.NewManager(leaseClient, renewer)
	remote := state.NewRemoteState(backend, "mydeploy", leaseManager)

	const holder = "holder-a"
	_, err := leaseManager.Acquire(ctx, "solo", "mydeploy", holder, 20, 0, 0)
	require.NoError(t, err)

	seed := &state.RemoteDocument{Clusters: []state.ClusterRef{{Name: "cluster1"}}}
	require.NoError(t, remote.Save(ctx, seed, state.UpdatedBy{Name: holder}))

	orch := orchestrator.New(leaseManager, holder, nil, nil)

	local := &state.LocalDocument{Deployments: map[string]state.DeploymentConfig{}}
	cmd := orchestrator.NewNodeAddCommand(orchestrator.NodeAddInput{
		Deployment:     "mydeploy",
		LeaseNamespace: "solo",
		NodeAliases:    []string{"node3"},
		Flags:          resolve.Flags{Deployment: "mydeploy", Quiet: true},
		Local:          local,
		RemoteFor:      func(string) *state.RemoteState { return remote },
	})

	err = orch.Run(ctx, cmd, []string{"node", "add"})
	require.Error(t, err)

	held, err := leaseManager.IsHeldBy(ctx, "mydeploy", holder)
	require.NoError(t, err)
	assert.False(t, held, "lease must be released on preparation failure")

	reloaded, err := remote.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded.State.ConsensusNodes)
}
