package orchestrator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashgraph/solo-sub009/internal/helmexec"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/resolve"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"github.com/hashgraph/solo-sub009/pkg/tasks"
)

// aliasIndexPattern extracts the trailing digits of a consensus node
// alias (glossary: "a short name (e.g. node1) whose index is derived by
// parsing the trailing digits" — distinct from §3's "<base>-<index>"
// deterministic component-name form that state.ParseComponentIndex
// parses).
var aliasIndexPattern = regexp.MustCompile(`(\d+)$`)

// ParseAliasIndex extracts the numeric suffix of a consensus node alias
// such as "node3" -> 3.
func ParseAliasIndex(alias string) (int, error) {
	m := aliasIndexPattern.FindStringSubmatch(alias)
	if m == nil {
		return 0, soloerr.IllegalArgument("node alias %q has no trailing numeric index", alias)
	}
	var idx int
	if _, err := fmt.Sscanf(m[1], "%d", &idx); err != nil {
		return 0, soloerr.IllegalArgument("node alias %q has a malformed numeric index", alias)
	}
	return idx, nil
}

// NodeAddInput bundles NodeAdd's per-invocation parameters.
type NodeAddInput struct {
	Deployment     string
	LeaseNamespace string
	NodeAliases    []string
	Flags          resolve.Flags
	ClusterRefFlag string
	Local          *state.LocalDocument
	Prompter       resolve.Prompter
	RemoteFor      func(deployment string) *state.RemoteState
	Helm           helmexec.Client
	ChartPath      string
	ChartValues    map[string]any
	// ChartVersion is the consensus-node chart version being installed;
	// empty skips the version-upgrade check (e.g. local chart paths with
	// no published version).
	ChartVersion string
}

// NewNodeAddCommand builds the "node add" Command (spec §4.I, end-to-end
// scenario §8.6): adds one consensus node per alias in in.NodeAliases,
// each landing at phase STARTED with a deterministic id parsed from its
// alias, attributed to the resolved cluster.
func NewNodeAddCommand(in NodeAddInput) Command {
	return Command{
		Path:           "node add",
		DeploymentName: in.Deployment,
		LeaseNamespace: in.LeaseNamespace,
		RequiresLease:  true,

		Init: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			namespace, err := resolve.ResolveNamespaceFromDeployment(ctx, in.Flags, in.Local, in.Prompter)
			if err != nil {
				return nil, err
			}
			remote := in.RemoteFor(in.Deployment)
			doc, err := remote.Load(ctx)
			if err != nil {
				return nil, err
			}
			PutRemoteState(tctx, remote, doc)
			tctx["namespace"] = namespace
			return nil, nil
		},

		Prepare: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			doc, _ := RemoteDoc(tctx)
			clusterRef, err := resolve.ResolveClusterRef(ctx, in.Flags, in.ClusterRefFlag, in.Local, in.Deployment, in.Prompter)
			if err != nil {
				return nil, err
			}
			namespace, _ := tctx["namespace"].(string)

			newComponents := make([]state.Component, 0, len(in.NodeAliases))
			for _, alias := range in.NodeAliases {
				idx, err := ParseAliasIndex(alias)
				if err != nil {
					return nil, err
				}
				newComponents = append(newComponents, state.Component{
					ID:        idx,
					Name:      alias,
					Cluster:   clusterRef,
					Namespace: namespace,
					Phase:     state.PhaseRequested,
					NodeID:    &idx,
				})
			}
			tctx["newComponents"] = newComponents
			_ = doc
			return nil, nil
		},

		Mutate: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			doc, _ := RemoteDoc(tctx)
			if in.ChartVersion != "" {
				version, err := state.ApplyVersionUpgrade(doc.Versions.ConsensusNode, in.ChartVersion)
				if err != nil {
					return nil, err
				}
				doc.Versions.ConsensusNode = version
			}
			components, _ := tctx["newComponents"].([]state.Component)
			for _, comp := range components {
				if err := state.AddComponent(doc, "consensusNode", comp); err != nil {
					return nil, err
				}
				if in.Helm != nil {
					if _, err := in.Helm.Upgrade(ctx, comp.Namespace, comp.Name, in.ChartPath, in.ChartValues); err != nil {
						return nil, err
					}
				}
			}
			return nil, nil
		},

		Verify: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			doc, _ := RemoteDoc(tctx)
			components, _ := tctx["newComponents"].([]state.Component)
			for _, comp := range components {
				if err := state.ChangePhase(doc, "consensusNode", comp.Name, state.PhaseDeployed); err != nil {
					return nil, err
				}
				if err := state.ChangePhase(doc, "consensusNode", comp.Name, state.PhaseConfigured); err != nil {
					return nil, err
				}
				if err := state.ChangePhase(doc, "consensusNode", comp.Name, state.PhaseStarted); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	}
}

// NodeDeleteInput bundles NodeDelete's per-invocation parameters.
type NodeDeleteInput struct {
	Deployment     string
	LeaseNamespace string
	Namespace      string
	NodeAlias      string
	RemoteFor      func(deployment string) *state.RemoteState
	Helm           helmexec.Client
}

// NewNodeDeleteCommand builds the "node delete" Command: removes the
// named consensus node from the active list while its history entry is
// preserved in commandHistory (spec §3 "Ownership & lifecycle").
func NewNodeDeleteCommand(in NodeDeleteInput) Command {
	return Command{
		Path:           "node delete",
		DeploymentName: in.Deployment,
		LeaseNamespace: in.LeaseNamespace,
		RequiresLease:  true,

		Init: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			remote := in.RemoteFor(in.Deployment)
			doc, err := remote.Load(ctx)
			if err != nil {
				return nil, err
			}
			PutRemoteState(tctx, remote, doc)
			return nil, nil
		},

		Mutate: func(ctx context.Context, tctx tasks.Context) (*tasks.List, error) {
			doc, _ := RemoteDoc(tctx)
			if in.Helm != nil {
				if err := in.Helm.Uninstall(ctx, in.Namespace, in.NodeAlias); err != nil {
					return nil, err
				}
			}
			if err := state.RemoveComponent(doc, "consensusNode", in.NodeAlias); err != nil {
				return nil, err
			}
			return nil, nil
		},
	}
}
