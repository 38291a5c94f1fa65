// Package resolve implements Solo's Resolvers & Prompts (spec §4.J):
// deriving namespace/deployment/cluster references from configuration,
// prompting when interactive, failing fast when quiet or forced.
package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/state"
)

// Prompter is the interactive-prompt seam. cmd/solo supplies the real
// stdin prompt; tests supply a fixture.
type Prompter interface {
	PromptString(ctx context.Context, message string) (string, error)
}

// Flags carries the subset of shared CLI flags resolution needs (spec §6
// "Flags shared across commands").
type Flags struct {
	Deployment string
	Quiet      bool
	Force      bool
}

func (f Flags) interactive() bool {
	return !f.Quiet && !f.Force
}

// ResolveDeploymentName implements §4.J's four-step resolution rule.
func ResolveDeploymentName(ctx context.Context, flags Flags, local *state.LocalDocument, prompter Prompter) (string, error) {
	name := flags.Deployment

	if name == "" {
		if !flags.interactive() {
			return "", soloerr.IllegalArgument("deployment is required")
		}
		if prompter == nil {
			return "", soloerr.IllegalArgument("deployment is required")
		}
		prompted, err := prompter.PromptString(ctx, "Select a deployment")
		if err != nil {
			return "", err
		}
		name = prompted
	}

	if _, ok := local.Deployments[name]; !ok {
		return "", soloerr.IllegalArgument("deployment missing from deployments: %s", knownDeployments(local))
	}

	return name, nil
}

// ResolveNamespaceFromDeployment derives the namespace for the resolved
// deployment (spec §4.J).
func ResolveNamespaceFromDeployment(ctx context.Context, flags Flags, local *state.LocalDocument, prompter Prompter) (string, error) {
	name, err := ResolveDeploymentName(ctx, flags, local, prompter)
	if err != nil {
		return "", err
	}
	return local.Deployments[name].Namespace, nil
}

// ResolveClusterRef resolves a single cluster reference for the deployment,
// using the sole entry when exactly one is configured and prompting when
// more than one is; with more than one and a non-interactive session (or
// no prompter) it returns an IllegalArgument error.
func ResolveClusterRef(ctx context.Context, flags Flags, clusterRef string, local *state.LocalDocument, deploymentName string, prompter Prompter) (string, error) {
	if clusterRef != "" {
		return clusterRef, nil
	}

	dep, ok := local.Deployments[deploymentName]
	if !ok {
		return "", soloerr.IllegalArgument("deployment missing from deployments: %s", knownDeployments(local))
	}
	if len(dep.Clusters) == 0 {
		return "", soloerr.IllegalArgument("deployment %q has no configured clusters", deploymentName)
	}
	if len(dep.Clusters) == 1 {
		return dep.Clusters[0], nil
	}
	if !flags.interactive() || prompter == nil {
		return "", soloerr.IllegalArgument("cluster-ref is required: multiple clusters configured for deployment %q", deploymentName)
	}
	return prompter.PromptString(ctx, fmt.Sprintf("Select a cluster for deployment %q", deploymentName))
}

func knownDeployments(local *state.LocalDocument) string {
	names := make([]string, 0, len(local.Deployments))
	for name := range local.Deployments {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
