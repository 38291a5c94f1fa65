package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashgraph/solo-sub009/internal/helmexec"
	"github.com/hashgraph/solo-sub009/pkg/orchestrator"
	"github.com/hashgraph/solo-sub009/pkg/resolve"
	"github.com/hashgraph/solo-sub009/pkg/state"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage consensus nodes within a deployment",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one or more consensus nodes to a deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		aliases, err := cmd.Flags().GetStringSlice("node-aliases")
		if err != nil {
			return err
		}
		chartPath, _ := cmd.Flags().GetString("chart-path")
		chartVersion, _ := cmd.Flags().GetString("chart-version")

		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		flags := rootFlags()

		local, err := app.Local.Read(ctx)
		if err != nil {
			return err
		}

		deploymentName, err := resolve.ResolveDeploymentName(ctx, flags, local, stdinPrompter{})
		if err != nil {
			return err
		}
		namespace, err := resolve.ResolveNamespaceFromDeployment(ctx, flags, local, stdinPrompter{})
		if err != nil {
			return err
		}
		clusterRef, err := resolve.ResolveClusterRef(ctx, flags, viper.GetString("cluster-ref"), local, deploymentName, stdinPrompter{})
		if err != nil {
			return err
		}
		kubeContext, ok := local.ClusterRefs[clusterRef]
		if !ok {
			kubeContext = clusterRef
		}

		facade, err := app.ClusterFacade(kubeContext)
		if err != nil {
			return err
		}
		orch, manager := app.OrchestratorFor(facade.Leases)
		remote := app.RemoteStateWithLease(deploymentName, manager)

		nodeCommand := orchestrator.NewNodeAddCommand(orchestrator.NodeAddInput{
			Deployment:     deploymentName,
			LeaseNamespace: namespace,
			NodeAliases:    aliases,
			Flags:          flags,
			ClusterRefFlag: clusterRef,
			Local:          local,
			Prompter:       stdinPrompter{},
			RemoteFor:      func(string) *state.RemoteState { return remote },
			Helm:           helmexec.NewRealClient(kubeContext),
			ChartPath:      chartPath,
			ChartVersion:   chartVersion,
		})

		argv := append([]string{"node", "add"}, args...)
		return withLeaseShutdown(ctx, manager, func(ctx context.Context) error {
			return orch.Run(ctx, nodeCommand, argv)
		})
	},
}

var nodeDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a consensus node from a deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		alias, err := cmd.Flags().GetString("node-alias")
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		flags := rootFlags()

		local, err := app.Local.Read(ctx)
		if err != nil {
			return err
		}

		deploymentName, err := resolve.ResolveDeploymentName(ctx, flags, local, stdinPrompter{})
		if err != nil {
			return err
		}
		namespace, err := resolve.ResolveNamespaceFromDeployment(ctx, flags, local, stdinPrompter{})
		if err != nil {
			return err
		}
		clusterRef, err := resolve.ResolveClusterRef(ctx, flags, viper.GetString("cluster-ref"), local, deploymentName, stdinPrompter{})
		if err != nil {
			return err
		}
		kubeContext, ok := local.ClusterRefs[clusterRef]
		if !ok {
			kubeContext = clusterRef
		}

		facade, err := app.ClusterFacade(kubeContext)
		if err != nil {
			return err
		}
		orch, manager := app.OrchestratorFor(facade.Leases)
		remote := app.RemoteStateWithLease(deploymentName, manager)

		nodeCommand := orchestrator.NewNodeDeleteCommand(orchestrator.NodeDeleteInput{
			Deployment:     deploymentName,
			LeaseNamespace: namespace,
			Namespace:      namespace,
			NodeAlias:      alias,
			RemoteFor:      func(string) *state.RemoteState { return remote },
			Helm:           helmexec.NewRealClient(kubeContext),
		})

		argv := append([]string{"node", "delete"}, args...)
		return withLeaseShutdown(ctx, manager, func(ctx context.Context) error {
			return orch.Run(ctx, nodeCommand, argv)
		})
	},
}

func init() {
	nodeAddCmd.Flags().StringSlice("node-aliases", nil, "Comma-separated consensus node aliases to add, e.g. node3,node4")
	nodeAddCmd.Flags().String("chart-path", "", "Path to the consensus node Helm chart")
	nodeAddCmd.Flags().String("chart-version", "", "Consensus node chart version being installed; rejected if older than the deployment's recorded version")
	_ = nodeAddCmd.MarkFlagRequired("node-aliases")

	nodeDeleteCmd.Flags().String("node-alias", "", "Consensus node alias to delete")
	_ = nodeDeleteCmd.MarkFlagRequired("node-alias")

	nodeCmd.AddCommand(nodeAddCmd)
	nodeCmd.AddCommand(nodeDeleteCmd)
}
