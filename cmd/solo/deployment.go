package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/state"
)

var deploymentCmd = &cobra.Command{
	Use:   "deployment",
	Short: "Manage deployments",
}

var deploymentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new deployment against one or more cluster references",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("deployment")
		namespace, _ := cmd.Flags().GetString("namespace")
		clusters, _ := cmd.Flags().GetStringSlice("clusters")
		if name == "" || namespace == "" || len(clusters) == 0 {
			return soloerr.IllegalArgument("--deployment, --namespace, and at least one --clusters entry are required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		local, err := app.Local.Read(ctx)
		if err != nil {
			return err
		}
		for _, ref := range clusters {
			if _, ok := local.ClusterRefs[ref]; !ok {
				return soloerr.IllegalArgument("cluster-ref %q is not connected; run \"cluster connect\" first", ref)
			}
		}

		deployments := local.Deployments
		if deployments == nil {
			deployments = map[string]state.DeploymentConfig{}
		}
		if _, exists := deployments[name]; exists {
			return soloerr.IllegalState("deployment %q already exists", name)
		}
		deployments[name] = state.DeploymentConfig{Clusters: clusters, Namespace: namespace}
		if err := app.Local.SetDeployments(ctx, deployments); err != nil {
			return err
		}
		fmt.Printf("deployment %q created in namespace %q across clusters %v\n", name, namespace, clusters)
		return nil
	},
}

var deploymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured deployments",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		local, err := app.Local.Read(cmd.Context())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(local.Deployments))
		for name := range local.Deployments {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dep := local.Deployments[name]
			fmt.Printf("%s  namespace=%s  clusters=%v\n", name, dep.Namespace, dep.Clusters)
		}
		return nil
	},
}

func init() {
	deploymentCreateCmd.Flags().String("deployment", "", "Deployment name")
	deploymentCreateCmd.Flags().String("namespace", "", "Kubernetes namespace the deployment runs in")
	deploymentCreateCmd.Flags().StringSlice("clusters", nil, "Cluster references this deployment spans")

	deploymentCmd.AddCommand(deploymentCreateCmd)
	deploymentCmd.AddCommand(deploymentListCmd)
}
