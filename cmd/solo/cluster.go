package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/health"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Manage cluster references",
}

var clusterConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Record a cluster reference pointing at a kube context",
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _ := cmd.Flags().GetString("cluster-ref")
		kubeContext, _ := cmd.Flags().GetString("context")
		if ref == "" || kubeContext == "" {
			return soloerr.IllegalArgument("--cluster-ref and --context are both required")
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
		refs := local.ClusterRefs
		if refs == nil {
			refs = map[string]string{}
		}
		refs[ref] = kubeContext
		if err := app.Local.SetClusterRefs(ctx, refs); err != nil {
			return err
		}
		fmt.Printf("cluster-ref %q now points at context %q\n", ref, kubeContext)
		return nil
	},
}

var clusterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured cluster references",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		local, err := app.Local.Read(cmd.Context())
		if err != nil {
			return err
		}
		names := make([]string, 0, len(local.ClusterRefs))
		for name := range local.ClusterRefs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s -> %s\n", name, local.ClusterRefs[name])
		}
		return nil
	},
}

var clusterInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Probe every configured cluster reference for reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		local, err := app.Local.Read(ctx)
		if err != nil {
			return err
		}

		tracker := health.NewTracker()
		names := make([]string, 0, len(local.ClusterRefs))
		for name := range local.ClusterRefs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			kubeContext := local.ClusterRefs[name]
			facade, ferr := app.ClusterFacade(kubeContext)
			if ferr != nil {
				tracker.Record(kubeContext, ferr)
				continue
			}
			_, nerr := facade.Clusters.Nodes(ctx)
			tracker.Record(kubeContext, nerr)
		}

		for _, status := range tracker.Statuses() {
			if status.Ready {
				fmt.Printf("%s: reachable\n", status.Context)
			} else {
				fmt.Printf("%s: unreachable (%v)\n", status.Context, status.Err)
			}
		}
		if !tracker.AllReady() {
			return soloerr.KubeAPI(0, fmt.Errorf("one or more configured clusters are unreachable"))
		}
		return nil
	},
}

func init() {
	clusterConnectCmd.Flags().String("cluster-ref", "", "Cluster reference name to create or update")
	clusterConnectCmd.Flags().String("context", "", "Kube context the reference should point at")

	clusterCmd.AddCommand(clusterConnectCmd)
	clusterCmd.AddCommand(clusterListCmd)
	clusterCmd.AddCommand(clusterInfoCmd)
}
