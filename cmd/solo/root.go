package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"

	"github.com/hashgraph/solo-sub009/pkg/lease"
	"github.com/hashgraph/solo-sub009/pkg/resolve"
	"github.com/hashgraph/solo-sub009/pkg/solo"
	"github.com/hashgraph/solo-sub009/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:     version.BinaryName,
	Short:   "Manage a consensus ledger deployment across one or more Kubernetes clusters",
	Version: version.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().String("solo-home", defaultSoloHome(), "Directory local-config.yaml and cached remote state are stored under")
	rootCmd.PersistentFlags().String("kubeconfig", "", "Path to the kubeconfig file (defaults to client-go's standard loading rules)")
	rootCmd.PersistentFlags().StringP("deployment", "d", "", "Deployment name")
	rootCmd.PersistentFlags().String("cluster-ref", "", "Cluster reference, when a deployment spans more than one cluster")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Fail instead of prompting for missing values")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmation prompts, assuming yes")
	rootCmd.PersistentFlags().IntP("log-level", "", 0, "klog verbosity (0-9)")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(deploymentCmd)
}

// Execute runs the CLI; the sole entrypoint from main().
func Execute() error {
	return rootCmd.Execute()
}

func defaultSoloHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.solo"
	}
	return ".solo"
}

func initLogging() {
	level := viper.GetInt("log-level")
	config := textlogger.NewConfig(
		textlogger.Output(os.Stderr),
		textlogger.Verbosity(level),
	)
	klog.SetLoggerWithOptions(textlogger.NewLogger(config))

	flagSet := flag.NewFlagSet(version.BinaryName, flag.ContinueOnError)
	klog.InitFlags(flagSet)
	if err := flagSet.Parse([]string{"--v", strconv.Itoa(level)}); err != nil {
		fmt.Fprintf(os.Stderr, "parsing log level: %v\n", err)
	}
}

// newApp wires an App over the real filesystem, without a lease client:
// commands that never mutate remote state (init, cluster list) use it
// as-is; commands that do resolve a cluster first and call
// app.OrchestratorFor with that cluster's LeasesFacade.
func newApp() (*solo.App, error) {
	return solo.New(solo.Options{
		Fs:             afero.NewOsFs(),
		SoloHome:       viper.GetString("solo-home"),
		HolderID:       lease.NewHolderID(),
		KubeconfigPath: viper.GetString("kubeconfig"),
		PrintTo:        os.Stdout,
	})
}

func rootFlags() resolve.Flags {
	return resolve.Flags{
		Deployment: viper.GetString("deployment"),
		Quiet:      viper.GetBool("quiet"),
		Force:      viper.GetBool("force"),
	}
}

// withLeaseShutdown installs a SIGINT/SIGTERM handler around run, the
// orchestrator equivalent of the teacher's SSE-server graceful-shutdown
// shape (pkg/kubernetes-mcp-server/cmd/root.go): on signal it cancels ctx,
// which unblocks run and lets the orchestrator's deferred Release fire,
// then stops manager's renewal service so no goroutine outlives the
// process (spec §5 "cancelAll() on process shutdown").
func withLeaseShutdown(ctx context.Context, manager *lease.Manager, run func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	select {
	case err := <-done:
		return err
	case sig := <-sigChan:
		klog.V(0).Infof("received signal %v, cancelling in-flight operation and releasing lease", sig)
		cancel()
		manager.Renewer().CancelAll()
		return <-done
	}
}

// stdinPrompter is the real interactive prompt, the only
// resolve.Prompter implementation outside test fixtures.
type stdinPrompter struct{}

func (stdinPrompter) PromptString(ctx context.Context, message string) (string, error) {
	fmt.Fprintf(os.Stdout, "%s: ", message)
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", err
	}
	return line, nil
}
