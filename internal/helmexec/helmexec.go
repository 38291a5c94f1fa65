// Package helmexec is Solo's thin seam over helm.sh/helm/v3's action
// package (spec's Design Notes domain-stack wiring: the teacher's helm.go
// proxies a dashboard's Helm HTTP API; Solo instead drives the real Helm
// SDK directly, since there is no dashboard process to proxy through).
// The command orchestrator's mutation-phase tasks depend only on the
// Client interface, never on helm.sh/helm/v3 directly, so they can be
// tested against a fake.
package helmexec

import (
	"context"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/release"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Client is the Helm operations the orchestrator's tasks need: install,
// upgrade, and uninstall a chart release, plus a status check used by
// idempotent-probe-before-destructive-step task bodies (spec §4.I
// "Re-running the same command must be safe").
type Client interface {
	Status(ctx context.Context, namespace, releaseName string) (*release.Release, error)
	Install(ctx context.Context, namespace, releaseName, chartPath string, values map[string]any) (*release.Release, error)
	Upgrade(ctx context.Context, namespace, releaseName, chartPath string, values map[string]any) (*release.Release, error)
	Uninstall(ctx context.Context, namespace, releaseName string) error
}

// RealClient backs Client with helm.sh/helm/v3's action package, one
// action.Configuration per kube-context (mirroring k8sfacade.Facade's
// one-facade-per-context shape).
type RealClient struct {
	settings *cli.EnvSettings
	kubeCtx  string
}

// NewRealClient constructs a RealClient targeting the given kube context.
func NewRealClient(kubeContext string) *RealClient {
	settings := cli.New()
	settings.KubeContext = kubeContext
	return &RealClient{settings: settings, kubeCtx: kubeContext}
}

func (c *RealClient) configuration(namespace string) (*action.Configuration, error) {
	cfg := new(action.Configuration)
	noopLog := func(string, ...interface{}) {}
	if err := cfg.Init(c.settings.RESTClientGetter(), namespace, "secrets", noopLog); err != nil {
		return nil, soloerr.StorageBackend("helm", err)
	}
	return cfg, nil
}

// Status loads the named release's current status, for idempotent probes.
func (c *RealClient) Status(ctx context.Context, namespace, releaseName string) (*release.Release, error) {
	cfg, err := c.configuration(namespace)
	if err != nil {
		return nil, err
	}
	status := action.NewStatus(cfg)
	rel, err := status.Run(releaseName)
	if err != nil {
		return nil, soloerr.ResourceNotFound("helm-release", namespace, releaseName)
	}
	return rel, nil
}

// Install installs chartPath as releaseName in namespace.
func (c *RealClient) Install(ctx context.Context, namespace, releaseName, chartPath string, values map[string]any) (*release.Release, error) {
	cfg, err := c.configuration(namespace)
	if err != nil {
		return nil, err
	}
	install := action.NewInstall(cfg)
	install.Namespace = namespace
	install.ReleaseName = releaseName
	install.CreateNamespace = true

	ch, err := loadChart(chartPath)
	if err != nil {
		return nil, err
	}
	rel, err := install.RunWithContext(ctx, ch, values)
	if err != nil {
		return nil, soloerr.ResourceOutcome(soloerr.KindResourceCreate, "helm-release", namespace, releaseName, 0, err)
	}
	return rel, nil
}

// Upgrade upgrades releaseName in namespace to chartPath, installing it if
// absent (idempotent re-run per spec §4.I).
func (c *RealClient) Upgrade(ctx context.Context, namespace, releaseName, chartPath string, values map[string]any) (*release.Release, error) {
	if _, err := c.Status(ctx, namespace, releaseName); err != nil {
		return c.Install(ctx, namespace, releaseName, chartPath, values)
	}

	cfg, err := c.configuration(namespace)
	if err != nil {
		return nil, err
	}
	upgrade := action.NewUpgrade(cfg)
	upgrade.Namespace = namespace

	ch, err := loadChart(chartPath)
	if err != nil {
		return nil, err
	}
	rel, err := upgrade.RunWithContext(ctx, releaseName, ch, values)
	if err != nil {
		return nil, soloerr.ResourceOutcome(soloerr.KindResourceUpdate, "helm-release", namespace, releaseName, 0, err)
	}
	return rel, nil
}

// Uninstall removes releaseName from namespace; ignores "release not
// found" so repeated destroy calls are idempotent.
func (c *RealClient) Uninstall(ctx context.Context, namespace, releaseName string) error {
	cfg, err := c.configuration(namespace)
	if err != nil {
		return err
	}
	uninstall := action.NewUninstall(cfg)
	if _, err := uninstall.Run(releaseName); err != nil {
		if _, statusErr := c.Status(ctx, namespace, releaseName); statusErr != nil {
			return nil
		}
		return soloerr.ResourceOutcome(soloerr.KindResourceDelete, "helm-release", namespace, releaseName, 0, err)
	}
	return nil
}

func loadChart(chartPath string) (*chart.Chart, error) {
	ch, err := loader.Load(chartPath)
	if err != nil {
		return nil, soloerr.StorageBackend("helm-chart", err)
	}
	return ch, nil
}
