// Package solo is Solo's explicit wiring container (Design Note
// "Dependency-injection container"): a single App constructor that builds
// every process-scoped collaborator by hand, the same way the teacher's
// mcp.NewSever() wires its Kubernetes client and tool registrations in one
// top-level call rather than through a DI framework.
package solo

import (
	"sync"

	"github.com/spf13/afero"
	"k8s.io/klog/v2"

	"github.com/hashgraph/solo-sub009/internal/helmexec"
	"github.com/hashgraph/solo-sub009/internal/keys"
	"github.com/hashgraph/solo-sub009/internal/ledgerclient"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/internal/terminal"
	"github.com/hashgraph/solo-sub009/pkg/k8sfacade"
	"github.com/hashgraph/solo-sub009/pkg/lease"
	"github.com/hashgraph/solo-sub009/pkg/orchestrator"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"github.com/hashgraph/solo-sub009/pkg/storage"
)

// Options configures App construction. Callers (cmd/solo) fill this from
// resolved CLI flags/config before calling New.
type Options struct {
	// SoloHome is the base directory local state and cached remote-state
	// snapshots are written under (spec §4.B FileBackend confinement).
	SoloHome string
	// Fs backs every FileBackend App constructs; production callers pass
	// afero.NewOsFs(), tests pass afero.NewMemMapFs().
	Fs afero.Fs
	// HolderID identifies this process in lease acquisition and
	// RemoteDocument audit metadata (spec §4.G "Lease").
	HolderID string
	// KubeconfigPath overrides the default kubeconfig location; empty
	// uses client-go's standard loading rules.
	KubeconfigPath string
	// LeaseClient backs the lease manager; nil is only valid when every
	// cluster facade's Leases sub-facade is used directly instead (tests
	// construct a fake here).
	LeaseClient lease.Client
	// Keys overrides the default stub key manager.
	Keys keys.KeyManager
	// Ledger overrides the default stub ledger client.
	Ledger ledgerclient.Client
	// Helm becomes App.Helm as given; New builds no default, so App.Helm is
	// nil when this is unset. Tests supply a fake.
	Helm helmexec.Client
	// PrintTo is the writer command-progress banners render to.
	PrintTo interface {
		Write(p []byte) (n int, err error)
	}
}

// App is the top-level collaborator bundle every cmd/solo command is
// handed. One App is constructed per process invocation.
type App struct {
	opts Options

	Local        *state.LocalState
	Leases       *lease.Manager
	Keys         keys.KeyManager
	Ledger       ledgerclient.Client
	Helm         helmexec.Client
	Printer      *terminal.Printer
	Orchestrator *orchestrator.Orchestrator

	clustersMu sync.Mutex
	clusters   map[string]*k8sfacade.Facade
}

// New wires an App from opts. Each collaborator is constructed in
// dependency order: storage backends first, then the state models and
// lease manager that sit on top of them, then the orchestrator that ties
// everything together.
func New(opts Options) (*App, error) {
	if opts.Fs == nil {
		return nil, soloerr.IllegalArgument("solo.New requires a filesystem")
	}
	if opts.HolderID == "" {
		return nil, soloerr.IllegalArgument("solo.New requires a holder id")
	}

	klog.V(1).Infof("wiring local state under %q", opts.SoloHome)
	localBackend := storage.NewObjectBackend(storage.NewFileBackend(opts.Fs, opts.SoloHome))
	local := state.NewLocalState(localBackend)

	var leaseClient lease.Client = opts.LeaseClient
	renewer := lease.NewRenewer()
	leases := lease.NewManager(leaseClient, renewer)

	keyManager := opts.Keys
	if keyManager == nil {
		klog.V(1).Info("no key manager supplied, falling back to stub")
		keyManager = keys.NewStubKeyManager()
	}

	ledger := opts.Ledger
	if ledger == nil {
		klog.V(1).Info("no ledger client supplied, falling back to stub")
		ledger = ledgerclient.NewStubClient()
	}

	var helm helmexec.Client = opts.Helm

	var printer *terminal.Printer
	if opts.PrintTo != nil {
		printer = terminal.NewPrinter(opts.PrintTo)
	}

	app := &App{
		opts:     opts,
		Local:    local,
		Leases:   leases,
		Keys:     keyManager,
		Ledger:   ledger,
		Helm:     helm,
		Printer:  printer,
		clusters: map[string]*k8sfacade.Facade{},
	}
	app.Orchestrator = orchestrator.New(leases, opts.HolderID, ledger, printer)

	klog.V(0).Infof("solo app ready (holder=%s)", opts.HolderID)
	return app, nil
}

// RemoteStateFor builds a RemoteState scoped to deploymentName, backed by
// a per-deployment remote-state key under the same FileBackend local
// state uses (spec §4.E: remote state mirrors in-cluster storage onto a
// local cache keyed by deployment).
func (a *App) RemoteStateFor(deploymentName string) *state.RemoteState {
	backend := storage.NewObjectBackend(storage.NewFileBackend(a.opts.Fs, a.opts.SoloHome))
	return state.NewRemoteState(backend, deploymentName, a.Leases)
}

// ClusterFacade returns the cached k8sfacade.Facade for contextName,
// constructing it on first use (spec §5 "Shared-resource policy": one
// client per context, cached for the process lifetime).
func (a *App) ClusterFacade(contextName string) (*k8sfacade.Facade, error) {
	a.clustersMu.Lock()
	defer a.clustersMu.Unlock()

	if f, ok := a.clusters[contextName]; ok {
		return f, nil
	}
	klog.V(1).Infof("initializing cluster facade for context %q", contextName)
	f, err := k8sfacade.New(a.opts.KubeconfigPath, contextName)
	if err != nil {
		return nil, err
	}
	a.clusters[contextName] = f
	return f, nil
}

// OrchestratorFor builds an Orchestrator and the *lease.Manager backing
// it from leaseClient. Commands that mutate a deployment resolve the
// deployment's cluster first and pass that cluster's LeasesFacade here,
// since the deployment lease resource lives in the deployment's own
// cluster rather than in whichever cluster the process happened to start
// against. The returned manager also backs RemoteStateWithLease, so the
// orchestrator's Acquire and the remote state's holder check agree.
func (a *App) OrchestratorFor(leaseClient lease.Client) (*orchestrator.Orchestrator, *lease.Manager) {
	manager := lease.NewManager(leaseClient, lease.NewRenewer())
	return orchestrator.New(manager, a.opts.HolderID, a.Ledger, a.Printer), manager
}

// RemoteStateWithLease is RemoteStateFor scoped to an explicit lease
// manager, for use alongside OrchestratorFor when a command resolves a
// non-default cluster's lease client.
func (a *App) RemoteStateWithLease(deploymentName string, checker state.LeaseHolderVerifier) *state.RemoteState {
	backend := storage.NewObjectBackend(storage.NewFileBackend(a.opts.Fs, a.opts.SoloHome))
	return state.NewRemoteState(backend, deploymentName, checker)
}
