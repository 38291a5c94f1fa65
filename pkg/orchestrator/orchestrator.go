// Package orchestrator implements Solo's Command Orchestrator (spec
// §4.I): composing pkg/tasks graphs over pkg/k8sfacade, pkg/config, and
// pkg/state for cluster/network/node/deployment/account commands, owning
// the deployment lease's lifetime and guaranteeing resource cleanup on
// every exit path.
package orchestrator

import (
	"context"
	"strings"

	"github.com/hashgraph/solo-sub009/internal/ledgerclient"
	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/internal/terminal"
	"github.com/hashgraph/solo-sub009/pkg/lease"
	"github.com/hashgraph/solo-sub009/pkg/state"
	"github.com/hashgraph/solo-sub009/pkg/tasks"
)

// defaultLeaseDurationSeconds is used when a Command does not set its own
// (spec §4.G acquire default; re-renewed at interval=duration/2).
const defaultLeaseDurationSeconds = 20

// Orchestrator owns the process-scoped collaborators every command draws
// on: the lease manager, the ledger SDK client, and a progress printer.
// One Orchestrator is constructed per process (spec §5 "Shared-resource
// policy": config manager and local state are process-scoped singletons).
type Orchestrator struct {
	Leases   *lease.Manager
	HolderID string
	Ledger   ledgerclient.Client
	Printer  *terminal.Printer
}

// New constructs an Orchestrator. ledger may be nil for commands that
// never touch the consensus ledger SDK (step 4's "close the ledger SDK
// client" is then a no-op).
func New(leases *lease.Manager, holderID string, ledger ledgerclient.Client, printer *terminal.Printer) *Orchestrator {
	return &Orchestrator{Leases: leases, HolderID: holderID, Ledger: ledger, Printer: printer}
}

// Command is one orchestrator-driven operation (e.g. "node add", "cluster
// setup"). Its four phases are run in order as a sequential task graph
// (spec §4.I step 3); Init/Prepare/Mutate/Verify may be nil to skip a
// phase entirely. State update and history append (step 3's remaining two
// stages) are owned by Run itself, driven by what Mutate/Verify leave in
// the task Context under the ctxRemoteState/ctxRemoteDoc keys (set via
// PutRemoteState).
type Command struct {
	// Path is the command-path prefix used in error wrapping and history
	// entries, e.g. "node add".
	Path string
	// DeploymentName names the deployment whose lease this command
	// acquires. Required when RequiresLease is true.
	DeploymentName string
	// LeaseNamespace is the namespace the deployment's lease resource
	// lives in. Required when RequiresLease is true.
	LeaseNamespace string
	// RequiresLease is false for commands that never mutate remote state
	// (list, info) per spec §4.I step 2.
	RequiresLease bool
	// LeaseDurationSeconds overrides defaultLeaseDurationSeconds when > 0.
	LeaseDurationSeconds int

	Init    tasks.Func
	Prepare tasks.Func
	Mutate  tasks.Func
	Verify  tasks.Func
}

// context keys Mutate/Verify use to hand the orchestrator the remote
// state it mutated, so Run can perform the state-update + history-append
// stages generically across every command.
const (
	ctxRemoteState = "orchestrator.remoteState"
	ctxRemoteDoc   = "orchestrator.remoteDoc"
)

// PutRemoteState records the RemoteState handle and document a command's
// Init/Prepare phase loaded, so Run's state-update stage can save it.
// Commands that mutate remote state must call this before returning from
// their Init or Prepare task.
func PutRemoteState(tctx tasks.Context, remote *state.RemoteState, doc *state.RemoteDocument) {
	tctx[ctxRemoteState] = remote
	tctx[ctxRemoteDoc] = doc
}

// RemoteDoc retrieves the document PutRemoteState recorded, for use by
// later phases of the same command.
func RemoteDoc(tctx tasks.Context) (*state.RemoteDocument, bool) {
	doc, ok := tctx[ctxRemoteDoc].(*state.RemoteDocument)
	return doc, ok
}

func (c Command) leaseDuration() int {
	if c.LeaseDurationSeconds > 0 {
		return c.LeaseDurationSeconds
	}
	return defaultLeaseDurationSeconds
}

// Phase classifies which stage of a command failed, for callers that need
// to distinguish "no mutation happened" (Preparation) from "partial
// cluster-side effects may remain" (Mutation/Verification) per spec §4.I
// "Failure semantics".
type Phase string

const (
	PhaseInitialization Phase = "initialization"
	PhasePreparation    Phase = "preparation"
	PhaseMutation       Phase = "mutation"
	PhaseVerification   Phase = "verification"
)

// FailureError wraps a task-graph failure with the Phase it occurred in.
type FailureError struct {
	CommandPath string
	Phase       Phase
	Cause       error
}

func (e *FailureError) Error() string {
	return e.Cause.Error()
}

func (e *FailureError) Unwrap() error { return e.Cause }

// Run drives cmd end to end (spec §4.I):
//  1. (argv merge into the config manager is the caller's responsibility,
//     done before Run is invoked, per the Layered Config Source's own
//     contract)
//  2. acquire the deployment lease unless !cmd.RequiresLease
//  3. build and run the Init -> Preparation -> Mutation -> Verification
//     task graph
//  4. on success, record argv in command history and save remote state,
//     while the lease is still held
//  5. release the lease, close the ledger client, on every exit path
//
// Re-running Run with the same argv after a Mutation/Verification failure
// must be safe: Mutate/Verify task bodies are responsible for idempotent
// probes before destructive steps (spec §4.I "Failure semantics").
func (o *Orchestrator) Run(ctx context.Context, cmd Command, argv []string) (err error) {
	var acquired *lease.Lease

	defer func() {
		if acquired != nil {
			if relErr := o.Leases.Release(context.WithoutCancel(ctx), acquired); relErr != nil && err == nil {
				err = relErr
			}
		}
		if o.Ledger != nil {
			if closeErr := o.Ledger.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
		if err != nil {
			if o.Printer != nil {
				o.Printer.Failure(cmd.Path, err)
			}
			err = soloerr.Solo(cmd.Path, err)
			return
		}
		if o.Printer != nil {
			o.Printer.Success(cmd.Path)
		}
	}()

	if cmd.RequiresLease {
		if cmd.DeploymentName == "" || cmd.LeaseNamespace == "" {
			return soloerr.IllegalArgument("command %q requires a deployment name and lease namespace", cmd.Path)
		}
		acquired, err = o.Leases.Acquire(ctx, cmd.LeaseNamespace, cmd.DeploymentName, o.HolderID, cmd.leaseDuration(), 0, 0)
		if err != nil {
			return err
		}
	}

	tctx := tasks.Context{}
	phase := PhaseInitialization
	list := tasks.List{}
	appendPhase := func(p Phase, fn tasks.Func) {
		if fn == nil {
			return
		}
		list.Tasks = append(list.Tasks, tasks.Task{Title: string(p), Run: fn})
	}
	appendPhase(PhaseInitialization, cmd.Init)
	appendPhase(PhasePreparation, cmd.Prepare)
	appendPhase(PhaseMutation, cmd.Mutate)
	appendPhase(PhaseVerification, cmd.Verify)

	if o.Printer != nil {
		for _, t := range list.Tasks {
			o.Printer.Step(t.Title)
		}
	}

	if _, runErr := tasks.Run(ctx, list, tctx); runErr != nil {
		phase = classifyFailure(runErr)
		return &FailureError{CommandPath: cmd.Path, Phase: phase, Cause: runErr}
	}

	remote, hasRemote := tctx[ctxRemoteState].(*state.RemoteState)
	if !hasRemote {
		return nil
	}
	doc, ok := RemoteDoc(tctx)
	if !ok {
		return soloerr.IllegalArgument("command %q registered remote state without a document", cmd.Path)
	}
	state.RecordCommand(doc, strings.Join(argv, " "))
	return remote.Save(ctx, doc, state.UpdatedBy{Name: o.HolderID})
}

// classifyFailure maps a *tasks.Error's task title back to a Phase;
// verification failures are treated as mutation failures per spec §4.I
// "Verification failure: treated as mutation failure."
func classifyFailure(err error) Phase {
	var taskErr *tasks.Error
	if !asTaskError(err, &taskErr) || len(taskErr.Path) == 0 {
		return PhaseMutation
	}
	switch Phase(taskErr.Path[0]) {
	case PhaseInitialization, PhasePreparation:
		return PhasePreparation
	case PhaseVerification:
		return PhaseMutation
	default:
		return PhaseMutation
	}
}

func asTaskError(err error, target **tasks.Error) bool {
	for err != nil {
		if te, ok := err.(*tasks.Error); ok {
			*target = te
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

