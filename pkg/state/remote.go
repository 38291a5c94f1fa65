package state

import (
	"context"
	"sort"
	"time"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/schema"
	"github.com/hashgraph/solo-sub009/pkg/semverx"
	"github.com/hashgraph/solo-sub009/pkg/storage"
)

// LedgerPhase is the per-deployment ledger lifecycle phase (spec §3
// "Ledger phases").
type LedgerPhase string

const (
	LedgerUninitialized    LedgerPhase = "UNINITIALIZED"
	LedgerInitialized      LedgerPhase = "INITIALIZED"
	LedgerSnapshotRestoring LedgerPhase = "SNAPSHOT_RESTORING"
	LedgerSnapshotRestored  LedgerPhase = "SNAPSHOT_RESTORED"
	LedgerRecovering        LedgerPhase = "RECOVERING"
	LedgerRecovered         LedgerPhase = "RECOVERED"
	LedgerFreezing          LedgerPhase = "FREEZING"
	LedgerFrozen            LedgerPhase = "FROZEN"
)

// Versions is the remote state's application-version block (spec §6, more
// granular than §3's prose: Solo tracks the chart versions of every
// installable component separately).
type Versions struct {
	CLI              string `json:"cli"`
	Chart            string `json:"chart"`
	ConsensusNode    string `json:"consensusNode"`
	MirrorNodeChart  string `json:"mirrorNodeChart"`
	ExplorerChart    string `json:"explorerChart"`
	JSONRpcRelayChart string `json:"jsonRpcRelayChart"`
}

// ApplyVersionUpgrade parses next as a semantic version and, when current
// is already set, rejects next if it is older than current — remote
// state's versions.* fields are parsed and compared, never treated as
// opaque strings. Returns next as given (e.g. "v0.61.0" keeps its "v")
// once it parses and passes the check.
func ApplyVersionUpgrade(current, next string) (string, error) {
	nextVersion, err := semverx.Parse(next)
	if err != nil {
		return "", err
	}
	if current != "" {
		currentVersion, err := semverx.Parse(current)
		if err == nil && nextVersion.LessThan(currentVersion) {
			return "", soloerr.IllegalArgument("version %q is older than the currently recorded %q", next, current)
		}
	}
	return nextVersion.String(), nil
}

// ClusterRef is one cluster entry of remote state's clusters list.
type ClusterRef struct {
	Name                  string `json:"name"`
	DNSBaseDomain         string `json:"dnsBaseDomain"`
	DNSConsensusNodePattern string `json:"dnsConsensusNodePattern"`
}

// UpdatedBy identifies the process/user that last saved remote state.
type UpdatedBy struct {
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
}

// Metadata carries remote state's audit fields.
type Metadata struct {
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy UpdatedBy `json:"lastUpdatedBy"`
}

// DeploymentState is the nested "state" block of remote state.
type DeploymentState struct {
	LedgerPhase    LedgerPhase `json:"ledgerPhase"`
	ConsensusNodes []Component `json:"consensusNodes"`
	BlockNodes     []Component `json:"blockNodes"`
	MirrorNodes    []Component `json:"mirrorNodes"`
	RelayNodes     []Component `json:"relayNodes"`
	HAProxies      []Component `json:"haProxies"`
	EnvoyProxies   []Component `json:"envoyProxies"`
	Explorers      []Component `json:"explorers"`
}

// History is remote state's append-only command log.
type History struct {
	Commands            []string `json:"commands"`
	LastExecutedCommand string   `json:"lastExecutedCommand"`
}

// RemoteDocument is the schema-versioned shape persisted to the
// deployment's cluster config-map.
type RemoteDocument struct {
	SchemaVersion int             `json:"schemaVersion"`
	Metadata      Metadata        `json:"metadata"`
	Versions      Versions        `json:"versions"`
	Clusters      []ClusterRef    `json:"clusters"`
	State         DeploymentState `json:"state"`
	History       History         `json:"history"`
}

// RemoteSchema is the Remote State schema (spec §9 open-question
// resolution: v0->v1 introduces schemaVersion and flattens a hypothetical
// v0 "flags" bag into the versions block).
var RemoteSchema = &schema.Schema{
	Name:    "remote-state",
	Version: 1,
	Migrations: []schema.Migration{
		{
			FromVersion:        0,
			ToVersionExclusive: 1,
			ResultVersion:      1,
			Apply: func(data map[string]any) (map[string]any, error) {
				flags, ok := data["flags"].(map[string]any)
				if !ok {
					return data, nil
				}
				versions, _ := data["versions"].(map[string]any)
				if versions == nil {
					versions = map[string]any{}
				}
				for _, key := range []string{"cli", "chart", "consensusNode", "mirrorNodeChart", "explorerChart", "jsonRpcRelayChart"} {
					if v, ok := flags[key]; ok {
						versions[key] = v
					}
				}
				data["versions"] = versions
				delete(data, "flags")
				return data, nil
			},
		},
	},
}

func init() {
	if err := schema.ValidateMigrations(RemoteSchema); err != nil {
		panic(err)
	}
}

// RemoteStateKey is the config-map name a deployment's remote state is
// stored under.
const RemoteStateKey = "remote-state.yaml"

// LeaseHolderVerifier reports whether name is currently held by holder,
// the ownership check every mutating remote-state operation requires
// (spec §4.E). Defined locally (duck-typed against pkg/lease.Manager) to
// avoid state depending on lease and lease depending on state.
type LeaseHolderVerifier interface {
	IsHeldBy(ctx context.Context, name, holder string) (bool, error)
}

// RemoteState owns one deployment's cluster-shared document; all
// mutations require the caller to hold the deployment's lease.
type RemoteState struct {
	backend      *storage.ObjectBackend
	leaseName    string
	leaseChecker LeaseHolderVerifier
	now          func() time.Time
}

// NewRemoteState constructs a RemoteState for the deployment identified by
// leaseName, enforcing lease ownership through checker.
func NewRemoteState(backend *storage.ObjectBackend, leaseName string, checker LeaseHolderVerifier) *RemoteState {
	return &RemoteState{backend: backend, leaseName: leaseName, leaseChecker: checker, now: time.Now}
}

func (s *RemoteState) requireHolder(ctx context.Context, holder string) error {
	ok, err := s.leaseChecker.IsHeldBy(ctx, s.leaseName, holder)
	if err != nil {
		return err
	}
	if !ok {
		return soloerr.LeaseAcquisitionFailed(s.leaseName, holder)
	}
	return nil
}

// Load reads, migrates, and validates the current document.
func (s *RemoteState) Load(ctx context.Context) (*RemoteDocument, error) {
	var raw map[string]any
	if err := s.backend.ReadObject(ctx, RemoteStateKey, &raw); err != nil {
		return nil, err
	}
	var doc RemoteDocument
	if err := schema.Transform(RemoteSchema, raw, &doc); err != nil {
		return nil, err
	}
	if err := validateRemoteDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save validates, bumps the audit metadata, and persists doc. Requires
// holder to own the deployment lease.
func (s *RemoteState) Save(ctx context.Context, doc *RemoteDocument, holder UpdatedBy) error {
	if err := s.requireHolder(ctx, holder.Name); err != nil {
		return err
	}
	if err := validateRemoteDocument(doc); err != nil {
		return err
	}
	doc.SchemaVersion = RemoteSchema.Version
	doc.Metadata.LastUpdatedAt = s.now()
	doc.Metadata.LastUpdatedBy = holder
	return s.backend.WriteObject(ctx, RemoteStateKey, doc)
}

// componentSlice returns a pointer to the DeploymentState slice a
// component kind lives in.
func componentSlice(state *DeploymentState, kind string) (*[]Component, bool) {
	switch kind {
	case "consensusNode":
		return &state.ConsensusNodes, true
	case "blockNode":
		return &state.BlockNodes, true
	case "mirrorNode":
		return &state.MirrorNodes, true
	case "relayNode":
		return &state.RelayNodes, true
	case "haProxy":
		return &state.HAProxies, true
	case "envoyProxy":
		return &state.EnvoyProxies, true
	case "explorer":
		return &state.Explorers, true
	}
	return nil, false
}

// AddComponent appends c to the named kind's list (spec §3 "Component
// names unique within their type"); the component's cluster must already
// appear in doc.Clusters.
func AddComponent(doc *RemoteDocument, kind string, c Component) error {
	slicePtr, ok := componentSlice(&doc.State, kind)
	if !ok {
		return soloerr.IllegalArgument("unknown component kind %q", kind)
	}
	for _, existing := range *slicePtr {
		if existing.Name == c.Name {
			return soloerr.IllegalState("component name %q already exists among %s", c.Name, kind)
		}
	}
	if !clusterKnown(doc.Clusters, c.Cluster) {
		return soloerr.IllegalState("component %q references unknown cluster %q", c.Name, c.Cluster)
	}
	if c.Phase == "" {
		c.Phase = PhaseRequested
	}
	*slicePtr = append(*slicePtr, c)
	return nil
}

// RemoveComponent removes the named component from kind's active list.
// Its history entry (recorded separately via RecordCommand) is preserved —
// removal only affects the active component list.
func RemoveComponent(doc *RemoteDocument, kind, name string) error {
	slicePtr, ok := componentSlice(&doc.State, kind)
	if !ok {
		return soloerr.IllegalArgument("unknown component kind %q", kind)
	}
	for i, existing := range *slicePtr {
		if existing.Name == name {
			*slicePtr = append((*slicePtr)[:i], (*slicePtr)[i+1:]...)
			return nil
		}
	}
	return soloerr.ResourceNotFound(kind, "", name)
}

// ChangePhase transitions the named component to phase, failing with
// IllegalState (and leaving doc unmutated) on an illegal transition.
func ChangePhase(doc *RemoteDocument, kind, name string, phase Phase) error {
	slicePtr, ok := componentSlice(&doc.State, kind)
	if !ok {
		return soloerr.IllegalArgument("unknown component kind %q", kind)
	}
	for i, existing := range *slicePtr {
		if existing.Name != name {
			continue
		}
		if !CanTransition(existing.Phase, phase) {
			return soloerr.IllegalState("component %q cannot transition from %s to %s", name, existing.Phase, phase)
		}
		(*slicePtr)[i].Phase = phase
		return nil
	}
	return soloerr.ResourceNotFound(kind, "", name)
}

// RecordCommand appends argv to the append-only command history and
// updates lastExecutedCommand (spec §4.E / §3 "commandHistory is
// append-only; lastExecutedCommand equals the last element").
func RecordCommand(doc *RemoteDocument, argv string) {
	doc.History.Commands = append(doc.History.Commands, argv)
	doc.History.LastExecutedCommand = argv
}

func clusterKnown(clusters []ClusterRef, name string) bool {
	for _, c := range clusters {
		if c.Name == name {
			return true
		}
	}
	return false
}

func validateRemoteDocument(doc *RemoteDocument) error {
	if doc == nil {
		return soloerr.IllegalArgument("remote state document must not be nil")
	}
	seen := map[string]bool{}
	allKinds := map[string][]Component{
		"consensusNode": doc.State.ConsensusNodes,
		"blockNode":     doc.State.BlockNodes,
		"mirrorNode":    doc.State.MirrorNodes,
		"relayNode":     doc.State.RelayNodes,
		"haProxy":       doc.State.HAProxies,
		"envoyProxy":    doc.State.EnvoyProxies,
		"explorer":      doc.State.Explorers,
	}
	kinds := make([]string, 0, len(allKinds))
	for k := range allKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		for _, c := range allKinds[kind] {
			key := kind + "/" + c.Name
			if seen[key] {
				return soloerr.IllegalState("duplicate component name %q among %s", c.Name, kind)
			}
			seen[key] = true
			if !clusterKnown(doc.Clusters, c.Cluster) {
				return soloerr.IllegalState("component %q references unknown cluster %q", c.Name, c.Cluster)
			}
		}
	}
	if len(doc.History.Commands) > 0 {
		last := doc.History.Commands[len(doc.History.Commands)-1]
		if doc.History.LastExecutedCommand != "" && doc.History.LastExecutedCommand != last {
			return soloerr.IllegalState("lastExecutedCommand must equal the last recorded command")
		}
	}
	return nil
}
